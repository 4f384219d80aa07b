package logger

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	// Logger is the shared instance; packages derive component entries
	// from it via WithComponent.
	Logger = logrus.New()

	initMu sync.Mutex
)

// Config controls level, format and optional rotating file output.
type Config struct {
	Level      string `yaml:"level"`       // debug, info, warn, error
	OutputFile string `yaml:"output_file"` // empty = stdout only
	MaxSize    int    `yaml:"max_size"`    // MB per file before rotation
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"` // days
	Compress   bool   `yaml:"compress"`
}

// Init configures the shared logger. Safe to call more than once; the last
// call wins.
func Init(cfg Config) error {
	initMu.Lock()
	defer initMu.Unlock()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}

	writers := []io.Writer{os.Stdout}
	if cfg.OutputFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.OutputFile), 0o755); err != nil {
			return err
		}
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.OutputFile,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		})
	}
	out := io.MultiWriter(writers...)

	formatter := &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "06-01-02 15:04:05",
	}

	Logger.SetLevel(level)
	Logger.SetOutput(out)
	Logger.SetFormatter(formatter)

	// Keep the global logrus logger in sync so stray logrus.WithField
	// call sites end up in the same place.
	logrus.SetLevel(level)
	logrus.SetOutput(out)
	logrus.SetFormatter(formatter)

	return nil
}

// WithComponent returns an entry tagged with the component name.
func WithComponent(name string) *logrus.Entry {
	return Logger.WithField("component", name)
}

func Debugf(format string, args ...any) { Logger.Debugf(format, args...) }
func Infof(format string, args ...any)  { Logger.Infof(format, args...) }
func Warnf(format string, args ...any)  { Logger.Warnf(format, args...) }
func Errorf(format string, args ...any) { Logger.Errorf(format, args...) }
func Info(args ...any)                  { Logger.Info(args...) }
func Warn(args ...any)                  { Logger.Warn(args...) }
func Error(args ...any)                 { Logger.Error(args...) }
