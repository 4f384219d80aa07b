package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/paperdesk/gostock/pkg/logger"
)

// Config is the full service configuration. Precedence per field:
// environment variable > config file > default.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Ledger  LedgerConfig  `yaml:"ledger"`
	Market  MarketConfig  `yaml:"market"`
	Trading TradingConfig `yaml:"trading"`
	Logging logger.Config `yaml:"logging"`
}

type ServerConfig struct {
	Listen string `yaml:"listen"`
	// DebugListen serves expvar and pprof when set. Keep it on localhost.
	DebugListen string `yaml:"debug_listen"`
}

type LedgerConfig struct {
	DBPath string `yaml:"db_path"`
}

type MarketConfig struct {
	// FeedMode is "http" (fetch real quotes) or "sim" (random walk from
	// seeded closes, for offline use).
	FeedMode string `yaml:"feed_mode"`
	// QuoteURL is the batch quote endpoint for http mode. The feed appends
	// ?symbols=AAPL,TSLA,... to it.
	QuoteURL        string        `yaml:"quote_url"`
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	// QuoteTTL bounds how long a quote stays tradable without a refresh.
	QuoteTTL     time.Duration `yaml:"quote_ttl"`
	SnapshotPath string        `yaml:"snapshot_path"` // badger dir, empty = no warm start
}

type TradingConfig struct {
	MaxOrderQty    int    `yaml:"max_order_qty"`
	OpeningBalance string `yaml:"opening_balance"` // decimal string
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{Listen: ":8080"},
		Ledger: LedgerConfig{DBPath: "data/ledger.db"},
		Market: MarketConfig{
			FeedMode:        "sim",
			RefreshInterval: 60 * time.Second,
			QuoteTTL:        5 * time.Minute,
			SnapshotPath:    "data/quotes",
		},
		Trading: TradingConfig{
			MaxOrderQty:    10000,
			OpeningBalance: "10000.00",
		},
		Logging: logger.Config{Level: "info"},
	}
}

// Load reads the YAML config file (optional) and applies environment
// overrides on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if cfg.Market.FeedMode != "http" && cfg.Market.FeedMode != "sim" {
		return nil, fmt.Errorf("market.feed_mode must be http or sim, got %q", cfg.Market.FeedMode)
	}
	if cfg.Market.FeedMode == "http" && cfg.Market.QuoteURL == "" {
		return nil, fmt.Errorf("market.quote_url is required in http mode")
	}
	if cfg.Trading.MaxOrderQty < 1 {
		return nil, fmt.Errorf("trading.max_order_qty must be positive")
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Server.Listen, "GOSTOCK_LISTEN")
	setString(&cfg.Server.DebugListen, "GOSTOCK_DEBUG_LISTEN")
	setString(&cfg.Ledger.DBPath, "GOSTOCK_DB")
	setString(&cfg.Market.FeedMode, "GOSTOCK_FEED_MODE")
	setString(&cfg.Market.QuoteURL, "GOSTOCK_QUOTE_URL")
	setString(&cfg.Market.SnapshotPath, "GOSTOCK_SNAPSHOT_DIR")
	setString(&cfg.Trading.OpeningBalance, "GOSTOCK_OPENING_BALANCE")
	setString(&cfg.Logging.Level, "GOSTOCK_LOG_LEVEL")
	setString(&cfg.Logging.OutputFile, "GOSTOCK_LOG_FILE")
	setInt(&cfg.Trading.MaxOrderQty, "GOSTOCK_MAX_ORDER_QTY")
	setDuration(&cfg.Market.RefreshInterval, "GOSTOCK_REFRESH_INTERVAL")
	setDuration(&cfg.Market.QuoteTTL, "GOSTOCK_QUOTE_TTL")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
