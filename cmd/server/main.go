package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/paperdesk/gostock/internal/api"
	"github.com/paperdesk/gostock/internal/engine"
	"github.com/paperdesk/gostock/internal/ledger"
	"github.com/paperdesk/gostock/internal/market"
	"github.com/paperdesk/gostock/internal/metrics"
	"github.com/paperdesk/gostock/pkg/config"
	"github.com/paperdesk/gostock/pkg/logger"
	"github.com/paperdesk/gostock/pkg/shutdown"
)

func main() {
	// Load .env (best-effort). If missing, fall back to real env vars.
	_ = godotenv.Load()

	getenv := func(key, def string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return def
	}
	configPath := flag.String("config", getenv("GOSTOCK_CONFIG", "config.yaml"), "YAML config file path")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := logger.Init(cfg.Logging); err != nil {
		log.Fatalf("init logger: %v", err)
	}

	store, err := ledger.Open(cfg.Ledger.DBPath)
	if err != nil {
		logger.Errorf("open ledger: %v", err)
		os.Exit(1)
	}

	var snapshot *market.SnapshotStore
	if cfg.Market.SnapshotPath != "" {
		snapshot, err = market.OpenSnapshotStore(cfg.Market.SnapshotPath)
		if err != nil {
			logger.Warnf("quote snapshot store unavailable, continuing without warm start: %v", err)
			snapshot = nil
		}
	}

	board := market.NewBoard(cfg.Market.QuoteTTL)
	feed := market.NewFeed(market.FeedConfig{
		Mode:            cfg.Market.FeedMode,
		QuoteURL:        cfg.Market.QuoteURL,
		RefreshInterval: cfg.Market.RefreshInterval,
	}, board, snapshot)

	feedCtx, cancelFeed := context.WithCancel(context.Background())
	go feed.Run(feedCtx)

	if cfg.Server.DebugListen != "" {
		if _, err := metrics.StartAsync(feedCtx, cfg.Server.DebugListen); err != nil {
			logger.Warnf("debug listener unavailable: %v", err)
		} else {
			logger.Infof("debug listener on %s", cfg.Server.DebugListen)
		}
	}

	opening, err := decimal.NewFromString(cfg.Trading.OpeningBalance)
	if err != nil {
		logger.Errorf("bad opening balance %q: %v", cfg.Trading.OpeningBalance, err)
		os.Exit(1)
	}

	eng := engine.New(store, board, int64(cfg.Trading.MaxOrderQty))
	srv := api.New(api.Config{OpeningBalance: opening}, store, eng, board)

	httpSrv := &http.Server{
		Addr:              cfg.Server.Listen,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	mgr := shutdown.NewManager()
	mgr.OnShutdown(func(ctx context.Context) { _ = httpSrv.Shutdown(ctx) })
	mgr.OnShutdown(func(ctx context.Context) {
		cancelFeed()
		if snapshot != nil {
			_ = snapshot.Close()
		}
	})
	mgr.OnShutdown(func(ctx context.Context) { _ = store.Close() })

	go func() {
		logger.Infof("gostock listening on %s (feed=%s)", cfg.Server.Listen, cfg.Market.FeedMode)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorf("http server error: %v", err)
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	<-stopCh

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	mgr.Shutdown(ctx)
}
