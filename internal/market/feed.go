package market

import (
	"context"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/paperdesk/gostock/internal/metrics"
	"github.com/paperdesk/gostock/pkg/logger"
)

// FeedConfig selects the quote source and refresh cadence.
type FeedConfig struct {
	Mode            string // "http" or "sim"
	QuoteURL        string // batch quote endpoint, http mode only
	RefreshInterval time.Duration
}

// Feed keeps the board populated: http mode polls a batch quote endpoint,
// sim mode random-walks from seeded closes. Every accepted quote is also
// written to the snapshot store when one is attached.
type Feed struct {
	cfg      FeedConfig
	board    *Board
	snapshot *SnapshotStore
	client   *resty.Client
	log      *logrus.Entry

	simPrices map[string]decimal.Decimal
}

func NewFeed(cfg FeedConfig, board *Board, snapshot *SnapshotStore) *Feed {
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = 60 * time.Second
	}
	f := &Feed{
		cfg:      cfg,
		board:    board,
		snapshot: snapshot,
		log:      logger.WithComponent("market_feed"),
	}
	if cfg.Mode == "http" {
		f.client = resty.New().
			SetTimeout(20 * time.Second).
			SetRetryCount(3).
			SetRetryWaitTime(1 * time.Second).
			SetRetryMaxWaitTime(10 * time.Second)
	}
	return f
}

// Run warm-starts the board from the snapshot store, refreshes once
// immediately, then refreshes on the configured interval until ctx is done.
func (f *Feed) Run(ctx context.Context) {
	f.warmStart()
	f.refresh(ctx)

	ticker := time.NewTicker(f.cfg.RefreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			f.refresh(ctx)
		}
	}
}

func (f *Feed) warmStart() {
	if f.snapshot == nil {
		return
	}
	quotes, err := f.snapshot.Load()
	if err != nil {
		f.log.Warnf("snapshot load failed: %v", err)
		return
	}
	for _, q := range quotes {
		f.board.Set(q)
	}
	if len(quotes) > 0 {
		metrics.SnapshotLoads.Add(int64(len(quotes)))
		f.log.Infof("warm-started %d quotes from snapshot", len(quotes))
	}
}

func (f *Feed) refresh(ctx context.Context) {
	var err error
	switch f.cfg.Mode {
	case "sim":
		f.stepSim()
	default:
		err = f.fetchHTTP(ctx)
	}
	if err != nil {
		f.log.Warnf("quote refresh failed: %v", err)
		return
	}
	metrics.QuoteRefreshes.Add(1)
}

// quoteResponse matches the batch quote endpoint's payload.
type quoteResponse struct {
	QuoteResponse struct {
		Result []struct {
			Symbol                     string  `json:"symbol"`
			RegularMarketPrice         float64 `json:"regularMarketPrice"`
			RegularMarketPreviousClose float64 `json:"regularMarketPreviousClose"`
		} `json:"result"`
	} `json:"quoteResponse"`
}

func (f *Feed) fetchHTTP(ctx context.Context) error {
	var body quoteResponse
	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParam("symbols", strings.Join(Symbols(), ",")).
		SetResult(&body).
		Get(f.cfg.QuoteURL)
	if err != nil {
		return errors.Wrap(err, "fetch quotes")
	}
	if resp.IsError() {
		return errors.Errorf("fetch quotes: status %d", resp.StatusCode())
	}

	now := time.Now()
	updated := 0
	for _, r := range body.QuoteResponse.Result {
		if !Listed(r.Symbol) || r.RegularMarketPrice <= 0 {
			continue
		}
		q := Quote{
			Symbol:        r.Symbol,
			Price:         decimal.NewFromFloat(r.RegularMarketPrice).Round(2),
			PreviousClose: decimal.NewFromFloat(r.RegularMarketPreviousClose).Round(2),
			UpdatedAt:     now,
		}
		f.accept(q)
		updated++
	}
	f.log.Debugf("refreshed %d/%d quotes", updated, len(Catalog))
	return nil
}

// simSeeds are the previous closes the random walk starts from.
var simSeeds = map[string]float64{
	"AAPL": 178.50, "TSLA": 242.10, "MSFT": 417.30, "GOOGL": 166.80,
	"AMZN": 186.40, "META": 504.20, "NVDA": 121.70, "NFLX": 678.90,
	"AMD": 158.30, "INTC": 31.20, "BABA": 82.60, "DIS": 101.40,
	"UBER": 71.80, "SPOT": 318.50, "PYPL": 64.10, "SHOP": 66.30,
	"COIN": 224.70, "SNAP": 15.40, "PLTR": 27.90, "RIVN": 14.60,
}

func (f *Feed) stepSim() {
	if f.simPrices == nil {
		f.simPrices = make(map[string]decimal.Decimal, len(simSeeds))
		for sym, seed := range simSeeds {
			f.simPrices[sym] = decimal.NewFromFloat(seed)
		}
	}
	now := time.Now()
	for _, sym := range Symbols() {
		prev := f.simPrices[sym]
		// Walk +-0.5% per step.
		step := decimal.NewFromFloat(1 + (rand.Float64()-0.5)/100)
		price := prev.Mul(step).Round(2)
		if !price.IsPositive() {
			price = prev
		}
		f.simPrices[sym] = price
		f.accept(Quote{
			Symbol:        sym,
			Price:         price,
			PreviousClose: decimal.NewFromFloat(simSeeds[sym]).Round(2),
			UpdatedAt:     now,
		})
	}
}

func (f *Feed) accept(q Quote) {
	f.board.Set(q)
	if f.snapshot != nil {
		if err := f.snapshot.Put(q); err != nil {
			f.log.Warnf("snapshot put %s: %v", q.Symbol, err)
		} else {
			metrics.SnapshotSaves.Add(1)
		}
	}
}
