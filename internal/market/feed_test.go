package market

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestSimFeedPopulatesBoard(t *testing.T) {
	board := NewBoard(time.Minute)
	feed := NewFeed(FeedConfig{Mode: "sim", RefreshInterval: 10 * time.Millisecond}, board, nil)

	feed.stepSim()

	for _, sym := range Symbols() {
		q, ok := board.Quote(sym)
		require.True(t, ok, "no quote for %s", sym)
		require.True(t, q.Price.IsPositive())
		require.True(t, q.PreviousClose.IsPositive())
	}
}

func TestSimFeedWalksFromPreviousStep(t *testing.T) {
	board := NewBoard(time.Minute)
	feed := NewFeed(FeedConfig{Mode: "sim"}, board, nil)

	feed.stepSim()
	first, _ := board.Quote("AAPL")
	feed.stepSim()
	second, _ := board.Quote("AAPL")

	// Each step moves at most 0.5% off the last price.
	maxStep := first.Price.Mul(decimal.RequireFromString("0.006"))
	require.True(t, second.Price.Sub(first.Price).Abs().LessThanOrEqual(maxStep),
		"walked from %s to %s", first.Price, second.Price)
}

func TestHTTPFeedParsesBatchResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NotEmpty(t, r.URL.Query().Get("symbols"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"quoteResponse":{"result":[
			{"symbol":"AAPL","regularMarketPrice":178.5,"regularMarketPreviousClose":177.0},
			{"symbol":"ZZZZ","regularMarketPrice":5.0,"regularMarketPreviousClose":5.0},
			{"symbol":"TSLA","regularMarketPrice":0,"regularMarketPreviousClose":242.1}
		]}}`)
	}))
	defer srv.Close()

	board := NewBoard(time.Minute)
	feed := NewFeed(FeedConfig{Mode: "http", QuoteURL: srv.URL}, board, nil)
	require.NoError(t, feed.fetchHTTP(context.Background()))

	q, ok := board.Quote("AAPL")
	require.True(t, ok)
	require.Equal(t, "178.50", q.Price.StringFixed(2))
	require.Equal(t, "177.00", q.PreviousClose.StringFixed(2))

	// Unlisted and non-positive prices are dropped.
	_, ok = board.Quote("ZZZZ")
	require.False(t, ok)
	_, ok = board.Quote("TSLA")
	require.False(t, ok)
}

func TestHTTPFeedErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	board := NewBoard(time.Minute)
	feed := NewFeed(FeedConfig{Mode: "http", QuoteURL: srv.URL}, board, nil)
	require.Error(t, feed.fetchHTTP(context.Background()))
}

func TestSnapshotRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := OpenSnapshotStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Put(Quote{
		Symbol:        "AAPL",
		Price:         decimal.RequireFromString("178.50"),
		PreviousClose: decimal.RequireFromString("177.00"),
		UpdatedAt:     time.Now().UTC().Truncate(time.Second),
	}))
	require.NoError(t, store.Put(Quote{Symbol: "TSLA", Price: decimal.NewFromInt(242)}))
	require.NoError(t, store.Close())

	store, err = OpenSnapshotStore(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	quotes, err := store.Load()
	require.NoError(t, err)
	require.Len(t, quotes, 2)

	bySymbol := make(map[string]Quote, len(quotes))
	for _, q := range quotes {
		bySymbol[q.Symbol] = q
	}
	require.Equal(t, "178.50", bySymbol["AAPL"].Price.StringFixed(2))
	require.Equal(t, "177.00", bySymbol["AAPL"].PreviousClose.StringFixed(2))
	require.Equal(t, "242.00", bySymbol["TSLA"].Price.StringFixed(2))
}

func TestFeedWarmStartsFromSnapshot(t *testing.T) {
	dir := t.TempDir()
	store, err := OpenSnapshotStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Put(Quote{
		Symbol:    "AAPL",
		Price:     decimal.RequireFromString("178.50"),
		UpdatedAt: time.Now(),
	}))
	require.NoError(t, store.Close())

	store, err = OpenSnapshotStore(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	board := NewBoard(time.Minute)
	feed := NewFeed(FeedConfig{Mode: "sim"}, board, store)
	feed.warmStart()

	q, ok := board.Quote("AAPL")
	require.True(t, ok)
	require.Equal(t, "178.50", q.Price.StringFixed(2))
}
