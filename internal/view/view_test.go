package view

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/paperdesk/gostock/internal/ledger"
	"github.com/paperdesk/gostock/internal/market"
)

type staticQuotes map[string]string

func (q staticQuotes) Quote(symbol string) (market.Quote, bool) {
	raw, ok := q[symbol]
	if !ok {
		return market.Quote{}, false
	}
	return market.Quote{
		Symbol:    symbol,
		Price:     decimal.RequireFromString(raw),
		UpdatedAt: time.Now(),
	}, true
}

func seedStore(t *testing.T) *ledger.Store {
	t.Helper()
	store, err := ledger.Open(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	_, err = store.CreateAccount(ctx, "alice", decimal.RequireFromString("8215.00"))
	require.NoError(t, err)

	err = store.WithAccountTx(ctx, "alice", func(tx *ledger.AccountTx) error {
		if err := tx.UpsertPosition("AAPL", 10, decimal.RequireFromString("178.50")); err != nil {
			return err
		}
		if err := tx.UpsertPosition("RIVN", 4, decimal.RequireFromString("12.00")); err != nil {
			return err
		}
		_, err := tx.AppendTransaction(ledger.TransactionRecord{
			Side: ledger.SideBuy, Symbol: "AAPL", Quantity: 10,
			Price: decimal.RequireFromString("178.50"),
			Total: decimal.RequireFromString("1785.00"),
		})
		return err
	})
	require.NoError(t, err)
	require.NoError(t, store.AddFavorite(ctx, "alice", "TSLA"))
	return store
}

func TestProjectJoinsQuotes(t *testing.T) {
	store := seedStore(t)
	p := NewProjector(store, staticQuotes{"AAPL": "190.00"})

	snap, err := p.Project(context.Background(), "alice")
	require.NoError(t, err)
	require.Equal(t, "alice", snap.AccountID)
	require.Equal(t, "8215.00", snap.Balance.StringFixed(2))
	require.Len(t, snap.Positions, 2)

	aapl := snap.Positions[0]
	require.Equal(t, "AAPL", aapl.Symbol)
	require.True(t, aapl.Quoted)
	require.Equal(t, "190.00", aapl.Price.StringFixed(2))
	require.Equal(t, "1900.00", aapl.MarketValue.StringFixed(2))
	require.Equal(t, "115.00", aapl.Gain.StringFixed(2))

	// No quote for RIVN: cost basis stands in, so the gain reads zero.
	rivn := snap.Positions[1]
	require.Equal(t, "RIVN", rivn.Symbol)
	require.False(t, rivn.Quoted)
	require.Equal(t, "12.00", rivn.Price.StringFixed(2))
	require.Equal(t, "48.00", rivn.MarketValue.StringFixed(2))
	require.Equal(t, "0.00", rivn.Gain.StringFixed(2))

	require.Len(t, snap.Transactions, 1)
	require.Equal(t, []string{"TSLA"}, snap.Favorites)
}

func TestProjectEmptyAccount(t *testing.T) {
	store, err := ledger.Open(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	_, err = store.CreateAccount(context.Background(), "bob", decimal.NewFromInt(10000))
	require.NoError(t, err)

	p := NewProjector(store, staticQuotes{})
	snap, err := p.Project(context.Background(), "bob")
	require.NoError(t, err)

	// Empty collections marshal as [], never null.
	require.NotNil(t, snap.Positions)
	require.NotNil(t, snap.Transactions)
	require.NotNil(t, snap.Favorites)
	require.Empty(t, snap.Positions)
}

func TestProjectUnknownAccount(t *testing.T) {
	store, err := ledger.Open(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	p := NewProjector(store, staticQuotes{})
	_, err = p.Project(context.Background(), "ghost")
	require.ErrorIs(t, err, ledger.ErrAccountNotFound)
}
