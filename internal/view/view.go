// Package view builds the read-only account projection: balance, holdings
// joined with live quotes, recent trade history and favorites. It never
// mutates the ledger.
package view

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/paperdesk/gostock/internal/ledger"
	"github.com/paperdesk/gostock/internal/market"
)

// PositionView is a holding enriched with current market data. When no
// quote is available, Price falls back to the cost basis and Quoted is
// false.
type PositionView struct {
	Symbol      string          `json:"symbol"`
	Shares      int64           `json:"shares"`
	AvgCost     decimal.Decimal `json:"avgCost"`
	Price       decimal.Decimal `json:"price"`
	MarketValue decimal.Decimal `json:"marketValue"`
	Gain        decimal.Decimal `json:"gain"`
	Quoted      bool            `json:"quoted"`
}

// Snapshot is the full account projection.
type Snapshot struct {
	AccountID    string                     `json:"accountId"`
	Balance      decimal.Decimal            `json:"balance"`
	CreatedAt    time.Time                  `json:"createdAt"`
	Positions    []PositionView             `json:"positions"`
	Transactions []ledger.TransactionRecord `json:"transactions"`
	Favorites    []string                   `json:"favorites"`
}

// Projector composes ledger reads with the quote source.
type Projector struct {
	store  *ledger.Store
	quotes market.Source
}

func NewProjector(store *ledger.Store, quotes market.Source) *Projector {
	return &Projector{store: store, quotes: quotes}
}

// Project returns the account snapshot, or ledger.ErrAccountNotFound.
func (p *Projector) Project(ctx context.Context, accountID string) (*Snapshot, error) {
	account, err := p.store.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ledger.ErrAccountNotFound
	}

	positions, err := p.store.ListPositions(ctx, accountID)
	if err != nil {
		return nil, err
	}
	transactions, err := p.store.ListTransactions(ctx, accountID, ledger.DefaultTransactionLimit)
	if err != nil {
		return nil, err
	}
	favorites, err := p.store.ListFavorites(ctx, accountID)
	if err != nil {
		return nil, err
	}

	views := make([]PositionView, 0, len(positions))
	for _, pos := range positions {
		views = append(views, projectPosition(pos, p.quotes))
	}
	if transactions == nil {
		transactions = []ledger.TransactionRecord{}
	}
	if favorites == nil {
		favorites = []string{}
	}

	return &Snapshot{
		AccountID:    account.ID,
		Balance:      account.Balance,
		CreatedAt:    account.CreatedAt,
		Positions:    views,
		Transactions: transactions,
		Favorites:    favorites,
	}, nil
}

func projectPosition(pos ledger.Position, quotes market.Source) PositionView {
	shares := decimal.NewFromInt(pos.Shares)
	price := pos.AvgCost
	quoted := false
	if q, ok := quotes.Quote(pos.Symbol); ok {
		price = q.Price
		quoted = true
	}
	marketValue := shares.Mul(price).Round(2)
	gain := marketValue.Sub(shares.Mul(pos.AvgCost)).Round(2)
	return PositionView{
		Symbol:      pos.Symbol,
		Shares:      pos.Shares,
		AvgCost:     pos.AvgCost,
		Price:       price,
		MarketValue: marketValue,
		Gain:        gain,
		Quoted:      quoted,
	}
}
