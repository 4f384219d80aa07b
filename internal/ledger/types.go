package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Side is the direction of an executed trade.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

func (s Side) Valid() bool {
	return s == SideBuy || s == SideSell
}

// Account holds a user's cash balance. Balance is only ever mutated through
// WithAccountTx; there is no direct setter on the store.
type Account struct {
	ID        string          `json:"id"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Position is a holding in one symbol. A position with zero shares is never
// stored; absence means no holding.
type Position struct {
	AccountID string          `json:"-"`
	Symbol    string          `json:"symbol"`
	Shares    int64           `json:"shares"`
	AvgCost   decimal.Decimal `json:"avgCost"`
}

// TransactionRecord is one row of the append-only trade log. Rows are never
// updated or deleted (short of account deletion, which cascades).
type TransactionRecord struct {
	ID            int64           `json:"-"`
	AccountID     string          `json:"-"`
	Side          Side            `json:"side"`
	Symbol        string          `json:"symbol"`
	Quantity      int64           `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	Total         decimal.Decimal `json:"total"`
	ClientOrderID string          `json:"-"`
	CreatedAt     time.Time       `json:"time"`
}
