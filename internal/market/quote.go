package market

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is the externally supplied price pair for one symbol. A zero Price
// means the feed has not produced a usable price yet; such a quote blocks
// trading on the symbol.
type Quote struct {
	Symbol        string          `json:"symbol"`
	Price         decimal.Decimal `json:"price"`
	PreviousClose decimal.Decimal `json:"previousClose"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// Priced reports whether the quote carries a tradable price.
func (q Quote) Priced() bool {
	return q.Price.IsPositive()
}

// Change is price minus previous close, 2-decimal.
func (q Quote) Change() decimal.Decimal {
	return q.Price.Sub(q.PreviousClose).Round(2)
}

// ChangePct is the percent move vs previous close, 2-decimal. Zero when the
// previous close is unknown.
func (q Quote) ChangePct() decimal.Decimal {
	if !q.PreviousClose.IsPositive() {
		return decimal.Zero
	}
	return q.Price.Sub(q.PreviousClose).
		Div(q.PreviousClose).
		Mul(decimal.NewFromInt(100)).
		Round(2)
}

// Source supplies the current quote for a symbol. The trade engine and the
// account view depend on this interface only; refresh cadence and caching
// are the implementation's business.
type Source interface {
	// Quote returns the current quote. ok is false when the symbol has no
	// usable (fresh, positive-priced) quote.
	Quote(symbol string) (Quote, bool)
}
