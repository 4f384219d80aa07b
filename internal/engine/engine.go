package engine

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/paperdesk/gostock/internal/ledger"
	"github.com/paperdesk/gostock/internal/market"
	"github.com/paperdesk/gostock/internal/metrics"
	"github.com/paperdesk/gostock/pkg/logger"
)

// DefaultMaxOrderQty bounds a single order's share count.
const DefaultMaxOrderQty = 10000

// Order is a sanitized trade request. AccountID comes from the
// authenticated session, never from the request body. ClientOrderID is
// optional; when set, resubmitting the same id replays the original receipt
// instead of executing a second trade.
type Order struct {
	AccountID     string
	Side          ledger.Side
	Symbol        string
	Quantity      int64
	ClientOrderID string
}

// Receipt describes an executed trade.
type Receipt struct {
	TransactionID int64           `json:"-"`
	Side          ledger.Side     `json:"side"`
	Symbol        string          `json:"symbol"`
	Quantity      int64           `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	Total         decimal.Decimal `json:"total"`
	ExecutedAt    time.Time       `json:"executedAt"`
	// Replayed is true when a duplicate client order id returned the
	// original execution rather than trading again.
	Replayed bool `json:"replayed,omitempty"`
}

// Engine validates and executes trades against the ledger. It never
// partially applies a mutation: validation failures abort before the atomic
// section, and storage faults inside it roll the whole trade back.
type Engine struct {
	store       *ledger.Store
	quotes      market.Source
	maxOrderQty int64
	log         *logrus.Entry
}

func New(store *ledger.Store, quotes market.Source, maxOrderQty int64) *Engine {
	if maxOrderQty <= 0 {
		maxOrderQty = DefaultMaxOrderQty
	}
	return &Engine{
		store:       store,
		quotes:      quotes,
		maxOrderQty: maxOrderQty,
		log:         logger.WithComponent("trade_engine"),
	}
}

// MaxOrderQty is the per-order share cap in force.
func (e *Engine) MaxOrderQty() int64 {
	return e.maxOrderQty
}

// Execute runs the full trade: precondition checks in order (unknown
// symbol, invalid quantity, price unavailable), then the atomic
// balance/position/log mutation. On any failure the ledger is untouched.
func (e *Engine) Execute(ctx context.Context, order Order) (*Receipt, error) {
	if !market.Listed(order.Symbol) {
		metrics.TradesRejected.Add(1)
		return nil, ErrUnknownSymbol
	}
	if !order.Side.Valid() {
		metrics.TradesRejected.Add(1)
		return nil, ErrInvalidSide
	}
	if order.Quantity < 1 || order.Quantity > e.maxOrderQty {
		metrics.TradesRejected.Add(1)
		return nil, ErrInvalidQuantity
	}
	quote, ok := e.quotes.Quote(order.Symbol)
	if !ok {
		metrics.TradesRejected.Add(1)
		return nil, ErrPriceUnavailable
	}

	var receipt *Receipt
	err := e.store.WithAccountTx(ctx, order.AccountID, func(tx *ledger.AccountTx) error {
		if order.ClientOrderID != "" {
			prev, err := tx.TransactionByClientOrderID(order.ClientOrderID)
			if err != nil {
				return err
			}
			if prev != nil {
				receipt = receiptFromRecord(prev)
				return nil
			}
		}

		var err error
		switch order.Side {
		case ledger.SideBuy:
			receipt, err = e.buy(tx, order, quote.Price)
		case ledger.SideSell:
			receipt, err = e.sell(tx, order, quote.Price)
		}
		return err
	})
	if err != nil {
		metrics.TradesRejected.Add(1)
		return nil, classify(err)
	}

	metrics.TradesExecuted.Add(1)
	e.log.WithFields(logrus.Fields{
		"account":  order.AccountID,
		"side":     receipt.Side,
		"symbol":   receipt.Symbol,
		"quantity": receipt.Quantity,
		"price":    receipt.Price.StringFixed(2),
		"total":    receipt.Total.StringFixed(2),
		"replayed": receipt.Replayed,
	}).Info("trade executed")
	return receipt, nil
}

func (e *Engine) buy(tx *ledger.AccountTx, order Order, price decimal.Decimal) (*Receipt, error) {
	qty := decimal.NewFromInt(order.Quantity)
	cost := price.Mul(qty).Round(2)

	balance := tx.Account().Balance
	if balance.LessThan(cost) {
		return nil, &InsufficientFundsError{Required: cost, Available: balance}
	}
	if err := tx.SetBalance(balance.Sub(cost)); err != nil {
		return nil, err
	}

	pos, err := tx.Position(order.Symbol)
	if err != nil {
		return nil, err
	}
	if pos == nil {
		avgCost := cost.Div(qty).Round(2)
		if err := tx.UpsertPosition(order.Symbol, order.Quantity, avgCost); err != nil {
			return nil, err
		}
	} else {
		// Weighted average over the already-rounded stored cost basis.
		newShares := pos.Shares + order.Quantity
		newAvgCost := decimal.NewFromInt(pos.Shares).Mul(pos.AvgCost).
			Add(cost).
			Div(decimal.NewFromInt(newShares)).
			Round(2)
		if err := tx.UpsertPosition(order.Symbol, newShares, newAvgCost); err != nil {
			return nil, err
		}
	}

	return e.record(tx, order, ledger.SideBuy, price, cost)
}

func (e *Engine) sell(tx *ledger.AccountTx, order Order, price decimal.Decimal) (*Receipt, error) {
	qty := decimal.NewFromInt(order.Quantity)
	proceeds := price.Mul(qty).Round(2)

	pos, err := tx.Position(order.Symbol)
	if err != nil {
		return nil, err
	}
	var owned int64
	if pos != nil {
		owned = pos.Shares
	}
	if owned < order.Quantity {
		return nil, &InsufficientSharesError{Owned: owned, Requested: order.Quantity}
	}

	if err := tx.SetBalance(tx.Account().Balance.Add(proceeds)); err != nil {
		return nil, err
	}

	remaining := owned - order.Quantity
	if remaining == 0 {
		if err := tx.DeletePosition(order.Symbol); err != nil {
			return nil, err
		}
	} else {
		// Selling never moves the cost basis.
		if err := tx.UpsertPosition(order.Symbol, remaining, pos.AvgCost); err != nil {
			return nil, err
		}
	}

	return e.record(tx, order, ledger.SideSell, price, proceeds)
}

func (e *Engine) record(tx *ledger.AccountTx, order Order, side ledger.Side, price, total decimal.Decimal) (*Receipt, error) {
	executedAt := time.Now().UTC()
	id, err := tx.AppendTransaction(ledger.TransactionRecord{
		AccountID:     order.AccountID,
		Side:          side,
		Symbol:        order.Symbol,
		Quantity:      order.Quantity,
		Price:         price,
		Total:         total,
		ClientOrderID: order.ClientOrderID,
		CreatedAt:     executedAt,
	})
	if err != nil {
		return nil, err
	}
	return &Receipt{
		TransactionID: id,
		Side:          side,
		Symbol:        order.Symbol,
		Quantity:      order.Quantity,
		Price:         price,
		Total:         total,
		ExecutedAt:    executedAt,
	}, nil
}

func receiptFromRecord(rec *ledger.TransactionRecord) *Receipt {
	return &Receipt{
		TransactionID: rec.ID,
		Side:          rec.Side,
		Symbol:        rec.Symbol,
		Quantity:      rec.Quantity,
		Price:         rec.Price,
		Total:         rec.Total,
		ExecutedAt:    rec.CreatedAt,
		Replayed:      true,
	}
}

// classify keeps the closed failure set: typed business failures and
// ErrAccountNotFound pass through, anything else from the storage layer is
// wrapped as a StorageError.
func classify(err error) error {
	var fundsErr *InsufficientFundsError
	var sharesErr *InsufficientSharesError
	switch {
	case errors.As(err, &fundsErr), errors.As(err, &sharesErr),
		errors.Is(err, ledger.ErrAccountNotFound):
		return err
	default:
		return &StorageError{Err: err}
	}
}
