package engine

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Failure taxonomy. Validation failures are the caller's fault and never
// worth retrying; ErrPriceUnavailable is transient and safe to re-poll;
// the business-rule types carry the exact shortfall for display; a
// StorageError means the infrastructure failed with zero observable
// mutation, so a retry is safe.
var (
	ErrUnknownSymbol    = errors.New("unknown or untradable symbol")
	ErrInvalidSide      = errors.New("side must be BUY or SELL")
	ErrInvalidQuantity  = errors.New("invalid quantity")
	ErrPriceUnavailable = errors.New("price unavailable, market may be loading")
)

// InsufficientFundsError rejects a BUY whose cost exceeds the balance.
type InsufficientFundsError struct {
	Required  decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: need $%s, have $%s",
		e.Required.StringFixed(2), e.Available.StringFixed(2))
}

// InsufficientSharesError rejects a SELL of more shares than are held.
type InsufficientSharesError struct {
	Owned     int64
	Requested int64
}

func (e *InsufficientSharesError) Error() string {
	return fmt.Sprintf("insufficient shares: own %d, tried to sell %d",
		e.Owned, e.Requested)
}

// StorageError wraps a ledger fault that aborted the trade. The transaction
// rolled back, so no balance, position or log mutation survived.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("trade aborted by storage fault: %v", e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
