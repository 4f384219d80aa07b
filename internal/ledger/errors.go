package ledger

import (
	"errors"
	"strings"
)

var (
	// ErrAccountNotFound is returned when the addressed account row does
	// not exist.
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccountExists is returned by CreateAccount on a duplicate id.
	ErrAccountExists = errors.New("account already exists")

	// ErrDuplicateClientOrder is returned by AppendTransaction when the
	// client order id was already used for this account. Callers that
	// check TransactionByClientOrderID first under WithAccountTx never
	// see it; the unique index is the backstop.
	ErrDuplicateClientOrder = errors.New("duplicate client order id")
)

// isUniqueViolation detects SQLite unique-constraint failures. modernc's
// driver surfaces them as plain errors carrying the constraint message.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
