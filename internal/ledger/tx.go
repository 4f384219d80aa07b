package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// AccountTx gives exclusive, atomic read-modify-write access to a single
// account's balance, positions and transaction log. All methods operate
// inside one SQL transaction; nothing is visible to readers until
// WithAccountTx commits.
type AccountTx struct {
	ctx       context.Context
	tx        *sql.Tx
	accountID string
	account   Account
}

// WithAccountTx runs fn with exclusive access to the account. The
// per-account mutex serializes concurrent trades against the same account
// (trades on different accounts only contend on the SQLite connection), and
// the wrapping SQL transaction makes fn all-or-nothing: any error from fn
// rolls every write back.
//
// Returns ErrAccountNotFound when the account row does not exist.
func (s *Store) WithAccountTx(ctx context.Context, accountID string, fn func(tx *AccountTx) error) error {
	mu := s.lockFor(accountID)
	mu.Lock()
	defer mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ledger: begin tx: %w", err)
	}

	atx := &AccountTx{ctx: ctx, tx: tx, accountID: accountID}
	account, err := atx.loadAccount()
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	atx.account = *account

	if err := fn(atx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ledger: commit: %w", err)
	}
	return nil
}

func (t *AccountTx) loadAccount() (*Account, error) {
	row := t.tx.QueryRowContext(t.ctx, `
SELECT id, balance, created_at FROM accounts WHERE id=?
`, t.accountID)
	a, err := scanAccount(row)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrAccountNotFound
	}
	return a, nil
}

// Account returns the account state as read at transaction start, with any
// balance update applied by SetBalance reflected.
func (t *AccountTx) Account() Account {
	return t.account
}

// Position returns the holding for symbol within the transaction, or
// (nil, nil) when absent.
func (t *AccountTx) Position(symbol string) (*Position, error) {
	row := t.tx.QueryRowContext(t.ctx, `
SELECT account_id, symbol, shares, avg_cost FROM positions WHERE account_id=? AND symbol=?
`, t.accountID, symbol)
	return scanPosition(row)
}

// SetBalance writes the account's new balance (2-decimal).
func (t *AccountTx) SetBalance(balance decimal.Decimal) error {
	if balance.IsNegative() {
		return fmt.Errorf("ledger: balance must not go negative")
	}
	balance = balance.Round(2)
	_, err := t.tx.ExecContext(t.ctx, `
UPDATE accounts SET balance=? WHERE id=?
`, balance.String(), t.accountID)
	if err != nil {
		return fmt.Errorf("ledger: update balance: %w", err)
	}
	t.account.Balance = balance
	return nil
}

// UpsertPosition creates or replaces the holding for symbol. Zero-share
// positions are rejected; use DeletePosition instead.
func (t *AccountTx) UpsertPosition(symbol string, shares int64, avgCost decimal.Decimal) error {
	if shares <= 0 {
		return fmt.Errorf("ledger: position shares must be positive, got %d", shares)
	}
	_, err := t.tx.ExecContext(t.ctx, `
INSERT INTO positions (account_id, symbol, shares, avg_cost) VALUES (?, ?, ?, ?)
ON CONFLICT(account_id, symbol) DO UPDATE SET shares=excluded.shares, avg_cost=excluded.avg_cost
`, t.accountID, symbol, shares, avgCost.Round(2).String())
	if err != nil {
		return fmt.Errorf("ledger: upsert position: %w", err)
	}
	return nil
}

// DeletePosition removes the holding row for symbol.
func (t *AccountTx) DeletePosition(symbol string) error {
	_, err := t.tx.ExecContext(t.ctx, `
DELETE FROM positions WHERE account_id=? AND symbol=?
`, t.accountID, symbol)
	if err != nil {
		return fmt.Errorf("ledger: delete position: %w", err)
	}
	return nil
}

// AppendTransaction appends one log row and returns its id.
func (t *AccountTx) AppendTransaction(rec TransactionRecord) (int64, error) {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	clientOrderID := sql.NullString{String: rec.ClientOrderID, Valid: rec.ClientOrderID != ""}
	res, err := t.tx.ExecContext(t.ctx, `
INSERT INTO transactions (account_id, side, symbol, quantity, price, total, client_order_id, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, t.accountID, string(rec.Side), rec.Symbol, rec.Quantity,
		rec.Price.Round(2).String(), rec.Total.Round(2).String(),
		clientOrderID, rec.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		if clientOrderID.Valid && isUniqueViolation(err) {
			return 0, ErrDuplicateClientOrder
		}
		return 0, fmt.Errorf("ledger: append transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("ledger: append transaction: %w", err)
	}
	return id, nil
}

// TransactionByClientOrderID looks up a previously executed trade by its
// client order id, or (nil, nil) when none exists.
func (t *AccountTx) TransactionByClientOrderID(clientOrderID string) (*TransactionRecord, error) {
	row := t.tx.QueryRowContext(t.ctx, `
SELECT id, account_id, side, symbol, quantity, price, total, client_order_id, created_at
FROM transactions WHERE account_id=? AND client_order_id=?
`, t.accountID, clientOrderID)
	return scanTransaction(row)
}
