package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// CreateAccount inserts a new account with the given opening balance.
func (s *Store) CreateAccount(ctx context.Context, id string, openingBalance decimal.Decimal) (*Account, error) {
	if id == "" {
		return nil, fmt.Errorf("ledger: account id is required")
	}
	if openingBalance.IsNegative() {
		return nil, fmt.Errorf("ledger: opening balance must not be negative")
	}
	a := &Account{
		ID:        id,
		Balance:   openingBalance.Round(2),
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO accounts (id, balance, created_at) VALUES (?, ?, ?)
`, a.ID, a.Balance.String(), a.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAccountExists
		}
		return nil, fmt.Errorf("ledger: insert account: %w", err)
	}
	return a, nil
}

// GetAccount returns the account, or (nil, nil) when it does not exist.
func (s *Store) GetAccount(ctx context.Context, id string) (*Account, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, balance, created_at FROM accounts WHERE id=?
`, id)
	return scanAccount(row)
}

// DeleteAccount removes the account; positions, transactions and favorites
// cascade with it.
func (s *Store) DeleteAccount(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM accounts WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("ledger: delete account: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("ledger: delete account: %w", err)
	}
	if n == 0 {
		return ErrAccountNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*Account, error) {
	var a Account
	var balance, created string
	if err := row.Scan(&a.ID, &balance, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ledger: scan account: %w", err)
	}
	var err error
	if a.Balance, err = decimal.NewFromString(balance); err != nil {
		return nil, fmt.Errorf("ledger: bad balance %q: %w", balance, err)
	}
	a.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	return &a, nil
}
