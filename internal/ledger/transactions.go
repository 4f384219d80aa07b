package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultTransactionLimit caps history reads when the caller passes no
// explicit limit.
const DefaultTransactionLimit = 50

// ListTransactions returns the account's trade log, most recent first.
// limit <= 0 applies DefaultTransactionLimit.
func (s *Store) ListTransactions(ctx context.Context, accountID string, limit int) ([]TransactionRecord, error) {
	if limit <= 0 {
		limit = DefaultTransactionLimit
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, account_id, side, symbol, quantity, price, total, client_order_id, created_at
FROM transactions WHERE account_id=? ORDER BY id DESC LIMIT ?
`, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("ledger: list transactions: %w", err)
	}
	defer rows.Close()

	var out []TransactionRecord
	for rows.Next() {
		rec, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func scanTransaction(row rowScanner) (*TransactionRecord, error) {
	var rec TransactionRecord
	var price, total, created string
	var clientOrderID sql.NullString
	if err := row.Scan(&rec.ID, &rec.AccountID, &rec.Side, &rec.Symbol,
		&rec.Quantity, &price, &total, &clientOrderID, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ledger: scan transaction: %w", err)
	}
	var err error
	if rec.Price, err = decimal.NewFromString(price); err != nil {
		return nil, fmt.Errorf("ledger: bad price %q: %w", price, err)
	}
	if rec.Total, err = decimal.NewFromString(total); err != nil {
		return nil, fmt.Errorf("ledger: bad total %q: %w", total, err)
	}
	rec.ClientOrderID = clientOrderID.String
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	return &rec, nil
}
