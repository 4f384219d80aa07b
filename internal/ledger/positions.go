package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// GetPosition returns the holding for (account, symbol), or (nil, nil) when
// the account holds no shares of the symbol.
func (s *Store) GetPosition(ctx context.Context, accountID, symbol string) (*Position, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT account_id, symbol, shares, avg_cost FROM positions WHERE account_id=? AND symbol=?
`, accountID, symbol)
	return scanPosition(row)
}

// ListPositions returns the account's holdings ordered by symbol.
func (s *Store) ListPositions(ctx context.Context, accountID string) ([]Position, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT account_id, symbol, shares, avg_cost FROM positions WHERE account_id=? ORDER BY symbol ASC
`, accountID)
	if err != nil {
		return nil, fmt.Errorf("ledger: list positions: %w", err)
	}
	defer rows.Close()

	var out []Position
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func scanPosition(row rowScanner) (*Position, error) {
	var p Position
	var avgCost string
	if err := row.Scan(&p.AccountID, &p.Symbol, &p.Shares, &avgCost); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ledger: scan position: %w", err)
	}
	var err error
	if p.AvgCost, err = decimal.NewFromString(avgCost); err != nil {
		return nil, fmt.Errorf("ledger: bad avg_cost %q: %w", avgCost, err)
	}
	return &p, nil
}
