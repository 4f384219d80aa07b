package ledger

import (
	"context"
	"fmt"
	"time"
)

// AddFavorite marks symbol as a favorite; adding an existing favorite is a
// no-op.
func (s *Store) AddFavorite(ctx context.Context, accountID, symbol string) error {
	_, err := s.db.ExecContext(ctx, `
INSERT OR IGNORE INTO favorites (account_id, symbol, added_at) VALUES (?, ?, ?)
`, accountID, symbol, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("ledger: add favorite: %w", err)
	}
	return nil
}

// RemoveFavorite unmarks symbol; removing a non-favorite is a no-op.
func (s *Store) RemoveFavorite(ctx context.Context, accountID, symbol string) error {
	_, err := s.db.ExecContext(ctx, `
DELETE FROM favorites WHERE account_id=? AND symbol=?
`, accountID, symbol)
	if err != nil {
		return fmt.Errorf("ledger: remove favorite: %w", err)
	}
	return nil
}

// ListFavorites returns the account's favorite symbols, oldest first.
func (s *Store) ListFavorites(ctx context.Context, accountID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT symbol FROM favorites WHERE account_id=? ORDER BY added_at ASC
`, accountID)
	if err != nil {
		return nil, fmt.Errorf("ledger: list favorites: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var sym string
		if err := rows.Scan(&sym); err != nil {
			return nil, fmt.Errorf("ledger: scan favorite: %w", err)
		}
		out = append(out, sym)
	}
	return out, rows.Err()
}
