package ledger

import (
	"context"
	"fmt"
	"time"
)

func (s *Store) migrate() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stmts := []string{
		`
CREATE TABLE IF NOT EXISTS accounts (
  id TEXT PRIMARY KEY,
  balance TEXT NOT NULL,
  created_at TEXT NOT NULL
);`,
		`
CREATE TABLE IF NOT EXISTS positions (
  account_id TEXT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
  symbol TEXT NOT NULL,
  shares INTEGER NOT NULL,
  avg_cost TEXT NOT NULL,
  PRIMARY KEY (account_id, symbol)
);`,
		`
CREATE TABLE IF NOT EXISTS transactions (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  account_id TEXT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
  side TEXT NOT NULL CHECK(side IN ('BUY','SELL')),
  symbol TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  price TEXT NOT NULL,
  total TEXT NOT NULL,
  client_order_id TEXT,
  created_at TEXT NOT NULL
);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_transactions_client_order
  ON transactions(account_id, client_order_id) WHERE client_order_id IS NOT NULL;`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_account_id
  ON transactions(account_id, id DESC);`,
		`
CREATE TABLE IF NOT EXISTS favorites (
  account_id TEXT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
  symbol TEXT NOT NULL,
  added_at TEXT NOT NULL,
  PRIMARY KEY (account_id, symbol)
);`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ledger: migrate: %w", err)
		}
	}
	return nil
}
