package ledger

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

// Store is the durable ledger: accounts, positions, the transaction log and
// favorites, backed by SQLite.
type Store struct {
	db *sql.DB

	// locks serializes same-account read-modify-write sections; see
	// WithAccountTx.
	locks sync.Map // accountID -> *sync.Mutex
}

// Open opens (creating if needed) the ledger database at path and applies
// migrations.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("ledger: db path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ledger: mkdir db dir: %w", err)
		}
	}

	// Pragmas go in the DSN so they apply to every connection the pool
	// hands out, not just the one migrate ran on.
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("ledger: open sqlite: %w", err)
	}
	// Single connection keeps SQLite happy under concurrent writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) lockFor(accountID string) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(accountID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}
