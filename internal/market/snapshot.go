package market

import (
	"encoding/json"

	badger "github.com/dgraph-io/badger/v4"
)

const snapshotKeyPrefix = "quote:"

// SnapshotStore persists the last accepted quote per symbol so the board
// can warm-start after a restart instead of blocking trades until the first
// feed refresh lands.
type SnapshotStore struct {
	db *badger.DB
}

func OpenSnapshotStore(path string) (*SnapshotStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &SnapshotStore{db: db}, nil
}

func (s *SnapshotStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Put stores q, replacing any previous snapshot for the symbol.
func (s *SnapshotStore) Put(q Quote) error {
	data, err := json.Marshal(q)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(snapshotKeyPrefix+q.Symbol), data)
	})
}

// Load returns every stored quote. Entries that no longer parse are skipped.
func (s *SnapshotStore) Load() ([]Quote, error) {
	var out []Quote
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		prefix := []byte(snapshotKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var q Quote
				if err := json.Unmarshal(val, &q); err != nil {
					return nil
				}
				out = append(out, q)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
