package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"
)

var bucketWallets = []byte("wallets")

// BoltStore is the bbolt-backed KV implementation used in production.
// bbolt serializes writes and keeps keys ordered, which gives Put its
// batch atomicity and PutIfAbsent its conditional-write guarantee.
type BoltStore struct {
	db *bbolt.DB
}

// Compile-time interface check.
var _ KV = (*BoltStore)(nil)

// OpenBoltStore opens or creates the bbolt database at dbPath. The parent
// directory is created if it does not exist.
func OpenBoltStore(dbPath string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("store: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("store: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketWallets)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: create bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Close closes the underlying database.
func (s *BoltStore) Close() error { return s.db.Close() }

// Get returns the value for key, or (nil, nil) when absent.
func (s *BoltStore) Get(key []byte) ([]byte, error) {
	var value []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket(bucketWallets).Get(key); v != nil {
			value = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: get: %w", ErrStorage, err)
	}
	return value, nil
}

// Put writes the whole batch in one bbolt transaction; either every entry
// lands or none does.
func (s *BoltStore) Put(batch []KeyValue) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketWallets)
		for _, kv := range batch {
			if err := b.Put(kv.Key, kv.Value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: put batch: %w", ErrStorage, err)
	}
	return nil
}

// PutIfAbsent inserts key only when it is not present. The existence check
// and the write share one update transaction, so concurrent callers for
// the same key see exactly one success.
func (s *BoltStore) PutIfAbsent(key, value []byte) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketWallets)
		if b.Get(key) != nil {
			return ErrKeyExists
		}
		return b.Put(key, value)
	})
	if errors.Is(err, ErrKeyExists) {
		return err
	}
	if err != nil {
		return fmt.Errorf("%w: conditional put: %w", ErrStorage, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *BoltStore) Delete(key []byte) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketWallets).Delete(key)
	})
	if err != nil {
		return fmt.Errorf("%w: delete: %w", ErrStorage, err)
	}
	return nil
}
