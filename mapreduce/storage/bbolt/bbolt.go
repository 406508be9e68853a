package bbolt

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.etcd.io/bbolt"
)

var _bucket = []byte("kv")

var ErrNoBucket = errors.New("bucket does not exist")

// BboltStorage keeps all pairs in a single bbolt bucket. Keys come back from
// Keys in bbolt's byte order, which is ascending.
type BboltStorage struct {
	db *bbolt.DB
}

func New(path string) (*BboltStorage, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 30 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("create bbolt storage: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(_bucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create bbolt bucket: %w", err)
	}

	return &BboltStorage{
		db: db,
	}, nil
}

func (s *BboltStorage) Put(ctx context.Context, key string, value string) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		buck := tx.Bucket(_bucket)
		if buck == nil {
			return ErrNoBucket
		}

		return buck.Put([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}

	return nil
}

func (s *BboltStorage) Get(ctx context.Context, key string) (string, bool, error) {
	var (
		val   string
		found bool
	)

	err := s.db.View(func(tx *bbolt.Tx) error {
		buck := tx.Bucket(_bucket)
		if buck == nil {
			return ErrNoBucket
		}

		// data is only valid inside the transaction, copy it out
		data := buck.Get([]byte(key))
		if data != nil {
			val, found = string(data), true
		}

		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}

	return val, found, nil
}

func (s *BboltStorage) Size(ctx context.Context) (int, error) {
	var n int

	err := s.db.View(func(tx *bbolt.Tx) error {
		buck := tx.Bucket(_bucket)
		if buck == nil {
			return ErrNoBucket
		}

		n = buck.Stats().KeyN

		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("size: %w", err)
	}

	return n, nil
}

func (s *BboltStorage) Keys(ctx context.Context) ([]string, error) {
	var keys []string

	err := s.db.View(func(tx *bbolt.Tx) error {
		buck := tx.Bucket(_bucket)
		if buck == nil {
			return ErrNoBucket
		}

		c := buck.Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			keys = append(keys, string(k))
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("keys: %w", err)
	}

	return keys, nil
}

// Close must be call to release database connection.
func (s *BboltStorage) Close() error {
	return s.db.Close()
}

// Destroy closes the database and removes the file.
func (s *BboltStorage) Destroy() error {
	path := s.db.Path()
	_ = s.Close()
	return os.Remove(path)
}
