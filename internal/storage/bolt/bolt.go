// Package bolt реализует storage.Substrate поверх файла BoltDB.
// Это основное хранилище устройства: один файл, одна корзина, значения - JSON-текст.
package bolt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bbolt "go.etcd.io/bbolt"
)

const defaultBucket = "records"

// Store оборачивает BoltDB.
type Store struct {
	db     *bbolt.DB
	bucket []byte
}

// Open открывает (или создаёт) файл базы и гарантирует наличие корзины.
// timeout ограничивает ожидание файловой блокировки, которую держит другой процесс.
func Open(path, bucket string, timeout time.Duration) (*Store, error) {
	const op = "storage.bolt.Open"
	if bucket == "" {
		bucket = defaultBucket
	}
	if timeout <= 0 {
		timeout = time.Second
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Store{db: db, bucket: []byte(bucket)}, nil
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	const op = "storage.bolt.Get"
	var (
		value string
		found bool
	)
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(s.bucket).Get([]byte(key))
		if v == nil {
			return nil
		}
		// v валиден только внутри транзакции
		value, found = string(v), true
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}
	return value, found, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	const op = "storage.bolt.Set"
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(s.bucket).Put([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	const op = "storage.bolt.Delete"
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(s.bucket).Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Close закрывает файл базы.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
