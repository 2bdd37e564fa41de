// Package memory реализует storage.Substrate в памяти процесса.
// Используется в тестах и для драйвера "memory".
package memory

import (
	"context"
	"sync"
)

// Store хранит значения в map под мьютексом.
type Store struct {
	mu   sync.RWMutex
	data map[string]string
}

// New создаёт пустое хранилище.
func New() *Store {
	return &Store{data: make(map[string]string)}
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *Store) Close() error { return nil }

// Raw возвращает сырое значение ключа. Нужен тестам для побайтового сравнения.
func (s *Store) Raw(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data[key]
}
