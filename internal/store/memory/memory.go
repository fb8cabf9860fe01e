// Package memory is the in-process blob store, used when neither
// DATABASE_URL nor REDIS_ADDR is configured, and by tests.
package memory

import (
	"context"
	"sync"
)

type Store struct {
	mu    sync.RWMutex
	blobs map[string]string
}

func New() *Store {
	return &Store{blobs: make(map[string]string)}
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.blobs[key]
	return value, ok, nil
}

func (s *Store) Set(_ context.Context, key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.blobs[key] = value
	return nil
}

func (s *Store) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.blobs, key)
	return nil
}
