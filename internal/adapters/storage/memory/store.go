package memory

import (
	"sync"

	"github.com/rocketvote/pollsync/internal/core/ports"
)

// Store is an in-memory key-value backend, mainly for tests and
// throwaway sessions.
type Store struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewStore() *Store {
	return &Store{values: map[string]string{}}
}

var _ ports.KeyValueStore = (*Store)(nil)

func (s *Store) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}
