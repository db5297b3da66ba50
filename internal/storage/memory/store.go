package memory

import (
	"context"
	"sync"

	"github.com/Rina-ui/Front-TP-JEE/internal/storage"
)

var _ storage.KV = (*Store)(nil)

// Store keeps slots in process memory; contents are lost on restart.
type Store struct {
	mu    sync.RWMutex
	slots map[string]string
}

func NewStore() *Store {
	return &Store{slots: make(map[string]string)}
}

func (s *Store) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.slots[key]
	if !ok {
		return "", storage.ErrNotFound
	}
	return v, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	s.slots[key] = value
	s.mu.Unlock()
	return nil
}

// Delete is a no-op for absent keys.
func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.slots, key)
	s.mu.Unlock()
	return nil
}

// Len reports the number of stored slots.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.slots)
}
