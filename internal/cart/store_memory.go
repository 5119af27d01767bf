package cart

import (
	"context"
	"sync"
)

type MemStore struct {
	mu    sync.RWMutex
	value string
	set   bool
}

func NewMemStore() *MemStore {
	return &MemStore{}
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) Get(ctx context.Context) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value, s.set, nil
}

func (s *MemStore) Set(ctx context.Context, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = value
	s.set = true
	return nil
}

func (s *MemStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = ""
	s.set = false
	return nil
}
