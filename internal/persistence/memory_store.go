package persistence

import (
	"context"
	"sync"
)

// MemoryStore keeps a record in memory. Used by the simulator and tests.
type MemoryStore struct {
	mu          sync.Mutex
	data        []byte
	quarantined [][]byte
	saves       int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Seed sets the stored bytes without counting a save.
func (s *MemoryStore) Seed(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append([]byte(nil), data...)
}

func (s *MemoryStore) Load(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return nil, ErrNoRecord
	}
	return append([]byte(nil), s.data...), nil
}

func (s *MemoryStore) Save(ctx context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append([]byte(nil), data...)
	s.saves++
	return nil
}

func (s *MemoryStore) Quarantine(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data != nil {
		s.quarantined = append(s.quarantined, s.data)
		s.data = nil
	}
	return nil
}

// Saves reports how many times Save was called.
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// Quarantined returns the records moved aside so far.
func (s *MemoryStore) Quarantined() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]byte(nil), s.quarantined...)
}

func (s *MemoryStore) Close() error { return nil }
