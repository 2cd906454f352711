package history

import (
	"context"
	"sync"
)

// MemoryStore keeps the price history in process memory. It is used for
// dry runs and tests; nothing survives a restart.
type MemoryStore struct {
	mu     sync.Mutex
	record Record
	saves  int

	// SaveErr, when set, is returned by Save without storing anything.
	SaveErr error
}

// NewMemoryStore creates a MemoryStore seeded with a copy of initial.
func NewMemoryStore(initial Record) *MemoryStore {
	if initial == nil {
		initial = Record{}
	}
	return &MemoryStore{record: initial.Clone()}
}

// Load returns a copy of the stored record.
func (s *MemoryStore) Load(_ context.Context) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record.Clone(), nil
}

// Save replaces the stored record with a copy of r.
func (s *MemoryStore) Save(_ context.Context, r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.record = r.Clone()
	s.saves++
	return nil
}

// Saves returns how many successful Save calls were made.
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// Ping always succeeds.
func (*MemoryStore) Ping(_ context.Context) error { return nil }

// Close is a no-op.
func (*MemoryStore) Close() {}
