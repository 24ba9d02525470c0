package store

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory explanation store for development and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Explanation
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*Explanation)}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Explanation, error) {
	s.mu.RLock()
	rec, ok := s.records[id]
	s.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if rec.IsExpired() {
		_ = s.Delete(ctx, id)
		return nil, nil
	}
	return rec, nil
}

func (s *MemoryStore) Set(ctx context.Context, rec *Explanation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ID] = rec
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
	return nil
}

func (s *MemoryStore) Cleanup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, rec := range s.records {
		if rec.IsExpired() {
			delete(s.records, id)
		}
	}
	return nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
