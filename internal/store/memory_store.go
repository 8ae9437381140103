package store

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore keeps collections in process memory
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]Snapshot
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]Snapshot),
	}
}

// Load implements Store
func (s *MemoryStore) Load(ctx context.Context, collection string) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.collections[collection]
	// callers must not be able to mutate stored bytes
	snap.Data = slices.Clone(snap.Data)
	return snap, nil
}

// Save implements Store
func (s *MemoryStore) Save(ctx context.Context, collection string, data []byte, expectedVersion int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.collections[collection]
	if !versionMatches(expectedVersion, current.Version) {
		return current.Version, ErrVersionConflict
	}

	next := Snapshot{
		Data:    slices.Clone(data),
		Version: current.Version + 1,
	}
	s.collections[collection] = next
	return next.Version, nil
}
