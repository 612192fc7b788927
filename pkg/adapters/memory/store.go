package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/formstate/pkg/domain"
	"github.com/mohae/deepcopy"
)

// Store implements ports.SnapshotStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Snapshot
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Snapshot),
	}
}

// Save keeps a deep copy of the snapshot so later edits by the caller are not visible.
func (s *Store) Save(ctx context.Context, formID string, snap *domain.Snapshot) error {
	copied := deepcopy.Copy(snap).(*domain.Snapshot)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[formID] = copied
	return nil
}

// Load returns a deep copy of the stored snapshot.
func (s *Store) Load(ctx context.Context, formID string) (*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.data[formID]
	if !ok {
		return nil, domain.ErrFormNotFound
	}
	return deepcopy.Copy(snap).(*domain.Snapshot), nil
}

// Delete removes the snapshot.
func (s *Store) Delete(ctx context.Context, formID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, formID)
	return nil
}

// List returns the stored form IDs in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
