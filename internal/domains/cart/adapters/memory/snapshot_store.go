package memory

import (
	"context"
	"sync"

	"github.com/nexashop/storefront/internal/domains/cart/domain"
	"github.com/nexashop/storefront/internal/domains/cart/ports"
)

var _ ports.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore keeps cart snapshots in memory for development and tests.
type SnapshotStore struct {
	mu        sync.RWMutex
	snapshots map[string]domain.State
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{snapshots: map[string]domain.State{}}
}

func (s *SnapshotStore) Load(_ context.Context, namespace string) (*domain.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.snapshots[namespace]
	if !ok {
		return nil, nil
	}
	clone := state.Snapshot()
	return &clone, nil
}

func (s *SnapshotStore) Save(_ context.Context, namespace string, state domain.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[namespace] = state.Snapshot()
	return nil
}

func (s *SnapshotStore) Delete(_ context.Context, namespace string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, namespace)
	return nil
}
