package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/nexashop/storefront/internal/domains/addresses/domain"
	"github.com/nexashop/storefront/internal/domains/addresses/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory address book adapter. Per-user insertion order
// is preserved so the first saved address stays the default selection.
type Repository struct {
	mu        sync.RWMutex
	addresses map[string]*domain.Address
	byUser    map[string][]string
}

func NewRepository() *Repository {
	return &Repository{
		addresses: map[string]*domain.Address{},
		byUser:    map[string][]string{},
	}
}

func (r *Repository) Save(_ context.Context, address *domain.Address) (*domain.Address, error) {
	if address == nil {
		return nil, errors.New("address is nil")
	}
	clone := *address
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.addresses[clone.ID]; !exists {
		r.byUser[clone.UserID] = append(r.byUser[clone.UserID], clone.ID)
	}
	r.addresses[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	address, ok := r.addresses[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *address
	return &clone, nil
}

func (r *Repository) ListByUser(_ context.Context, userID string) ([]*domain.Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := r.byUser[userID]
	list := make([]*domain.Address, 0, len(ids))
	for _, id := range ids {
		if address, ok := r.addresses[id]; ok {
			clone := *address
			list = append(list, &clone)
		}
	}
	return list, nil
}
