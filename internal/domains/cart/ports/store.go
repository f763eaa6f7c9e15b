package ports

import (
	"context"

	"github.com/nexashop/storefront/internal/domains/cart/domain"
)

// SnapshotStore is the durable persistence adapter for cart state. One
// namespace (the user id) maps to one serialized blob holding cart and
// wishlist together; every save overwrites the blob wholesale.
//
// Writes are best-effort durability: the engine treats the in-memory state
// as authoritative for the session and never fails a mutation on a store
// error.
type SnapshotStore interface {
	// Load returns the stored state, or nil when the namespace is unknown.
	Load(ctx context.Context, namespace string) (*domain.State, error)
	// Save overwrites the stored state for the namespace.
	Save(ctx context.Context, namespace string, state domain.State) error
	// Delete removes the stored state for the namespace.
	Delete(ctx context.Context, namespace string) error
}
