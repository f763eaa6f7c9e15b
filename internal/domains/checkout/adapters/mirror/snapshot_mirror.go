package mirror

import (
	"context"
	"errors"

	cartports "github.com/nexashop/storefront/internal/domains/cart/ports"
	"github.com/nexashop/storefront/internal/domains/checkout/ports"
)

var _ ports.CartMirror = (*SnapshotMirror)(nil)

// SnapshotMirror clears the durable cart snapshot that mirrors the
// user's in-memory cart.
type SnapshotMirror struct {
	store cartports.SnapshotStore
}

func NewSnapshotMirror(store cartports.SnapshotStore) *SnapshotMirror {
	return &SnapshotMirror{store: store}
}

func (m *SnapshotMirror) Clear(ctx context.Context, userID string) error {
	if m == nil || m.store == nil {
		return errors.New("cart mirror not configured")
	}
	return m.store.Delete(ctx, userID)
}
