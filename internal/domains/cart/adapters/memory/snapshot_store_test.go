package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nexashop/storefront/internal/domains/cart/domain"
)

func TestSnapshotStore_RoundTrip(t *testing.T) {
	store := NewSnapshotStore()
	ctx := context.Background()

	stock := int64(7)
	state := domain.State{
		Lines: []domain.Line{
			{ProductRef: domain.ProductRef{ProductID: "p1", Title: "Mug", Price: 12.5, Stock: &stock}, Quantity: 2},
			{ProductRef: domain.ProductRef{ProductID: "p2", Title: "Pen", Price: 1.25}, Quantity: 5},
		},
		Wishlist: []domain.ProductRef{
			{ProductID: "p3", Title: "Lamp", Price: 40},
		},
	}
	require.NoError(t, store.Save(ctx, "u1", state))

	loaded, err := store.Load(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Equal(t, state.Lines, loaded.Lines)
	require.Equal(t, state.Wishlist, loaded.Wishlist)
}

func TestSnapshotStore_MissingNamespace(t *testing.T) {
	store := NewSnapshotStore()
	loaded, err := store.Load(context.Background(), "nobody")
	require.NoError(t, err)
	require.Nil(t, loaded)
}

func TestSnapshotStore_Delete(t *testing.T) {
	store := NewSnapshotStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "u1", domain.State{Lines: []domain.Line{{ProductRef: domain.ProductRef{ProductID: "p1"}, Quantity: 1}}}))

	require.NoError(t, store.Delete(ctx, "u1"))
	loaded, err := store.Load(ctx, "u1")
	require.NoError(t, err)
	require.Nil(t, loaded)
}

func TestSnapshotStore_SaveIsolation(t *testing.T) {
	store := NewSnapshotStore()
	ctx := context.Background()

	state := domain.State{Lines: []domain.Line{{ProductRef: domain.ProductRef{ProductID: "p1"}, Quantity: 1}}}
	require.NoError(t, store.Save(ctx, "u1", state))

	// Mutating the caller's copy must not leak into the stored snapshot.
	state.Lines[0].Quantity = 99
	loaded, err := store.Load(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, int64(1), loaded.Lines[0].Quantity)
}
