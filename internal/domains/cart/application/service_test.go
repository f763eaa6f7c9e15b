package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	cartmemory "github.com/nexashop/storefront/internal/domains/cart/adapters/memory"
	cartdomain "github.com/nexashop/storefront/internal/domains/cart/domain"
	catalogmemory "github.com/nexashop/storefront/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/nexashop/storefront/internal/domains/catalog/application"
	catalogdomain "github.com/nexashop/storefront/internal/domains/catalog/domain"
	catalogports "github.com/nexashop/storefront/internal/domains/catalog/ports"
)

func seedCatalog(t *testing.T, products ...*catalogdomain.Product) catalogports.Service {
	t.Helper()
	repo := catalogmemory.NewRepository()
	for _, product := range products {
		_, err := repo.Save(context.Background(), product)
		require.NoError(t, err)
	}
	return catalogapp.NewService(repo)
}

func product(t *testing.T, id string, price float64, stock *int64) *catalogdomain.Product {
	t.Helper()
	p, err := catalogdomain.NewProduct(id, "Product "+id, price, stock, "misc", "", 0, 0)
	require.NoError(t, err)
	return p
}

func stockOf(v int64) *int64 { return &v }

func TestAddToCart_EnforcesStockBound(t *testing.T) {
	catalog := seedCatalog(t, product(t, "p1", 9.99, stockOf(2)))
	engine := NewService(catalog, cartmemory.NewSnapshotStore())

	ctx := context.Background()
	_, err := engine.AddToCart(ctx, "u1", "p1")
	require.NoError(t, err)
	_, err = engine.AddToCart(ctx, "u1", "p1")
	require.NoError(t, err)

	state, err := engine.AddToCart(ctx, "u1", "p1")
	require.ErrorIs(t, err, ErrRejected)
	require.ErrorIs(t, err, cartdomain.ErrStockExceeded)
	require.Equal(t, int64(2), state.Lines[0].Quantity)
}

func TestAddToCart_UnknownProduct(t *testing.T) {
	catalog := seedCatalog(t)
	engine := NewService(catalog, cartmemory.NewSnapshotStore())

	_, err := engine.AddToCart(context.Background(), "u1", "ghost")
	require.ErrorIs(t, err, catalogports.ErrNotFound)
}

func TestUpdateQuantity_ZeroRemoves(t *testing.T) {
	catalog := seedCatalog(t, product(t, "p1", 9.99, stockOf(5)))
	engine := NewService(catalog, cartmemory.NewSnapshotStore())

	ctx := context.Background()
	_, err := engine.AddToCart(ctx, "u1", "p1")
	require.NoError(t, err)

	state, err := engine.UpdateQuantity(ctx, "u1", "p1", 0)
	require.NoError(t, err)
	require.True(t, state.Empty())
}

func TestCartTotal_UsesCapturedPrices(t *testing.T) {
	repo := catalogmemory.NewRepository()
	ctx := context.Background()
	_, err := repo.Save(ctx, product(t, "p1", 20, stockOf(10)))
	require.NoError(t, err)
	catalog := catalogapp.NewService(repo)
	engine := NewService(catalog, cartmemory.NewSnapshotStore())

	_, err = engine.AddToCart(ctx, "u1", "p1")
	require.NoError(t, err)

	// Live price change after the line was captured.
	_, err = repo.Save(ctx, product(t, "p1", 99, stockOf(10)))
	require.NoError(t, err)

	total, err := engine.CartTotal(ctx, "u1")
	require.NoError(t, err)
	require.InDelta(t, 20.0, total, 1e-9)
}

func TestWishlist_AddIsIdempotent(t *testing.T) {
	catalog := seedCatalog(t, product(t, "p1", 9.99, stockOf(5)))
	engine := NewService(catalog, cartmemory.NewSnapshotStore())

	ctx := context.Background()
	state, err := engine.AddToWishlist(ctx, "u1", "p1")
	require.NoError(t, err)
	require.Len(t, state.Wishlist, 1)

	state, err = engine.AddToWishlist(ctx, "u1", "p1")
	require.NoError(t, err)
	require.Len(t, state.Wishlist, 1)

	ok, err := engine.IsInWishlist(ctx, "u1", "p1")
	require.NoError(t, err)
	require.True(t, ok)
}

type failingStore struct {
	loads  int
	saves  int
	loaded *cartdomain.State
}

func (f *failingStore) Load(context.Context, string) (*cartdomain.State, error) {
	f.loads++
	if f.loaded != nil {
		return f.loaded, nil
	}
	return nil, errors.New("store unavailable")
}

func (f *failingStore) Save(context.Context, string, cartdomain.State) error {
	f.saves++
	return errors.New("store unavailable")
}

func (f *failingStore) Delete(context.Context, string) error {
	return errors.New("store unavailable")
}

func TestMutations_SurviveSnapshotStoreFailure(t *testing.T) {
	catalog := seedCatalog(t, product(t, "p1", 9.99, stockOf(5)))
	store := &failingStore{}
	engine := NewService(catalog, store)

	ctx := context.Background()
	state, err := engine.AddToCart(ctx, "u1", "p1")
	require.NoError(t, err)
	require.Equal(t, int64(1), state.ItemsCount())
	require.Equal(t, 1, store.saves)

	// The in-memory state stays authoritative across further operations.
	state, err = engine.AddToCart(ctx, "u1", "p1")
	require.NoError(t, err)
	require.Equal(t, int64(2), state.Lines[0].Quantity)
}

func TestCart_RehydratesFromSnapshotStore(t *testing.T) {
	catalog := seedCatalog(t, product(t, "p1", 15, stockOf(5)))
	store := cartmemory.NewSnapshotStore()

	ctx := context.Background()
	first := NewService(catalog, store)
	_, err := first.AddToCart(ctx, "u1", "p1")
	require.NoError(t, err)
	_, err = first.AddToCart(ctx, "u1", "p1")
	require.NoError(t, err)
	_, err = first.AddToWishlist(ctx, "u1", "p1")
	require.NoError(t, err)

	// A fresh engine sharing the store reconstructs the same state.
	second := NewService(catalog, store)
	state, err := second.Cart(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, state.Lines, 1)
	require.Equal(t, "p1", state.Lines[0].ProductID)
	require.Equal(t, int64(2), state.Lines[0].Quantity)
	require.InDelta(t, 15.0, state.Lines[0].Price, 1e-9)
	require.True(t, state.HasWish("p1"))
}

func TestClearCart_PersistsAndKeepsWishlist(t *testing.T) {
	catalog := seedCatalog(t, product(t, "p1", 15, stockOf(5)))
	store := cartmemory.NewSnapshotStore()
	engine := NewService(catalog, store)

	ctx := context.Background()
	_, err := engine.AddToCart(ctx, "u1", "p1")
	require.NoError(t, err)
	_, err = engine.AddToWishlist(ctx, "u1", "p1")
	require.NoError(t, err)

	state, err := engine.ClearCart(ctx, "u1")
	require.NoError(t, err)
	require.True(t, state.Empty())
	require.True(t, state.HasWish("p1"))

	stored, err := store.Load(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.True(t, stored.Empty())
	require.True(t, stored.HasWish("p1"))
}
