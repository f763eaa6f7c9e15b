package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	catalogmemory "github.com/nexashop/storefront/internal/domains/catalog/adapters/memory"
	"github.com/nexashop/storefront/internal/domains/catalog/domain"
	"github.com/nexashop/storefront/internal/domains/catalog/ports"
)

func product(t *testing.T, id string, price float64, stock int64, category string) *domain.Product {
	t.Helper()
	p, err := domain.NewProduct(id, "Product "+id, price, &stock, category, "", 0, 0)
	require.NoError(t, err)
	return p
}

func TestCorrectStock(t *testing.T) {
	repo := catalogmemory.NewRepository()
	ctx := context.Background()
	_, err := repo.Save(ctx, product(t, "p1", 9.99, 3, "misc"))
	require.NoError(t, err)
	svc := NewService(repo)

	updated, err := svc.CorrectStock(ctx, "p1", 12)
	require.NoError(t, err)
	require.Equal(t, int64(12), *updated.Stock)

	stored, err := svc.GetProduct(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, int64(12), *stored.Stock)
}

func TestCorrectStock_RejectsNegative(t *testing.T) {
	repo := catalogmemory.NewRepository()
	ctx := context.Background()
	_, err := repo.Save(ctx, product(t, "p1", 9.99, 3, "misc"))
	require.NoError(t, err)
	svc := NewService(repo)

	_, err = svc.CorrectStock(ctx, "p1", -1)
	require.ErrorIs(t, err, ErrInvalidInput)

	stored, err := svc.GetProduct(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, int64(3), *stored.Stock)
}

func TestCorrectStock_UnknownProduct(t *testing.T) {
	svc := NewService(catalogmemory.NewRepository())
	_, err := svc.CorrectStock(context.Background(), "ghost", 5)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestImportProducts_SkipsInvalid(t *testing.T) {
	svc := NewService(catalogmemory.NewRepository())
	ctx := context.Background()

	valid := product(t, "p1", 9.99, 3, "mugs")
	invalid := &domain.Product{ID: "", Title: "nameless"}

	imported, err := svc.ImportProducts(ctx, []*domain.Product{valid, invalid, nil})
	require.NoError(t, err)
	require.Equal(t, 1, imported)

	products, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
}

func TestCategories(t *testing.T) {
	repo := catalogmemory.NewRepository()
	ctx := context.Background()
	_, err := repo.Save(ctx, product(t, "p1", 1, 1, "mugs"))
	require.NoError(t, err)
	_, err = repo.Save(ctx, product(t, "p2", 1, 1, "pens"))
	require.NoError(t, err)
	_, err = repo.Save(ctx, product(t, "p3", 1, 1, "mugs"))
	require.NoError(t, err)
	svc := NewService(repo)

	categories, err := svc.Categories(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"mugs", "pens"}, categories)
}
