//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/nexashop/storefront/internal/domains/catalog/domain"
	"github.com/nexashop/storefront/internal/domains/catalog/ports"
	"github.com/nexashop/storefront/internal/platform/migrations"
)

func setupCatalogPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("storefront_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func newTestProduct(t *testing.T, id string, stock int64, category string) *domain.Product {
	t.Helper()
	product, err := domain.NewProduct(id, "Product "+id, 9.99, &stock, category, "", 4.2, 17)
	require.NoError(t, err)
	return product
}

func TestRepository_SaveAndGetByID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCatalogPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	product := newTestProduct(t, "p1", 5, "mugs")
	saved, err := repo.Save(ctx, product)
	require.NoError(t, err)
	assert.Equal(t, product.ID, saved.ID)

	fetched, err := repo.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.Title, fetched.Title)
	require.NotNil(t, fetched.Stock)
	assert.Equal(t, int64(5), *fetched.Stock)
}

func TestRepository_UpsertReplacesRecord(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCatalogPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	product := newTestProduct(t, "p1", 5, "mugs")
	_, err := repo.Save(ctx, product)
	require.NoError(t, err)

	require.NoError(t, product.CorrectStock(12))
	updated, err := repo.Save(ctx, product)
	require.NoError(t, err)
	require.NotNil(t, updated.Stock)
	assert.Equal(t, int64(12), *updated.Stock)
}

func TestRepository_Categories(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCatalogPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	_, err := repo.Save(ctx, newTestProduct(t, "p1", 5, "mugs"))
	require.NoError(t, err)
	_, err = repo.Save(ctx, newTestProduct(t, "p2", 5, "pens"))
	require.NoError(t, err)
	_, err = repo.Save(ctx, newTestProduct(t, "p3", 5, "mugs"))
	require.NoError(t, err)

	categories, err := repo.Categories(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"mugs", "pens"}, categories)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCatalogPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	_, err := repo.GetByID(context.Background(), "ghost")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}
