package ports

import (
	"context"

	"github.com/nexashop/storefront/internal/domains/catalog/domain"
)

// Service exposes catalog use cases to adapters and sibling contexts. The
// cart engine consumes it read-only; stock correction is admin-only.
type Service interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	Categories(ctx context.Context) ([]string, error)
	CorrectStock(ctx context.Context, id string, stock int64) (*domain.Product, error)
	ImportProducts(ctx context.Context, products []*domain.Product) (int, error)
}

// SupplierFeed pulls product records from the upstream supplier catalog.
type SupplierFeed interface {
	FetchProducts(ctx context.Context) ([]*domain.Product, error)
}
