package ports

import (
	"context"

	catalogdomain "github.com/nexashop/storefront/internal/domains/catalog/domain"
	orderdomain "github.com/nexashop/storefront/internal/domains/orders/domain"
)

// Stats aggregates the store's state for the reconciliation view.
// Figures are recomputed from the full collections on every call.
type Stats struct {
	TotalOrders   int64
	PendingOrders int64
	TotalRevenue  float64
	TotalProducts int64
	LowStockCount int64
}

// Service exposes the admin reconciliation use cases. Mutations are
// passthroughs to the owning backends; the view applies them only after
// the backend acknowledged the write.
type Service interface {
	Stats(ctx context.Context) (*Stats, error)
	ListOrders(ctx context.Context) ([]*orderdomain.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status orderdomain.Status) (*orderdomain.Order, error)
	ListProducts(ctx context.Context) ([]*catalogdomain.Product, error)
	CorrectStock(ctx context.Context, productID string, stock int64) (*catalogdomain.Product, error)
}
