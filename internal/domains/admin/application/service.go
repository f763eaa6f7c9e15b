package application

import (
	"context"

	"github.com/nexashop/storefront/internal/domains/admin/ports"
	catalogdomain "github.com/nexashop/storefront/internal/domains/catalog/domain"
	catalogports "github.com/nexashop/storefront/internal/domains/catalog/ports"
	orderdomain "github.com/nexashop/storefront/internal/domains/orders/domain"
	orderports "github.com/nexashop/storefront/internal/domains/orders/ports"
)

// lowStockThreshold marks products that are close to running out.
// A product counts as low stock when 0 < stock < threshold.
const lowStockThreshold = 10

// Service composes the orders and catalog services into the admin
// reconciliation view. It holds no state of its own.
type Service struct {
	orders  orderports.Service
	catalog catalogports.Service
}

func NewService(orders orderports.Service, catalog catalogports.Service) *Service {
	return &Service{orders: orders, catalog: catalog}
}

// Stats recomputes the aggregate figures from the full order and
// product collections.
func (s *Service) Stats(ctx context.Context) (*ports.Stats, error) {
	orders, err := s.orders.ListAllOrders(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	stats := &ports.Stats{
		TotalOrders:   int64(len(orders)),
		TotalProducts: int64(len(products)),
	}
	for _, order := range orders {
		stats.TotalRevenue += order.Total
		if order.Status == orderdomain.StatusOnProcess {
			stats.PendingOrders++
		}
	}
	for _, product := range products {
		if product.StockKnown() && *product.Stock > 0 && *product.Stock < lowStockThreshold {
			stats.LowStockCount++
		}
	}
	return stats, nil
}

// ListOrders returns every order across all users for the admin table.
func (s *Service) ListOrders(ctx context.Context) ([]*orderdomain.Order, error) {
	return s.orders.ListAllOrders(ctx)
}

// UpdateOrderStatus forwards the transition to the orders backend. The
// returned order carries the acknowledged state.
func (s *Service) UpdateOrderStatus(ctx context.Context, orderID string, status orderdomain.Status) (*orderdomain.Order, error) {
	return s.orders.UpdateOrderStatus(ctx, orderID, status)
}

// ListProducts returns the full catalog for the admin inventory table.
func (s *Service) ListProducts(ctx context.Context) ([]*catalogdomain.Product, error) {
	return s.catalog.ListProducts(ctx)
}

// CorrectStock forwards the stock correction to the catalog backend.
func (s *Service) CorrectStock(ctx context.Context, productID string, stock int64) (*catalogdomain.Product, error) {
	return s.catalog.CorrectStock(ctx, productID, stock)
}

var _ ports.Service = (*Service)(nil)
