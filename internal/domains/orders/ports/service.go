package ports

import (
	"context"

	"github.com/nexashop/storefront/internal/domains/orders/domain"
)

// PlaceOrderInput carries a fully priced order ready for persistence.
// Totals are computed by the checkout orchestrator; this layer records
// them as given.
type PlaceOrderInput struct {
	UserID    string
	UserName  string
	UserEmail string
	Items     []domain.Item
	Subtotal  float64
	Tax       float64
	Total     float64
	Shipping  domain.ShippingAddress
}

// Service exposes the order use cases.
type Service interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*domain.Order, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	ListOrders(ctx context.Context, userID string) ([]*domain.Order, error)
	ListAllOrders(ctx context.Context) ([]*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status domain.Status) (*domain.Order, error)
}
