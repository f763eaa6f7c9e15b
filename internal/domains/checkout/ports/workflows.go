package ports

import (
	"context"

	orderdomain "github.com/nexashop/storefront/internal/domains/orders/domain"
)

// PlaceOrderCommand is a fully priced order submission. Items and the
// shipping address are snapshots taken at submission time.
type PlaceOrderCommand struct {
	UserID    string
	UserName  string
	UserEmail string
	Items     []orderdomain.Item
	Subtotal  float64
	Tax       float64
	Total     float64
	Shipping  orderdomain.ShippingAddress
}

// PlacementResult reports the durably created order and whether the
// server-side cart mirror was cleared. MirrorCleared false is advisory
// only; the order stands regardless.
type PlacementResult struct {
	OrderID       string
	MirrorCleared bool
}

// OrderPlacement exposes the durable order-placement operation required
// by the checkout bounded context.
type OrderPlacement interface {
	PlaceOrder(ctx context.Context, cmd PlaceOrderCommand) (*PlacementResult, error)
}
