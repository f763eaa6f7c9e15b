package ports

import (
	"context"

	"github.com/nexashop/storefront/internal/domains/cart/domain"
)

// Service is the cart/wishlist engine. All mutations validate stock bounds
// at the point of mutation and persist the snapshot afterwards; validation
// rejections leave state unchanged.
//
// The checkout orchestrator consumes Snapshot and ClearCart only; it never
// reaches into cart internals.
type Service interface {
	Cart(ctx context.Context, userID string) (domain.State, error)
	AddToCart(ctx context.Context, userID, productID string) (domain.State, error)
	RemoveFromCart(ctx context.Context, userID, productID string) (domain.State, error)
	UpdateQuantity(ctx context.Context, userID, productID string, quantity int64) (domain.State, error)
	ClearCart(ctx context.Context, userID string) (domain.State, error)

	AddToWishlist(ctx context.Context, userID, productID string) (domain.State, error)
	RemoveFromWishlist(ctx context.Context, userID, productID string) (domain.State, error)
	IsInWishlist(ctx context.Context, userID, productID string) (bool, error)

	CartTotal(ctx context.Context, userID string) (float64, error)
	CartItemsCount(ctx context.Context, userID string) (int64, error)
	Snapshot(ctx context.Context, userID string) (domain.State, error)
}
