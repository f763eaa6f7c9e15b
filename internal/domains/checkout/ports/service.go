package ports

import (
	"context"

	addressdomain "github.com/nexashop/storefront/internal/domains/addresses/domain"
	cartdomain "github.com/nexashop/storefront/internal/domains/cart/domain"
	"github.com/nexashop/storefront/internal/domains/checkout/domain"
)

// View is the state presented when a checkout page loads: the cart
// snapshot, the user's address book, and the attempt so far.
type View struct {
	Attempt         domain.Attempt
	Cart            cartdomain.State
	Totals          domain.Totals
	Addresses       []*addressdomain.Address
	RequiresAddress bool
	SelectedAddress string
}

// SubmitInput identifies the submitting user and their address choice.
type SubmitInput struct {
	UserID    string
	UserName  string
	UserEmail string
	AddressID string
}

// Receipt is returned once an order has been durably created.
type Receipt struct {
	OrderID string
	Totals  domain.Totals
}

// Service drives a user's checkout attempt.
type Service interface {
	Begin(ctx context.Context, userID string) (*View, error)
	Submit(ctx context.Context, input SubmitInput) (*Receipt, error)
}
