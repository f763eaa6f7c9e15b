package checkout

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	checkoutports "github.com/nexashop/storefront/internal/domains/checkout/ports"
	orderports "github.com/nexashop/storefront/internal/domains/orders/ports"
)

const (
	// PlaceOrderActivityName persists the priced order through the orders service.
	PlaceOrderActivityName = "checkout.activities.PlaceOrder"
	// ClearCartMirrorActivityName drops the server-side cart snapshot after placement.
	ClearCartMirrorActivityName = "checkout.activities.ClearCartMirror"
)

// Activities groups activities that operate on the checkout bounded context.
type Activities struct {
	orders orderports.Service
	mirror checkoutports.CartMirror
}

// NewActivities wires the checkout collaborators into the Temporal activities bundle.
func NewActivities(orders orderports.Service, mirror checkoutports.CartMirror) *Activities {
	return &Activities{orders: orders, mirror: mirror}
}

// PlaceOrder records the order and returns its assigned identifier.
func (a *Activities) PlaceOrder(ctx context.Context, cmd checkoutports.PlaceOrderCommand) (string, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.orders == nil {
		logger.Error("place order activity not initialized", "userId", cmd.UserID)
		return "", errors.New("place order activity not initialized")
	}
	logger.Info("PlaceOrder activity started", "userId", cmd.UserID, "total", cmd.Total)
	order, err := a.orders.PlaceOrder(ctx, orderports.PlaceOrderInput{
		UserID:    cmd.UserID,
		UserName:  cmd.UserName,
		UserEmail: cmd.UserEmail,
		Items:     cmd.Items,
		Subtotal:  cmd.Subtotal,
		Tax:       cmd.Tax,
		Total:     cmd.Total,
		Shipping:  cmd.Shipping,
	})
	if err != nil {
		logger.Error("PlaceOrder activity failed", "userId", cmd.UserID, "error", err)
		return "", err
	}
	logger.Info("PlaceOrder activity completed", "orderId", order.ID)
	return order.ID, nil
}

// ClearCartMirror drops the durable cart snapshot for the user.
func (a *Activities) ClearCartMirror(ctx context.Context, userID string) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.mirror == nil {
		logger.Info("cart mirror not configured; skipping", "userId", userID)
		return nil
	}
	logger.Info("ClearCartMirror activity started", "userId", userID)
	if err := a.mirror.Clear(ctx, userID); err != nil {
		logger.Error("ClearCartMirror activity failed", "userId", userID, "error", err)
		return err
	}
	logger.Info("ClearCartMirror activity completed", "userId", userID)
	return nil
}
