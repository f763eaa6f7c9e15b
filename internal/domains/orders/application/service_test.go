package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	ordersmemory "github.com/nexashop/storefront/internal/domains/orders/adapters/memory"
	"github.com/nexashop/storefront/internal/domains/orders/domain"
	"github.com/nexashop/storefront/internal/domains/orders/ports"
)

func placeInput(userID string) ports.PlaceOrderInput {
	return ports.PlaceOrderInput{
		UserID:   userID,
		Items:    []domain.Item{{ProductID: "p1", Title: "Mug", Price: 20, Quantity: 2}},
		Subtotal: 40,
		Tax:      4,
		Total:    44,
		Shipping: domain.ShippingAddress{Label: "Home", Street: "1 Main St", City: "Springfield"},
	}
}

func TestPlaceOrder_AssignsIDAndInitialStatus(t *testing.T) {
	svc := NewService(ordersmemory.NewRepository())

	order, err := svc.PlaceOrder(context.Background(), placeInput("u1"))
	require.NoError(t, err)
	require.NotEmpty(t, order.ID)
	require.Equal(t, domain.StatusOnProcess, order.Status)
	require.InDelta(t, 44.0, order.Total, 1e-9)
}

func TestPlaceOrder_InvalidInput(t *testing.T) {
	svc := NewService(ordersmemory.NewRepository())

	input := placeInput("u1")
	input.Items = nil
	_, err := svc.PlaceOrder(context.Background(), input)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateOrderStatus(t *testing.T) {
	svc := NewService(ordersmemory.NewRepository())
	ctx := context.Background()

	order, err := svc.PlaceOrder(ctx, placeInput("u1"))
	require.NoError(t, err)

	updated, err := svc.UpdateOrderStatus(ctx, order.ID, domain.StatusShipped)
	require.NoError(t, err)
	require.Equal(t, domain.StatusShipped, updated.Status)

	// The stored record carries the acknowledged status.
	stored, err := svc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusShipped, stored.Status)
}

func TestUpdateOrderStatus_UnknownOrder(t *testing.T) {
	svc := NewService(ordersmemory.NewRepository())
	_, err := svc.UpdateOrderStatus(context.Background(), "ghost", domain.StatusShipped)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestListOrders_ScopedToUser(t *testing.T) {
	svc := NewService(ordersmemory.NewRepository())
	ctx := context.Background()

	_, err := svc.PlaceOrder(ctx, placeInput("u1"))
	require.NoError(t, err)
	_, err = svc.PlaceOrder(ctx, placeInput("u2"))
	require.NoError(t, err)

	mine, err := svc.ListOrders(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, "u1", mine[0].UserID)

	all, err := svc.ListAllOrders(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
}
