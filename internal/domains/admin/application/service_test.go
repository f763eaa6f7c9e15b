package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	catalogmemory "github.com/nexashop/storefront/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/nexashop/storefront/internal/domains/catalog/application"
	catalogdomain "github.com/nexashop/storefront/internal/domains/catalog/domain"
	ordersmemory "github.com/nexashop/storefront/internal/domains/orders/adapters/memory"
	ordersapp "github.com/nexashop/storefront/internal/domains/orders/application"
	orderdomain "github.com/nexashop/storefront/internal/domains/orders/domain"
	ordersports "github.com/nexashop/storefront/internal/domains/orders/ports"
)

func seed(t *testing.T) (*Service, *ordersapp.Service, *catalogapp.Service) {
	t.Helper()
	ctx := context.Background()

	catalogRepo := catalogmemory.NewRepository()
	for _, spec := range []struct {
		id    string
		stock int64
	}{
		{"healthy", 50},
		{"low", 3},
		{"gone", 0},
	} {
		stock := spec.stock
		product, err := catalogdomain.NewProduct(spec.id, "Product "+spec.id, 10, &stock, "misc", "", 0, 0)
		require.NoError(t, err)
		_, err = catalogRepo.Save(ctx, product)
		require.NoError(t, err)
	}
	catalogSvc := catalogapp.NewService(catalogRepo)

	ordersSvc := ordersapp.NewService(ordersmemory.NewRepository())
	for _, total := range []float64{44, 11} {
		_, err := ordersSvc.PlaceOrder(ctx, ordersports.PlaceOrderInput{
			UserID:   "u1",
			Items:    []orderdomain.Item{{ProductID: "healthy", Price: total, Quantity: 1}},
			Subtotal: total, Tax: 0, Total: total,
			Shipping: orderdomain.ShippingAddress{Label: "Home"},
		})
		require.NoError(t, err)
	}

	return NewService(ordersSvc, catalogSvc), ordersSvc, catalogSvc
}

func TestStats_Aggregates(t *testing.T) {
	svc, _, _ := seed(t)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(2), stats.TotalOrders)
	require.Equal(t, int64(2), stats.PendingOrders)
	require.InDelta(t, 55.0, stats.TotalRevenue, 1e-9)
	require.Equal(t, int64(3), stats.TotalProducts)
	// Zero stock is out-of-stock, not low stock.
	require.Equal(t, int64(1), stats.LowStockCount)
}

func TestStats_RecomputedAfterMutations(t *testing.T) {
	svc, ordersSvc, _ := seed(t)
	ctx := context.Background()

	orders, err := ordersSvc.ListAllOrders(ctx)
	require.NoError(t, err)
	_, err = svc.UpdateOrderStatus(ctx, orders[0].ID, orderdomain.StatusShipped)
	require.NoError(t, err)

	_, err = svc.CorrectStock(ctx, "low", 20)
	require.NoError(t, err)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), stats.PendingOrders)
	require.Equal(t, int64(0), stats.LowStockCount)
}

func TestUpdateOrderStatus_Passthrough(t *testing.T) {
	svc, ordersSvc, _ := seed(t)
	ctx := context.Background()

	orders, err := ordersSvc.ListAllOrders(ctx)
	require.NoError(t, err)

	updated, err := svc.UpdateOrderStatus(ctx, orders[0].ID, orderdomain.StatusDelivered)
	require.NoError(t, err)
	require.Equal(t, orderdomain.StatusDelivered, updated.Status)
}
