package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	addressesmemory "github.com/nexashop/storefront/internal/domains/addresses/adapters/memory"
	addressesapp "github.com/nexashop/storefront/internal/domains/addresses/application"
	addressesports "github.com/nexashop/storefront/internal/domains/addresses/ports"
	cartmemory "github.com/nexashop/storefront/internal/domains/cart/adapters/memory"
	cartapp "github.com/nexashop/storefront/internal/domains/cart/application"
	cartports "github.com/nexashop/storefront/internal/domains/cart/ports"
	catalogmemory "github.com/nexashop/storefront/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/nexashop/storefront/internal/domains/catalog/application"
	catalogdomain "github.com/nexashop/storefront/internal/domains/catalog/domain"
	checkoutmirror "github.com/nexashop/storefront/internal/domains/checkout/adapters/mirror"
	checkoutworkflows "github.com/nexashop/storefront/internal/domains/checkout/adapters/workflows"
	"github.com/nexashop/storefront/internal/domains/checkout/domain"
	"github.com/nexashop/storefront/internal/domains/checkout/ports"
	ordersmemory "github.com/nexashop/storefront/internal/domains/orders/adapters/memory"
	ordersapp "github.com/nexashop/storefront/internal/domains/orders/application"
)

type fixture struct {
	cart      *cartapp.Service
	addresses *addressesapp.Service
	orders    *ordersapp.Service
	snapshots cartports.SnapshotStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	catalogRepo := catalogmemory.NewRepository()
	for _, spec := range []struct {
		id    string
		price float64
		stock int64
	}{
		{"p1", 20, 10},
		{"p2", 5, 10},
	} {
		stock := spec.stock
		product, err := catalogdomain.NewProduct(spec.id, "Product "+spec.id, spec.price, &stock, "misc", "", 0, 0)
		require.NoError(t, err)
		_, err = catalogRepo.Save(ctx, product)
		require.NoError(t, err)
	}
	snapshots := cartmemory.NewSnapshotStore()
	return &fixture{
		cart:      cartapp.NewService(catalogapp.NewService(catalogRepo), snapshots),
		addresses: addressesapp.NewService(addressesmemory.NewRepository()),
		orders:    ordersapp.NewService(ordersmemory.NewRepository()),
		snapshots: snapshots,
	}
}

func (f *fixture) fillCart(t *testing.T, userID string) {
	t.Helper()
	ctx := context.Background()
	// price 20 x 2 + price 5 x 1 = 45.
	for i := 0; i < 2; i++ {
		_, err := f.cart.AddToCart(ctx, userID, "p1")
		require.NoError(t, err)
	}
	_, err := f.cart.AddToCart(ctx, userID, "p2")
	require.NoError(t, err)
}

func (f *fixture) createAddress(t *testing.T, userID string) string {
	t.Helper()
	address, err := f.addresses.CreateAddress(context.Background(), userID, addressesports.CreateAddressInput{
		Label:  "Home",
		Street: "1 Main St",
		City:   "Springfield",
	})
	require.NoError(t, err)
	return address.ID
}

func (f *fixture) inlinePlacer() ports.OrderPlacement {
	return checkoutworkflows.NewInlineOrderPlacement(f.orders, checkoutmirror.NewSnapshotMirror(f.snapshots))
}

func TestSubmit_ComputesTotalsWithFlatTax(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t, "u1")
	addressID := f.createAddress(t, "u1")
	svc := NewService(f.cart, f.addresses, f.inlinePlacer())

	receipt, err := svc.Submit(context.Background(), ports.SubmitInput{UserID: "u1", AddressID: addressID})
	require.NoError(t, err)
	require.NotEmpty(t, receipt.OrderID)
	require.InDelta(t, 45.00, receipt.Totals.Subtotal, 1e-9)
	require.InDelta(t, 4.50, receipt.Totals.Tax, 1e-9)
	require.InDelta(t, 49.50, receipt.Totals.Total, 1e-9)

	order, err := f.orders.GetOrder(context.Background(), receipt.OrderID)
	require.NoError(t, err)
	require.Equal(t, "u1", order.UserID)
	require.Len(t, order.Items, 2)
	require.InDelta(t, 49.50, order.Total, 1e-9)
}

func TestSubmit_EmptyCartRejectedBeforePlacement(t *testing.T) {
	f := newFixture(t)
	addressID := f.createAddress(t, "u1")
	placer := &countingPlacer{inner: f.inlinePlacer()}
	svc := NewService(f.cart, f.addresses, placer)

	_, err := svc.Submit(context.Background(), ports.SubmitInput{UserID: "u1", AddressID: addressID})
	require.ErrorIs(t, err, domain.ErrEmptyCart)
	require.Zero(t, placer.calls)
}

func TestSubmit_NoAddressSelected(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t, "u1")
	placer := &countingPlacer{inner: f.inlinePlacer()}
	svc := NewService(f.cart, f.addresses, placer)

	_, err := svc.Submit(context.Background(), ports.SubmitInput{UserID: "u1"})
	require.ErrorIs(t, err, domain.ErrNoAddressSelected)
	require.Zero(t, placer.calls)
}

func TestSubmit_UnknownAddress(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t, "u1")
	placer := &countingPlacer{inner: f.inlinePlacer()}
	svc := NewService(f.cart, f.addresses, placer)

	_, err := svc.Submit(context.Background(), ports.SubmitInput{UserID: "u1", AddressID: "ghost"})
	require.ErrorIs(t, err, domain.ErrUnknownAddress)
	require.Zero(t, placer.calls)
}

func TestSubmit_ForeignAddressRejected(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t, "u1")
	otherID := f.createAddress(t, "someone-else")
	svc := NewService(f.cart, f.addresses, f.inlinePlacer())

	_, err := svc.Submit(context.Background(), ports.SubmitInput{UserID: "u1", AddressID: otherID})
	require.ErrorIs(t, err, domain.ErrUnknownAddress)
}

func TestSubmit_ClearsCartAfterSuccess(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t, "u1")
	addressID := f.createAddress(t, "u1")
	svc := NewService(f.cart, f.addresses, f.inlinePlacer())

	ctx := context.Background()
	_, err := svc.Submit(ctx, ports.SubmitInput{UserID: "u1", AddressID: addressID})
	require.NoError(t, err)

	state, err := f.cart.Cart(ctx, "u1")
	require.NoError(t, err)
	require.True(t, state.Empty())

	stored, err := f.snapshots.Load(ctx, "u1")
	require.NoError(t, err)
	if stored != nil {
		require.True(t, stored.Empty())
	}
}

func TestSubmit_MirrorClearFailureStillSucceeds(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t, "u1")
	addressID := f.createAddress(t, "u1")
	placer := checkoutworkflows.NewInlineOrderPlacement(f.orders, failingMirror{})
	svc := NewService(f.cart, f.addresses, placer)

	ctx := context.Background()
	receipt, err := svc.Submit(ctx, ports.SubmitInput{UserID: "u1", AddressID: addressID})
	require.NoError(t, err)
	require.NotEmpty(t, receipt.OrderID)

	// Local cart is cleared even though the mirror clear failed.
	state, err := f.cart.Cart(ctx, "u1")
	require.NoError(t, err)
	require.True(t, state.Empty())
}

func TestSubmit_PlacementFailureIsRetryable(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t, "u1")
	addressID := f.createAddress(t, "u1")
	boom := errors.New("order backend down")
	svc := NewService(f.cart, f.addresses, &countingPlacer{err: boom})

	ctx := context.Background()
	_, err := svc.Submit(ctx, ports.SubmitInput{UserID: "u1", AddressID: addressID})
	require.ErrorIs(t, err, boom)

	// Cart untouched; a retry with a healthy placer succeeds.
	state, err := f.cart.Cart(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, int64(3), state.ItemsCount())

	retried := NewService(f.cart, f.addresses, f.inlinePlacer())
	receipt, err := retried.Submit(ctx, ports.SubmitInput{UserID: "u1", AddressID: addressID})
	require.NoError(t, err)
	require.NotEmpty(t, receipt.OrderID)
}

func TestSubmit_SecondConcurrentSubmissionBlocked(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t, "u1")
	addressID := f.createAddress(t, "u1")
	placer := &blockingPlacer{started: make(chan struct{}), release: make(chan struct{})}
	svc := NewService(f.cart, f.addresses, placer)

	ctx := context.Background()
	done := make(chan error, 1)
	go func() {
		_, err := svc.Submit(ctx, ports.SubmitInput{UserID: "u1", AddressID: addressID})
		done <- err
	}()

	select {
	case <-placer.started:
	case <-time.After(time.Second):
		t.Fatal("first submission never reached the placer")
	}

	_, err := svc.Submit(ctx, ports.SubmitInput{UserID: "u1", AddressID: addressID})
	require.ErrorIs(t, err, domain.ErrSubmissionInFlight)

	close(placer.release)
	require.NoError(t, <-done)
}

func TestBegin_DefaultsToFirstAddress(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t, "u1")
	firstID := f.createAddress(t, "u1")
	f.createAddress(t, "u1")
	svc := NewService(f.cart, f.addresses, f.inlinePlacer())

	view, err := svc.Begin(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, domain.PhaseAddressLoaded, view.Attempt.Phase)
	require.Equal(t, firstID, view.SelectedAddress)
	require.False(t, view.RequiresAddress)
	require.InDelta(t, 45.00, view.Totals.Subtotal, 1e-9)
}

func TestBegin_NoAddressesRequiresCreation(t *testing.T) {
	f := newFixture(t)
	svc := NewService(f.cart, f.addresses, f.inlinePlacer())

	view, err := svc.Begin(context.Background(), "u1")
	require.NoError(t, err)
	require.True(t, view.RequiresAddress)
	require.Empty(t, view.SelectedAddress)
}

type countingPlacer struct {
	inner ports.OrderPlacement
	err   error
	calls int
}

func (p *countingPlacer) PlaceOrder(ctx context.Context, cmd ports.PlaceOrderCommand) (*ports.PlacementResult, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.inner.PlaceOrder(ctx, cmd)
}

type blockingPlacer struct {
	started chan struct{}
	release chan struct{}
}

func (p *blockingPlacer) PlaceOrder(context.Context, ports.PlaceOrderCommand) (*ports.PlacementResult, error) {
	close(p.started)
	<-p.release
	return &ports.PlacementResult{OrderID: "order-1", MirrorCleared: true}, nil
}

type failingMirror struct{}

func (failingMirror) Clear(context.Context, string) error {
	return errors.New("mirror unavailable")
}
