package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	for _, raw := range []string{"On Process", "Shipped", "Delivered"} {
		status, err := ParseStatus(raw)
		require.NoError(t, err)
		require.Equal(t, Status(raw), status)
	}

	_, err := ParseStatus("Cancelled")
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestNewOrder_StartsOnProcess(t *testing.T) {
	order, err := NewOrder("o1", "u1",
		[]Item{{ProductID: "p1", Quantity: 2, Price: 20}},
		40, 4, 44, ShippingAddress{Label: "Home"})
	require.NoError(t, err)
	require.Equal(t, StatusOnProcess, order.Status)
	require.False(t, order.CreatedAt.IsZero())
	require.Equal(t, int64(2), order.ItemsCount())
}

func TestNewOrder_Validation(t *testing.T) {
	_, err := NewOrder("o1", "", []Item{{ProductID: "p1", Quantity: 1}}, 0, 0, 0, ShippingAddress{})
	require.ErrorIs(t, err, ErrEmptyUserID)

	_, err = NewOrder("o1", "u1", nil, 0, 0, 0, ShippingAddress{})
	require.ErrorIs(t, err, ErrNoItems)

	_, err = NewOrder("o1", "u1", []Item{{ProductID: "p1", Quantity: 0}}, 0, 0, 0, ShippingAddress{})
	require.ErrorIs(t, err, ErrInvalidQty)
}

func TestUpdateStatus(t *testing.T) {
	order, err := NewOrder("o1", "u1", []Item{{ProductID: "p1", Quantity: 1}}, 10, 1, 11, ShippingAddress{})
	require.NoError(t, err)

	require.NoError(t, order.UpdateStatus(StatusShipped))
	require.Equal(t, StatusShipped, order.Status)

	require.ErrorIs(t, order.UpdateStatus(Status("Lost")), ErrInvalidStatus)
	require.Equal(t, StatusShipped, order.Status)
}

func TestProductIDs_Distinct(t *testing.T) {
	order := Order{Items: []Item{
		{ProductID: "a", Quantity: 1},
		{ProductID: "b", Quantity: 1},
		{ProductID: "a", Quantity: 2},
	}}
	require.Equal(t, []string{"a", "b"}, order.ProductIDs())
}
