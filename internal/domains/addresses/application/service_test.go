package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	addressesmemory "github.com/nexashop/storefront/internal/domains/addresses/adapters/memory"
	"github.com/nexashop/storefront/internal/domains/addresses/ports"
)

func TestCreateAddress_AssignsID(t *testing.T) {
	svc := NewService(addressesmemory.NewRepository())

	address, err := svc.CreateAddress(context.Background(), "u1", ports.CreateAddressInput{
		Label:  "Home",
		Street: "1 Main St",
		City:   "Springfield",
	})
	require.NoError(t, err)
	require.NotEmpty(t, address.ID)
	require.Equal(t, "u1", address.UserID)
}

func TestCreateAddress_Validation(t *testing.T) {
	svc := NewService(addressesmemory.NewRepository())

	_, err := svc.CreateAddress(context.Background(), "u1", ports.CreateAddressInput{Label: "Home"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestListAddresses_CreationOrder(t *testing.T) {
	svc := NewService(addressesmemory.NewRepository())
	ctx := context.Background()

	first, err := svc.CreateAddress(ctx, "u1", ports.CreateAddressInput{Label: "Home", Street: "1 Main St", City: "Springfield"})
	require.NoError(t, err)
	second, err := svc.CreateAddress(ctx, "u1", ports.CreateAddressInput{Label: "Work", Street: "9 Office Rd", City: "Springfield"})
	require.NoError(t, err)
	_, err = svc.CreateAddress(ctx, "u2", ports.CreateAddressInput{Label: "Home", Street: "5 Elm St", City: "Shelbyville"})
	require.NoError(t, err)

	addresses, err := svc.ListAddresses(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, addresses, 2)
	require.Equal(t, first.ID, addresses[0].ID)
	require.Equal(t, second.ID, addresses[1].ID)
}

func TestGetAddress_NotFound(t *testing.T) {
	svc := NewService(addressesmemory.NewRepository())
	_, err := svc.GetAddress(context.Background(), "ghost")
	require.ErrorIs(t, err, ports.ErrNotFound)
}
