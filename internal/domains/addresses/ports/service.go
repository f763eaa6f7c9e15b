package ports

import (
	"context"

	"github.com/nexashop/storefront/internal/domains/addresses/domain"
)

// CreateAddressInput carries the fields of a new shipping address.
type CreateAddressInput struct {
	Label      string
	FullName   string
	Street     string
	City       string
	State      string
	PostalCode string
	Country    string
	Phone      string
}

// Service exposes the address book use cases.
type Service interface {
	ListAddresses(ctx context.Context, userID string) ([]*domain.Address, error)
	CreateAddress(ctx context.Context, userID string, input CreateAddressInput) (*domain.Address, error)
	GetAddress(ctx context.Context, id string) (*domain.Address, error)
}
