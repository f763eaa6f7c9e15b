package ports

import (
	"context"
	"errors"

	"github.com/nexashop/storefront/internal/domains/addresses/domain"
)

var ErrNotFound = errors.New("address not found")

// Repository persists per-user shipping addresses.
type Repository interface {
	Save(ctx context.Context, address *domain.Address) (*domain.Address, error)
	GetByID(ctx context.Context, id string) (*domain.Address, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Address, error)
}
