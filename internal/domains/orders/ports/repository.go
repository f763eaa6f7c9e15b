package ports

import (
	"context"
	"errors"

	"github.com/nexashop/storefront/internal/domains/orders/domain"
)

var ErrNotFound = errors.New("order not found")

// Repository persists placed orders.
type Repository interface {
	Save(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Order, error)
	ListAll(ctx context.Context) ([]*domain.Order, error)
}
