package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/nexashop/storefront/internal/domains/orders/domain"
	"github.com/nexashop/storefront/internal/domains/orders/ports"
)

// ErrInvalidInput signals the request violated an order invariant.
var ErrInvalidInput = errors.New("invalid order input")

// Service orchestrates the order use cases.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

// PlaceOrder assigns an identifier and records the order in its initial
// fulfilment state.
func (s *Service) PlaceOrder(ctx context.Context, input ports.PlaceOrderInput) (*domain.Order, error) {
	order, err := domain.NewOrder(
		uuid.NewString(),
		input.UserID,
		input.Items,
		input.Subtotal,
		input.Tax,
		input.Total,
		input.Shipping,
	)
	if err != nil {
		return nil, mapError(err)
	}
	order.UserName = input.UserName
	order.UserEmail = input.UserEmail
	return s.repo.Save(ctx, order)
}

// GetOrder loads a single order by identifier.
func (s *Service) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

// ListOrders returns the user's orders, newest first.
func (s *Service) ListOrders(ctx context.Context, userID string) ([]*domain.Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

// ListAllOrders returns every order across all users, newest first.
func (s *Service) ListAllOrders(ctx context.Context) ([]*domain.Order, error) {
	return s.repo.ListAll(ctx)
}

// UpdateOrderStatus transitions an order's fulfilment state and persists
// the result. The returned order reflects the stored state, so callers
// only observe the new status after the write succeeded.
func (s *Service) UpdateOrderStatus(ctx context.Context, id string, status domain.Status) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := order.UpdateStatus(status); err != nil {
		return nil, mapError(err)
	}
	return s.repo.Save(ctx, order)
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyUserID) ||
		errors.Is(err, domain.ErrNoItems) ||
		errors.Is(err, domain.ErrNegativeTotal) ||
		errors.Is(err, domain.ErrInvalidStatus) ||
		errors.Is(err, domain.ErrEmptyProductID) ||
		errors.Is(err, domain.ErrInvalidQty) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}

var _ ports.Service = (*Service)(nil)
