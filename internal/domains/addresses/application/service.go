package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/nexashop/storefront/internal/domains/addresses/domain"
	"github.com/nexashop/storefront/internal/domains/addresses/ports"
)

// ErrInvalidInput signals the request violated an address invariant.
var ErrInvalidInput = errors.New("invalid address input")

// Service orchestrates the address book use cases.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

// ListAddresses returns the user's saved addresses in creation order.
func (s *Service) ListAddresses(ctx context.Context, userID string) ([]*domain.Address, error) {
	return s.repo.ListByUser(ctx, userID)
}

// CreateAddress validates and stores a new address owned by the user.
func (s *Service) CreateAddress(ctx context.Context, userID string, input ports.CreateAddressInput) (*domain.Address, error) {
	address, err := domain.NewAddress(
		uuid.NewString(),
		userID,
		input.Label,
		input.FullName,
		input.Street,
		input.City,
		input.State,
		input.PostalCode,
		input.Country,
		input.Phone,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return s.repo.Save(ctx, address)
}

// GetAddress loads a single address by identifier.
func (s *Service) GetAddress(ctx context.Context, id string) (*domain.Address, error) {
	return s.repo.GetByID(ctx, id)
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyUserID) ||
		errors.Is(err, domain.ErrEmptyLabel) ||
		errors.Is(err, domain.ErrEmptyStreet) ||
		errors.Is(err, domain.ErrEmptyCity) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}

var _ ports.Service = (*Service)(nil)
