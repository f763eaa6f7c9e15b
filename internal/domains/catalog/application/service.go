package application

import (
	"context"

	"github.com/nexashop/storefront/internal/domains/catalog/domain"
	"github.com/nexashop/storefront/internal/domains/catalog/ports"
)

// Service orchestrates catalog use cases.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.repo.List(ctx)
}

func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}

// CorrectStock sets an exact on-hand quantity for a product. The stored
// record is only replaced after the repository acknowledges the write.
func (s *Service) CorrectStock(ctx context.Context, id string, stock int64) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := product.CorrectStock(stock); err != nil {
		return nil, mapError(err)
	}
	return s.repo.Save(ctx, product)
}

// ImportProducts upserts a batch of records pulled from the supplier feed
// and reports how many were accepted. Invalid records are skipped rather
// than aborting the whole refresh.
func (s *Service) ImportProducts(ctx context.Context, products []*domain.Product) (int, error) {
	imported := 0
	for _, product := range products {
		if product == nil {
			continue
		}
		if err := product.Validate(); err != nil {
			continue
		}
		if _, err := s.repo.Save(ctx, product); err != nil {
			return imported, err
		}
		imported++
	}
	return imported, nil
}

var _ ports.Service = (*Service)(nil)
