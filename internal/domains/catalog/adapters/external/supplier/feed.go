package supplier

import (
	"context"
	"errors"

	supplierclient "github.com/nexashop/storefront/internal/clients/http/supplier"
	"github.com/nexashop/storefront/internal/domains/catalog/domain"
	"github.com/nexashop/storefront/internal/domains/catalog/ports"
)

// Feed adapts the supplier HTTP client to the catalog feed port.
type Feed struct {
	client *supplierclient.Client
}

// NewFeed wires a supplier HTTP client into a feed adapter.
func NewFeed(client *supplierclient.Client) *Feed {
	return &Feed{client: client}
}

// FetchProducts pulls and maps the full supplier feed.
func (f *Feed) FetchProducts(ctx context.Context) ([]*domain.Product, error) {
	if f == nil || f.client == nil {
		return nil, errors.New("supplier feed not configured")
	}
	payloads, err := f.client.FetchProducts(ctx)
	if err != nil {
		return nil, err
	}
	products := make([]*domain.Product, 0, len(payloads))
	for _, payload := range payloads {
		products = append(products, toDomain(payload))
	}
	return products, nil
}

func toDomain(payload supplierclient.ProductPayload) *domain.Product {
	var stock *int64
	if payload.Stock != nil {
		value := *payload.Stock
		stock = &value
	}
	return &domain.Product{
		ID:          payload.ID,
		Title:       payload.Title,
		Price:       payload.Price,
		Stock:       stock,
		Category:    payload.Category,
		Image:       payload.Image,
		Rating:      payload.Rating,
		ReviewCount: payload.ReviewCount,
	}
}

var _ ports.SupplierFeed = (*Feed)(nil)
