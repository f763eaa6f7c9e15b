package domain

import "errors"

var (
	ErrEmptyID       = errors.New("product id must not be empty")
	ErrEmptyTitle    = errors.New("product title must not be empty")
	ErrNegativePrice = errors.New("product price must not be negative")
	ErrNegativeStock = errors.New("product stock must not be negative")
)

// Product is a catalog record. Stock is a pointer because upstream feeds may
// omit it; nil means the on-hand quantity is unknown, not zero.
type Product struct {
	ID          string
	Title       string
	Price       float64
	Stock       *int64
	Category    string
	Image       string
	Rating      float64
	ReviewCount int64
}

// NewProduct validates and constructs a catalog product.
func NewProduct(id, title string, price float64, stock *int64, category, image string, rating float64, reviewCount int64) (*Product, error) {
	product := &Product{
		ID:          id,
		Title:       title,
		Price:       price,
		Stock:       stock,
		Category:    category,
		Image:       image,
		Rating:      rating,
		ReviewCount: reviewCount,
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	return product, nil
}

// Validate enforces invariants on the product record.
func (p *Product) Validate() error {
	if p.ID == "" {
		return ErrEmptyID
	}
	if p.Title == "" {
		return ErrEmptyTitle
	}
	if p.Price < 0 {
		return ErrNegativePrice
	}
	if p.Stock != nil && *p.Stock < 0 {
		return ErrNegativeStock
	}
	return nil
}

// CorrectStock sets the on-hand quantity to an exact, known value.
func (p *Product) CorrectStock(stock int64) error {
	if stock < 0 {
		return ErrNegativeStock
	}
	p.Stock = &stock
	return nil
}

// StockKnown reports whether an on-hand quantity was recorded.
func (p *Product) StockKnown() bool {
	return p.Stock != nil
}

// OutOfStock reports whether the product is known to be sold out. An unknown
// quantity is not treated as sold out.
func (p *Product) OutOfStock() bool {
	return p.Stock != nil && *p.Stock == 0
}
