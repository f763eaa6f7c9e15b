package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nexashop/storefront/internal/domains/catalog/domain"
	"github.com/nexashop/storefront/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists catalog products in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// productRecord maps the product to a relational table.
type productRecord struct {
	ID          string    `gorm:"primaryKey;column:id;type:varchar(64)"`
	Title       string    `gorm:"column:title"`
	Price       float64   `gorm:"column:price"`
	Stock       *int64    `gorm:"column:stock"`
	Category    string    `gorm:"column:category;type:varchar(64);index"`
	Image       string    `gorm:"column:image"`
	Rating      float64   `gorm:"column:rating"`
	ReviewCount int64     `gorm:"column:review_count"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

// Save inserts or updates a product.
func (r *Repository) Save(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if product == nil {
		return nil, errors.New("product is nil")
	}
	record := toRecord(product)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"title":        record.Title,
				"price":        record.Price,
				"stock":        record.Stock,
				"category":     record.Category,
				"image":        record.Image,
				"rating":       record.Rating,
				"review_count": record.ReviewCount,
				"updated_at":   gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches a product by identifier.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record productRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// List returns the full catalog.
func (r *Repository) List(ctx context.Context) ([]*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []productRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	products := make([]*domain.Product, 0, len(records))
	for i := range records {
		products = append(products, records[i].toDomain())
	}
	return products, nil
}

// Categories returns distinct non-empty category names.
func (r *Repository) Categories(ctx context.Context) ([]string, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var categories []string
	if err := r.db.WithContext(ctx).
		Model(&productRecord{}).
		Distinct("category").
		Where("category <> ''").
		Order("category").
		Pluck("category", &categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres catalog repository not configured")
	}
	return nil
}

func toRecord(product *domain.Product) productRecord {
	return productRecord{
		ID:          product.ID,
		Title:       product.Title,
		Price:       product.Price,
		Stock:       product.Stock,
		Category:    product.Category,
		Image:       product.Image,
		Rating:      product.Rating,
		ReviewCount: product.ReviewCount,
	}
}

func (r productRecord) toDomain() *domain.Product {
	var stock *int64
	if r.Stock != nil {
		value := *r.Stock
		stock = &value
	}
	return &domain.Product{
		ID:          r.ID,
		Title:       r.Title,
		Price:       r.Price,
		Stock:       stock,
		Category:    r.Category,
		Image:       r.Image,
		Rating:      r.Rating,
		ReviewCount: r.ReviewCount,
	}
}
