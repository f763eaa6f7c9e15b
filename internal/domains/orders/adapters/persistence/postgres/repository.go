package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nexashop/storefront/internal/domains/orders/domain"
	"github.com/nexashop/storefront/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type itemRecord struct {
	ProductID string  `json:"productId"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Image     string  `json:"image,omitempty"`
	Quantity  int64   `json:"quantity"`
}

type shippingRecord struct {
	Label      string `json:"label"`
	FullName   string `json:"fullName,omitempty"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

// orderRecord stores items and the shipping snapshot as JSON documents and
// keeps a flattened product-id array for purchase lookups without joins.
type orderRecord struct {
	ID         string         `gorm:"primaryKey;column:id;type:varchar(64)"`
	UserID     string         `gorm:"column:user_id;type:varchar(64);index"`
	UserName   string         `gorm:"column:user_name"`
	UserEmail  string         `gorm:"column:user_email"`
	Items      []itemRecord   `gorm:"column:items;type:jsonb;serializer:json"`
	ProductIDs pq.StringArray `gorm:"column:product_ids;type:text[]"`
	Subtotal   float64        `gorm:"column:subtotal"`
	Tax        float64        `gorm:"column:tax"`
	Total      float64        `gorm:"column:total"`
	Status     string         `gorm:"column:status;index"`
	Shipping   shippingRecord `gorm:"column:shipping;type:jsonb;serializer:json"`
	CreatedAt  time.Time      `gorm:"column:created_at;index"`
	UpdatedAt  time.Time      `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

func (r *Repository) Save(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"status":     record.Status,
				"updated_at": gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) ListByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return toDomainList(records), nil
}

func (r *Repository) ListAll(ctx context.Context) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return toDomainList(records), nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	items := make([]itemRecord, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, itemRecord{
			ProductID: item.ProductID,
			Title:     item.Title,
			Price:     item.Price,
			Image:     item.Image,
			Quantity:  item.Quantity,
		})
	}
	return orderRecord{
		ID:         order.ID,
		UserID:     order.UserID,
		UserName:   order.UserName,
		UserEmail:  order.UserEmail,
		Items:      items,
		ProductIDs: pq.StringArray(order.ProductIDs()),
		Subtotal:   order.Subtotal,
		Tax:        order.Tax,
		Total:      order.Total,
		Status:     string(order.Status),
		Shipping: shippingRecord{
			Label:      order.Shipping.Label,
			FullName:   order.Shipping.FullName,
			Street:     order.Shipping.Street,
			City:       order.Shipping.City,
			State:      order.Shipping.State,
			PostalCode: order.Shipping.PostalCode,
			Country:    order.Shipping.Country,
			Phone:      order.Shipping.Phone,
		},
		CreatedAt: order.CreatedAt,
	}
}

func toDomainList(records []orderRecord) []*domain.Order {
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return orders
}

func (r orderRecord) toDomain() *domain.Order {
	items := make([]domain.Item, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, domain.Item{
			ProductID: item.ProductID,
			Title:     item.Title,
			Price:     item.Price,
			Image:     item.Image,
			Quantity:  item.Quantity,
		})
	}
	return &domain.Order{
		ID:        r.ID,
		UserID:    r.UserID,
		UserName:  r.UserName,
		UserEmail: r.UserEmail,
		Items:     items,
		Subtotal:  r.Subtotal,
		Tax:       r.Tax,
		Total:     r.Total,
		Status:    domain.Status(r.Status),
		Shipping: domain.ShippingAddress{
			Label:      r.Shipping.Label,
			FullName:   r.Shipping.FullName,
			Street:     r.Shipping.Street,
			City:       r.Shipping.City,
			State:      r.Shipping.State,
			PostalCode: r.Shipping.PostalCode,
			Country:    r.Shipping.Country,
			Phone:      r.Shipping.Phone,
		},
		CreatedAt: r.CreatedAt,
	}
}
