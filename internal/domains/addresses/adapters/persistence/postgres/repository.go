package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nexashop/storefront/internal/domains/addresses/domain"
	"github.com/nexashop/storefront/internal/domains/addresses/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists shipping addresses in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type addressRecord struct {
	ID         string    `gorm:"primaryKey;column:id;type:varchar(64)"`
	UserID     string    `gorm:"column:user_id;type:varchar(64);index"`
	Label      string    `gorm:"column:label"`
	FullName   string    `gorm:"column:full_name"`
	Street     string    `gorm:"column:street"`
	City       string    `gorm:"column:city"`
	State      string    `gorm:"column:state"`
	PostalCode string    `gorm:"column:postal_code"`
	Country    string    `gorm:"column:country"`
	Phone      string    `gorm:"column:phone"`
	CreatedAt  time.Time `gorm:"column:created_at;index"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (addressRecord) TableName() string { return "addresses" }

func (r *Repository) Save(ctx context.Context, address *domain.Address) (*domain.Address, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if address == nil {
		return nil, errors.New("address is nil")
	}
	record := toRecord(address)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"label":       record.Label,
				"full_name":   record.FullName,
				"street":      record.Street,
				"city":        record.City,
				"state":       record.State,
				"postal_code": record.PostalCode,
				"country":     record.Country,
				"phone":       record.Phone,
				"updated_at":  gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Address, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record addressRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) ListByUser(ctx context.Context, userID string) ([]*domain.Address, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []addressRecord
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at").
		Find(&records).Error; err != nil {
		return nil, err
	}
	addresses := make([]*domain.Address, 0, len(records))
	for i := range records {
		addresses = append(addresses, records[i].toDomain())
	}
	return addresses, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres address repository not configured")
	}
	return nil
}

func toRecord(address *domain.Address) addressRecord {
	return addressRecord{
		ID:         address.ID,
		UserID:     address.UserID,
		Label:      address.Label,
		FullName:   address.FullName,
		Street:     address.Street,
		City:       address.City,
		State:      address.State,
		PostalCode: address.PostalCode,
		Country:    address.Country,
		Phone:      address.Phone,
	}
}

func (r addressRecord) toDomain() *domain.Address {
	return &domain.Address{
		ID:         r.ID,
		UserID:     r.UserID,
		Label:      r.Label,
		FullName:   r.FullName,
		Street:     r.Street,
		City:       r.City,
		State:      r.State,
		PostalCode: r.PostalCode,
		Country:    r.Country,
		Phone:      r.Phone,
	}
}
