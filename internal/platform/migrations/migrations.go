package migrations

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Intended to replace adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&productRecord{},
		&orderRecord{},
		&addressRecord{},
	)
}

// Product schema mirrors the catalog Postgres adapter.
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

// Order schema mirrors the orders Postgres adapter.
type orderRecord struct {
	ID         string         `gorm:"primaryKey;column:id;type:varchar(64)"`
	UserID     string         `gorm:"column:user_id;type:varchar(64);index"`
	UserName   string         `gorm:"column:user_name"`
	UserEmail  string         `gorm:"column:user_email"`
	Items      string         `gorm:"column:items;type:jsonb"`
	ProductIDs pq.StringArray `gorm:"column:product_ids;type:text[]"`
	Subtotal   float64        `gorm:"column:subtotal"`
	Tax        float64        `gorm:"column:tax"`
	Total      float64        `gorm:"column:total"`
	Status     string         `gorm:"column:status;index"`
	Shipping   string         `gorm:"column:shipping;type:jsonb"`
	CreatedAt  time.Time      `gorm:"column:created_at;index"`
	UpdatedAt  time.Time      `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

// Address schema mirrors the addresses Postgres adapter.
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
