package domain

import (
	"errors"
	"time"
)

var (
	ErrEmptyID        = errors.New("order id cannot be empty")
	ErrEmptyUserID    = errors.New("order user id cannot be empty")
	ErrNoItems        = errors.New("order must contain at least one item")
	ErrNegativeTotal  = errors.New("order total cannot be negative")
	ErrInvalidStatus  = errors.New("invalid order status")
	ErrEmptyProductID = errors.New("order item product id cannot be empty")
	ErrInvalidQty     = errors.New("order item quantity must be positive")
)

// Status is the fulfilment state of an order.
type Status string

const (
	StatusOnProcess Status = "On Process"
	StatusShipped   Status = "Shipped"
	StatusDelivered Status = "Delivered"
)

// Valid reports whether the status is one of the known fulfilment states.
func (s Status) Valid() bool {
	switch s {
	case StatusOnProcess, StatusShipped, StatusDelivered:
		return true
	}
	return false
}

// ParseStatus converts a raw string to a Status, rejecting unknown values.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

// Item is a purchased line frozen at submission time. Price is the unit
// price the buyer saw in the cart, not the catalog price at delivery.
type Item struct {
	ProductID string
	Title     string
	Price     float64
	Image     string
	Quantity  int64
}

// Subtotal is the item's price times quantity.
func (i Item) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}

// ShippingAddress is the destination snapshot embedded in the order.
// It is copied from the address book at submission so later edits to the
// book do not rewrite history.
type ShippingAddress struct {
	Label      string
	FullName   string
	Street     string
	City       string
	State      string
	PostalCode string
	Country    string
	Phone      string
}

// Order is a placed purchase.
type Order struct {
	ID        string
	UserID    string
	UserName  string
	UserEmail string
	Items     []Item
	Subtotal  float64
	Tax       float64
	Total     float64
	Status    Status
	Shipping  ShippingAddress
	CreatedAt time.Time
}

// NewOrder builds an order in its initial fulfilment state.
func NewOrder(id, userID string, items []Item, subtotal, tax, total float64, shipping ShippingAddress) (*Order, error) {
	order := &Order{
		ID:        id,
		UserID:    userID,
		Items:     items,
		Subtotal:  subtotal,
		Tax:       tax,
		Total:     total,
		Status:    StatusOnProcess,
		Shipping:  shipping,
		CreatedAt: time.Now().UTC(),
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

// Validate checks the order invariants.
func (o *Order) Validate() error {
	if o.ID == "" {
		return ErrEmptyID
	}
	if o.UserID == "" {
		return ErrEmptyUserID
	}
	if len(o.Items) == 0 {
		return ErrNoItems
	}
	for _, item := range o.Items {
		if item.ProductID == "" {
			return ErrEmptyProductID
		}
		if item.Quantity <= 0 {
			return ErrInvalidQty
		}
	}
	if o.Total < 0 {
		return ErrNegativeTotal
	}
	if !o.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

// UpdateStatus transitions the order to a new fulfilment state.
func (o *Order) UpdateStatus(status Status) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	o.Status = status
	return nil
}

// ItemsCount is the total number of units across all items.
func (o *Order) ItemsCount() int64 {
	var count int64
	for _, item := range o.Items {
		count += item.Quantity
	}
	return count
}

// ProductIDs lists the distinct products purchased, in item order.
func (o *Order) ProductIDs() []string {
	seen := make(map[string]struct{}, len(o.Items))
	ids := make([]string, 0, len(o.Items))
	for _, item := range o.Items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}
