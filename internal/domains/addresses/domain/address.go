package domain

import "errors"

var (
	ErrEmptyUserID = errors.New("address user id must not be empty")
	ErrEmptyLabel  = errors.New("address label must not be empty")
	ErrEmptyStreet = errors.New("address street must not be empty")
	ErrEmptyCity   = errors.New("address city must not be empty")
)

// Address is a saved shipping address owned by one user.
type Address struct {
	ID         string
	UserID     string
	Label      string
	FullName   string
	Street     string
	City       string
	State      string
	PostalCode string
	Country    string
	Phone      string
}

// NewAddress validates and constructs an address.
func NewAddress(id, userID, label, fullName, street, city, state, postalCode, country, phone string) (*Address, error) {
	address := &Address{
		ID:         id,
		UserID:     userID,
		Label:      label,
		FullName:   fullName,
		Street:     street,
		City:       city,
		State:      state,
		PostalCode: postalCode,
		Country:    country,
		Phone:      phone,
	}
	if err := address.Validate(); err != nil {
		return nil, err
	}
	return address, nil
}

// Validate enforces the minimum postal fields.
func (a *Address) Validate() error {
	if a.UserID == "" {
		return ErrEmptyUserID
	}
	if a.Label == "" {
		return ErrEmptyLabel
	}
	if a.Street == "" {
		return ErrEmptyStreet
	}
	if a.City == "" {
		return ErrEmptyCity
	}
	return nil
}
