package domain

import "errors"

var (
	// ErrOutOfStock rejects adding a product whose known stock is zero.
	ErrOutOfStock = errors.New("product is out of stock")
	// ErrStockExceeded rejects a quantity above the line's captured stock.
	ErrStockExceeded = errors.New("quantity exceeds available stock")
	// ErrLineNotFound signals a quantity update for a product not in the cart.
	ErrLineNotFound = errors.New("product is not in the cart")
	// ErrInvalidProduct rejects a product reference without an identifier.
	ErrInvalidProduct = errors.New("product reference is invalid")
)

// ProductRef carries the catalog fields a cart captures at mutation time.
// Price and Stock are frozen copies; later catalog changes do not leak into
// existing lines. A nil Stock means the bound is unknown and no upper limit
// is enforced.
type ProductRef struct {
	ProductID string
	Title     string
	Price     float64
	Stock     *int64
	Category  string
	Image     string
}

// Line is one product entry in the cart with a quantity.
type Line struct {
	ProductRef
	Quantity int64
}

// LineTotal is the captured price times the quantity.
func (l Line) LineTotal() float64 {
	return l.Price * float64(l.Quantity)
}

// State is the cart plus wishlist owned by one user. Lines keep insertion
// order; the wishlist is a set keyed by product id.
type State struct {
	Lines    []Line
	Wishlist []ProductRef
}

// NewState returns an empty cart state.
func NewState() *State {
	return &State{}
}

// AddLine inserts the product with quantity one, or increments an existing
// line by one if the captured stock bound allows it. The line's captured
// stock is refreshed from the incoming reference on success.
func (s *State) AddLine(product ProductRef) error {
	if product.ProductID == "" {
		return ErrInvalidProduct
	}
	if product.Stock != nil && *product.Stock == 0 {
		return ErrOutOfStock
	}
	for i := range s.Lines {
		if s.Lines[i].ProductID != product.ProductID {
			continue
		}
		if product.Stock != nil && s.Lines[i].Quantity+1 > *product.Stock {
			return ErrStockExceeded
		}
		s.Lines[i].Quantity++
		s.Lines[i].Stock = cloneStock(product.Stock)
		return nil
	}
	line := Line{ProductRef: product, Quantity: 1}
	line.Stock = cloneStock(product.Stock)
	s.Lines = append(s.Lines, line)
	return nil
}

// RemoveLine deletes the line if present; removing an absent product is a
// no-op, not an error.
func (s *State) RemoveLine(productID string) {
	for i := range s.Lines {
		if s.Lines[i].ProductID == productID {
			s.Lines = append(s.Lines[:i], s.Lines[i+1:]...)
			return
		}
	}
}

// SetQuantity sets the line's quantity exactly. A quantity of zero or less
// removes the line. The bound is the line's captured stock, not a live
// catalog read.
func (s *State) SetQuantity(productID string, quantity int64) error {
	if quantity <= 0 {
		s.RemoveLine(productID)
		return nil
	}
	for i := range s.Lines {
		if s.Lines[i].ProductID != productID {
			continue
		}
		if s.Lines[i].Stock != nil && quantity > *s.Lines[i].Stock {
			return ErrStockExceeded
		}
		s.Lines[i].Quantity = quantity
		return nil
	}
	return ErrLineNotFound
}

// ClearLines empties the cart; the wishlist is untouched.
func (s *State) ClearLines() {
	s.Lines = nil
}

// AddWish adds the product to the wishlist. Out-of-stock products are
// rejected; adding a member again reports added=false without changing
// anything.
func (s *State) AddWish(product ProductRef) (added bool, err error) {
	if product.ProductID == "" {
		return false, ErrInvalidProduct
	}
	if product.Stock != nil && *product.Stock == 0 {
		return false, ErrOutOfStock
	}
	if s.HasWish(product.ProductID) {
		return false, nil
	}
	entry := product
	entry.Stock = cloneStock(product.Stock)
	s.Wishlist = append(s.Wishlist, entry)
	return true, nil
}

// RemoveWish drops the product from the wishlist; removing a non-member is
// a no-op.
func (s *State) RemoveWish(productID string) {
	for i := range s.Wishlist {
		if s.Wishlist[i].ProductID == productID {
			s.Wishlist = append(s.Wishlist[:i], s.Wishlist[i+1:]...)
			return
		}
	}
}

// HasWish is a pure membership test.
func (s *State) HasWish(productID string) bool {
	for i := range s.Wishlist {
		if s.Wishlist[i].ProductID == productID {
			return true
		}
	}
	return false
}

// Total sums price times quantity over all lines using captured prices.
func (s *State) Total() float64 {
	var total float64
	for _, line := range s.Lines {
		total += line.LineTotal()
	}
	return total
}

// ItemsCount sums the quantities across all lines.
func (s *State) ItemsCount() int64 {
	var count int64
	for _, line := range s.Lines {
		count += line.Quantity
	}
	return count
}

// Empty reports whether the cart holds no lines.
func (s *State) Empty() bool {
	return len(s.Lines) == 0
}

// Snapshot returns a deep copy decoupled from subsequent mutations.
func (s *State) Snapshot() State {
	snapshot := State{}
	if len(s.Lines) > 0 {
		snapshot.Lines = make([]Line, len(s.Lines))
		for i, line := range s.Lines {
			line.Stock = cloneStock(line.Stock)
			snapshot.Lines[i] = line
		}
	}
	if len(s.Wishlist) > 0 {
		snapshot.Wishlist = make([]ProductRef, len(s.Wishlist))
		for i, entry := range s.Wishlist {
			entry.Stock = cloneStock(entry.Stock)
			snapshot.Wishlist[i] = entry
		}
	}
	return snapshot
}

func cloneStock(stock *int64) *int64 {
	if stock == nil {
		return nil
	}
	value := *stock
	return &value
}
