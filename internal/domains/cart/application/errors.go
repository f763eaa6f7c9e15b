package application

import (
	"errors"
	"fmt"

	"github.com/nexashop/storefront/internal/domains/cart/domain"
)

var (
	// ErrRejected signals a stock-bound validation rejection; state is
	// unchanged and the operation is safe to reissue with different input.
	ErrRejected = errors.New("cart mutation rejected")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrOutOfStock) ||
		errors.Is(err, domain.ErrStockExceeded) ||
		errors.Is(err, domain.ErrLineNotFound) ||
		errors.Is(err, domain.ErrInvalidProduct) {
		return fmt.Errorf("%w: %w", ErrRejected, err)
	}
	return err
}
