package application

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	addressports "github.com/nexashop/storefront/internal/domains/addresses/ports"
	cartdomain "github.com/nexashop/storefront/internal/domains/cart/domain"
	cartports "github.com/nexashop/storefront/internal/domains/cart/ports"
	"github.com/nexashop/storefront/internal/domains/checkout/domain"
	"github.com/nexashop/storefront/internal/domains/checkout/ports"
	orderdomain "github.com/nexashop/storefront/internal/domains/orders/domain"
)

// Service orchestrates checkout attempts. It reads the cart through the
// engine, validates the address selection, and hands the priced command
// to the order-placement workflow. It never reaches into cart internals;
// after success it only instructs the engine to clear.
type Service struct {
	cart      cartports.Service
	addresses addressports.Service
	placer    ports.OrderPlacement
	logger    *slog.Logger

	mu       sync.Mutex
	attempts map[string]*domain.Attempt
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func NewService(cart cartports.Service, addresses addressports.Service, placer ports.OrderPlacement, opts ...Option) *Service {
	s := &Service{
		cart:      cart,
		addresses: addresses,
		placer:    placer,
		attempts:  make(map[string]*domain.Attempt),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Begin loads the checkout page state: the cart snapshot, current
// totals, and the user's address book. The first saved address becomes
// the default selection when none is held yet.
func (s *Service) Begin(ctx context.Context, userID string) (*ports.View, error) {
	state, err := s.cart.Cart(ctx, userID)
	if err != nil {
		return nil, err
	}
	addresses, err := s.addresses.ListAddresses(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	attempt := s.attempt(userID)
	selected := attempt.AddressID
	if selected == "" && len(addresses) > 0 {
		selected = addresses[0].ID
	}
	if err := attempt.LoadAddresses(selected); err != nil {
		return nil, err
	}
	return &ports.View{
		Attempt:         *attempt,
		Cart:            state,
		Totals:          domain.ComputeTotals(state.Total()),
		Addresses:       addresses,
		RequiresAddress: len(addresses) == 0,
		SelectedAddress: selected,
	}, nil
}

// Submit validates preconditions, places the order through the durable
// workflow, and clears the local cart. Validation failures are caller
// errors raised before any order traffic; placement failures leave the
// cart and selection untouched so the user can retry.
func (s *Service) Submit(ctx context.Context, input ports.SubmitInput) (*ports.Receipt, error) {
	state, err := s.cart.Cart(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if state.Empty() {
		return nil, domain.ErrEmptyCart
	}

	addressID := input.AddressID
	s.mu.Lock()
	attempt := s.attempt(input.UserID)
	if addressID == "" {
		addressID = attempt.AddressID
	}
	s.mu.Unlock()
	if addressID == "" {
		return nil, domain.ErrNoAddressSelected
	}

	address, err := s.addresses.GetAddress(ctx, addressID)
	if err != nil {
		if errors.Is(err, addressports.ErrNotFound) {
			return nil, domain.ErrUnknownAddress
		}
		return nil, err
	}
	if address.UserID != input.UserID {
		return nil, domain.ErrUnknownAddress
	}

	totals := domain.ComputeTotals(state.Total())

	s.mu.Lock()
	if err := attempt.BeginSubmission(addressID, totals); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.mu.Unlock()

	result, err := s.placer.PlaceOrder(ctx, ports.PlaceOrderCommand{
		UserID:    input.UserID,
		UserName:  input.UserName,
		UserEmail: input.UserEmail,
		Items:     toOrderItems(state.Lines),
		Subtotal:  totals.Subtotal,
		Tax:       totals.Tax,
		Total:     totals.Total,
		Shipping: orderdomain.ShippingAddress{
			Label:      address.Label,
			FullName:   address.FullName,
			Street:     address.Street,
			City:       address.City,
			State:      address.State,
			PostalCode: address.PostalCode,
			Country:    address.Country,
			Phone:      address.Phone,
		},
	})
	if err != nil {
		s.mu.Lock()
		attempt.Fail(err)
		s.mu.Unlock()
		return nil, err
	}

	// The order exists; the local clear happens no matter what the
	// mirror clear reported.
	if _, clearErr := s.cart.ClearCart(ctx, input.UserID); clearErr != nil {
		s.logWarn(ctx, "local cart clear after order placement failed",
			slog.String("user.id", input.UserID),
			slog.String("order.id", result.OrderID),
			slog.String("error", clearErr.Error()))
	}
	if !result.MirrorCleared {
		s.logWarn(ctx, "cart mirror not cleared after order placement",
			slog.String("user.id", input.UserID),
			slog.String("order.id", result.OrderID))
	}

	s.mu.Lock()
	completeErr := attempt.Complete(result.OrderID)
	s.mu.Unlock()
	if completeErr != nil {
		return nil, completeErr
	}
	return &ports.Receipt{OrderID: result.OrderID, Totals: totals}, nil
}

// attempt returns the user's checkout attempt, creating an Idle one on
// first use. Caller holds s.mu.
func (s *Service) attempt(userID string) *domain.Attempt {
	attempt, ok := s.attempts[userID]
	if !ok {
		attempt = domain.NewAttempt()
		s.attempts[userID] = attempt
	}
	return attempt
}

func (s *Service) logWarn(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelWarn, msg, attrs...)
}

func toOrderItems(lines []cartdomain.Line) []orderdomain.Item {
	items := make([]orderdomain.Item, 0, len(lines))
	for _, line := range lines {
		items = append(items, orderdomain.Item{
			ProductID: line.ProductID,
			Title:     line.Title,
			Price:     line.Price,
			Image:     line.Image,
			Quantity:  line.Quantity,
		})
	}
	return items
}

var _ ports.Service = (*Service)(nil)
