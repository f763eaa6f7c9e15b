package application

import (
	"context"
	"log/slog"
	"sync"

	cartdomain "github.com/nexashop/storefront/internal/domains/cart/domain"
	cartports "github.com/nexashop/storefront/internal/domains/cart/ports"
	catalogdomain "github.com/nexashop/storefront/internal/domains/catalog/domain"
	catalogports "github.com/nexashop/storefront/internal/domains/catalog/ports"
)

// Service is the cart/wishlist engine. It exclusively owns the in-memory
// cart state per user; every other component goes through its operations.
//
// Mutations are serialized under one mutex, so they apply in invocation
// order and each durable write observes a fully applied state. Snapshot
// writes happen synchronously after the mutation but their failure is
// swallowed: in-memory state stays authoritative for the session and only
// durability across restarts is at risk.
type Service struct {
	catalog catalogports.Service
	store   cartports.SnapshotStore
	logger  *slog.Logger

	mu     sync.Mutex
	states map[string]*cartdomain.State
}

// Option configures the engine.
type Option func(*Service)

// WithLogger attaches a structured logger for best-effort persistence
// failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService wires the engine with its catalog dependency and snapshot store.
func NewService(catalog catalogports.Service, store cartports.SnapshotStore, opts ...Option) *Service {
	s := &Service{
		catalog: catalog,
		store:   store,
		states:  map[string]*cartdomain.State{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Cart returns the current state, rehydrating from the snapshot store on
// first touch.
func (s *Service) Cart(ctx context.Context, userID string) (cartdomain.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state(ctx, userID).Snapshot(), nil
}

// AddToCart captures the product's current catalog record and adds it to
// the cart, enforcing the stock bound at the point of mutation.
func (s *Service) AddToCart(ctx context.Context, userID, productID string) (cartdomain.State, error) {
	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return cartdomain.State{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.state(ctx, userID)
	if err := state.AddLine(toProductRef(product)); err != nil {
		return state.Snapshot(), mapError(err)
	}
	s.persist(ctx, userID, state)
	return state.Snapshot(), nil
}

// RemoveFromCart deletes the line if present; absent lines are a no-op.
func (s *Service) RemoveFromCart(ctx context.Context, userID, productID string) (cartdomain.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.state(ctx, userID)
	state.RemoveLine(productID)
	s.persist(ctx, userID, state)
	return state.Snapshot(), nil
}

// UpdateQuantity sets a line's quantity exactly, bounded by the line's
// captured stock. Zero or negative removes the line.
func (s *Service) UpdateQuantity(ctx context.Context, userID, productID string, quantity int64) (cartdomain.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.state(ctx, userID)
	if err := state.SetQuantity(productID, quantity); err != nil {
		return state.Snapshot(), mapError(err)
	}
	s.persist(ctx, userID, state)
	return state.Snapshot(), nil
}

// ClearCart empties the line sequence; the wishlist is untouched.
func (s *Service) ClearCart(ctx context.Context, userID string) (cartdomain.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.state(ctx, userID)
	state.ClearLines()
	s.persist(ctx, userID, state)
	return state.Snapshot(), nil
}

// AddToWishlist adds the product to the wishlist set. Re-adding a member is
// a no-op, not an error.
func (s *Service) AddToWishlist(ctx context.Context, userID, productID string) (cartdomain.State, error) {
	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return cartdomain.State{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.state(ctx, userID)
	added, err := state.AddWish(toProductRef(product))
	if err != nil {
		return state.Snapshot(), mapError(err)
	}
	if added {
		s.persist(ctx, userID, state)
	}
	return state.Snapshot(), nil
}

// RemoveFromWishlist drops the product; removing a non-member is a no-op.
func (s *Service) RemoveFromWishlist(ctx context.Context, userID, productID string) (cartdomain.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.state(ctx, userID)
	state.RemoveWish(productID)
	s.persist(ctx, userID, state)
	return state.Snapshot(), nil
}

// IsInWishlist is a pure membership test.
func (s *Service) IsInWishlist(ctx context.Context, userID, productID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state(ctx, userID).HasWish(productID), nil
}

// CartTotal sums captured line prices times quantities.
func (s *Service) CartTotal(ctx context.Context, userID string) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state(ctx, userID).Total(), nil
}

// CartItemsCount sums quantities across lines.
func (s *Service) CartItemsCount(ctx context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state(ctx, userID).ItemsCount(), nil
}

// Snapshot returns a deep copy decoupled from subsequent mutations, used by
// checkout to freeze the submitted contents.
func (s *Service) Snapshot(ctx context.Context, userID string) (cartdomain.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state(ctx, userID).Snapshot(), nil
}

// state must be called with the mutex held.
func (s *Service) state(ctx context.Context, userID string) *cartdomain.State {
	if state, ok := s.states[userID]; ok {
		return state
	}
	state := cartdomain.NewState()
	if s.store != nil {
		stored, err := s.store.Load(ctx, userID)
		switch {
		case err != nil:
			s.logWarn(ctx, "failed to rehydrate cart snapshot, starting empty",
				slog.String("user.id", userID), slog.String("error", err.Error()))
		case stored != nil:
			restored := stored.Snapshot()
			state = &restored
		}
	}
	s.states[userID] = state
	return state
}

// persist must be called with the mutex held.
func (s *Service) persist(ctx context.Context, userID string, state *cartdomain.State) {
	if s.store == nil {
		return
	}
	if err := s.store.Save(ctx, userID, state.Snapshot()); err != nil {
		s.logWarn(ctx, "failed to persist cart snapshot, session continues in memory",
			slog.String("user.id", userID), slog.String("error", err.Error()))
	}
}

func (s *Service) logWarn(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelWarn, msg, attrs...)
}

func toProductRef(product *catalogdomain.Product) cartdomain.ProductRef {
	ref := cartdomain.ProductRef{
		ProductID: product.ID,
		Title:     product.Title,
		Price:     product.Price,
		Category:  product.Category,
		Image:     product.Image,
	}
	if product.Stock != nil {
		stock := *product.Stock
		ref.Stock = &stock
	}
	return ref
}

var _ cartports.Service = (*Service)(nil)
