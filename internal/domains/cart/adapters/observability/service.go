package observability

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	cartapp "github.com/nexashop/storefront/internal/domains/cart/application"
	cartdomain "github.com/nexashop/storefront/internal/domains/cart/domain"
	cartports "github.com/nexashop/storefront/internal/domains/cart/ports"
)

const tracerName = "github.com/nexashop/storefront/internal/domains/cart/adapters/observability/service"

// Service decorates the cart engine with tracing, logging, and metrics.
type Service struct {
	inner   cartports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core cart engine.
func New(inner cartports.Service, opts ...Option) cartports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) Cart(ctx context.Context, userID string) (cartdomain.State, error) {
	ctx, span := s.start(ctx, "CartService.Cart", userID)
	defer span.End()
	return s.inner.Cart(ctx, userID)
}

func (s *Service) AddToCart(ctx context.Context, userID, productID string) (cartdomain.State, error) {
	ctx, span := s.start(ctx, "CartService.AddToCart", userID, attribute.String("product.id", productID))
	defer span.End()

	state, err := s.inner.AddToCart(ctx, userID, productID)
	if err != nil {
		return state, s.handleMutationError(ctx, span, err, "add_to_cart", userID, productID)
	}
	s.metrics.recordMutation(ctx, "add_to_cart")
	s.logInfo(ctx, "product added to cart",
		slog.String("user.id", userID), slog.String("product.id", productID), slog.Int64("cart.items", state.ItemsCount()))
	return state, nil
}

func (s *Service) RemoveFromCart(ctx context.Context, userID, productID string) (cartdomain.State, error) {
	ctx, span := s.start(ctx, "CartService.RemoveFromCart", userID, attribute.String("product.id", productID))
	defer span.End()

	state, err := s.inner.RemoveFromCart(ctx, userID, productID)
	if err != nil {
		return state, s.handleMutationError(ctx, span, err, "remove_from_cart", userID, productID)
	}
	s.metrics.recordMutation(ctx, "remove_from_cart")
	return state, nil
}

func (s *Service) UpdateQuantity(ctx context.Context, userID, productID string, quantity int64) (cartdomain.State, error) {
	ctx, span := s.start(ctx, "CartService.UpdateQuantity", userID,
		attribute.String("product.id", productID), attribute.Int64("cart.quantity", quantity))
	defer span.End()

	state, err := s.inner.UpdateQuantity(ctx, userID, productID, quantity)
	if err != nil {
		return state, s.handleMutationError(ctx, span, err, "update_quantity", userID, productID)
	}
	s.metrics.recordMutation(ctx, "update_quantity")
	return state, nil
}

func (s *Service) ClearCart(ctx context.Context, userID string) (cartdomain.State, error) {
	ctx, span := s.start(ctx, "CartService.ClearCart", userID)
	defer span.End()

	state, err := s.inner.ClearCart(ctx, userID)
	if err != nil {
		return state, s.handleMutationError(ctx, span, err, "clear_cart", userID, "")
	}
	s.metrics.recordMutation(ctx, "clear_cart")
	s.logInfo(ctx, "cart cleared", slog.String("user.id", userID))
	return state, nil
}

func (s *Service) AddToWishlist(ctx context.Context, userID, productID string) (cartdomain.State, error) {
	ctx, span := s.start(ctx, "CartService.AddToWishlist", userID, attribute.String("product.id", productID))
	defer span.End()

	state, err := s.inner.AddToWishlist(ctx, userID, productID)
	if err != nil {
		return state, s.handleMutationError(ctx, span, err, "add_to_wishlist", userID, productID)
	}
	s.metrics.recordMutation(ctx, "add_to_wishlist")
	return state, nil
}

func (s *Service) RemoveFromWishlist(ctx context.Context, userID, productID string) (cartdomain.State, error) {
	ctx, span := s.start(ctx, "CartService.RemoveFromWishlist", userID, attribute.String("product.id", productID))
	defer span.End()

	state, err := s.inner.RemoveFromWishlist(ctx, userID, productID)
	if err != nil {
		return state, s.handleMutationError(ctx, span, err, "remove_from_wishlist", userID, productID)
	}
	s.metrics.recordMutation(ctx, "remove_from_wishlist")
	return state, nil
}

func (s *Service) IsInWishlist(ctx context.Context, userID, productID string) (bool, error) {
	ctx, span := s.start(ctx, "CartService.IsInWishlist", userID, attribute.String("product.id", productID))
	defer span.End()
	return s.inner.IsInWishlist(ctx, userID, productID)
}

func (s *Service) CartTotal(ctx context.Context, userID string) (float64, error) {
	ctx, span := s.start(ctx, "CartService.CartTotal", userID)
	defer span.End()
	return s.inner.CartTotal(ctx, userID)
}

func (s *Service) CartItemsCount(ctx context.Context, userID string) (int64, error) {
	ctx, span := s.start(ctx, "CartService.CartItemsCount", userID)
	defer span.End()
	return s.inner.CartItemsCount(ctx, userID)
}

func (s *Service) Snapshot(ctx context.Context, userID string) (cartdomain.State, error) {
	ctx, span := s.start(ctx, "CartService.Snapshot", userID)
	defer span.End()
	return s.inner.Snapshot(ctx, userID)
}

func (s *Service) start(ctx context.Context, name, userID string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("user.id", userID))
	return s.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// handleMutationError distinguishes stock-bound rejections, which are
// expected and logged at info level, from genuine failures.
func (s *Service) handleMutationError(ctx context.Context, span trace.Span, err error, operation, userID, productID string) error {
	if errors.Is(err, cartapp.ErrRejected) {
		s.metrics.recordRejection(ctx, operation)
		s.logInfo(ctx, "cart mutation rejected",
			slog.String("operation", operation), slog.String("user.id", userID),
			slog.String("product.id", productID), slog.String("reason", err.Error()))
		span.SetAttributes(attribute.String("cart.rejection", err.Error()))
		return err
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	s.logError(ctx, "cart operation failed", err,
		slog.String("operation", operation), slog.String("user.id", userID), slog.String("product.id", productID))
	return err
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

type serviceMetrics struct {
	mutations  metric.Int64Counter
	rejections metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	mutations, _ := m.Int64Counter("cart.engine.mutations", metric.WithDescription("Number of applied cart/wishlist mutations"))
	rejections, _ := m.Int64Counter("cart.engine.rejections", metric.WithDescription("Number of stock-bound mutation rejections"))
	return serviceMetrics{mutations: mutations, rejections: rejections}
}

func (m serviceMetrics) recordMutation(ctx context.Context, operation string) {
	if m.mutations != nil {
		m.mutations.Add(ctx, 1, metric.WithAttributes(attribute.String("cart.operation", operation)))
	}
}

func (m serviceMetrics) recordRejection(ctx context.Context, operation string) {
	if m.rejections != nil {
		m.rejections.Add(ctx, 1, metric.WithAttributes(attribute.String("cart.operation", operation)))
	}
}

var _ cartports.Service = (*Service)(nil)
