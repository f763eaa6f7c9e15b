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

	orderapp "github.com/nexashop/storefront/internal/domains/orders/application"
	orderdomain "github.com/nexashop/storefront/internal/domains/orders/domain"
	orderports "github.com/nexashop/storefront/internal/domains/orders/ports"
)

const tracerName = "github.com/nexashop/storefront/internal/domains/orders/adapters/observability/service"

// Service decorates the order service with tracing, logging, and metrics.
type Service struct {
	inner   orderports.Service
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

// New wraps the core order service.
func New(inner orderports.Service, opts ...Option) orderports.Service {
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

func (s *Service) PlaceOrder(ctx context.Context, input orderports.PlaceOrderInput) (*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.PlaceOrder", trace.WithAttributes(
		attribute.String("user.id", input.UserID),
		attribute.Int("order.items", len(input.Items)),
		attribute.Float64("order.total", input.Total),
	))
	defer span.End()

	order, err := s.inner.PlaceOrder(ctx, input)
	if err != nil {
		s.recordError(ctx, span, err, "order placement failed", slog.String("user.id", input.UserID))
		return nil, err
	}
	s.metrics.recordPlaced(ctx, order.Total)
	s.logInfo(ctx, "order placed",
		slog.String("order.id", order.ID),
		slog.String("user.id", order.UserID),
		slog.Float64("order.total", order.Total))
	return order, nil
}

func (s *Service) GetOrder(ctx context.Context, id string) (*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetOrder", trace.WithAttributes(
		attribute.String("order.id", id)))
	defer span.End()
	return s.inner.GetOrder(ctx, id)
}

func (s *Service) ListOrders(ctx context.Context, userID string) ([]*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListOrders", trace.WithAttributes(
		attribute.String("user.id", userID)))
	defer span.End()
	return s.inner.ListOrders(ctx, userID)
}

func (s *Service) ListAllOrders(ctx context.Context) ([]*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListAllOrders")
	defer span.End()
	return s.inner.ListAllOrders(ctx)
}

func (s *Service) UpdateOrderStatus(ctx context.Context, id string, status orderdomain.Status) (*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.UpdateOrderStatus", trace.WithAttributes(
		attribute.String("order.id", id),
		attribute.String("order.status", string(status))))
	defer span.End()

	order, err := s.inner.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		s.recordError(ctx, span, err, "order status update failed", slog.String("order.id", id))
		return nil, err
	}
	s.metrics.recordStatusChange(ctx, string(status))
	s.logInfo(ctx, "order status updated",
		slog.String("order.id", order.ID), slog.String("order.status", string(order.Status)))
	return order, nil
}

func (s *Service) recordError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) {
	// Validation rejections are client mistakes, not service failures.
	if errors.Is(err, orderapp.ErrInvalidInput) || errors.Is(err, orderports.ErrNotFound) {
		if s.logger != nil {
			s.logger.LogAttrs(ctx, slog.LevelInfo, msg, append(attrs, slog.String("error", err.Error()))...)
		}
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelError, msg, append(attrs, slog.String("error", err.Error()))...)
	}
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

type serviceMetrics struct {
	placed        metric.Int64Counter
	revenue       metric.Float64Counter
	statusChanges metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	var sm serviceMetrics
	sm.placed, _ = m.Int64Counter("orders.placed",
		metric.WithDescription("Number of orders placed"))
	sm.revenue, _ = m.Float64Counter("orders.revenue",
		metric.WithDescription("Accumulated order revenue"))
	sm.statusChanges, _ = m.Int64Counter("orders.status_changes",
		metric.WithDescription("Number of fulfilment status transitions"))
	return sm
}

func (m serviceMetrics) recordPlaced(ctx context.Context, total float64) {
	if m.placed != nil {
		m.placed.Add(ctx, 1)
	}
	if m.revenue != nil {
		m.revenue.Add(ctx, total)
	}
}

func (m serviceMetrics) recordStatusChange(ctx context.Context, status string) {
	if m.statusChanges == nil {
		return
	}
	m.statusChanges.Add(ctx, 1, metric.WithAttributes(attribute.String("order.status", status)))
}

var _ orderports.Service = (*Service)(nil)
