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

	catalogapp "github.com/nexashop/storefront/internal/domains/catalog/application"
	catalogdomain "github.com/nexashop/storefront/internal/domains/catalog/domain"
	catalogports "github.com/nexashop/storefront/internal/domains/catalog/ports"
)

const tracerName = "github.com/nexashop/storefront/internal/domains/catalog/adapters/observability/service"

// Service decorates the catalog service with tracing, logging, and metrics.
type Service struct {
	inner   catalogports.Service
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

// New wraps the core catalog service.
func New(inner catalogports.Service, opts ...Option) catalogports.Service {
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

func (s *Service) GetProduct(ctx context.Context, id string) (*catalogdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetProduct", trace.WithAttributes(
		attribute.String("product.id", id)))
	defer span.End()
	return s.inner.GetProduct(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context) ([]*catalogdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ListProducts")
	defer span.End()
	return s.inner.ListProducts(ctx)
}

func (s *Service) Categories(ctx context.Context) ([]string, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.Categories")
	defer span.End()
	return s.inner.Categories(ctx)
}

func (s *Service) CorrectStock(ctx context.Context, id string, stock int64) (*catalogdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.CorrectStock", trace.WithAttributes(
		attribute.String("product.id", id),
		attribute.Int64("product.stock", stock)))
	defer span.End()

	product, err := s.inner.CorrectStock(ctx, id, stock)
	if err != nil {
		s.recordError(ctx, span, err, "stock correction failed", slog.String("product.id", id))
		return nil, err
	}
	s.metrics.recordStockCorrection(ctx)
	s.logInfo(ctx, "stock corrected",
		slog.String("product.id", id), slog.Int64("product.stock", stock))
	return product, nil
}

func (s *Service) ImportProducts(ctx context.Context, products []*catalogdomain.Product) (int, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ImportProducts", trace.WithAttributes(
		attribute.Int("feed.size", len(products))))
	defer span.End()

	imported, err := s.inner.ImportProducts(ctx, products)
	if err != nil {
		s.recordError(ctx, span, err, "product import failed")
		return imported, err
	}
	s.metrics.recordImport(ctx, imported)
	s.logInfo(ctx, "products imported",
		slog.Int("feed.size", len(products)), slog.Int("feed.imported", imported))
	return imported, nil
}

func (s *Service) recordError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) {
	if errors.Is(err, catalogapp.ErrInvalidInput) || errors.Is(err, catalogports.ErrNotFound) {
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
	stockCorrections metric.Int64Counter
	imported         metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	var sm serviceMetrics
	sm.stockCorrections, _ = m.Int64Counter("catalog.stock_corrections",
		metric.WithDescription("Number of admin stock corrections"))
	sm.imported, _ = m.Int64Counter("catalog.products_imported",
		metric.WithDescription("Number of products imported from the supplier feed"))
	return sm
}

func (m serviceMetrics) recordStockCorrection(ctx context.Context) {
	if m.stockCorrections == nil {
		return
	}
	m.stockCorrections.Add(ctx, 1)
}

func (m serviceMetrics) recordImport(ctx context.Context, count int) {
	if m.imported == nil {
		return
	}
	m.imported.Add(ctx, int64(count))
}

var _ catalogports.Service = (*Service)(nil)
