package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	supplierclient "github.com/nexashop/storefront/internal/clients/http/supplier"
	addresseshttp "github.com/nexashop/storefront/internal/domains/addresses/adapters/http"
	addressesmemory "github.com/nexashop/storefront/internal/domains/addresses/adapters/memory"
	addressespostgres "github.com/nexashop/storefront/internal/domains/addresses/adapters/persistence/postgres"
	addressesapp "github.com/nexashop/storefront/internal/domains/addresses/application"
	addressesports "github.com/nexashop/storefront/internal/domains/addresses/ports"
	adminhttp "github.com/nexashop/storefront/internal/domains/admin/adapters/http"
	adminapp "github.com/nexashop/storefront/internal/domains/admin/application"
	carthttp "github.com/nexashop/storefront/internal/domains/cart/adapters/http"
	cartmemory "github.com/nexashop/storefront/internal/domains/cart/adapters/memory"
	cartobs "github.com/nexashop/storefront/internal/domains/cart/adapters/observability"
	cartredis "github.com/nexashop/storefront/internal/domains/cart/adapters/redis"
	cartapp "github.com/nexashop/storefront/internal/domains/cart/application"
	cartports "github.com/nexashop/storefront/internal/domains/cart/ports"
	catalogsupplier "github.com/nexashop/storefront/internal/domains/catalog/adapters/external/supplier"
	cataloghttp "github.com/nexashop/storefront/internal/domains/catalog/adapters/http"
	catalogmemory "github.com/nexashop/storefront/internal/domains/catalog/adapters/memory"
	catalogobs "github.com/nexashop/storefront/internal/domains/catalog/adapters/observability"
	catalogpostgres "github.com/nexashop/storefront/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/nexashop/storefront/internal/domains/catalog/application"
	catalogports "github.com/nexashop/storefront/internal/domains/catalog/ports"
	checkouthttp "github.com/nexashop/storefront/internal/domains/checkout/adapters/http"
	checkoutmirror "github.com/nexashop/storefront/internal/domains/checkout/adapters/mirror"
	checkoutworkflows "github.com/nexashop/storefront/internal/domains/checkout/adapters/workflows"
	checkoutapp "github.com/nexashop/storefront/internal/domains/checkout/application"
	checkoutports "github.com/nexashop/storefront/internal/domains/checkout/ports"
	ordershttp "github.com/nexashop/storefront/internal/domains/orders/adapters/http"
	ordersmemory "github.com/nexashop/storefront/internal/domains/orders/adapters/memory"
	ordersobs "github.com/nexashop/storefront/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/nexashop/storefront/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/nexashop/storefront/internal/domains/orders/application"
	ordersports "github.com/nexashop/storefront/internal/domains/orders/ports"
	"github.com/nexashop/storefront/internal/platform/migrations"
	platformobservability "github.com/nexashop/storefront/internal/platform/observability"
	platformpostgres "github.com/nexashop/storefront/internal/platform/postgres"
	platformredis "github.com/nexashop/storefront/internal/platform/redis"
	"github.com/nexashop/storefront/internal/shared/identity"
)

// Run boots the storefront HTTP API with observability, repositories, and workflows wired.
func Run(ctx context.Context) error {
	const serviceName = "storefront-api"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger
	cfg := LoadConfig()

	db, closeDB := platformpostgres.ConnectFromEnv(ctx, logger)
	defer closeDB()
	if db != nil {
		if err := migrations.Run(db); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	var catalogRepo catalogports.Repository = catalogmemory.NewRepository()
	var ordersRepo ordersports.Repository = ordersmemory.NewRepository()
	var addressesRepo addressesports.Repository = addressesmemory.NewRepository()
	if db != nil {
		catalogRepo = catalogpostgres.NewRepository(db)
		ordersRepo = orderspostgres.NewRepository(db)
		addressesRepo = addressespostgres.NewRepository(db)
	}

	var snapshots cartports.SnapshotStore = cartmemory.NewSnapshotStore()
	redisClient, closeRedis := platformredis.ConnectFromEnv(ctx, logger)
	defer closeRedis()
	if redisClient != nil {
		snapshots = cartredis.NewSnapshotStore(redisClient)
	}

	catalogService := catalogobs.New(
		catalogapp.NewService(catalogRepo),
		catalogobs.WithLogger(logger),
		catalogobs.WithTracer(instruments.Tracer("internal.catalog.application")),
		catalogobs.WithMeter(instruments.Meter("internal.catalog.application")),
	)
	syncSupplierCatalog(ctx, cfg, catalogService, logger)

	cartService := cartobs.New(
		cartapp.NewService(catalogService, snapshots, cartapp.WithLogger(logger)),
		cartobs.WithLogger(logger),
		cartobs.WithTracer(instruments.Tracer("internal.cart.application")),
		cartobs.WithMeter(instruments.Meter("internal.cart.application")),
	)
	ordersService := ordersobs.New(
		ordersapp.NewService(ordersRepo),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	addressesService := addressesapp.NewService(addressesRepo)

	mirror := checkoutmirror.NewSnapshotMirror(snapshots)
	var placer checkoutports.OrderPlacement = checkoutworkflows.NewInlineOrderPlacement(
		ordersService, mirror, checkoutworkflows.WithLogger(logger))
	if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, placing orders inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		placer = checkoutworkflows.NewTemporalOrderPlacement(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	checkoutService := checkoutapp.NewService(cartService, addressesService, placer, checkoutapp.WithLogger(logger))
	adminService := adminapp.NewService(ordersService, catalogService)

	catalogHandler := cataloghttp.NewHandler(catalogService)
	cartHandler := carthttp.NewHandler(cartService)
	addressesHandler := addresseshttp.NewHandler(addressesService)
	ordersHandler := ordershttp.NewHandler(ordersService)
	checkoutHandler := checkouthttp.NewHandler(checkoutService)
	adminHandler := adminhttp.NewHandler(adminService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	catalogHandler.Register(router.Group(""))

	authed := router.Group("", identity.Middleware())
	cartHandler.Register(authed)
	addressesHandler.Register(authed)
	ordersHandler.Register(authed)
	checkoutHandler.Register(authed)

	admin := router.Group("/admin", identity.Middleware(), identity.RequireAdmin())
	adminHandler.Register(admin)
	catalogHandler.RegisterAdmin(admin)

	addr := ":" + cfg.Port
	logger.Info("storefront API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("storefront API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

// syncSupplierCatalog pulls the supplier feed once at startup. A failed
// sync is logged and the process continues with whatever the catalog
// already holds.
func syncSupplierCatalog(ctx context.Context, cfg Config, catalog catalogports.Service, logger *slog.Logger) {
	if cfg.SupplierBaseURL == "" {
		logger.Warn("SUPPLIER_BASE_URL not set, skipping catalog sync")
		return
	}
	feedClient, err := supplierclient.NewClient(cfg.SupplierBaseURL, nil)
	if err != nil {
		logger.Warn("supplier client misconfigured, skipping catalog sync", slog.String("error", err.Error()))
		return
	}
	feed := catalogsupplier.NewFeed(feedClient)
	products, err := feed.FetchProducts(ctx)
	if err != nil {
		logger.Warn("supplier feed fetch failed, skipping catalog sync", slog.String("error", err.Error()))
		return
	}
	imported, err := catalog.ImportProducts(ctx, products)
	if err != nil {
		logger.Warn("catalog sync failed", slog.String("error", err.Error()))
		return
	}
	logger.Info("catalog synced from supplier feed", slog.Int("imported", imported))
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
