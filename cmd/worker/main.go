package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	cartmemory "github.com/nexashop/storefront/internal/domains/cart/adapters/memory"
	cartredis "github.com/nexashop/storefront/internal/domains/cart/adapters/redis"
	cartports "github.com/nexashop/storefront/internal/domains/cart/ports"
	checkoutmirror "github.com/nexashop/storefront/internal/domains/checkout/adapters/mirror"
	ordersmemory "github.com/nexashop/storefront/internal/domains/orders/adapters/memory"
	ordersobs "github.com/nexashop/storefront/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/nexashop/storefront/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/nexashop/storefront/internal/domains/orders/application"
	ordersports "github.com/nexashop/storefront/internal/domains/orders/ports"
	checkoutactivities "github.com/nexashop/storefront/internal/durable/temporal/activities/checkout"
	checkoutworkflows "github.com/nexashop/storefront/internal/durable/temporal/workflows/checkout"
	"github.com/nexashop/storefront/internal/platform/migrations"
	platformobservability "github.com/nexashop/storefront/internal/platform/observability"
	platformpostgres "github.com/nexashop/storefront/internal/platform/postgres"
	platformredis "github.com/nexashop/storefront/internal/platform/redis"
)

func main() {
	ctx := context.Background()
	const serviceName = "storefront-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	ordersRepo, cleanupRepo := buildOrdersRepository(ctx, logger)
	defer cleanupRepo()
	ordersService := ordersobs.New(
		ordersapp.NewService(ordersRepo),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	var snapshots cartports.SnapshotStore = cartmemory.NewSnapshotStore()
	redisClient, closeRedis := platformredis.ConnectFromEnv(ctx, logger)
	defer closeRedis()
	if redisClient != nil {
		snapshots = cartredis.NewSnapshotStore(redisClient)
	} else {
		logger.Warn("REDIS_ADDR not set, cart mirror clears only affect this process")
	}
	mirror := checkoutmirror.NewSnapshotMirror(snapshots)
	activities := checkoutactivities.NewActivities(ordersService, mirror)

	tracerOptions := temporalotel.TracerOptions{Tracer: instruments.Tracer("temporal-worker")}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		logger.Error("failed to configure Temporal tracing interceptor", slog.String("error", err.Error()))
		os.Exit(1)
	}
	clientOptions := client.Options{
		HostPort:  envOrDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		Namespace: envOrDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	clientOptions.Interceptors = append(clientOptions.Interceptors, tracingInterceptor)
	temporalClient, err := client.Dial(clientOptions)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, checkoutworkflows.OrderPlacementTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(checkoutworkflows.OrderPlacementWorkflow, workflow.RegisterOptions{Name: checkoutworkflows.OrderPlacementWorkflowName})
	w.RegisterActivityWithOptions(activities.PlaceOrder, activity.RegisterOptions{Name: checkoutactivities.PlaceOrderActivityName})
	w.RegisterActivityWithOptions(activities.ClearCartMirror, activity.RegisterOptions{Name: checkoutactivities.ClearCartMirrorActivityName})

	logger.Info("worker listening", slog.String("taskQueue", checkoutworkflows.OrderPlacementTaskQueue), slog.String("namespace", clientOptions.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}

func buildOrdersRepository(ctx context.Context, logger *slog.Logger) (ordersports.Repository, func()) {
	dsn := os.Getenv("POSTGRES_DSN")
	if strings.TrimSpace(dsn) == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory order repository")
		return ordersmemory.NewRepository(), func() {}
	}
	db, err := platformpostgres.Connect(ctx, dsn)
	if err != nil {
		logger.Warn("worker failed to connect to postgres, falling back to memory", slog.String("error", err.Error()))
		return ordersmemory.NewRepository(), func() {}
	}
	if err := migrations.Run(db); err != nil {
		logger.Warn("worker failed to run migrations", slog.String("error", err.Error()))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn("worker failed to unwrap postgres connection, falling back to memory", slog.String("error", err.Error()))
		return ordersmemory.NewRepository(), func() {}
	}
	logger.Info("worker order repository configured with postgres")
	return orderspostgres.NewRepository(db), func() { _ = sqlDB.Close() }
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
