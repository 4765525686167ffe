package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	catalogmemory "github.com/Simon-Kral/Coderr/internal/domains/catalog/adapters/memory"
	catalogobs "github.com/Simon-Kral/Coderr/internal/domains/catalog/adapters/observability"
	catalogpostgres "github.com/Simon-Kral/Coderr/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/Simon-Kral/Coderr/internal/domains/catalog/application"
	catalogports "github.com/Simon-Kral/Coderr/internal/domains/catalog/ports"
	catalogactivities "github.com/Simon-Kral/Coderr/internal/durable/temporal/activities/catalog"
	catalogworkflows "github.com/Simon-Kral/Coderr/internal/durable/temporal/workflows/catalog"
	platformobservability "github.com/Simon-Kral/Coderr/internal/platform/observability"
	platformpostgres "github.com/Simon-Kral/Coderr/internal/platform/postgres"
)

func main() {
	ctx := context.Background()
	const serviceName = "coderr-worker"
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

	catalogRepo, idempotency, cleanupRepo := buildCatalogStores(ctx, logger)
	defer cleanupRepo()
	catalogService := catalogobs.New(
		catalogapp.NewService(catalogRepo, catalogapp.WithIdempotencyStore(idempotency)),
		catalogobs.WithLogger(logger),
		catalogobs.WithTracer(instruments.Tracer("internal.catalog.application")),
		catalogobs.WithMeter(instruments.Meter("internal.catalog.application")),
	)
	activities := catalogactivities.NewActivities(catalogService)

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

	w := worker.New(temporalClient, catalogworkflows.OfferCreationTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(catalogworkflows.OfferCreationWorkflow, workflow.RegisterOptions{Name: catalogworkflows.OfferCreationWorkflowName})
	w.RegisterActivityWithOptions(activities.PersistOffer, activity.RegisterOptions{Name: catalogactivities.PersistOfferActivityName})

	logger.Info("worker listening", slog.String("taskQueue", catalogworkflows.OfferCreationTaskQueue), slog.String("namespace", clientOptions.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}

func buildCatalogStores(ctx context.Context, logger *slog.Logger) (catalogports.Repository, catalogports.IdempotencyStore, func()) {
	db, cleanup := platformpostgres.ConnectFromEnv(ctx, logger)
	if db == nil {
		return catalogmemory.NewRepository(), catalogmemory.NewIdempotencyStore(), cleanup
	}
	logger.Info("worker catalog repository configured with postgres")
	return catalogpostgres.NewRepository(db), catalogpostgres.NewIdempotencyStore(db), cleanup
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
