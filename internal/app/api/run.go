// Package api boots the marketplace HTTP process: observability, storage,
// bounded context services, durable workflows, and the gin router.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"gorm.io/gorm"

	catalogmemory "github.com/Simon-Kral/Coderr/internal/domains/catalog/adapters/memory"
	catalogobs "github.com/Simon-Kral/Coderr/internal/domains/catalog/adapters/observability"
	catalogpostgres "github.com/Simon-Kral/Coderr/internal/domains/catalog/adapters/persistence/postgres"
	catalogworkflows "github.com/Simon-Kral/Coderr/internal/domains/catalog/adapters/workflows"
	catalogapp "github.com/Simon-Kral/Coderr/internal/domains/catalog/application"
	catalogports "github.com/Simon-Kral/Coderr/internal/domains/catalog/ports"
	identitymemory "github.com/Simon-Kral/Coderr/internal/domains/identity/adapters/memory"
	identitypostgres "github.com/Simon-Kral/Coderr/internal/domains/identity/adapters/persistence/postgres"
	identityapp "github.com/Simon-Kral/Coderr/internal/domains/identity/application"
	identityports "github.com/Simon-Kral/Coderr/internal/domains/identity/ports"
	orderscatalog "github.com/Simon-Kral/Coderr/internal/domains/orders/adapters/catalog"
	ordersidentity "github.com/Simon-Kral/Coderr/internal/domains/orders/adapters/identity"
	ordersmemory "github.com/Simon-Kral/Coderr/internal/domains/orders/adapters/memory"
	orderspostgres "github.com/Simon-Kral/Coderr/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/Simon-Kral/Coderr/internal/domains/orders/application"
	ordersports "github.com/Simon-Kral/Coderr/internal/domains/orders/ports"
	reportingapp "github.com/Simon-Kral/Coderr/internal/domains/reporting/application"
	reviewsidentity "github.com/Simon-Kral/Coderr/internal/domains/reviews/adapters/identity"
	reviewsmemory "github.com/Simon-Kral/Coderr/internal/domains/reviews/adapters/memory"
	reviewspostgres "github.com/Simon-Kral/Coderr/internal/domains/reviews/adapters/persistence/postgres"
	reviewsapp "github.com/Simon-Kral/Coderr/internal/domains/reviews/application"
	reviewsports "github.com/Simon-Kral/Coderr/internal/domains/reviews/ports"
	"github.com/Simon-Kral/Coderr/internal/platform/migrations"
	platformobservability "github.com/Simon-Kral/Coderr/internal/platform/observability"
	platformpostgres "github.com/Simon-Kral/Coderr/internal/platform/postgres"
	"github.com/Simon-Kral/Coderr/internal/server"
)

const serviceName = "coderr-api"

// Run boots the marketplace HTTP API with observability, repositories, and
// workflows wired.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
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

	db, cleanup := platformpostgres.ConnectFromEnv(ctx, logger)
	defer cleanup()
	if db != nil {
		if err := migrations.Run(db); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	stores := buildStores(db, cfg)

	coreCatalog := catalogapp.NewService(stores.catalogRepo, catalogapp.WithIdempotencyStore(stores.idempotency))
	catalogService := catalogobs.New(
		coreCatalog,
		catalogobs.WithLogger(logger),
		catalogobs.WithTracer(instruments.Tracer("internal.catalog.application")),
		catalogobs.WithMeter(instruments.Meter("internal.catalog.application")),
	)
	identityService := identityapp.NewService(stores.identityRepo, stores.sessions)
	ordersService := ordersapp.NewService(
		stores.ordersRepo,
		orderscatalog.NewDirectory(catalogService),
		ordersidentity.NewDirectory(identityService),
	)
	reviewsService := reviewsapp.NewService(stores.reviewsRepo, reviewsidentity.NewDirectory(identityService))
	reportingService := reportingapp.NewService(reviewsService, identityService, catalogService)

	var offerWorkflows catalogports.WorkflowOrchestrator = catalogworkflows.NewInlineOfferWorkflows(catalogService)
	if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, running inline offer creation", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		offerWorkflows = catalogworkflows.NewTemporalOfferWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	srv := server.New(
		identityService,
		catalogService,
		ordersService,
		reviewsService,
		reportingService,
		server.WithLogger(logger),
		server.WithWorkflows(offerWorkflows),
	)
	router := srv.Router(otelgin.Middleware(serviceName))

	addr := ":" + cfg.Port
	logger.Info("Coderr API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("Coderr API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

type contextStores struct {
	catalogRepo  catalogports.Repository
	idempotency  catalogports.IdempotencyStore
	identityRepo identityports.Repository
	sessions     identityports.SessionStore
	ordersRepo   ordersports.Repository
	reviewsRepo  reviewsports.Repository
}

// buildStores picks PostgreSQL-backed repositories when a connection exists
// and in-memory ones otherwise, for all contexts at once so the API never
// mixes storage backends.
func buildStores(db *gorm.DB, cfg Config) contextStores {
	if db == nil {
		return contextStores{
			catalogRepo:  catalogmemory.NewRepository(),
			idempotency:  catalogmemory.NewIdempotencyStore(),
			identityRepo: identitymemory.NewRepository(),
			sessions:     identitymemory.NewSessionStore(),
			ordersRepo:   ordersmemory.NewRepository(),
			reviewsRepo:  reviewsmemory.NewRepository(),
		}
	}
	return contextStores{
		catalogRepo:  catalogpostgres.NewRepository(db),
		idempotency:  catalogpostgres.NewIdempotencyStore(db),
		identityRepo: identitypostgres.NewRepository(db),
		sessions:     identitypostgres.NewSessionStore(db, cfg.SessionTTL()),
		ordersRepo:   orderspostgres.NewRepository(db),
		reviewsRepo:  reviewspostgres.NewRepository(db),
	}
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
	logger := workerlog.NewStructuredLogger(effectiveLogger(instruments))
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    logger,
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
