//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	pacttest "github.com/Simon-Kral/Coderr/test/pact"

	catalogmemory "github.com/Simon-Kral/Coderr/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/Simon-Kral/Coderr/internal/domains/catalog/application"
	catalogtypes "github.com/Simon-Kral/Coderr/internal/domains/catalog/application/types"
	catalogdomain "github.com/Simon-Kral/Coderr/internal/domains/catalog/domain"
	catalogports "github.com/Simon-Kral/Coderr/internal/domains/catalog/ports"
	identitymemory "github.com/Simon-Kral/Coderr/internal/domains/identity/adapters/memory"
	identityapp "github.com/Simon-Kral/Coderr/internal/domains/identity/application"
	identitydomain "github.com/Simon-Kral/Coderr/internal/domains/identity/domain"
	orderscatalog "github.com/Simon-Kral/Coderr/internal/domains/orders/adapters/catalog"
	ordersidentity "github.com/Simon-Kral/Coderr/internal/domains/orders/adapters/identity"
	ordersmemory "github.com/Simon-Kral/Coderr/internal/domains/orders/adapters/memory"
	ordersapp "github.com/Simon-Kral/Coderr/internal/domains/orders/application"
	reportingapp "github.com/Simon-Kral/Coderr/internal/domains/reporting/application"
	reviewsidentity "github.com/Simon-Kral/Coderr/internal/domains/reviews/adapters/identity"
	reviewsmemory "github.com/Simon-Kral/Coderr/internal/domains/reviews/adapters/memory"
	reviewsapp "github.com/Simon-Kral/Coderr/internal/domains/reviews/application"
	"github.com/Simon-Kral/Coderr/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestCoderrProviderPact(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateBusinessSession: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			return nil, nil
		},
		pacttest.StateOfferExists: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			if setup {
				app.seedOffer(t)
			}
			return nil, nil
		},
		pacttest.StateOfferMissing: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			return nil, nil
		},
		pacttest.StatePlatformStats: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			if setup {
				app.seedOffer(t)
			}
			return nil, nil
		},
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
		BeforeEach: func() error {
			app.reset(t)
			return nil
		},
	})
	require.NoError(t, err)
}

// contractProviderApp rebuilds the full in-memory stack for every provider
// state so seeded IDs stay deterministic across interactions.
type contractProviderApp struct {
	mu         sync.RWMutex
	router     http.Handler
	catalog    catalogports.Service
	businessID int64
	server     *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()

	app := &contractProviderApp{}
	app.reset(t)
	app.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.mu.RLock()
		router := app.router
		app.mu.RUnlock()
		router.ServeHTTP(w, r)
	}))
	t.Cleanup(app.server.Close)
	return app
}

func (a *contractProviderApp) reset(t testing.TB) {
	t.Helper()
	ctx := context.Background()

	sessions := identitymemory.NewSessionStore()
	identityService := identityapp.NewService(identitymemory.NewRepository(), sessions)
	catalogService := catalogapp.NewService(
		catalogmemory.NewRepository(),
		catalogapp.WithIdempotencyStore(catalogmemory.NewIdempotencyStore()),
	)
	ordersService := ordersapp.NewService(
		ordersmemory.NewRepository(),
		orderscatalog.NewDirectory(catalogService),
		ordersidentity.NewDirectory(identityService),
	)
	reviewsService := reviewsapp.NewService(reviewsmemory.NewRepository(), reviewsidentity.NewDirectory(identityService))
	reportingService := reportingapp.NewService(reviewsService, identityService, catalogService)

	session, err := identityService.Register(ctx, identityapp.RegisterInput{
		Username:         pacttest.BusinessUsername,
		Email:            pacttest.BusinessUsername + "@example.com",
		Password:         pacttest.BusinessPassword,
		RepeatedPassword: pacttest.BusinessPassword,
		Kind:             identitydomain.KindBusiness,
	})
	require.NoError(t, err)

	// Replayed requests carry the agreed token, not the random one Register
	// issued.
	require.NoError(t, sessions.Save(ctx, pacttest.BusinessUsername, pacttest.BusinessToken))

	srv := server.New(identityService, catalogService, ordersService, reviewsService, reportingService)

	a.mu.Lock()
	a.router = srv.Router()
	a.catalog = catalogService
	a.businessID = session.AccountID
	a.mu.Unlock()
}

func (a *contractProviderApp) seedOffer(t testing.TB) {
	t.Helper()
	a.mu.RLock()
	catalogService := a.catalog
	ownerID := a.businessID
	a.mu.RUnlock()

	_, err := catalogService.CreateOffer(context.Background(), catalogtypes.CreateOfferInput{
		OwnerID:     ownerID,
		Title:       "Brand relaunch package",
		Description: "Logo, flyer and web design in one bundle",
		Details: []catalogtypes.DetailInput{
			{Title: "Basic", Revisions: 1, DeliveryTimeInDays: 5, Price: decimal.NewFromInt(100), Features: []string{"Logo"}, Tier: catalogdomain.TierBasic},
			{Title: "Standard", Revisions: 3, DeliveryTimeInDays: 7, Price: decimal.NewFromInt(200), Features: []string{"Logo", "Flyer"}, Tier: catalogdomain.TierStandard},
			{Title: "Premium", Revisions: -1, DeliveryTimeInDays: 10, Price: decimal.NewFromInt(500), Features: []string{"Logo", "Flyer", "Website"}, Tier: catalogdomain.TierPremium},
		},
	})
	require.NoError(t, err)
}
