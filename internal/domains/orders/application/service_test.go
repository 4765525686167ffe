package application

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	catalogmemory "github.com/Simon-Kral/Coderr/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/Simon-Kral/Coderr/internal/domains/catalog/application"
	catalogtypes "github.com/Simon-Kral/Coderr/internal/domains/catalog/application/types"
	catalogdomain "github.com/Simon-Kral/Coderr/internal/domains/catalog/domain"
	identitymemory "github.com/Simon-Kral/Coderr/internal/domains/identity/adapters/memory"
	identityapp "github.com/Simon-Kral/Coderr/internal/domains/identity/application"
	identitydomain "github.com/Simon-Kral/Coderr/internal/domains/identity/domain"
	orderscatalog "github.com/Simon-Kral/Coderr/internal/domains/orders/adapters/catalog"
	ordersidentity "github.com/Simon-Kral/Coderr/internal/domains/orders/adapters/identity"
	ordersmemory "github.com/Simon-Kral/Coderr/internal/domains/orders/adapters/memory"
	"github.com/Simon-Kral/Coderr/internal/domains/orders/domain"
	"github.com/Simon-Kral/Coderr/internal/domains/orders/ports"
)

type fixture struct {
	orders   *Service
	catalog  *catalogapp.Service
	identity *identityapp.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	catalogSvc := catalogapp.NewService(catalogmemory.NewRepository())
	identitySvc := identityapp.NewService(identitymemory.NewRepository(), identitymemory.NewSessionStore())
	ordersSvc := NewService(
		ordersmemory.NewRepository(),
		orderscatalog.NewDirectory(catalogSvc),
		ordersidentity.NewDirectory(identitySvc),
	)
	return &fixture{orders: ordersSvc, catalog: catalogSvc, identity: identitySvc}
}

func (f *fixture) registerAccount(t *testing.T, username string, kind identitydomain.ProfileKind) int64 {
	t.Helper()
	session, err := f.identity.Register(context.Background(), identityapp.RegisterInput{
		Username:         username,
		Email:            username + "@example.com",
		Password:         "secret123",
		RepeatedPassword: "secret123",
		Kind:             kind,
	})
	require.NoError(t, err)
	return session.AccountID
}

func (f *fixture) createOffer(t *testing.T, ownerID int64) *catalogtypes.OfferProjection {
	t.Helper()
	proj, err := f.catalog.CreateOffer(context.Background(), catalogtypes.CreateOfferInput{
		OwnerID:     ownerID,
		Title:       "Logo design",
		Description: "Professional design work",
		Details: []catalogtypes.DetailInput{
			{Title: "Basic logo", Revisions: 2, DeliveryTimeInDays: 5, Price: decimal.NewFromInt(100), Features: []string{"Logo"}, Tier: catalogdomain.TierBasic},
			{Title: "Standard logo", Revisions: 5, DeliveryTimeInDays: 7, Price: decimal.NewFromInt(200), Features: []string{"Logo", "Visiting card"}, Tier: catalogdomain.TierStandard},
			{Title: "Premium logo", Revisions: -1, DeliveryTimeInDays: 10, Price: decimal.NewFromInt(500), Features: []string{"Logo", "Flyer"}, Tier: catalogdomain.TierPremium},
		},
	})
	require.NoError(t, err)
	return proj
}

func TestCreateOrder_SnapshotsPackage(t *testing.T) {
	f := newFixture(t)
	business := f.registerAccount(t, "designer", identitydomain.KindBusiness)
	customer := f.registerAccount(t, "buyer", identitydomain.KindCustomer)
	offer := f.createOffer(t, business)
	standard := offer.Offer.DetailByTier(catalogdomain.TierStandard)
	require.NotNil(t, standard)

	proj, err := f.orders.CreateOrder(context.Background(), customer, standard.ID)
	require.NoError(t, err)
	order := proj.Entity
	require.Equal(t, customer, order.CustomerID)
	require.Equal(t, business, order.BusinessID)
	require.Equal(t, offer.Offer.ID, order.OfferID)
	require.Equal(t, standard.ID, order.OfferDetailID)
	require.Equal(t, "Standard logo", order.Title)
	require.Equal(t, 5, order.Revisions)
	require.Equal(t, 7, order.DeliveryTimeInDays)
	require.True(t, decimal.NewFromInt(200).Equal(order.Price))
	require.Equal(t, []string{"Logo", "Visiting card"}, order.Features)
	require.Equal(t, "standard", order.OfferType)
	require.Equal(t, domain.StatusInProgress, order.Status)
}

func TestCreateOrder_UnknownDetail(t *testing.T) {
	f := newFixture(t)
	customer := f.registerAccount(t, "buyer", identitydomain.KindCustomer)

	_, err := f.orders.CreateOrder(context.Background(), customer, 999)
	require.ErrorIs(t, err, ports.ErrOfferDetailUnknown)
}

func TestOrderSnapshot_ImmutableUnderCatalogEdits(t *testing.T) {
	f := newFixture(t)
	business := f.registerAccount(t, "designer", identitydomain.KindBusiness)
	customer := f.registerAccount(t, "buyer", identitydomain.KindCustomer)
	offer := f.createOffer(t, business)
	basic := offer.Offer.DetailByTier(catalogdomain.TierBasic)
	require.NotNil(t, basic)

	proj, err := f.orders.CreateOrder(context.Background(), customer, basic.ID)
	require.NoError(t, err)

	raised := decimal.NewFromInt(999)
	newTitle := "Basic logo reloaded"
	_, err = f.catalog.UpdateDetail(context.Background(), catalogtypes.UpdateDetailInput{
		ID:    basic.ID,
		Title: &newTitle,
		Price: &raised,
	})
	require.NoError(t, err)

	reloaded, err := f.orders.GetByID(context.Background(), proj.Entity.ID)
	require.NoError(t, err)
	require.Equal(t, "Basic logo", reloaded.Entity.Title)
	require.True(t, decimal.NewFromInt(100).Equal(reloaded.Entity.Price))
}

func TestUpdateStatus_FreeTransitions(t *testing.T) {
	f := newFixture(t)
	business := f.registerAccount(t, "designer", identitydomain.KindBusiness)
	customer := f.registerAccount(t, "buyer", identitydomain.KindCustomer)
	offer := f.createOffer(t, business)
	basic := offer.Offer.DetailByTier(catalogdomain.TierBasic)

	proj, err := f.orders.CreateOrder(context.Background(), customer, basic.ID)
	require.NoError(t, err)
	orderID := proj.Entity.ID

	for _, status := range []domain.Status{domain.StatusCompleted, domain.StatusCancelled, domain.StatusInProgress} {
		updated, err := f.orders.UpdateStatus(context.Background(), orderID, status)
		require.NoError(t, err)
		require.Equal(t, status, updated.Entity.Status)
	}

	_, err = f.orders.UpdateStatus(context.Background(), orderID, domain.Status("archived"))
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestListFor_UnionOfBothSides(t *testing.T) {
	f := newFixture(t)
	business := f.registerAccount(t, "designer", identitydomain.KindBusiness)
	customer := f.registerAccount(t, "buyer", identitydomain.KindCustomer)
	bystander := f.registerAccount(t, "lurker", identitydomain.KindCustomer)
	offer := f.createOffer(t, business)
	basic := offer.Offer.DetailByTier(catalogdomain.TierBasic)

	_, err := f.orders.CreateOrder(context.Background(), customer, basic.ID)
	require.NoError(t, err)

	asCustomer, err := f.orders.ListFor(context.Background(), customer, false)
	require.NoError(t, err)
	require.Len(t, asCustomer, 1)

	asBusiness, err := f.orders.ListFor(context.Background(), business, false)
	require.NoError(t, err)
	require.Len(t, asBusiness, 1)

	asBystander, err := f.orders.ListFor(context.Background(), bystander, false)
	require.NoError(t, err)
	require.Empty(t, asBystander)

	asAdmin, err := f.orders.ListFor(context.Background(), bystander, true)
	require.NoError(t, err)
	require.Len(t, asAdmin, 1)
}

func TestCounts_ByBusinessAndStatus(t *testing.T) {
	f := newFixture(t)
	business := f.registerAccount(t, "designer", identitydomain.KindBusiness)
	customer := f.registerAccount(t, "buyer", identitydomain.KindCustomer)
	offer := f.createOffer(t, business)
	basic := offer.Offer.DetailByTier(catalogdomain.TierBasic)

	first, err := f.orders.CreateOrder(context.Background(), customer, basic.ID)
	require.NoError(t, err)
	_, err = f.orders.CreateOrder(context.Background(), customer, basic.ID)
	require.NoError(t, err)
	_, err = f.orders.UpdateStatus(context.Background(), first.Entity.ID, domain.StatusCompleted)
	require.NoError(t, err)

	inProgress, err := f.orders.CountInProgress(context.Background(), business)
	require.NoError(t, err)
	require.Equal(t, int64(1), inProgress)

	completed, err := f.orders.CountCompleted(context.Background(), business)
	require.NoError(t, err)
	require.Equal(t, int64(1), completed)

	_, err = f.orders.CountInProgress(context.Background(), 4242)
	require.ErrorIs(t, err, ports.ErrAccountUnknown)
}

func TestDeleteOrder(t *testing.T) {
	f := newFixture(t)
	business := f.registerAccount(t, "designer", identitydomain.KindBusiness)
	customer := f.registerAccount(t, "buyer", identitydomain.KindCustomer)
	offer := f.createOffer(t, business)
	basic := offer.Offer.DetailByTier(catalogdomain.TierBasic)

	proj, err := f.orders.CreateOrder(context.Background(), customer, basic.ID)
	require.NoError(t, err)

	require.NoError(t, f.orders.Delete(context.Background(), proj.Entity.ID))
	_, err = f.orders.GetByID(context.Background(), proj.Entity.ID)
	require.ErrorIs(t, err, ports.ErrNotFound)
}
