package application

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	catalogmemory "github.com/Simon-Kral/Coderr/internal/domains/catalog/adapters/memory"
	catalogtypes "github.com/Simon-Kral/Coderr/internal/domains/catalog/application/types"
	"github.com/Simon-Kral/Coderr/internal/domains/catalog/domain"
	"github.com/Simon-Kral/Coderr/internal/domains/catalog/ports"
)

func threeTierDetails() []catalogtypes.DetailInput {
	return []catalogtypes.DetailInput{
		{Title: "Basic logo", Revisions: 2, DeliveryTimeInDays: 5, Price: decimal.NewFromInt(100), Features: []string{"Logo"}, Tier: domain.TierBasic},
		{Title: "Standard logo", Revisions: 5, DeliveryTimeInDays: 7, Price: decimal.NewFromInt(200), Features: []string{"Logo", "Visiting card"}, Tier: domain.TierStandard},
		{Title: "Premium logo", Revisions: -1, DeliveryTimeInDays: 10, Price: decimal.NewFromInt(500), Features: []string{"Logo", "Visiting card", "Flyer"}, Tier: domain.TierPremium},
	}
}

func createOffer(t *testing.T, svc *Service, ownerID int64, title string) *catalogtypes.OfferProjection {
	t.Helper()
	proj, err := svc.CreateOffer(context.Background(), catalogtypes.CreateOfferInput{
		OwnerID:     ownerID,
		Title:       title,
		Description: "Professional design work",
		Details:     threeTierDetails(),
	})
	require.NoError(t, err)
	require.NotNil(t, proj)
	return proj
}

func TestCreateOffer_Success(t *testing.T) {
	svc := NewService(catalogmemory.NewRepository())

	proj := createOffer(t, svc, 7, "Logo design")
	require.NotZero(t, proj.Offer.ID)
	require.Len(t, proj.Offer.Details, 3)
	require.True(t, decimal.NewFromInt(100).Equal(proj.Offer.MinPrice()))
	require.Equal(t, 5, proj.Offer.MinDeliveryTime())
	require.False(t, proj.Metadata.CreatedAt.IsZero())
	for _, detail := range proj.Offer.Details {
		require.NotZero(t, detail.ID)
		require.Equal(t, proj.Offer.ID, detail.OfferID)
	}
}

func TestCreateOffer_RequiresExactlyThreeTiers(t *testing.T) {
	svc := NewService(catalogmemory.NewRepository())

	two := threeTierDetails()[:2]
	_, err := svc.CreateOffer(context.Background(), catalogtypes.CreateOfferInput{
		OwnerID: 7, Title: "Logo design", Details: two,
	})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrIncompleteTierSet)

	four := append(threeTierDetails(), threeTierDetails()[0])
	_, err = svc.CreateOffer(context.Background(), catalogtypes.CreateOfferInput{
		OwnerID: 7, Title: "Logo design", Details: four,
	})
	require.ErrorIs(t, err, ErrInvalidInput)

	duplicated := threeTierDetails()
	duplicated[1].Tier = domain.TierBasic
	_, err = svc.CreateOffer(context.Background(), catalogtypes.CreateOfferInput{
		OwnerID: 7, Title: "Logo design", Details: duplicated,
	})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrIncompleteTierSet)
}

func TestCreateOffer_InvalidDetail(t *testing.T) {
	svc := NewService(catalogmemory.NewRepository())

	details := threeTierDetails()
	details[0].DeliveryTimeInDays = 0
	_, err := svc.CreateOffer(context.Background(), catalogtypes.CreateOfferInput{
		OwnerID: 7, Title: "Logo design", Details: details,
	})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrInvalidDeliveryTime)

	details = threeTierDetails()
	details[2].Revisions = -2
	_, err = svc.CreateOffer(context.Background(), catalogtypes.CreateOfferInput{
		OwnerID: 7, Title: "Logo design", Details: details,
	})
	require.ErrorIs(t, err, domain.ErrInvalidRevisions)

	details = threeTierDetails()
	details[1].Price = decimal.NewFromInt(-1)
	_, err = svc.CreateOffer(context.Background(), catalogtypes.CreateOfferInput{
		OwnerID: 7, Title: "Logo design", Details: details,
	})
	require.ErrorIs(t, err, domain.ErrNegativePrice)
}

func TestUpdateOffer_PatchesMatchingTierOnly(t *testing.T) {
	svc := NewService(catalogmemory.NewRepository())
	proj := createOffer(t, svc, 7, "Logo design")

	newPrice := decimal.NewFromInt(50)
	newTitle := "Basic logo v2"
	updated, err := svc.UpdateOffer(context.Background(), catalogtypes.UpdateOfferInput{
		ID: proj.Offer.ID,
		Details: []catalogtypes.DetailPatch{
			{Tier: domain.TierBasic, Title: &newTitle, Price: &newPrice},
		},
	})
	require.NoError(t, err)

	basic := updated.Offer.DetailByTier(domain.TierBasic)
	require.NotNil(t, basic)
	require.Equal(t, newTitle, basic.Title)
	require.True(t, newPrice.Equal(basic.Price))
	// Untouched tiers keep their packages.
	standard := updated.Offer.DetailByTier(domain.TierStandard)
	require.NotNil(t, standard)
	require.Equal(t, "Standard logo", standard.Title)
	require.True(t, newPrice.Equal(updated.Offer.MinPrice()))
}

func TestUpdateOffer_UnknownTier(t *testing.T) {
	svc := NewService(catalogmemory.NewRepository())
	proj := createOffer(t, svc, 7, "Logo design")

	title := "Gold"
	_, err := svc.UpdateOffer(context.Background(), catalogtypes.UpdateOfferInput{
		ID:      proj.Offer.ID,
		Details: []catalogtypes.DetailPatch{{Tier: domain.Tier("gold"), Title: &title}},
	})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrInvalidTier)
}

func TestUpdateOffer_NotFound(t *testing.T) {
	svc := NewService(catalogmemory.NewRepository())

	title := "Anything"
	_, err := svc.UpdateOffer(context.Background(), catalogtypes.UpdateOfferInput{ID: 42, Title: &title})
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestUpdateDetail_RecomputesMinPrice(t *testing.T) {
	svc := NewService(catalogmemory.NewRepository())
	proj := createOffer(t, svc, 7, "Logo design")

	standard := proj.Offer.DetailByTier(domain.TierStandard)
	require.NotNil(t, standard)

	cheaper := decimal.NewFromInt(40)
	updated, err := svc.UpdateDetail(context.Background(), catalogtypes.UpdateDetailInput{
		ID:    standard.ID,
		Price: &cheaper,
	})
	require.NoError(t, err)
	require.True(t, cheaper.Equal(updated.Price))
	require.Equal(t, domain.TierStandard, updated.Tier)

	reloaded, err := svc.GetByID(context.Background(), catalogtypes.OfferIdentifier{ID: proj.Offer.ID})
	require.NoError(t, err)
	require.True(t, cheaper.Equal(reloaded.Offer.MinPrice()))
}

func TestDeleteDetail_LeavesRemainingPackages(t *testing.T) {
	svc := NewService(catalogmemory.NewRepository())
	proj := createOffer(t, svc, 7, "Logo design")

	premium := proj.Offer.DetailByTier(domain.TierPremium)
	require.NotNil(t, premium)
	require.NoError(t, svc.DeleteDetail(context.Background(), premium.ID))

	reloaded, err := svc.GetByID(context.Background(), catalogtypes.OfferIdentifier{ID: proj.Offer.ID})
	require.NoError(t, err)
	require.Len(t, reloaded.Offer.Details, 2)

	_, err = svc.GetDetail(context.Background(), premium.ID)
	require.ErrorIs(t, err, ports.ErrDetailNotFound)
}

func TestDeleteOffer(t *testing.T) {
	svc := NewService(catalogmemory.NewRepository())
	proj := createOffer(t, svc, 7, "Logo design")

	require.NoError(t, svc.Delete(context.Background(), catalogtypes.OfferIdentifier{ID: proj.Offer.ID}))
	_, err := svc.GetByID(context.Background(), catalogtypes.OfferIdentifier{ID: proj.Offer.ID})
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestListOffers_Filters(t *testing.T) {
	svc := NewService(catalogmemory.NewRepository())
	createOffer(t, svc, 7, "Logo design")

	expensive := threeTierDetails()
	for i := range expensive {
		expensive[i].Price = expensive[i].Price.Add(decimal.NewFromInt(1000))
		expensive[i].DeliveryTimeInDays += 30
	}
	_, err := svc.CreateOffer(context.Background(), catalogtypes.CreateOfferInput{
		OwnerID: 8, Title: "Website relaunch", Description: "Full stack", Details: expensive,
	})
	require.NoError(t, err)

	creator := int64(7)
	byCreator, err := svc.List(context.Background(), ports.ListFilter{CreatorID: &creator})
	require.NoError(t, err)
	require.Len(t, byCreator, 1)
	require.Equal(t, "Logo design", byCreator[0].Offer.Title)

	bound := decimal.NewFromInt(150)
	cheap, err := svc.List(context.Background(), ports.ListFilter{MinPrice: &bound})
	require.NoError(t, err)
	require.Len(t, cheap, 1)

	maxDelivery := 10
	fast, err := svc.List(context.Background(), ports.ListFilter{MaxDeliveryTime: &maxDelivery})
	require.NoError(t, err)
	require.Len(t, fast, 1)

	found, err := svc.List(context.Background(), ports.ListFilter{Search: "relaunch"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, "Website relaunch", found[0].Offer.Title)

	all, err := svc.List(context.Background(), ports.ListFilter{Ordering: ports.OrderMinPriceDesc})
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "Website relaunch", all[0].Offer.Title)
}

func TestListOffers_UnknownOrdering(t *testing.T) {
	svc := NewService(catalogmemory.NewRepository())

	_, err := svc.List(context.Background(), ports.ListFilter{Ordering: ports.Ordering("rating")})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, ports.ErrUnknownOrdering)
}

func TestCreateOffer_IdempotentReplay(t *testing.T) {
	repo := catalogmemory.NewRepository()
	svc := NewService(repo, WithIdempotencyStore(catalogmemory.NewIdempotencyStore()))

	input := catalogtypes.CreateOfferInput{
		OwnerID:        7,
		Title:          "Logo design",
		Details:        threeTierDetails(),
		IdempotencyKey: "retry-1",
	}
	first, err := svc.CreateOffer(context.Background(), input)
	require.NoError(t, err)

	replayed, err := svc.CreateOffer(context.Background(), input)
	require.NoError(t, err)
	require.Equal(t, first.Offer.ID, replayed.Offer.ID)

	count, err := svc.Count(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	conflicting := input
	conflicting.Title = "Different payload"
	_, err = svc.CreateOffer(context.Background(), conflicting)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, ports.ErrIdempotencyConflict)
}

func TestCount(t *testing.T) {
	svc := NewService(catalogmemory.NewRepository())
	createOffer(t, svc, 7, "Logo design")
	createOffer(t, svc, 7, "Flyer design")

	count, err := svc.Count(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(2), count)
}
