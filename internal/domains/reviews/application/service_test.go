package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	identitymemory "github.com/Simon-Kral/Coderr/internal/domains/identity/adapters/memory"
	identityapp "github.com/Simon-Kral/Coderr/internal/domains/identity/application"
	identitydomain "github.com/Simon-Kral/Coderr/internal/domains/identity/domain"
	reviewsidentity "github.com/Simon-Kral/Coderr/internal/domains/reviews/adapters/identity"
	reviewsmemory "github.com/Simon-Kral/Coderr/internal/domains/reviews/adapters/memory"
	"github.com/Simon-Kral/Coderr/internal/domains/reviews/domain"
	"github.com/Simon-Kral/Coderr/internal/domains/reviews/ports"
)

type fixture struct {
	reviews  *Service
	identity *identityapp.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	identitySvc := identityapp.NewService(identitymemory.NewRepository(), identitymemory.NewSessionStore())
	reviewsSvc := NewService(reviewsmemory.NewRepository(), reviewsidentity.NewDirectory(identitySvc))
	return &fixture{reviews: reviewsSvc, identity: identitySvc}
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

func TestCreateReview_Success(t *testing.T) {
	f := newFixture(t)
	business := f.registerAccount(t, "designer", identitydomain.KindBusiness)
	reviewer := f.registerAccount(t, "buyer", identitydomain.KindCustomer)

	proj, err := f.reviews.CreateReview(context.Background(), reviewer, business, 4, "Solid work")
	require.NoError(t, err)
	require.NotZero(t, proj.Entity.ID)
	require.Equal(t, business, proj.Entity.BusinessID)
	require.Equal(t, reviewer, proj.Entity.ReviewerID)
	require.Equal(t, 4, proj.Entity.Rating)
	require.False(t, proj.Metadata.CreatedAt.IsZero())
}

func TestCreateReview_OnePerBusiness(t *testing.T) {
	f := newFixture(t)
	business := f.registerAccount(t, "designer", identitydomain.KindBusiness)
	other := f.registerAccount(t, "photographer", identitydomain.KindBusiness)
	reviewer := f.registerAccount(t, "buyer", identitydomain.KindCustomer)

	_, err := f.reviews.CreateReview(context.Background(), reviewer, business, 4, "Solid work")
	require.NoError(t, err)

	_, err = f.reviews.CreateReview(context.Background(), reviewer, business, 5, "Changed my mind")
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, ports.ErrDuplicateReview)

	// A different business is fine.
	_, err = f.reviews.CreateReview(context.Background(), reviewer, other, 5, "Great photos")
	require.NoError(t, err)
}

func TestCreateReview_TargetMustBeBusiness(t *testing.T) {
	f := newFixture(t)
	reviewer := f.registerAccount(t, "buyer", identitydomain.KindCustomer)
	otherCustomer := f.registerAccount(t, "shopper", identitydomain.KindCustomer)

	_, err := f.reviews.CreateReview(context.Background(), reviewer, otherCustomer, 4, "Nice person")
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, ports.ErrNotBusinessAccount)

	_, err = f.reviews.CreateReview(context.Background(), reviewer, 4242, 4, "Ghost")
	require.ErrorIs(t, err, ports.ErrNotBusinessAccount)
}

func TestCreateReview_RatingRange(t *testing.T) {
	f := newFixture(t)
	business := f.registerAccount(t, "designer", identitydomain.KindBusiness)
	reviewer := f.registerAccount(t, "buyer", identitydomain.KindCustomer)

	_, err := f.reviews.CreateReview(context.Background(), reviewer, business, 0, "Too low")
	require.ErrorIs(t, err, domain.ErrInvalidRating)

	_, err = f.reviews.CreateReview(context.Background(), reviewer, business, 6, "Too high")
	require.ErrorIs(t, err, domain.ErrInvalidRating)
}

func TestUpdateReview_RatingAndDescriptionOnly(t *testing.T) {
	f := newFixture(t)
	business := f.registerAccount(t, "designer", identitydomain.KindBusiness)
	reviewer := f.registerAccount(t, "buyer", identitydomain.KindCustomer)

	proj, err := f.reviews.CreateReview(context.Background(), reviewer, business, 3, "Okay")
	require.NoError(t, err)

	rating := 5
	text := "Actually excellent"
	updated, err := f.reviews.UpdateReview(context.Background(), proj.Entity.ID, &rating, &text)
	require.NoError(t, err)
	require.Equal(t, 5, updated.Entity.Rating)
	require.Equal(t, text, updated.Entity.Description)
	require.Equal(t, business, updated.Entity.BusinessID)
	require.Equal(t, reviewer, updated.Entity.ReviewerID)

	bad := 9
	_, err = f.reviews.UpdateReview(context.Background(), proj.Entity.ID, &bad, nil)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestListReviews_FilterAndOrdering(t *testing.T) {
	f := newFixture(t)
	business := f.registerAccount(t, "designer", identitydomain.KindBusiness)
	other := f.registerAccount(t, "photographer", identitydomain.KindBusiness)
	alice := f.registerAccount(t, "alice", identitydomain.KindCustomer)
	bob := f.registerAccount(t, "bob", identitydomain.KindCustomer)

	_, err := f.reviews.CreateReview(context.Background(), alice, business, 2, "Meh")
	require.NoError(t, err)
	_, err = f.reviews.CreateReview(context.Background(), bob, business, 5, "Great")
	require.NoError(t, err)
	_, err = f.reviews.CreateReview(context.Background(), alice, other, 4, "Good")
	require.NoError(t, err)

	forBusiness, err := f.reviews.List(context.Background(), ports.ListFilter{BusinessID: &business})
	require.NoError(t, err)
	require.Len(t, forBusiness, 2)

	byAlice, err := f.reviews.List(context.Background(), ports.ListFilter{ReviewerID: &alice})
	require.NoError(t, err)
	require.Len(t, byAlice, 2)

	byRating, err := f.reviews.List(context.Background(), ports.ListFilter{Ordering: ports.OrderRatingDesc})
	require.NoError(t, err)
	require.Len(t, byRating, 3)
	require.Equal(t, 5, byRating[0].Entity.Rating)
	require.Equal(t, 2, byRating[2].Entity.Rating)

	_, err = f.reviews.List(context.Background(), ports.ListFilter{Ordering: ports.Ordering("created_at")})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestDeleteReview_AllowsReReview(t *testing.T) {
	f := newFixture(t)
	business := f.registerAccount(t, "designer", identitydomain.KindBusiness)
	reviewer := f.registerAccount(t, "buyer", identitydomain.KindCustomer)

	proj, err := f.reviews.CreateReview(context.Background(), reviewer, business, 3, "Okay")
	require.NoError(t, err)
	require.NoError(t, f.reviews.DeleteReview(context.Background(), proj.Entity.ID))

	_, err = f.reviews.GetByID(context.Background(), proj.Entity.ID)
	require.ErrorIs(t, err, ports.ErrNotFound)

	_, err = f.reviews.CreateReview(context.Background(), reviewer, business, 4, "Second look")
	require.NoError(t, err)
}

func TestCountAndAverage(t *testing.T) {
	f := newFixture(t)
	business := f.registerAccount(t, "designer", identitydomain.KindBusiness)
	alice := f.registerAccount(t, "alice", identitydomain.KindCustomer)
	bob := f.registerAccount(t, "bob", identitydomain.KindCustomer)

	average, err := f.reviews.AverageRating(context.Background())
	require.NoError(t, err)
	require.Zero(t, average)

	_, err = f.reviews.CreateReview(context.Background(), alice, business, 4, "Good")
	require.NoError(t, err)
	_, err = f.reviews.CreateReview(context.Background(), bob, business, 5, "Great")
	require.NoError(t, err)

	count, err := f.reviews.Count(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(2), count)

	average, err = f.reviews.AverageRating(context.Background())
	require.NoError(t, err)
	require.InDelta(t, 4.5, average, 0.0001)
}
