//go:build integration
// +build integration

// To enable gopls support for this file, add the following to your VSCode settings.json:
// "gopls": {
//   "buildFlags": ["-tags=integration"]
// }

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	reviewspostgres "github.com/Simon-Kral/Coderr/internal/domains/reviews/adapters/persistence/postgres"
	"github.com/Simon-Kral/Coderr/internal/domains/reviews/domain"
	"github.com/Simon-Kral/Coderr/internal/domains/reviews/ports"
	"github.com/Simon-Kral/Coderr/internal/platform/migrations"
)

func setupPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("coderr_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func newReview(t *testing.T, businessID, reviewerID int64, rating int) *domain.Review {
	t.Helper()
	review, err := domain.NewReview(businessID, reviewerID, rating, "solid work")
	require.NoError(t, err)
	return review
}

func TestPostgresRepository_UniquePairConstraint(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := reviewspostgres.NewRepository(db)
	ctx := context.Background()

	_, err := repo.Save(ctx, newReview(t, 1, 2, 5))
	require.NoError(t, err)

	// The unique index enforces the pair even when the pre-check is skipped.
	_, err = repo.Save(ctx, newReview(t, 1, 2, 3))
	assert.ErrorIs(t, err, ports.ErrDuplicateReview)

	// Same reviewer, different business is fine.
	_, err = repo.Save(ctx, newReview(t, 3, 2, 4))
	require.NoError(t, err)

	exists, err := repo.ExistsForPair(ctx, 2, 1)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestPostgresRepository_AverageRating(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := reviewspostgres.NewRepository(db)
	ctx := context.Background()

	average, err := repo.AverageRating(ctx)
	require.NoError(t, err)
	assert.Zero(t, average)

	_, err = repo.Save(ctx, newReview(t, 1, 2, 5))
	require.NoError(t, err)
	_, err = repo.Save(ctx, newReview(t, 1, 3, 4))
	require.NoError(t, err)

	average, err = repo.AverageRating(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 4.5, average, 0.0001)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestPostgresRepository_ListOrdering(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := reviewspostgres.NewRepository(db)
	ctx := context.Background()

	_, err := repo.Save(ctx, newReview(t, 1, 2, 2))
	require.NoError(t, err)
	_, err = repo.Save(ctx, newReview(t, 1, 3, 5))
	require.NoError(t, err)

	business := int64(1)
	byRating, err := repo.List(ctx, ports.ListFilter{BusinessID: &business, Ordering: ports.OrderRatingDesc})
	require.NoError(t, err)
	require.Len(t, byRating, 2)
	assert.Equal(t, 5, byRating[0].Entity.Rating)

	reviewer := int64(3)
	byReviewer, err := repo.List(ctx, ports.ListFilter{ReviewerID: &reviewer})
	require.NoError(t, err)
	require.Len(t, byReviewer, 1)
}
