package ports

import (
	"context"
	"errors"

	"github.com/Simon-Kral/Coderr/internal/domains/reviews/domain"
	"github.com/Simon-Kral/Coderr/internal/shared/projection"
)

var (
	ErrNotFound        = errors.New("review not found")
	ErrDuplicateReview = errors.New("only one review per business user is allowed")
	ErrUnknownOrdering = errors.New("unsupported ordering key")
)

// Ordering selects the sort key for review listings.
type Ordering string

const (
	OrderUpdatedAtAsc  Ordering = "updated_at"
	OrderUpdatedAtDesc Ordering = "-updated_at"
	OrderRatingAsc     Ordering = "rating"
	OrderRatingDesc    Ordering = "-rating"
)

// ValidOrdering reports whether the ordering key is supported.
func ValidOrdering(o Ordering) bool {
	switch o {
	case "", OrderUpdatedAtAsc, OrderUpdatedAtDesc, OrderRatingAsc, OrderRatingDesc:
		return true
	}
	return false
}

// ListFilter narrows review listings by either side of the pair.
type ListFilter struct {
	BusinessID *int64
	ReviewerID *int64
	Ordering   Ordering
}

// Repository abstracts review persistence. The (reviewer, business) pair is
// unique; Save surfaces a second review for the same pair as ErrDuplicateReview.
type Repository interface {
	Save(ctx context.Context, review *domain.Review) (*projection.Projection[*domain.Review], error)
	GetByID(ctx context.Context, id int64) (*projection.Projection[*domain.Review], error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter ListFilter) ([]*projection.Projection[*domain.Review], error)
	ExistsForPair(ctx context.Context, reviewerID, businessID int64) (bool, error)
	Count(ctx context.Context) (int64, error)
	AverageRating(ctx context.Context) (float64, error)
}
