package application

import (
	"context"

	"github.com/Simon-Kral/Coderr/internal/domains/reviews/domain"
	"github.com/Simon-Kral/Coderr/internal/domains/reviews/ports"
	"github.com/Simon-Kral/Coderr/internal/shared/projection"
)

// ReviewProjection transports a review together with its persistence metadata.
type ReviewProjection = projection.Projection[*domain.Review]

// Service orchestrates the review book use cases.
type Service struct {
	repo       ports.Repository
	businesses ports.BusinessDirectory
}

// NewService wires the reviews service with its dependencies.
func NewService(repo ports.Repository, businesses ports.BusinessDirectory) *Service {
	return &Service{repo: repo, businesses: businesses}
}

// CreateReview stores a new review after checking the target is a business
// account and the reviewer has not reviewed it yet. The store-level unique
// pair is the concurrency backstop behind the pre-check.
func (s *Service) CreateReview(ctx context.Context, reviewerID, businessID int64, rating int, description string) (*ReviewProjection, error) {
	if err := s.businesses.RequireBusinessAccount(ctx, businessID); err != nil {
		return nil, mapError(err)
	}
	exists, err := s.repo.ExistsForPair(ctx, reviewerID, businessID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, mapError(ports.ErrDuplicateReview)
	}
	review, err := domain.NewReview(businessID, reviewerID, rating, description)
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, review)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// UpdateReview mutates rating and description. The pair stays fixed.
func (s *Service) UpdateReview(ctx context.Context, id int64, rating *int, description *string) (*ReviewProjection, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	review := current.Entity
	if rating != nil {
		if err := review.SetRating(*rating); err != nil {
			return nil, mapError(err)
		}
	}
	if description != nil {
		review.UpdateDescription(*description)
	}
	saved, err := s.repo.Save(ctx, review)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// GetByID loads a single review.
func (s *Service) GetByID(ctx context.Context, id int64) (*ReviewProjection, error) {
	result, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

// DeleteReview removes a review.
func (s *Service) DeleteReview(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapError(err)
	}
	return nil
}

// List returns the reviews matching the filter in the requested order.
func (s *Service) List(ctx context.Context, filter ports.ListFilter) ([]*ReviewProjection, error) {
	if !ports.ValidOrdering(filter.Ordering) {
		return nil, mapError(ports.ErrUnknownOrdering)
	}
	result, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

// Count reports the total number of reviews.
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

// AverageRating reports the mean star rating across all reviews, zero when
// there are none.
func (s *Service) AverageRating(ctx context.Context) (float64, error) {
	return s.repo.AverageRating(ctx)
}
