package application

import (
	"context"
	"math"

	"github.com/Simon-Kral/Coderr/internal/domains/reporting/ports"
)

// BaseInfo is the public platform statistics block.
type BaseInfo struct {
	ReviewCount          int64
	AverageRating        float64
	BusinessProfileCount int64
	OfferCount           int64
}

// Service composes the other contexts into stateless platform reports.
type Service struct {
	reviews  ports.ReviewStats
	profiles ports.ProfileStats
	catalog  ports.CatalogStats
}

// NewService wires the reporting service with its dependencies.
func NewService(reviews ports.ReviewStats, profiles ports.ProfileStats, catalog ports.CatalogStats) *Service {
	return &Service{reviews: reviews, profiles: profiles, catalog: catalog}
}

// BaseInfo gathers the platform statistics. The average rating is rounded to
// one decimal and reported as 0.0 when no reviews exist.
func (s *Service) BaseInfo(ctx context.Context) (*BaseInfo, error) {
	reviewCount, err := s.reviews.Count(ctx)
	if err != nil {
		return nil, err
	}
	average := 0.0
	if reviewCount > 0 {
		average, err = s.reviews.AverageRating(ctx)
		if err != nil {
			return nil, err
		}
		average = math.Round(average*10) / 10
	}
	businessCount, err := s.profiles.CountBusinessProfiles(ctx)
	if err != nil {
		return nil, err
	}
	offerCount, err := s.catalog.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &BaseInfo{
		ReviewCount:          reviewCount,
		AverageRating:        average,
		BusinessProfileCount: businessCount,
		OfferCount:           offerCount,
	}, nil
}
