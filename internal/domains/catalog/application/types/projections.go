package types

import (
	"time"

	"github.com/Simon-Kral/Coderr/internal/domains/catalog/domain"
)

// OfferMetadata captures infrastructure timestamps associated with a persisted offer.
type OfferMetadata struct {
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OfferProjection transports an offer aggregate together with its persistence metadata.
type OfferProjection struct {
	Offer    *domain.Offer
	Metadata OfferMetadata
}

// NewOfferProjection wraps an aggregate with persistence metadata.
func NewOfferProjection(offer *domain.Offer, createdAt, updatedAt time.Time) *OfferProjection {
	if offer == nil {
		return nil
	}
	return &OfferProjection{
		Offer: offer,
		Metadata: OfferMetadata{
			CreatedAt: createdAt,
			UpdatedAt: updatedAt,
		},
	}
}
