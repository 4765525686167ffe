package catalog

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	catalogports "github.com/Simon-Kral/Coderr/internal/domains/catalog/ports"
	catalogtypes "github.com/Simon-Kral/Coderr/internal/domains/catalog/application/types"
)

// PersistOfferActivityName persists an offer aggregate through the catalog service.
const PersistOfferActivityName = "catalog.activities.PersistOffer"

// Activities groups activities that operate on the catalog bounded context.
type Activities struct {
	persistService catalogports.Service
}

// NewActivities wires the catalog collaborators into the Temporal activities bundle.
func NewActivities(persistService catalogports.Service) *Activities {
	return &Activities{persistService: persistService}
}

// PersistOffer stores a new offer aggregate and returns its projection.
func (a *Activities) PersistOffer(ctx context.Context, input catalogtypes.CreateOfferInput) (*catalogtypes.OfferProjection, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.persistService == nil {
		logger.Error("offer persist activity not initialized", "ownerId", input.OwnerID)
		return nil, errors.New("offer persist activity not initialized")
	}
	logger.Info("PersistOffer activity started", "ownerId", input.OwnerID)
	projection, err := a.persistService.CreateOffer(ctx, input)
	if err != nil {
		logger.Error("PersistOffer activity failed", "ownerId", input.OwnerID, "error", err)
		return nil, err
	}
	if projection != nil && projection.Offer != nil {
		logger.Info("PersistOffer activity completed", "offerId", projection.Offer.ID)
	} else {
		logger.Info("PersistOffer activity completed")
	}
	return projection, nil
}
