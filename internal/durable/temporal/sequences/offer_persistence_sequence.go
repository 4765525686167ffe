package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	catalogtypes "github.com/Simon-Kral/Coderr/internal/domains/catalog/application/types"
	catalogactivities "github.com/Simon-Kral/Coderr/internal/durable/temporal/activities/catalog"
)

// RunOfferPersistenceSequence executes the ordered set of activities needed to persist an offer aggregate.
func RunOfferPersistenceSequence(ctx workflow.Context, input catalogtypes.CreateOfferInput) (*catalogtypes.OfferProjection, error) {
	logger := workflow.GetLogger(ctx)
	ownerID := input.OwnerID
	logger.Info("offer persistence sequence started", "ownerId", ownerID)
	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	var projection catalogtypes.OfferProjection
	err := workflow.ExecuteActivity(ctx, catalogactivities.PersistOfferActivityName, input).Get(ctx, &projection)
	if err != nil {
		logger.Error("offer persistence sequence failed", "ownerId", ownerID, "error", err)
		return nil, err
	}
	if projection.Offer != nil {
		logger.Info("offer persistence sequence completed", "offerId", projection.Offer.ID)
	} else {
		logger.Info("offer persistence sequence completed")
	}
	return &projection, nil
}
