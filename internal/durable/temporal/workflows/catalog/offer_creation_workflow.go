package catalog

import (
	"go.temporal.io/sdk/workflow"

	catalogtypes "github.com/Simon-Kral/Coderr/internal/domains/catalog/application/types"
	"github.com/Simon-Kral/Coderr/internal/durable/temporal/sequences"
)

const (
	// OfferCreationWorkflowName is the public identifier for registering the workflow.
	OfferCreationWorkflowName = "catalog.workflows.OfferCreation"
	// OfferCreationTaskQueue is the queue consumed by the worker processing catalog workflows.
	OfferCreationTaskQueue = "OFFER_CREATION"
)

// OfferCreationWorkflowInput captures the payload required to provision a new offer.
type OfferCreationWorkflowInput struct {
	Command catalogtypes.CreateOfferInput
	TraceID string
}

// OfferCreationWorkflow orchestrates the activities needed to persist an offer aggregate.
func OfferCreationWorkflow(ctx workflow.Context, input OfferCreationWorkflowInput) (*catalogtypes.OfferProjection, error) {
	logger := workflow.GetLogger(ctx)
	ownerID := input.Command.OwnerID
	logger.Info("OfferCreationWorkflow started", withTraceID(input.TraceID, "ownerId", ownerID)...)
	projection, err := sequences.RunOfferPersistenceSequence(ctx, input.Command)
	if err != nil {
		logger.Error("OfferCreationWorkflow failed", withTraceID(input.TraceID, "ownerId", ownerID, "error", err)...)
		return nil, err
	}
	if projection != nil && projection.Offer != nil {
		logger.Info("OfferCreationWorkflow completed", withTraceID(input.TraceID, "offerId", projection.Offer.ID)...)
	} else {
		logger.Info("OfferCreationWorkflow completed", withTraceID(input.TraceID)...)
	}
	return projection, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
