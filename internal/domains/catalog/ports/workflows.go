package ports

import (
	"context"

	catalogtypes "github.com/Simon-Kral/Coderr/internal/domains/catalog/application/types"
)

// WorkflowOrchestrator exposes durable workflow operations required by the catalog.
type WorkflowOrchestrator interface {
	CreateOffer(ctx context.Context, input catalogtypes.CreateOfferInput) (*catalogtypes.OfferProjection, error)
}
