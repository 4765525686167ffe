package ports

import (
	"context"

	catalogtypes "github.com/Simon-Kral/Coderr/internal/domains/catalog/application/types"
	"github.com/Simon-Kral/Coderr/internal/domains/catalog/domain"
)

// Service defines the catalog use cases exposed to adapters (inbound/driving port).
type Service interface {
	CreateOffer(ctx context.Context, input catalogtypes.CreateOfferInput) (*catalogtypes.OfferProjection, error)
	UpdateOffer(ctx context.Context, input catalogtypes.UpdateOfferInput) (*catalogtypes.OfferProjection, error)
	GetByID(ctx context.Context, input catalogtypes.OfferIdentifier) (*catalogtypes.OfferProjection, error)
	List(ctx context.Context, filter ListFilter) ([]*catalogtypes.OfferProjection, error)
	Delete(ctx context.Context, input catalogtypes.OfferIdentifier) error
	Count(ctx context.Context) (int64, error)

	GetDetail(ctx context.Context, id int64) (*domain.OfferDetail, error)
	UpdateDetail(ctx context.Context, input catalogtypes.UpdateDetailInput) (*domain.OfferDetail, error)
	DeleteDetail(ctx context.Context, id int64) error
}
