package catalog

import (
	"context"
	"errors"

	catalogports "github.com/Simon-Kral/Coderr/internal/domains/catalog/ports"
	catalogtypes "github.com/Simon-Kral/Coderr/internal/domains/catalog/application/types"
	"github.com/Simon-Kral/Coderr/internal/domains/orders/domain"
	"github.com/Simon-Kral/Coderr/internal/domains/orders/ports"
)

var _ ports.CatalogDirectory = (*Directory)(nil)

// Directory resolves offer packages through the catalog service.
type Directory struct {
	catalog catalogports.Service
}

// NewDirectory wires the catalog service into the orders context.
func NewDirectory(catalog catalogports.Service) *Directory {
	return &Directory{catalog: catalog}
}

// LookupPackage loads the package and its offer to build the order snapshot.
func (d *Directory) LookupPackage(ctx context.Context, offerDetailID int64) (*ports.PackageLookup, error) {
	if d == nil || d.catalog == nil {
		return nil, errors.New("catalog directory not configured")
	}
	detail, err := d.catalog.GetDetail(ctx, offerDetailID)
	if err != nil {
		if errors.Is(err, catalogports.ErrDetailNotFound) {
			return nil, ports.ErrOfferDetailUnknown
		}
		return nil, err
	}
	offer, err := d.catalog.GetByID(ctx, catalogtypes.OfferIdentifier{ID: detail.OfferID})
	if err != nil {
		if errors.Is(err, catalogports.ErrNotFound) {
			return nil, ports.ErrOfferDetailUnknown
		}
		return nil, err
	}
	return &ports.PackageLookup{
		Snapshot: domain.Snapshot{
			OfferID:            detail.OfferID,
			OfferDetailID:      detail.ID,
			Title:              detail.Title,
			Revisions:          detail.Revisions,
			DeliveryTimeInDays: detail.DeliveryTimeInDays,
			Price:              detail.Price,
			Features:           append([]string{}, detail.Features...),
			OfferType:          string(detail.Tier),
		},
		BusinessAccountID: offer.Offer.OwnerID,
	}, nil
}
