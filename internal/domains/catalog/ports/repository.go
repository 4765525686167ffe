package ports

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/Simon-Kral/Coderr/internal/domains/catalog/domain"
	"github.com/Simon-Kral/Coderr/internal/shared/projection"
)

var (
	ErrNotFound        = errors.New("offer not found")
	ErrDetailNotFound  = errors.New("offer detail not found")
	ErrDuplicateTier   = errors.New("offer already has a detail for this tier")
	ErrUnknownOrdering = errors.New("unsupported ordering key")
)

// Ordering selects the sort key for offer listings. The descending variants
// carry the leading minus of the query parameter syntax.
type Ordering string

const (
	OrderUpdatedAtAsc  Ordering = "updated_at"
	OrderUpdatedAtDesc Ordering = "-updated_at"
	OrderMinPriceAsc   Ordering = "min_price"
	OrderMinPriceDesc  Ordering = "-min_price"
)

// ValidOrdering reports whether the ordering key is supported.
func ValidOrdering(o Ordering) bool {
	switch o {
	case "", OrderUpdatedAtAsc, OrderUpdatedAtDesc, OrderMinPriceAsc, OrderMinPriceDesc:
		return true
	}
	return false
}

// ListFilter narrows offer listings. MinPrice keeps offers with at least one
// package priced at or below the bound; MaxDeliveryTime keeps offers with at
// least one package delivering within the bound. Search matches title and
// description case-insensitively.
type ListFilter struct {
	CreatorID       *int64
	MinPrice        *decimal.Decimal
	MaxDeliveryTime *int
	Search          string
	Ordering        Ordering
}

// Repository abstracts offer persistence. Save persists the whole aggregate,
// details included, atomically.
type Repository interface {
	Save(ctx context.Context, offer *domain.Offer) (*projection.Projection[*domain.Offer], error)
	GetByID(ctx context.Context, id int64) (*projection.Projection[*domain.Offer], error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter ListFilter) ([]*projection.Projection[*domain.Offer], error)
	Count(ctx context.Context) (int64, error)

	GetDetail(ctx context.Context, id int64) (*domain.OfferDetail, error)
	SaveDetail(ctx context.Context, detail *domain.OfferDetail) (*domain.OfferDetail, error)
	DeleteDetail(ctx context.Context, id int64) error
}
