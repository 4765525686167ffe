package types

import (
	"github.com/shopspring/decimal"

	"github.com/Simon-Kral/Coderr/internal/domains/catalog/domain"
)

// DetailInput carries one pricing package of a create request.
type DetailInput struct {
	Title              string
	Revisions          int
	DeliveryTimeInDays int
	Price              decimal.Decimal
	Features           []string
	Tier               domain.Tier
}

// CreateOfferInput carries a full offer creation command. Details must cover
// exactly the three tiers.
type CreateOfferInput struct {
	OwnerID     int64
	Title       string
	Image       string
	Description string
	Details     []DetailInput

	// IdempotencyKey deduplicates retried creation requests when set.
	IdempotencyKey string
}

// DetailPatch mutates one existing package, matched by tier. Nil fields are
// left untouched.
type DetailPatch struct {
	Tier               domain.Tier
	Title              *string
	Revisions          *int
	DeliveryTimeInDays *int
	Price              *decimal.Decimal
	Features           *[]string
}

// UpdateOfferInput carries a partial offer update. Absent tiers keep their
// current package.
type UpdateOfferInput struct {
	ID          int64
	Title       *string
	Image       *string
	Description *string
	Details     []DetailPatch
}

// UpdateDetailInput mutates a single package addressed by its own id. Tier and
// owning offer are immutable.
type UpdateDetailInput struct {
	ID                 int64
	Title              *string
	Revisions          *int
	DeliveryTimeInDays *int
	Price              *decimal.Decimal
	Features           *[]string
}

// OfferIdentifier addresses a single offer.
type OfferIdentifier struct {
	ID int64
}
