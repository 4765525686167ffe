package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Tier identifies one of the three pricing packages every offer carries.
type Tier string

const (
	TierBasic    Tier = "basic"
	TierStandard Tier = "standard"
	TierPremium  Tier = "premium"
)

// Tiers lists the required package set in canonical order.
var Tiers = []Tier{TierBasic, TierStandard, TierPremium}

// ValidTier reports whether the tier is one of the known packages.
func ValidTier(t Tier) bool {
	return t == TierBasic || t == TierStandard || t == TierPremium
}

var (
	ErrEmptyTitle          = errors.New("title is required")
	ErrInvalidRevisions    = errors.New("revisions must be -1 (unlimited) or greater")
	ErrInvalidDeliveryTime = errors.New("delivery time must be a positive number of days")
	ErrNegativePrice       = errors.New("price must not be negative")
	ErrInvalidTier         = errors.New("offer type must be basic, standard or premium")
	ErrIncompleteTierSet   = errors.New("an offer requires exactly one basic, one standard and one premium detail")
	ErrTierImmutable       = errors.New("the offer type of a detail cannot change")
)

// OfferDetail is one pricing package of an offer. Revisions of -1 means
// unlimited.
type OfferDetail struct {
	ID                 int64
	OfferID            int64
	Title              string
	Revisions          int
	DeliveryTimeInDays int
	Price              decimal.Decimal
	Features           []string
	Tier               Tier
}

// NewOfferDetail validates the invariants and builds a pricing package.
func NewOfferDetail(title string, revisions, deliveryDays int, price decimal.Decimal, features []string, tier Tier) (*OfferDetail, error) {
	d := &OfferDetail{}
	if err := d.Retitle(title); err != nil {
		return nil, err
	}
	if err := d.SetRevisions(revisions); err != nil {
		return nil, err
	}
	if err := d.SetDeliveryTime(deliveryDays); err != nil {
		return nil, err
	}
	if err := d.SetPrice(price); err != nil {
		return nil, err
	}
	d.ReplaceFeatures(features)
	if !ValidTier(tier) {
		return nil, ErrInvalidTier
	}
	d.Tier = tier
	return d, nil
}

// Retitle mutates the package title ensuring the invariant.
func (d *OfferDetail) Retitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}
	d.Title = title
	return nil
}

// SetRevisions stores the included revision count. -1 means unlimited.
func (d *OfferDetail) SetRevisions(revisions int) error {
	if revisions < -1 {
		return ErrInvalidRevisions
	}
	d.Revisions = revisions
	return nil
}

// SetDeliveryTime stores the promised delivery window in days.
func (d *OfferDetail) SetDeliveryTime(days int) error {
	if days <= 0 {
		return ErrInvalidDeliveryTime
	}
	d.DeliveryTimeInDays = days
	return nil
}

// SetPrice stores the package price.
func (d *OfferDetail) SetPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return ErrNegativePrice
	}
	d.Price = price
	return nil
}

// ReplaceFeatures swaps the feature list.
func (d *OfferDetail) ReplaceFeatures(features []string) {
	d.Features = append([]string{}, features...)
}

// Clone returns a deep copy of the detail.
func (d *OfferDetail) Clone() *OfferDetail {
	if d == nil {
		return nil
	}
	copy := *d
	copy.Features = append([]string{}, d.Features...)
	return &copy
}

// Offer is the aggregate root of the catalog context. Details always hold
// exactly one package per tier.
type Offer struct {
	ID          int64
	OwnerID     int64
	Title       string
	Image       string
	Description string
	Details     []OfferDetail
}

// NewOffer validates the aggregate invariants, including the three-tier rule.
func NewOffer(ownerID int64, title, description, image string, details []OfferDetail) (*Offer, error) {
	o := &Offer{OwnerID: ownerID, Image: image, Description: description}
	if err := o.Retitle(title); err != nil {
		return nil, err
	}
	if err := ValidateTierSet(details); err != nil {
		return nil, err
	}
	o.Details = cloneDetails(details)
	return o, nil
}

// ValidateTierSet enforces the three-tier rule: exactly one detail per tier.
func ValidateTierSet(details []OfferDetail) error {
	if len(details) != len(Tiers) {
		return ErrIncompleteTierSet
	}
	seen := make(map[Tier]bool, len(Tiers))
	for i := range details {
		tier := details[i].Tier
		if !ValidTier(tier) {
			return ErrInvalidTier
		}
		if seen[tier] {
			return ErrIncompleteTierSet
		}
		seen[tier] = true
	}
	return nil
}

// Retitle mutates the offer title ensuring the invariant.
func (o *Offer) Retitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}
	o.Title = title
	return nil
}

// UpdateDescription replaces the long description.
func (o *Offer) UpdateDescription(description string) {
	o.Description = description
}

// UpdateImage replaces the offer image reference.
func (o *Offer) UpdateImage(image string) {
	o.Image = image
}

// DetailByTier returns the package of the given tier, or nil.
func (o *Offer) DetailByTier(tier Tier) *OfferDetail {
	for i := range o.Details {
		if o.Details[i].Tier == tier {
			return &o.Details[i]
		}
	}
	return nil
}

// MinPrice returns the cheapest package price, or zero without details.
func (o *Offer) MinPrice() decimal.Decimal {
	min := decimal.Zero
	for i := range o.Details {
		if i == 0 || o.Details[i].Price.LessThan(min) {
			min = o.Details[i].Price
		}
	}
	return min
}

// MinDeliveryTime returns the fastest promised delivery in days, or zero
// without details.
func (o *Offer) MinDeliveryTime() int {
	min := 0
	for i := range o.Details {
		if i == 0 || o.Details[i].DeliveryTimeInDays < min {
			min = o.Details[i].DeliveryTimeInDays
		}
	}
	return min
}

// Clone returns a deep copy of the aggregate.
func (o *Offer) Clone() *Offer {
	if o == nil {
		return nil
	}
	copy := *o
	copy.Details = cloneDetails(o.Details)
	return &copy
}

func cloneDetails(details []OfferDetail) []OfferDetail {
	out := make([]OfferDetail, len(details))
	for i := range details {
		out[i] = details[i]
		out[i].Features = append([]string{}, details[i].Features...)
	}
	return out
}
