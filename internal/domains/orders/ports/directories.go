package ports

import (
	"context"
	"errors"

	"github.com/Simon-Kral/Coderr/internal/domains/orders/domain"
)

var (
	ErrOfferDetailUnknown = errors.New("offer detail does not exist")
	ErrAccountUnknown     = errors.New("account does not exist")
)

// PackageLookup is the result of resolving an offer package for a new order.
type PackageLookup struct {
	Snapshot          domain.Snapshot
	BusinessAccountID int64
}

// CatalogDirectory resolves an offer package into the snapshot an order copies.
// An unknown detail id surfaces as ErrOfferDetailUnknown.
type CatalogDirectory interface {
	LookupPackage(ctx context.Context, offerDetailID int64) (*PackageLookup, error)
}

// AccountDirectory answers existence questions about accounts for the order
// count endpoints. Unknown ids surface as ErrAccountUnknown.
type AccountDirectory interface {
	AccountExists(ctx context.Context, accountID int64) error
}
