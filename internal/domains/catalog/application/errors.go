package application

import (
	"errors"
	"fmt"

	"github.com/Simon-Kral/Coderr/internal/domains/catalog/domain"
	"github.com/Simon-Kral/Coderr/internal/domains/catalog/ports"
)

// ErrInvalidInput signals the request violated a domain invariant.
var ErrInvalidInput = errors.New("invalid offer input")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyTitle) ||
		errors.Is(err, domain.ErrInvalidRevisions) ||
		errors.Is(err, domain.ErrInvalidDeliveryTime) ||
		errors.Is(err, domain.ErrNegativePrice) ||
		errors.Is(err, domain.ErrInvalidTier) ||
		errors.Is(err, domain.ErrIncompleteTierSet) ||
		errors.Is(err, domain.ErrTierImmutable) ||
		errors.Is(err, ports.ErrDuplicateTier) ||
		errors.Is(err, ports.ErrUnknownOrdering) ||
		errors.Is(err, ports.ErrIdempotencyConflict) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
