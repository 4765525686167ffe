package application

import (
	"errors"
	"fmt"

	"github.com/Simon-Kral/Coderr/internal/domains/reviews/domain"
	"github.com/Simon-Kral/Coderr/internal/domains/reviews/ports"
)

// ErrInvalidInput signals the request violated a domain invariant.
var ErrInvalidInput = errors.New("invalid review input")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidRating) ||
		errors.Is(err, domain.ErrInvalidBusiness) ||
		errors.Is(err, domain.ErrInvalidReviewer) ||
		errors.Is(err, ports.ErrDuplicateReview) ||
		errors.Is(err, ports.ErrNotBusinessAccount) ||
		errors.Is(err, ports.ErrUnknownOrdering) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
