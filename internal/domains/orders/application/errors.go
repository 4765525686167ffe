package application

import (
	"errors"
	"fmt"

	"github.com/Simon-Kral/Coderr/internal/domains/orders/domain"
)

// ErrInvalidInput signals the request violated a domain invariant.
var ErrInvalidInput = errors.New("invalid order input")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidCustomer) ||
		errors.Is(err, domain.ErrInvalidBusiness) ||
		errors.Is(err, domain.ErrInvalidStatus) ||
		errors.Is(err, domain.ErrEmptyTitle) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
