package application

import (
	"errors"
	"fmt"

	"github.com/Simon-Kral/Coderr/internal/domains/identity/domain"
	"github.com/Simon-Kral/Coderr/internal/domains/identity/ports"
)

// ErrInvalidInput signals the request violated an identity invariant.
var ErrInvalidInput = errors.New("invalid identity input")

// ErrPasswordMismatch signals the password and its repetition differ.
var ErrPasswordMismatch = errors.New("passwords do not match")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyUsername) ||
		errors.Is(err, domain.ErrInvalidEmail) ||
		errors.Is(err, domain.ErrEmptyPassword) ||
		errors.Is(err, domain.ErrInvalidKind) ||
		errors.Is(err, domain.ErrNotBusiness) ||
		errors.Is(err, ErrPasswordMismatch) ||
		errors.Is(err, ports.ErrUsernameTaken) ||
		errors.Is(err, ports.ErrProfileExists) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
