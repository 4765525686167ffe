package server

import (
	"errors"

	catalogapp "github.com/Simon-Kral/Coderr/internal/domains/catalog/application"
	catalogports "github.com/Simon-Kral/Coderr/internal/domains/catalog/ports"
	identityapp "github.com/Simon-Kral/Coderr/internal/domains/identity/application"
	identityports "github.com/Simon-Kral/Coderr/internal/domains/identity/ports"
	ordersapp "github.com/Simon-Kral/Coderr/internal/domains/orders/application"
	ordersports "github.com/Simon-Kral/Coderr/internal/domains/orders/ports"
	reviewsapp "github.com/Simon-Kral/Coderr/internal/domains/reviews/application"
	reviewsports "github.com/Simon-Kral/Coderr/internal/domains/reviews/ports"
	"github.com/Simon-Kral/Coderr/internal/shared/problems"
)

// newResponder builds the problem responder translating the context sentinels
// into the 400/403/404 taxonomy. Not-found sentinels are checked before the
// invalid-input wrappers so missing resources never degrade into 400s.
func newResponder() *problems.Responder {
	return problems.NewResponder("", mapNotFound, mapValidation)
}

func mapNotFound(err error) (problems.ProblemDetail, bool) {
	switch {
	case errors.Is(err, catalogports.ErrNotFound),
		errors.Is(err, catalogports.ErrDetailNotFound),
		errors.Is(err, ordersports.ErrNotFound),
		errors.Is(err, ordersports.ErrOfferDetailUnknown),
		errors.Is(err, ordersports.ErrAccountUnknown),
		errors.Is(err, reviewsports.ErrNotFound),
		errors.Is(err, identityports.ErrNotFound):
		return problems.ErrNotFound.WithDetail(err.Error()), true
	}
	return problems.ProblemDetail{}, false
}

func mapValidation(err error) (problems.ProblemDetail, bool) {
	switch {
	case errors.Is(err, catalogapp.ErrInvalidInput),
		errors.Is(err, ordersapp.ErrInvalidInput),
		errors.Is(err, reviewsapp.ErrInvalidInput),
		errors.Is(err, identityapp.ErrInvalidInput),
		errors.Is(err, identityports.ErrInvalidCredentials):
		return problems.ErrValidation.WithDetail(err.Error()), true
	}
	return problems.ProblemDetail{}, false
}
