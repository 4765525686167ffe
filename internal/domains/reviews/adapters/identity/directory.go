package identity

import (
	"context"
	"errors"

	identityapp "github.com/Simon-Kral/Coderr/internal/domains/identity/application"
	identitydomain "github.com/Simon-Kral/Coderr/internal/domains/identity/domain"
	identityports "github.com/Simon-Kral/Coderr/internal/domains/identity/ports"
	"github.com/Simon-Kral/Coderr/internal/domains/reviews/ports"
)

var _ ports.BusinessDirectory = (*Directory)(nil)

// Directory verifies business accounts through the identity service.
type Directory struct {
	identity *identityapp.Service
}

// NewDirectory wires the identity service into the reviews context.
func NewDirectory(identity *identityapp.Service) *Directory {
	return &Directory{identity: identity}
}

// RequireBusinessAccount checks the account resolves to a business profile.
func (d *Directory) RequireBusinessAccount(ctx context.Context, accountID int64) error {
	if d == nil || d.identity == nil {
		return errors.New("business directory not configured")
	}
	kind, err := d.identity.ProfileKind(ctx, accountID)
	if err != nil {
		if errors.Is(err, identityports.ErrNotFound) {
			return ports.ErrNotBusinessAccount
		}
		return err
	}
	if kind != identitydomain.KindBusiness {
		return ports.ErrNotBusinessAccount
	}
	return nil
}
