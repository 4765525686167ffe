package identity

import (
	"context"
	"errors"

	identityapp "github.com/Simon-Kral/Coderr/internal/domains/identity/application"
	identityports "github.com/Simon-Kral/Coderr/internal/domains/identity/ports"
	"github.com/Simon-Kral/Coderr/internal/domains/orders/ports"
)

var _ ports.AccountDirectory = (*Directory)(nil)

// Directory answers account existence questions through the identity service.
type Directory struct {
	identity *identityapp.Service
}

// NewDirectory wires the identity service into the orders context.
func NewDirectory(identity *identityapp.Service) *Directory {
	return &Directory{identity: identity}
}

// AccountExists resolves the account id, mapping a missing account to
// ports.ErrAccountUnknown.
func (d *Directory) AccountExists(ctx context.Context, accountID int64) error {
	if d == nil || d.identity == nil {
		return errors.New("account directory not configured")
	}
	if _, err := d.identity.GetAccount(ctx, accountID); err != nil {
		if errors.Is(err, identityports.ErrNotFound) {
			return ports.ErrAccountUnknown
		}
		return err
	}
	return nil
}
