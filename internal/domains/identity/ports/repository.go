package ports

import (
	"context"
	"errors"

	"github.com/Simon-Kral/Coderr/internal/domains/identity/domain"
)

var (
	ErrNotFound      = errors.New("account not found")
	ErrUsernameTaken = errors.New("username is already taken")
	ErrProfileExists = errors.New("account already has a profile")
)

// ProfileView joins a profile with its owning account for read responses.
type ProfileView struct {
	Profile *domain.Profile
	Account *domain.Account
}

// Repository abstracts account and profile persistence.
type Repository interface {
	// CreateWithProfile persists an account and its single profile atomically.
	// A duplicate username surfaces as ErrUsernameTaken regardless of whether
	// the pre-check or the store constraint caught it.
	CreateWithProfile(ctx context.Context, account *domain.Account, kind domain.ProfileKind) (*ProfileView, error)

	GetAccount(ctx context.Context, id int64) (*domain.Account, error)
	GetAccountByUsername(ctx context.Context, username string) (*domain.Account, error)
	SaveAccount(ctx context.Context, account *domain.Account) (*domain.Account, error)

	GetProfileByAccount(ctx context.Context, accountID int64) (*domain.Profile, error)
	SaveProfile(ctx context.Context, profile *domain.Profile) (*domain.Profile, error)
	ListProfiles(ctx context.Context, kind domain.ProfileKind) ([]*ProfileView, error)
	CountProfiles(ctx context.Context, kind domain.ProfileKind) (int64, error)
}
