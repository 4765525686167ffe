package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/Simon-Kral/Coderr/internal/domains/identity/domain"
	"github.com/Simon-Kral/Coderr/internal/domains/identity/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory identity persistence adapter for dev and tests.
type Repository struct {
	mu            sync.RWMutex
	accounts      map[int64]*domain.Account
	profiles      map[int64]*domain.Profile // keyed by account id
	nextAccountID int64
	nextProfileID int64
}

func NewRepository() *Repository {
	return &Repository{
		accounts: map[int64]*domain.Account{},
		profiles: map[int64]*domain.Profile{},
	}
}

func (r *Repository) CreateWithProfile(ctx context.Context, account *domain.Account, kind domain.ProfileKind) (*ports.ProfileView, error) {
	if account == nil {
		return nil, errors.New("account is nil")
	}
	profile, err := domain.NewProfile(0, kind)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.accounts {
		if strings.EqualFold(existing.Username, account.Username) {
			return nil, ports.ErrUsernameTaken
		}
	}
	accountClone := *account
	r.nextAccountID++
	accountClone.ID = r.nextAccountID
	r.accounts[accountClone.ID] = &accountClone

	r.nextProfileID++
	profile.ID = r.nextProfileID
	profile.AccountID = accountClone.ID
	r.profiles[accountClone.ID] = profile

	accountCopy := accountClone
	profileCopy := *profile
	return &ports.ProfileView{Profile: &profileCopy, Account: &accountCopy}, nil
}

func (r *Repository) GetAccount(_ context.Context, id int64) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	account, ok := r.accounts[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *account
	return &clone, nil
}

func (r *Repository) GetAccountByUsername(_ context.Context, username string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, account := range r.accounts {
		if strings.EqualFold(account.Username, strings.TrimSpace(username)) {
			clone := *account
			return &clone, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (r *Repository) SaveAccount(_ context.Context, account *domain.Account) (*domain.Account, error) {
	if account == nil {
		return nil, errors.New("account is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[account.ID]; !ok {
		return nil, ports.ErrNotFound
	}
	clone := *account
	r.accounts[clone.ID] = &clone
	saved := clone
	return &saved, nil
}

func (r *Repository) GetProfileByAccount(_ context.Context, accountID int64) (*domain.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	profile, ok := r.profiles[accountID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *profile
	return &clone, nil
}

func (r *Repository) SaveProfile(_ context.Context, profile *domain.Profile) (*domain.Profile, error) {
	if profile == nil {
		return nil, errors.New("profile is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.profiles[profile.AccountID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if existing.Kind != profile.Kind {
		return nil, domain.ErrKindImmutable
	}
	clone := *profile
	clone.ID = existing.ID
	r.profiles[clone.AccountID] = &clone
	saved := clone
	return &saved, nil
}

func (r *Repository) ListProfiles(_ context.Context, kind domain.ProfileKind) ([]*ports.ProfileView, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	views := make([]*ports.ProfileView, 0)
	for accountID, profile := range r.profiles {
		if profile.Kind != kind {
			continue
		}
		account, ok := r.accounts[accountID]
		if !ok {
			continue
		}
		profileCopy := *profile
		accountCopy := *account
		views = append(views, &ports.ProfileView{Profile: &profileCopy, Account: &accountCopy})
	}
	return views, nil
}

func (r *Repository) CountProfiles(_ context.Context, kind domain.ProfileKind) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var count int64
	for _, profile := range r.profiles {
		if profile.Kind == kind {
			count++
		}
	}
	return count, nil
}
