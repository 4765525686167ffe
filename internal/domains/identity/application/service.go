package application

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Simon-Kral/Coderr/internal/domains/identity/domain"
	"github.com/Simon-Kral/Coderr/internal/domains/identity/ports"
)

// Service exposes the identity directory use cases: registration, login, and
// profile lookups the other bounded contexts resolve actors through.
type Service struct {
	repo     ports.Repository
	sessions ports.SessionStore
}

func NewService(repo ports.Repository, sessions ports.SessionStore) *Service {
	if sessions == nil {
		sessions = ports.NoopSessionStore
	}
	return &Service{repo: repo, sessions: sessions}
}

// RegisterInput carries the registration payload.
type RegisterInput struct {
	Username         string
	Email            string
	Password         string
	RepeatedPassword string
	Kind             domain.ProfileKind
}

// Session is the result of a successful registration or login.
type Session struct {
	Token     string
	ProfileID int64
	AccountID int64
	Username  string
	Email     string
}

// Register creates the account and its profile atomically, then issues a token.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*Session, error) {
	if input.Password != input.RepeatedPassword {
		return nil, mapError(ErrPasswordMismatch)
	}
	if strings.TrimSpace(input.Password) == "" {
		return nil, mapError(domain.ErrEmptyPassword)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	account, err := domain.NewAccount(input.Username, input.Email, string(hash))
	if err != nil {
		return nil, mapError(err)
	}
	if !domain.ValidKind(input.Kind) {
		return nil, mapError(domain.ErrInvalidKind)
	}
	view, err := s.repo.CreateWithProfile(ctx, account, input.Kind)
	if err != nil {
		return nil, mapError(err)
	}
	token, err := s.issueToken(ctx, view.Account.Username)
	if err != nil {
		return nil, err
	}
	return &Session{
		Token:     token,
		ProfileID: view.Profile.ID,
		AccountID: view.Account.ID,
		Username:  view.Account.Username,
		Email:     view.Account.Email,
	}, nil
}

// Login verifies credentials and issues a fresh token.
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || strings.TrimSpace(password) == "" {
		return nil, mapError(ports.ErrInvalidCredentials)
	}
	account, err := s.repo.GetAccountByUsername(ctx, username)
	if err != nil {
		// Do not reveal whether the username exists.
		return nil, mapError(ports.ErrInvalidCredentials)
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return nil, mapError(ports.ErrInvalidCredentials)
	}
	profile, err := s.repo.GetProfileByAccount(ctx, account.ID)
	if err != nil {
		return nil, mapError(err)
	}
	token, err := s.issueToken(ctx, account.Username)
	if err != nil {
		return nil, err
	}
	return &Session{
		Token:     token,
		ProfileID: profile.ID,
		AccountID: account.ID,
		Username:  account.Username,
		Email:     account.Email,
	}, nil
}

// Logout drops the account's sessions. Unknown usernames are a no-op.
func (s *Service) Logout(ctx context.Context, username string) {
	if strings.TrimSpace(username) == "" {
		return
	}
	_ = s.sessions.Delete(ctx, username)
}

// Authenticate resolves a bearer token to the account and profile behind it.
func (s *Service) Authenticate(ctx context.Context, token string) (*ports.ProfileView, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, mapError(ports.ErrTokenUnknown)
	}
	username, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		return nil, mapError(err)
	}
	account, err := s.repo.GetAccountByUsername(ctx, username)
	if err != nil {
		return nil, mapError(err)
	}
	profile, err := s.repo.GetProfileByAccount(ctx, account.ID)
	if err != nil {
		return nil, mapError(err)
	}
	return &ports.ProfileView{Profile: profile, Account: account}, nil
}

// GetAccount loads a bare account.
func (s *Service) GetAccount(ctx context.Context, id int64) (*domain.Account, error) {
	account, err := s.repo.GetAccount(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return account, nil
}

// ProfileKind reports the profile variant of an account, or ErrNotFound when
// the account id does not resolve.
func (s *Service) ProfileKind(ctx context.Context, accountID int64) (domain.ProfileKind, error) {
	profile, err := s.repo.GetProfileByAccount(ctx, accountID)
	if err != nil {
		return "", mapError(err)
	}
	return profile.Kind, nil
}

// GetProfile loads the profile plus account block for the profile detail view.
func (s *Service) GetProfile(ctx context.Context, accountID int64) (*ports.ProfileView, error) {
	profile, err := s.repo.GetProfileByAccount(ctx, accountID)
	if err != nil {
		return nil, mapError(err)
	}
	account, err := s.repo.GetAccount(ctx, accountID)
	if err != nil {
		return nil, mapError(err)
	}
	return &ports.ProfileView{Profile: profile, Account: account}, nil
}

// UpdateProfileInput carries the patchable profile fields. Nil means untouched.
type UpdateProfileInput struct {
	FirstName    *string
	LastName     *string
	Email        *string
	File         *string
	Location     *string
	Tel          *string
	Description  *string
	WorkingHours *string
}

// UpdateProfile applies a partial update to the account display fields and,
// for business profiles, the contact block. The profile kind is immutable.
func (s *Service) UpdateProfile(ctx context.Context, accountID int64, input UpdateProfileInput) (*ports.ProfileView, error) {
	view, err := s.GetProfile(ctx, accountID)
	if err != nil {
		return nil, err
	}
	account, profile := view.Account, view.Profile

	if input.FirstName != nil || input.LastName != nil {
		first, last := account.FirstName, account.LastName
		if input.FirstName != nil {
			first = *input.FirstName
		}
		if input.LastName != nil {
			last = *input.LastName
		}
		account.UpdateName(first, last)
	}
	if input.Email != nil {
		if err := account.SetEmail(*input.Email); err != nil {
			return nil, mapError(err)
		}
	}
	if input.File != nil {
		profile.UpdateAvatar(*input.File)
	}
	if input.Location != nil || input.Tel != nil || input.Description != nil || input.WorkingHours != nil {
		location, tel, description, hours := profile.Location, profile.Tel, profile.Description, profile.WorkingHours
		if input.Location != nil {
			location = *input.Location
		}
		if input.Tel != nil {
			tel = *input.Tel
		}
		if input.Description != nil {
			description = *input.Description
		}
		if input.WorkingHours != nil {
			hours = *input.WorkingHours
		}
		if err := profile.UpdateBusinessDetails(location, tel, description, hours); err != nil {
			return nil, mapError(err)
		}
	}

	savedAccount, err := s.repo.SaveAccount(ctx, account)
	if err != nil {
		return nil, mapError(err)
	}
	savedProfile, err := s.repo.SaveProfile(ctx, profile)
	if err != nil {
		return nil, mapError(err)
	}
	return &ports.ProfileView{Profile: savedProfile, Account: savedAccount}, nil
}

// ListProfiles returns all profiles of the given kind with their accounts.
func (s *Service) ListProfiles(ctx context.Context, kind domain.ProfileKind) ([]*ports.ProfileView, error) {
	if !domain.ValidKind(kind) {
		return nil, mapError(domain.ErrInvalidKind)
	}
	views, err := s.repo.ListProfiles(ctx, kind)
	if err != nil {
		return nil, mapError(err)
	}
	return views, nil
}

// CountBusinessProfiles feeds the platform base-info aggregate.
func (s *Service) CountBusinessProfiles(ctx context.Context) (int64, error) {
	return s.repo.CountProfiles(ctx, domain.KindBusiness)
}

func (s *Service) issueToken(ctx context.Context, username string) (string, error) {
	token := uuid.NewString()
	if err := s.sessions.Save(ctx, username, token); err != nil {
		return "", err
	}
	return token, nil
}
