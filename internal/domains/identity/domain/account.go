package domain

import (
	"errors"
	"strings"
)

// ProfileKind tags an account as customer or business. The kind is fixed at
// registration and never converted afterwards.
type ProfileKind string

const (
	KindCustomer ProfileKind = "customer"
	KindBusiness ProfileKind = "business"
)

var (
	ErrEmptyUsername  = errors.New("username is required")
	ErrInvalidEmail   = errors.New("email must contain '@'")
	ErrEmptyPassword  = errors.New("password is required")
	ErrInvalidKind    = errors.New("profile type must be 'customer' or 'business'")
	ErrNotBusiness    = errors.New("profile is not a business profile")
	ErrKindImmutable  = errors.New("profile type cannot be changed")
)

// Account is the authenticated identity behind every marketplace actor.
type Account struct {
	ID           int64
	Username     string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Admin        bool
	Staff        bool
}

// NewAccount builds an account ensuring the identity invariants. The password
// hash is supplied by the caller; the domain never sees plaintext credentials.
func NewAccount(username, email, passwordHash string) (*Account, error) {
	a := &Account{}
	if err := a.SetUsername(username); err != nil {
		return nil, err
	}
	if err := a.SetEmail(email); err != nil {
		return nil, err
	}
	if strings.TrimSpace(passwordHash) == "" {
		return nil, ErrEmptyPassword
	}
	a.PasswordHash = passwordHash
	return a, nil
}

// SetUsername trims and validates the username.
func (a *Account) SetUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ErrEmptyUsername
	}
	a.Username = username
	return nil
}

// SetEmail validates the email when present.
func (a *Account) SetEmail(email string) error {
	email = strings.TrimSpace(email)
	if email != "" && !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	a.Email = email
	return nil
}

// UpdateName applies the display name fields.
func (a *Account) UpdateName(firstName, lastName string) {
	a.FirstName = strings.TrimSpace(firstName)
	a.LastName = strings.TrimSpace(lastName)
}

// ValidKind reports whether the given value is a known profile kind.
func ValidKind(kind ProfileKind) bool {
	switch kind {
	case KindCustomer, KindBusiness:
		return true
	default:
		return false
	}
}
