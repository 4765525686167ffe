package domain

import "strings"

// Profile is the role attachment of an account. Exactly one profile exists per
// account after registration; the kind never changes. Business profiles carry
// the public-facing contact block, customer profiles only the avatar reference.
type Profile struct {
	ID        int64
	AccountID int64
	Kind      ProfileKind

	// File is an opaque reference into media storage (avatar upload).
	File string

	// Business-only fields.
	Location     string
	Tel          string
	Description  string
	WorkingHours string
}

// NewProfile validates the kind and builds a profile for the given account.
func NewProfile(accountID int64, kind ProfileKind) (*Profile, error) {
	if !ValidKind(kind) {
		return nil, ErrInvalidKind
	}
	return &Profile{AccountID: accountID, Kind: kind}, nil
}

// UpdateAvatar stores the media reference for the uploaded avatar.
func (p *Profile) UpdateAvatar(file string) {
	p.File = strings.TrimSpace(file)
}

// UpdateBusinessDetails applies the business contact block. Customer profiles
// reject it so the variant stays meaningful.
func (p *Profile) UpdateBusinessDetails(location, tel, description, workingHours string) error {
	if p.Kind != KindBusiness {
		return ErrNotBusiness
	}
	p.Location = strings.TrimSpace(location)
	p.Tel = strings.TrimSpace(tel)
	p.Description = strings.TrimSpace(description)
	p.WorkingHours = strings.TrimSpace(workingHours)
	return nil
}
