// Package authz implements the permission evaluator gating every marketplace
// endpoint. Policies are composed from small predicates over an (actor,
// action, target) triple and kept as a data table so the full matrix stays
// auditable and testable in isolation.
package authz

import (
	identitydomain "github.com/Simon-Kral/Coderr/internal/domains/identity/domain"
)

// Actor is the resolved identity behind a request, or anonymous.
type Actor struct {
	Account *identitydomain.Account
	Kind    identitydomain.ProfileKind
}

// Anonymous is the actor used when no valid token accompanies a request.
func Anonymous() *Actor { return &Actor{} }

// Authenticated reports whether the actor carries a resolved account.
func (a *Actor) Authenticated() bool { return a != nil && a.Account != nil }

// AccountID returns the actor's account id, or zero for anonymous actors.
func (a *Actor) AccountID() int64 {
	if !a.Authenticated() {
		return 0
	}
	return a.Account.ID
}

// Action is the abstract request verb the policy table is keyed by.
type Action string

const (
	ActionCreate        Action = "create"
	ActionRead          Action = "read"
	ActionPartialUpdate Action = "partial_update"
	ActionFullUpdate    Action = "full_update"
	ActionDelete        Action = "delete"
)

// Target carries the object-level context a predicate may need. OwnerID is
// resolved by the caller per resource kind: the offer's account for offers and
// offer details, the business side for orders, the reviewer for reviews.
type Target struct {
	OwnerID int64
}

// Predicate is a pure authorization check. Target is nil for collection-level
// actions where no object exists yet.
type Predicate func(actor *Actor, action Action, target *Target) bool

// IsAdmin grants superuser accounts.
func IsAdmin(actor *Actor, _ Action, _ *Target) bool {
	return actor.Authenticated() && actor.Account.Admin
}

// IsStaff grants operational accounts below admin.
func IsStaff(actor *Actor, _ Action, _ *Target) bool {
	return actor.Authenticated() && actor.Account.Staff
}

// IsBusiness grants actors whose profile variant is business.
func IsBusiness(actor *Actor, _ Action, _ *Target) bool {
	return actor.Authenticated() && actor.Kind == identitydomain.KindBusiness
}

// IsCustomer grants actors whose profile variant is customer.
func IsCustomer(actor *Actor, _ Action, _ *Target) bool {
	return actor.Authenticated() && actor.Kind == identitydomain.KindCustomer
}

// IsAuthenticated grants any actor with a resolved account.
func IsAuthenticated(actor *Actor, _ Action, _ *Target) bool {
	return actor.Authenticated()
}

// IsOwner grants the actor controlling the target resource.
func IsOwner(actor *Actor, _ Action, target *Target) bool {
	return actor.Authenticated() && target != nil && target.OwnerID == actor.Account.ID
}

// ReadOnly grants any actor, but only for safe, non-mutating actions.
func ReadOnly(_ *Actor, action Action, _ *Target) bool {
	return action == ActionRead
}

// Anyone grants unconditionally, including anonymous actors.
func Anyone(_ *Actor, _ Action, _ *Target) bool { return true }

// Forbidden denies unconditionally. Used to block verbs that would otherwise
// be permitted, such as full replacement updates.
func Forbidden(_ *Actor, _ Action, _ *Target) bool { return false }
