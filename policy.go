package usermgmt

import "github.com/google/uuid"

// Authenticated reports whether the session holds a credential.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// Admin reports whether the cached claims carry the ADMIN role.
func (s Session) Admin() bool {
	return s.Authenticated() && s.Claims.Role == RoleAdmin
}

// CanDeleteUser reports whether the session may delete the target account:
// admins may delete anyone, everyone else only themselves. This is a UI
// affordance gate over locally cached claims; the server re-checks the
// authoritative decision and its denial is final.
func (s Session) CanDeleteUser(target uuid.UUID) bool {
	if !s.Authenticated() {
		return false
	}
	if s.Admin() {
		return true
	}
	return s.Claims.UserID == target
}

// Policy answers access questions from the current store snapshot. Every
// call re-reads the store so a session cleared by the gateway is observed
// immediately.
type Policy struct {
	store SessionStore
}

func NewPolicy(store SessionStore) *Policy {
	return &Policy{store: store}
}

func (p *Policy) snapshot() Session {
	session, ok := p.store.Get()
	if !ok {
		return Session{}
	}
	return session
}

func (p *Policy) IsAuthenticated() bool {
	return p.snapshot().Authenticated()
}

func (p *Policy) IsAdmin() bool {
	return p.snapshot().Admin()
}

func (p *Policy) CanDelete(target uuid.UUID) bool {
	return p.snapshot().CanDeleteUser(target)
}
