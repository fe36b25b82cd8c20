package model

import "github.com/google/uuid"

// Actor is the identity decoded from a verified token. It carries no
// authority beyond id and role; the role is fixed at token issuance.
type Actor struct {
	ID   uuid.UUID
	Role string
}

func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == RoleAdmin
}

// CanEdit reports whether the actor may mutate a resource owned by
// ownerID: admins always, everyone else only their own resources.
func (a *Actor) CanEdit(ownerID uuid.UUID) bool {
	if a == nil {
		return false
	}
	return a.Role == RoleAdmin || a.ID == ownerID
}
