package shared

import "github.com/google/uuid"

// SystemActorName is recorded when a change has no identified user
const SystemActorName = "sistema"

// Actor is the identity performing a state-changing command. It is passed
// explicitly to every mutating call and is used both for privilege checks
// and for audit attribution.
type Actor struct {
	ID    uuid.UUID
	Name  string
	Admin bool
}

// NewActor creates a regular, non-privileged actor
func NewActor(id uuid.UUID, name string) Actor {
	return Actor{ID: id, Name: name}
}

// NewAdminActor creates an actor holding the administrator capability
func NewAdminActor(id uuid.UUID, name string) Actor {
	return Actor{ID: id, Name: name, Admin: true}
}

// IsAdmin reports whether the actor holds the administrator capability
func (a Actor) IsAdmin() bool {
	return a.Admin
}

// DisplayName returns the name written to the audit trail
func (a Actor) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	if a.ID != uuid.Nil {
		return a.ID.String()
	}
	return SystemActorName
}

// IDPtr returns the actor id, or nil for an anonymous actor
func (a Actor) IDPtr() *uuid.UUID {
	if a.ID == uuid.Nil {
		return nil
	}
	id := a.ID
	return &id
}
