package partner

import (
	"github.com/brindes/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypePartner = "Partner"

// Event type constants
const (
	EventTypePartnerCreated = "PartnerCreated"
	EventTypePartnerUpdated = "PartnerUpdated"
	EventTypePartnerDeleted = "PartnerDeleted"
)

// PartnerCreatedEvent is published when a new partner is registered
type PartnerCreatedEvent struct {
	shared.EventHeader
	PartnerID uuid.UUID   `json:"partner_id"`
	Type      PartnerType `json:"type"`
	Name      string      `json:"name"`
}

// NewPartnerCreatedEvent creates a new PartnerCreatedEvent
func NewPartnerCreatedEvent(p *Partner) *PartnerCreatedEvent {
	return &PartnerCreatedEvent{
		EventHeader: shared.NewEventHeader(EventTypePartnerCreated, AggregateTypePartner, p.ID, p.TenantID),
		PartnerID:       p.ID,
		Type:            p.Type,
		Name:            p.Name,
	}
}

// PartnerUpdatedEvent is published when a partner is edited
type PartnerUpdatedEvent struct {
	shared.EventHeader
	PartnerID uuid.UUID `json:"partner_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
}

// NewPartnerUpdatedEvent creates a new PartnerUpdatedEvent
func NewPartnerUpdatedEvent(p *Partner) *PartnerUpdatedEvent {
	return &PartnerUpdatedEvent{
		EventHeader: shared.NewEventHeader(EventTypePartnerUpdated, AggregateTypePartner, p.ID, p.TenantID),
		PartnerID:       p.ID,
		Name:            p.Name,
		Email:           p.Email,
	}
}

// PartnerDeletedEvent is published when a partner is removed
type PartnerDeletedEvent struct {
	shared.EventHeader
	PartnerID uuid.UUID   `json:"partner_id"`
	Type      PartnerType `json:"type"`
}

// NewPartnerDeletedEvent creates a new PartnerDeletedEvent
func NewPartnerDeletedEvent(p *Partner) *PartnerDeletedEvent {
	return &PartnerDeletedEvent{
		EventHeader: shared.NewEventHeader(EventTypePartnerDeleted, AggregateTypePartner, p.ID, p.TenantID),
		PartnerID:       p.ID,
		Type:            p.Type,
	}
}
