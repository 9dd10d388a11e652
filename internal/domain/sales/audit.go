package sales

import (
	"fmt"
	"time"

	"github.com/brindes/backend/internal/domain/shared"
	"github.com/brindes/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AuditLogEntry is an append-only record of a state change on an order.
// Entries are never updated or deleted individually.
type AuditLogEntry struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	OrderID   uuid.UUID
	ActorID   *uuid.UUID
	ActorName string
	Message   string
	CreatedAt time.Time
}

// NewAuditLogEntry stamps a message with the actor and the current time
func NewAuditLogEntry(tenantID, orderID uuid.UUID, actor shared.Actor, message string) *AuditLogEntry {
	return &AuditLogEntry{
		ID:        uuid.New(),
		TenantID:  tenantID,
		OrderID:   orderID,
		ActorID:   actor.IDPtr(),
		ActorName: actor.DisplayName(),
		Message:   message,
		CreatedAt: time.Now(),
	}
}

func installmentConfirmedMessage(t InstallmentType, amount decimal.Decimal) string {
	if t == InstallmentEntry {
		return fmt.Sprintf("Pagamento de Entrada (%s) confirmado.", valueobject.FormatBRL(amount))
	}
	return fmt.Sprintf("Pagamento Restante (%s) confirmado.", valueobject.FormatBRL(amount))
}

func componentConfirmedMessage(item *OrderItem, kind ComponentKind) string {
	return fmt.Sprintf("Pagamento confirmado: %s - %s", kind.Label(), valueobject.FormatBRL(item.RealizedAmount(kind)))
}

func statusChangedMessage(from, to OrderStatus) string {
	return fmt.Sprintf("Status alterado de %s para %s.", from, to)
}

const (
	orderCreatedMessage = "Pedido criado."
	orderUpdatedMessage = "Pedido atualizado."
)
