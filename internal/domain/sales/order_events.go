package sales

import (
	"time"

	"github.com/brindes/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderSaved             = "OrderSaved"
	EventTypeInstallmentConfirmed   = "InstallmentConfirmed"
	EventTypeCostComponentConfirmed = "CostComponentConfirmed"
	EventTypeOrderStatusChanged     = "OrderStatusChanged"
	EventTypeCommissionAccrued      = "CommissionAccrued"
	EventTypeOrderDeleted           = "OrderDeleted"
)

// OrderSavedEvent is raised when an order header or its items are saved
type OrderSavedEvent struct {
	shared.EventHeader
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Created     bool            `json:"created"`
}

// NewOrderSavedEvent creates a new OrderSavedEvent
func NewOrderSavedEvent(order *Order, created bool) *OrderSavedEvent {
	return &OrderSavedEvent{
		EventHeader: shared.NewEventHeader(EventTypeOrderSaved, AggregateTypeOrder, order.ID, order.TenantID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		TotalAmount:     order.TotalAmount,
		Created:         created,
	}
}

// EventType returns the event type name
func (e *OrderSavedEvent) EventType() string {
	return EventTypeOrderSaved
}

// InstallmentConfirmedEvent is raised when a receivable installment is confirmed
type InstallmentConfirmedEvent struct {
	shared.EventHeader
	OrderID         uuid.UUID       `json:"order_id"`
	OrderNumber     string          `json:"order_number"`
	InstallmentType InstallmentType `json:"installment_type"`
	Amount          decimal.Decimal `json:"amount"`
	ConfirmedAt     time.Time       `json:"confirmed_at"`
	ConfirmedBy     string          `json:"confirmed_by"`
}

// NewInstallmentConfirmedEvent creates a new InstallmentConfirmedEvent
func NewInstallmentConfirmedEvent(order *Order, t InstallmentType, amount decimal.Decimal, at time.Time, actor shared.Actor) *InstallmentConfirmedEvent {
	return &InstallmentConfirmedEvent{
		EventHeader: shared.NewEventHeader(EventTypeInstallmentConfirmed, AggregateTypeOrder, order.ID, order.TenantID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		InstallmentType: t,
		Amount:          amount,
		ConfirmedAt:     at,
		ConfirmedBy:     actor.DisplayName(),
	}
}

// EventType returns the event type name
func (e *InstallmentConfirmedEvent) EventType() string {
	return EventTypeInstallmentConfirmed
}

// CostComponentConfirmedEvent is raised when a payable cost component is paid
type CostComponentConfirmedEvent struct {
	shared.EventHeader
	OrderID     uuid.UUID       `json:"order_id"`
	ItemID      uuid.UUID       `json:"item_id"`
	Component   string          `json:"component"`
	Amount      decimal.Decimal `json:"amount"`
	PaidAt      time.Time       `json:"paid_at"`
	ConfirmedBy string          `json:"confirmed_by"`
}

// NewCostComponentConfirmedEvent creates a new CostComponentConfirmedEvent
func NewCostComponentConfirmedEvent(order *Order, item *OrderItem, kind ComponentKind, at time.Time, actor shared.Actor) *CostComponentConfirmedEvent {
	return &CostComponentConfirmedEvent{
		EventHeader: shared.NewEventHeader(EventTypeCostComponentConfirmed, AggregateTypeOrder, order.ID, order.TenantID),
		OrderID:         order.ID,
		ItemID:          item.ID,
		Component:       kind.String(),
		Amount:          item.RealizedAmount(kind),
		PaidAt:          at,
		ConfirmedBy:     actor.DisplayName(),
	}
}

// EventType returns the event type name
func (e *CostComponentConfirmedEvent) EventType() string {
	return EventTypeCostComponentConfirmed
}

// OrderStatusChangedEvent is raised on every lifecycle transition
type OrderStatusChangedEvent struct {
	shared.EventHeader
	OrderID    uuid.UUID   `json:"order_id"`
	FromStatus OrderStatus `json:"from_status"`
	ToStatus   OrderStatus `json:"to_status"`
	ChangedBy  string      `json:"changed_by"`
}

// NewOrderStatusChangedEvent creates a new OrderStatusChangedEvent
func NewOrderStatusChangedEvent(order *Order, from OrderStatus, actor shared.Actor) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		EventHeader: shared.NewEventHeader(EventTypeOrderStatusChanged, AggregateTypeOrder, order.ID, order.TenantID),
		OrderID:         order.ID,
		FromStatus:      from,
		ToStatus:        order.Status,
		ChangedBy:       actor.DisplayName(),
	}
}

// EventType returns the event type name
func (e *OrderStatusChangedEvent) EventType() string {
	return EventTypeOrderStatusChanged
}

// CommissionAccruedEvent is raised after a commission row was actually inserted
type CommissionAccruedEvent struct {
	shared.EventHeader
	CommissionID uuid.UUID       `json:"commission_id"`
	OrderID      uuid.UUID       `json:"order_id"`
	Salesperson  string          `json:"salesperson"`
	Type         InstallmentType `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
}

// NewCommissionAccruedEvent creates a new CommissionAccruedEvent
func NewCommissionAccruedEvent(c *Commission) *CommissionAccruedEvent {
	return &CommissionAccruedEvent{
		EventHeader: shared.NewEventHeader(EventTypeCommissionAccrued, AggregateTypeOrder, c.OrderID, c.TenantID),
		CommissionID:    c.ID,
		OrderID:         c.OrderID,
		Salesperson:     c.Salesperson,
		Type:            c.Type,
		Amount:          c.Amount,
	}
}

// EventType returns the event type name
func (e *CommissionAccruedEvent) EventType() string {
	return EventTypeCommissionAccrued
}

// OrderDeletedEvent is raised after an order and everything it owns was removed
type OrderDeletedEvent struct {
	shared.EventHeader
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
}

// NewOrderDeletedEvent creates a new OrderDeletedEvent
func NewOrderDeletedEvent(order *Order) *OrderDeletedEvent {
	return &OrderDeletedEvent{
		EventHeader: shared.NewEventHeader(EventTypeOrderDeleted, AggregateTypeOrder, order.ID, order.TenantID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
	}
}

// EventType returns the event type name
func (e *OrderDeletedEvent) EventType() string {
	return EventTypeOrderDeleted
}
