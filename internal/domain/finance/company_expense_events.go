package finance

import (
	"time"

	"github.com/brindes/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeCompanyExpense = "CompanyExpense"

// Event type constants
const (
	EventTypeCompanyExpenseCreated     = "CompanyExpenseCreated"
	EventTypeCompanyExpensePaidToggled = "CompanyExpensePaidToggled"
	EventTypeCompanyExpenseDeleted     = "CompanyExpenseDeleted"
)

// CompanyExpenseCreatedEvent is raised when a new expense is registered
type CompanyExpenseCreatedEvent struct {
	shared.EventHeader
	ExpenseID uuid.UUID       `json:"expense_id"`
	Category  ExpenseCategory `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	DueDate   time.Time       `json:"due_date"`
}

// NewCompanyExpenseCreatedEvent creates a new CompanyExpenseCreatedEvent
func NewCompanyExpenseCreatedEvent(e *CompanyExpense) *CompanyExpenseCreatedEvent {
	return &CompanyExpenseCreatedEvent{
		EventHeader: shared.NewEventHeader(EventTypeCompanyExpenseCreated, AggregateTypeCompanyExpense, e.ID, e.TenantID),
		ExpenseID:       e.ID,
		Category:        e.Category,
		Amount:          e.Amount,
		DueDate:         e.DueDate,
	}
}

// CompanyExpensePaidToggledEvent is raised when the paid flag flips
type CompanyExpensePaidToggledEvent struct {
	shared.EventHeader
	ExpenseID uuid.UUID  `json:"expense_id"`
	Paid      bool       `json:"paid"`
	PaidAt    *time.Time `json:"paid_at,omitempty"`
	DueDate   time.Time  `json:"due_date"`
}

// NewCompanyExpensePaidToggledEvent creates a new CompanyExpensePaidToggledEvent
func NewCompanyExpensePaidToggledEvent(e *CompanyExpense) *CompanyExpensePaidToggledEvent {
	return &CompanyExpensePaidToggledEvent{
		EventHeader: shared.NewEventHeader(EventTypeCompanyExpensePaidToggled, AggregateTypeCompanyExpense, e.ID, e.TenantID),
		ExpenseID:       e.ID,
		Paid:            e.Paid,
		PaidAt:          e.PaidAt,
		DueDate:         e.DueDate,
	}
}

// CompanyExpenseDeletedEvent is raised when an expense is removed
type CompanyExpenseDeletedEvent struct {
	shared.EventHeader
	ExpenseID uuid.UUID `json:"expense_id"`
	DueDate   time.Time `json:"due_date"`
}

// NewCompanyExpenseDeletedEvent creates a new CompanyExpenseDeletedEvent
func NewCompanyExpenseDeletedEvent(e *CompanyExpense) *CompanyExpenseDeletedEvent {
	return &CompanyExpenseDeletedEvent{
		EventHeader: shared.NewEventHeader(EventTypeCompanyExpenseDeleted, AggregateTypeCompanyExpense, e.ID, e.TenantID),
		ExpenseID:       e.ID,
		DueDate:         e.DueDate,
	}
}
