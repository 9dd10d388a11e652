package finance

import (
	"time"

	"github.com/brindes/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateExpenseRequest represents a request to register a company expense
type CreateExpenseRequest struct {
	Description string          `json:"description" binding:"required,min=1,max=500"`
	Amount      decimal.Decimal `json:"amount" binding:"required,positive"`
	DueDate     time.Time       `json:"due_date" binding:"required"`
	Paid        bool            `json:"paid"`
	Category    string          `json:"category" binding:"omitempty,oneof=FIXO SALÁRIO IMPOSTO MANUTENÇÃO OUTROS"`
	Observation string          `json:"observation" binding:"max=2000"`
}

// ExpenseListFilter selects the expenses of one month. Year and Month go
// together; both empty lists everything.
type ExpenseListFilter struct {
	Year  int   `form:"year" binding:"omitempty,min=2000,max=2100"`
	Month int   `form:"month" binding:"omitempty,min=1,max=12"`
	Paid  *bool `form:"paid"`
}

// ExpenseResponse represents a company expense in API responses
type ExpenseResponse struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     time.Time       `json:"due_date"`
	Paid        bool            `json:"paid"`
	PaidAt      *time.Time      `json:"paid_at,omitempty"`
	Category    string          `json:"category"`
	Observation string          `json:"observation,omitempty"`
}

// ExpenseListResponse is a listing plus the paid and pending totals
type ExpenseListResponse struct {
	Items   []ExpenseResponse `json:"items"`
	Paid    decimal.Decimal   `json:"paid"`
	Pending decimal.Decimal   `json:"pending"`
}

// ToExpenseResponse converts a domain CompanyExpense to ExpenseResponse
func ToExpenseResponse(e *finance.CompanyExpense) ExpenseResponse {
	return ExpenseResponse{
		ID:          e.ID,
		Description: e.Description,
		Amount:      e.Amount,
		DueDate:     e.DueDate,
		Paid:        e.Paid,
		PaidAt:      e.PaidAt,
		Category:    e.Category.String(),
		Observation: e.Observation,
	}
}
