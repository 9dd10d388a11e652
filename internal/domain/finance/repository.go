package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CompanyExpenseRepository defines the interface for company expense persistence
type CompanyExpenseRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*CompanyExpense, error)

	// FindAllForTenant lists expenses by due date ascending
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter ExpenseFilter) ([]CompanyExpense, error)

	// SumForTenant totals the amount of expenses due in [from, to)
	SumForTenant(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (decimal.Decimal, error)

	Save(ctx context.Context, expense *CompanyExpense) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
