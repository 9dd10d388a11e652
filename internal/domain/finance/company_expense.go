package finance

import (
	"strings"
	"time"

	"github.com/brindes/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseCategory groups company expenses on the payables screen
type ExpenseCategory string

const (
	ExpenseCategoryFixed       ExpenseCategory = "FIXO"
	ExpenseCategorySalary      ExpenseCategory = "SALÁRIO"
	ExpenseCategoryTax         ExpenseCategory = "IMPOSTO"
	ExpenseCategoryMaintenance ExpenseCategory = "MANUTENÇÃO"
	ExpenseCategoryOther       ExpenseCategory = "OUTROS"
)

// AllExpenseCategories returns the categories in display order
func AllExpenseCategories() []ExpenseCategory {
	return []ExpenseCategory{
		ExpenseCategoryFixed,
		ExpenseCategorySalary,
		ExpenseCategoryTax,
		ExpenseCategoryMaintenance,
		ExpenseCategoryOther,
	}
}

// IsValid checks if the category is a valid ExpenseCategory
func (c ExpenseCategory) IsValid() bool {
	for _, category := range AllExpenseCategories() {
		if c == category {
			return true
		}
	}
	return false
}

// String returns the string representation of ExpenseCategory
func (c ExpenseCategory) String() string {
	return string(c)
}

// CompanyExpense is an overhead bill not tied to any order (rent, salaries,
// taxes). The monthly report subtracts them by due date.
type CompanyExpense struct {
	shared.TenantAggregateRoot
	Description string
	Amount      decimal.Decimal
	DueDate     time.Time
	Paid        bool
	PaidAt      *time.Time
	Category    ExpenseCategory
	Observation string
}

// ExpenseInput holds the fields of a new expense
type ExpenseInput struct {
	Description string
	Amount      decimal.Decimal
	DueDate     time.Time
	Paid        bool
	Category    ExpenseCategory
	Observation string
}

// NewCompanyExpense creates a new company expense. Category defaults to FIXO.
func NewCompanyExpense(tenantID uuid.UUID, in ExpenseInput) (*CompanyExpense, error) {
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, shared.NewValidationError("Description cannot be empty")
	}
	if len(description) > 500 {
		return nil, shared.NewValidationError("Description cannot exceed 500 characters")
	}
	if !in.Amount.IsPositive() {
		return nil, shared.NewValidationError("Amount must be positive")
	}
	if in.DueDate.IsZero() {
		return nil, shared.NewValidationError("Due date is required")
	}
	category := in.Category
	if category == "" {
		category = ExpenseCategoryFixed
	}
	if !category.IsValid() {
		return nil, shared.NewValidationError("Expense category is not valid")
	}

	expense := &CompanyExpense{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Description:         description,
		Amount:              in.Amount,
		DueDate:             in.DueDate,
		Category:            category,
		Observation:         strings.TrimSpace(in.Observation),
	}
	if in.Paid {
		now := time.Now()
		expense.Paid = true
		expense.PaidAt = &now
	}

	expense.RecordEvent(NewCompanyExpenseCreatedEvent(expense))
	return expense, nil
}

// TogglePaid flips the paid flag. Marking paid stamps the paid date with at;
// marking unpaid clears it.
func (e *CompanyExpense) TogglePaid(at time.Time) {
	e.Paid = !e.Paid
	if e.Paid {
		e.PaidAt = &at
	} else {
		e.PaidAt = nil
	}
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
	e.RecordEvent(NewCompanyExpensePaidToggledEvent(e))
}

// ExpenseFilter narrows an expense listing
type ExpenseFilter struct {
	From *time.Time // due date, inclusive
	To   *time.Time // due date, exclusive
	Paid *bool
}

// MonthRange returns [first day of month, first day of next month) in loc
func MonthRange(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return from, from.AddDate(0, 1, 0)
}
