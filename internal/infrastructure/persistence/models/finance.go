package models

import (
	"time"

	"github.com/brindes/backend/internal/domain/finance"
	"github.com/shopspring/decimal"
)

// CompanyExpenseModel is the persistence model for company expenses
type CompanyExpenseModel struct {
	TenantOwned
	Description string          `gorm:"type:varchar(255);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	DueDate     time.Time       `gorm:"type:date;not null;index"`
	Paid        bool            `gorm:"not null;default:false"`
	PaidAt      *time.Time
	Category    finance.ExpenseCategory `gorm:"type:varchar(30);not null"`
	Observation string                  `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CompanyExpenseModel) TableName() string {
	return "company_expenses"
}

// ToDomain converts the persistence model to a domain CompanyExpense entity.
func (m *CompanyExpenseModel) ToDomain() *finance.CompanyExpense {
	return &finance.CompanyExpense{
		TenantAggregateRoot: m.root(),
		Description:         m.Description,
		Amount:              m.Amount,
		DueDate:             m.DueDate,
		Paid:                m.Paid,
		PaidAt:              m.PaidAt,
		Category:            m.Category,
		Observation:         m.Observation,
	}
}

// FromDomain populates the persistence model from a domain CompanyExpense entity.
func (m *CompanyExpenseModel) FromDomain(e *finance.CompanyExpense) {
	m.TenantOwned = tenantOwnedOf(e.TenantAggregateRoot)
	m.Description = e.Description
	m.Amount = e.Amount
	m.DueDate = e.DueDate
	m.Paid = e.Paid
	m.PaidAt = e.PaidAt
	m.Category = e.Category
	m.Observation = e.Observation
}

// CompanyExpenseModelFromDomain creates a new persistence model from a domain CompanyExpense entity.
func CompanyExpenseModelFromDomain(e *finance.CompanyExpense) *CompanyExpenseModel {
	m := &CompanyExpenseModel{}
	m.FromDomain(e)
	return m
}
