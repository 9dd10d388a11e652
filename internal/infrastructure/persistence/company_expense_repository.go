package persistence

import (
	"context"
	"time"

	"github.com/brindes/backend/internal/domain/finance"
	"github.com/brindes/backend/internal/domain/shared"
	"github.com/brindes/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormCompanyExpenseRepository implements finance.CompanyExpenseRepository using GORM
type GormCompanyExpenseRepository struct {
	db *gorm.DB
}

// NewGormCompanyExpenseRepository creates a new GormCompanyExpenseRepository
func NewGormCompanyExpenseRepository(db *gorm.DB) *GormCompanyExpenseRepository {
	return &GormCompanyExpenseRepository{db: db}
}

// FindByIDForTenant finds an expense by ID within a tenant
func (r *GormCompanyExpenseRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.CompanyExpense, error) {
	var model models.CompanyExpenseModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, translateError(err, "company expense")
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists expenses by due date ascending
func (r *GormCompanyExpenseRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.ExpenseFilter) ([]finance.CompanyExpense, error) {
	var expenseModels []models.CompanyExpenseModel
	query := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	if filter.From != nil {
		query = query.Where("due_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("due_date < ?", *filter.To)
	}
	if filter.Paid != nil {
		query = query.Where("paid = ?", *filter.Paid)
	}
	if err := query.Order("due_date ASC").Order("description ASC").Find(&expenseModels).Error; err != nil {
		return nil, translateError(err, "company expense")
	}
	expenses := make([]finance.CompanyExpense, len(expenseModels))
	for i := range expenseModels {
		expenses[i] = *expenseModels[i].ToDomain()
	}
	return expenses, nil
}

// SumForTenant totals the amount of expenses due in [from, to)
func (r *GormCompanyExpenseRepository) SumForTenant(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	if err := r.db.WithContext(ctx).Model(&models.CompanyExpenseModel{}).
		Select("SUM(amount)").
		Where("tenant_id = ? AND due_date >= ? AND due_date < ?", tenantID, from, to).
		Row().
		Scan(&total); err != nil {
		return decimal.Zero, translateError(err, "company expense")
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// Save creates or updates an expense
func (r *GormCompanyExpenseRepository) Save(ctx context.Context, expense *finance.CompanyExpense) error {
	if err := r.db.WithContext(ctx).Save(models.CompanyExpenseModelFromDomain(expense)).Error; err != nil {
		return translateError(err, "company expense")
	}
	return nil
}

// DeleteForTenant deletes an expense within a tenant
func (r *GormCompanyExpenseRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&models.CompanyExpenseModel{})
	if result.Error != nil {
		return translateError(result.Error, "company expense")
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError(shared.CodeNotFound, "company expense not found")
	}
	return nil
}

// Ensure GormCompanyExpenseRepository implements CompanyExpenseRepository interface
var _ finance.CompanyExpenseRepository = (*GormCompanyExpenseRepository)(nil)
