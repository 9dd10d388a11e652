package persistence

import (
	"context"

	"github.com/brindes/backend/internal/domain/sales"
	"github.com/brindes/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormCommissionRepository implements sales.CommissionRepository using GORM.
// Inserts happen in GormOrderRepository.Commit.
type GormCommissionRepository struct {
	db *gorm.DB
}

// NewGormCommissionRepository creates a new GormCommissionRepository
func NewGormCommissionRepository(db *gorm.DB) *GormCommissionRepository {
	return &GormCommissionRepository{db: db}
}

// FindAllForTenant lists commissions oldest first
func (r *GormCommissionRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter sales.CommissionFilter) ([]sales.Commission, error) {
	var commissionModels []models.CommissionModel
	if err := r.applyFilter(r.db.WithContext(ctx), tenantID, filter).
		Order("created_at ASC").
		Find(&commissionModels).Error; err != nil {
		return nil, translateError(err, "commission")
	}
	commissions := make([]sales.Commission, len(commissionModels))
	for i := range commissionModels {
		commissions[i] = *commissionModels[i].ToDomain()
	}
	return commissions, nil
}

// SumForTenant totals the commission amounts matching the filter
func (r *GormCommissionRepository) SumForTenant(ctx context.Context, tenantID uuid.UUID, filter sales.CommissionFilter) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	if err := r.applyFilter(r.db.WithContext(ctx), tenantID, filter).
		Select("SUM(amount)").
		Row().
		Scan(&total); err != nil {
		return decimal.Zero, translateError(err, "commission")
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

func (r *GormCommissionRepository) applyFilter(db *gorm.DB, tenantID uuid.UUID, filter sales.CommissionFilter) *gorm.DB {
	query := db.Model(&models.CommissionModel{}).Where("tenant_id = ?", tenantID)
	if filter.Salesperson != "" {
		query = query.Where("salesperson = ?", filter.Salesperson)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.OrderID != nil {
		query = query.Where("order_id = ?", *filter.OrderID)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at < ?", *filter.To)
	}
	return query
}

// Ensure GormCommissionRepository implements CommissionRepository interface
var _ sales.CommissionRepository = (*GormCommissionRepository)(nil)
