package persistence

import (
	"context"
	"strings"

	"github.com/brindes/backend/internal/domain/sales"
	"github.com/brindes/backend/internal/domain/shared"
	"github.com/brindes/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCalculationFactorRepository implements sales.CalculationFactorRepository using GORM
type GormCalculationFactorRepository struct {
	db *gorm.DB
}

// NewGormCalculationFactorRepository creates a new GormCalculationFactorRepository
func NewGormCalculationFactorRepository(db *gorm.DB) *GormCalculationFactorRepository {
	return &GormCalculationFactorRepository{db: db}
}

// FindByIDForTenant finds a factor by ID within a tenant
func (r *GormCalculationFactorRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*sales.CalculationFactor, error) {
	var model models.CalculationFactorModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, translateError(err, "calculation factor")
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists factors by name
func (r *GormCalculationFactorRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, activeOnly bool) ([]sales.CalculationFactor, error) {
	var factorModels []models.CalculationFactorModel
	query := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	if err := query.Order("name ASC").Find(&factorModels).Error; err != nil {
		return nil, translateError(err, "calculation factor")
	}
	factors := make([]sales.CalculationFactor, len(factorModels))
	for i := range factorModels {
		factors[i] = *factorModels[i].ToDomain()
	}
	return factors, nil
}

// ExistsByName checks case-insensitively whether a factor name is taken
func (r *GormCalculationFactorRepository) ExistsByName(ctx context.Context, tenantID uuid.UUID, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.CalculationFactorModel{}).
		Where("tenant_id = ? AND LOWER(name) = ?", tenantID, strings.ToLower(strings.TrimSpace(name))).
		Count(&count).Error; err != nil {
		return false, translateError(err, "calculation factor")
	}
	return count > 0, nil
}

// Save creates or updates a factor
func (r *GormCalculationFactorRepository) Save(ctx context.Context, factor *sales.CalculationFactor) error {
	if err := r.db.WithContext(ctx).Save(models.CalculationFactorModelFromDomain(factor)).Error; err != nil {
		return translateError(err, "calculation factor")
	}
	return nil
}

// DeleteForTenant deletes a factor within a tenant
func (r *GormCalculationFactorRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&models.CalculationFactorModel{})
	if result.Error != nil {
		return translateError(result.Error, "calculation factor")
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError(shared.CodeNotFound, "calculation factor not found")
	}
	return nil
}

// Ensure GormCalculationFactorRepository implements CalculationFactorRepository interface
var _ sales.CalculationFactorRepository = (*GormCalculationFactorRepository)(nil)
