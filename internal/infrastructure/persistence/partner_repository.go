package persistence

import (
	"context"
	"strings"

	"github.com/brindes/backend/internal/domain/partner"
	"github.com/brindes/backend/internal/domain/shared"
	"github.com/brindes/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPartnerRepository implements partner.PartnerRepository using GORM
type GormPartnerRepository struct {
	db *gorm.DB
}

// NewGormPartnerRepository creates a new GormPartnerRepository
func NewGormPartnerRepository(db *gorm.DB) *GormPartnerRepository {
	return &GormPartnerRepository{db: db}
}

// FindByIDForTenant finds a partner by ID within a tenant
func (r *GormPartnerRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Partner, error) {
	var model models.PartnerModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, translateError(err, "partner")
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all partners matching the filter within a tenant
func (r *GormPartnerRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Partner, error) {
	var partnerModels []models.PartnerModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.PartnerModel{}), tenantID, filter)

	query = query.Order(partnerSort.orderBy(filter.OrderBy, filter.OrderDir))

	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	if err := query.Find(&partnerModels).Error; err != nil {
		return nil, translateError(err, "partner")
	}
	partners := make([]partner.Partner, len(partnerModels))
	for i := range partnerModels {
		partners[i] = *partnerModels[i].ToDomain()
	}
	return partners, nil
}

// CountForTenant counts partners matching the filter within a tenant
func (r *GormPartnerRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.PartnerModel{}), tenantID, filter).
		Count(&count).Error; err != nil {
		return 0, translateError(err, "partner")
	}
	return count, nil
}

func (r *GormPartnerRepository) applyFilter(query *gorm.DB, tenantID uuid.UUID, filter shared.Filter) *gorm.DB {
	query = query.Where("tenant_id = ?", tenantID)
	if filter.Search != "" {
		pattern := likePattern(strings.ToLower(filter.Search))
		query = query.Where("LOWER(name) LIKE ? OR document LIKE ? OR LOWER(email) LIKE ?", pattern, pattern, pattern)
	}
	if partnerType, ok := filter.Filters["type"]; ok && partnerType != "" {
		query = query.Where("type = ?", partnerType)
	}
	return query
}

// ExistsByDocument checks if a partner of the given type already uses the document
func (r *GormPartnerRepository) ExistsByDocument(ctx context.Context, tenantID uuid.UUID, partnerType partner.PartnerType, document string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.PartnerModel{}).
		Where("tenant_id = ? AND type = ? AND document = ?", tenantID, partnerType, document).
		Count(&count).Error; err != nil {
		return false, translateError(err, "partner")
	}
	return count > 0, nil
}

// IsReferenced reports whether any order (as client) or order item (as supplier) points at the partner
func (r *GormPartnerRepository) IsReferenced(ctx context.Context, tenantID, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Where("tenant_id = ? AND client_id = ?", tenantID, id).
		Count(&count).Error; err != nil {
		return false, translateError(err, "order")
	}
	if count > 0 {
		return true, nil
	}
	if err := r.db.WithContext(ctx).Model(&models.OrderItemModel{}).
		Where("tenant_id = ? AND supplier_id = ?", tenantID, id).
		Count(&count).Error; err != nil {
		return false, translateError(err, "order item")
	}
	return count > 0, nil
}

// Save creates or updates a partner
func (r *GormPartnerRepository) Save(ctx context.Context, p *partner.Partner) error {
	if err := r.db.WithContext(ctx).Save(models.PartnerModelFromDomain(p)).Error; err != nil {
		return translateError(err, "partner")
	}
	return nil
}

// DeleteForTenant deletes a partner within a tenant
func (r *GormPartnerRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&models.PartnerModel{})
	if result.Error != nil {
		return translateError(result.Error, "partner")
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError(shared.CodeNotFound, "partner not found")
	}
	return nil
}

// Ensure GormPartnerRepository implements PartnerRepository interface
var _ partner.PartnerRepository = (*GormPartnerRepository)(nil)
