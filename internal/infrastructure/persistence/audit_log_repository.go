package persistence

import (
	"context"

	"github.com/brindes/backend/internal/domain/sales"
	"github.com/brindes/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAuditLogRepository implements sales.AuditLogRepository using GORM
type GormAuditLogRepository struct {
	db *gorm.DB
}

// NewGormAuditLogRepository creates a new GormAuditLogRepository
func NewGormAuditLogRepository(db *gorm.DB) *GormAuditLogRepository {
	return &GormAuditLogRepository{db: db}
}

// ListByOrder returns the audit trail of an order, newest first. Entries of
// one commit that share a timestamp come back in reverse record order.
func (r *GormAuditLogRepository) ListByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]sales.AuditLogEntry, error) {
	var entryModels []models.AuditLogModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND order_id = ?", tenantID, orderID).
		Order("created_at DESC, position DESC").
		Find(&entryModels).Error; err != nil {
		return nil, translateError(err, "audit log entry")
	}
	entries := make([]sales.AuditLogEntry, len(entryModels))
	for i := range entryModels {
		entries[i] = *entryModels[i].ToDomain()
	}
	return entries, nil
}

// Ensure GormAuditLogRepository implements AuditLogRepository interface
var _ sales.AuditLogRepository = (*GormAuditLogRepository)(nil)
