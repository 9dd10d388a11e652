package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/brindes/backend/internal/domain/sales"
	"github.com/brindes/backend/internal/domain/shared"
	"github.com/brindes/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements sales.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// FindByIDForTenant finds an order with its items by ID within a tenant
func (r *GormOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*sales.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Preload("Items", preloadItems).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, translateError(err, "order")
	}
	return model.ToDomain(), nil
}

// FindByOrderNumber finds an order by its number within a tenant
func (r *GormOrderRepository) FindByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*sales.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Preload("Items", preloadItems).
		Where("tenant_id = ? AND order_number = ?", tenantID, strings.TrimSpace(orderNumber)).
		First(&model).Error; err != nil {
		return nil, translateError(err, "order")
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists orders with their items
func (r *GormOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]sales.Order, error) {
	var orderModels []models.OrderModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.OrderModel{}), tenantID, filter)

	sort := orderSort.orderBy(filter.OrderBy, filter.OrderDir)
	query = query.Order(sort).Order(clause.OrderByColumn{Column: clause.Column{Name: "order_number"}, Desc: sort.Desc})

	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	if err := query.Preload("Items", preloadItems).Find(&orderModels).Error; err != nil {
		return nil, translateError(err, "order")
	}
	orders := make([]sales.Order, len(orderModels))
	for i := range orderModels {
		orders[i] = *orderModels[i].ToDomain()
	}
	return orders, nil
}

// CountForTenant counts orders matching the filter
func (r *GormOrderRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.OrderModel{}), tenantID, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, translateError(err, "order")
	}
	return count, nil
}

// ExistsByOrderNumber checks if an order number is already used in the tenant
func (r *GormOrderRepository) ExistsByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Where("tenant_id = ? AND order_number = ?", tenantID, strings.TrimSpace(orderNumber)).
		Count(&count).Error; err != nil {
		return false, translateError(err, "order")
	}
	return count > 0, nil
}

func (r *GormOrderRepository) applyFilter(query *gorm.DB, tenantID uuid.UUID, filter shared.Filter) *gorm.DB {
	query = query.Where("tenant_id = ?", tenantID)

	if filter.Search != "" {
		pattern := likePattern(strings.ToLower(filter.Search))
		query = query.Where("LOWER(order_number) LIKE ? OR LOWER(salesperson) LIKE ?", pattern, pattern)
	}
	if status, ok := filter.Filters["status"]; ok && status != "" {
		query = query.Where("status = ?", status)
	}
	if salesperson, ok := filter.Filters["salesperson"]; ok && salesperson != "" {
		query = query.Where("salesperson = ?", salesperson)
	}
	if clientID, ok := filter.Filters["client_id"]; ok {
		query = query.Where("client_id = ?", clientID)
	}
	if from, ok := filter.Filters["from"].(time.Time); ok {
		query = query.Where("order_date >= ?", from)
	}
	if to, ok := filter.Filters["to"].(time.Time); ok {
		query = query.Where("order_date < ?", to)
	}
	return query
}

// Commit stores the order, its items, pending audit entries and commission
// accruals in one transaction.
func (r *GormOrderRepository) Commit(ctx context.Context, order *sales.Order) (*sales.CommitResult, error) {
	header := models.OrderModelFromDomain(order)
	items := models.OrderItemModelsFromDomain(order)
	result := &sales.CommitResult{Commissions: make([]*sales.Commission, 0)}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.writeHeader(tx, header); err != nil {
			return err
		}

		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItemModel{}).Error; err != nil {
			return translateError(err, "order item")
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return translateError(err, "order item")
			}
		}

		pending := order.PendingAuditEntries()
		if len(pending) > 0 {
			entries := make([]*models.AuditLogModel, 0, len(pending))
			for i, e := range pending {
				entry := models.AuditLogModelFromDomain(e)
				entry.Position = i
				entries = append(entries, entry)
			}
			if err := tx.Create(&entries).Error; err != nil {
				return translateError(err, "audit log entry")
			}
		}

		for _, accrual := range order.CommissionAccruals() {
			res := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "order_id"}, {Name: "type"}},
				DoNothing: true,
			}).Create(models.CommissionModelFromDomain(accrual))
			if res.Error != nil {
				return translateError(res.Error, "commission")
			}
			if res.RowsAffected == 1 {
				result.Commissions = append(result.Commissions, accrual)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order.Version = header.Version
	order.ClearPendingAuditEntries()
	return result, nil
}

// writeHeader inserts a new order or updates an existing one guarded by its
// version. On success header.Version holds the stored version.
func (r *GormOrderRepository) writeHeader(tx *gorm.DB, header *models.OrderModel) error {
	var current struct{ Version int }
	res := tx.Model(&models.OrderModel{}).
		Select("version").
		Where("tenant_id = ? AND id = ?", header.TenantID, header.ID).
		Limit(1).
		Scan(&current)
	if res.Error != nil {
		return translateError(res.Error, "order")
	}

	if res.RowsAffected == 0 {
		if header.Version < 1 {
			header.Version = 1
		}
		if err := tx.Omit(clause.Associations).Create(header).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return shared.WrapDomainError(shared.CodeAlreadyExists, "order number "+header.OrderNumber+" already exists", err)
			}
			return translateError(err, "order")
		}
		return nil
	}

	expected := header.Version
	if current.Version != expected {
		return shared.ErrConcurrencyConflict
	}
	header.Version = expected + 1
	res = tx.Model(header).
		Where("tenant_id = ? AND version = ?", header.TenantID, expected).
		Select("*").
		Omit("id", "tenant_id", "created_at", clause.Associations).
		Updates(header)
	if res.Error != nil {
		header.Version = expected
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return shared.WrapDomainError(shared.CodeAlreadyExists, "order number "+header.OrderNumber+" already exists", res.Error)
		}
		return translateError(res.Error, "order")
	}
	if res.RowsAffected == 0 {
		header.Version = expected
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// DeleteForTenant removes the order together with its items, commissions and audit trail
func (r *GormOrderRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, dependent := range []any{&models.OrderItemModel{}, &models.CommissionModel{}, &models.AuditLogModel{}} {
			if err := tx.Where("tenant_id = ? AND order_id = ?", tenantID, id).Delete(dependent).Error; err != nil {
				return translateError(err, "order")
			}
		}
		result := tx.Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&models.OrderModel{})
		if result.Error != nil {
			return translateError(result.Error, "order")
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError(shared.CodeNotFound, "order not found")
		}
		return nil
	})
}

// Ensure GormOrderRepository implements OrderRepository interface
var _ sales.OrderRepository = (*GormOrderRepository)(nil)
