package sales

import (
	"context"
	"time"

	"github.com/brindes/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CommitResult reports side records a commit actually inserted
type CommitResult struct {
	// Commissions holds the accruals that were new; offers rejected by the
	// (order, type) uniqueness constraint are not included.
	Commissions []*Commission
}

// OrderRepository defines the persistence contract for orders
type OrderRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Order, error)
	FindByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*Order, error)
	// FindAllForTenant honours filter.Filters keys "status", "salesperson",
	// "client_id", "from" and "to" (order date range). PageSize 0 returns all.
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Order, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (bool, error)

	// Commit stores the order atomically: header (optimistic version check),
	// full item replacement, pending audit entries and commission accruals.
	// Either everything is written or nothing is.
	Commit(ctx context.Context, order *Order) (*CommitResult, error)

	// DeleteForTenant removes the order together with its items,
	// commissions and audit trail
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// CommissionFilter narrows a commission listing
type CommissionFilter struct {
	Salesperson string
	From        *time.Time
	To          *time.Time
	Status      CommissionStatus
	OrderID     *uuid.UUID
}

// CommissionRepository reads accrued commissions. Commissions are only
// written through OrderRepository.Commit.
type CommissionRepository interface {
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter CommissionFilter) ([]Commission, error)
	SumForTenant(ctx context.Context, tenantID uuid.UUID, filter CommissionFilter) (decimal.Decimal, error)
}

// AuditLogRepository reads the append-only audit trail
type AuditLogRepository interface {
	// ListByOrder returns entries newest first
	ListByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]AuditLogEntry, error)
}

// CalculationFactorRepository defines persistence for markup factors
type CalculationFactorRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*CalculationFactor, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, activeOnly bool) ([]CalculationFactor, error)
	ExistsByName(ctx context.Context, tenantID uuid.UUID, name string) (bool, error)
	Save(ctx context.Context, factor *CalculationFactor) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
