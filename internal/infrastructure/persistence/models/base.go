package models

import (
	"time"

	"github.com/brindes/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Identity are the columns every table carries
type Identity struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func identityOf(e shared.BaseEntity) Identity {
	return Identity{ID: e.ID, CreatedAt: e.CreatedAt, UpdatedAt: e.UpdatedAt}
}

// Versioned adds the optimistic lock column of an aggregate root
type Versioned struct {
	Identity
	Version int `gorm:"not null;default:1"`
}

func versionedOf(a shared.BaseAggregateRoot) Versioned {
	return Versioned{Identity: identityOf(a.BaseEntity), Version: a.Version}
}

// rootFor rebuilds the domain root. Recorded events are never persisted,
// so the result starts with none.
func (v Versioned) rootFor(tenantID uuid.UUID) shared.TenantAggregateRoot {
	return shared.TenantAggregateRoot{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{ID: v.ID, CreatedAt: v.CreatedAt, UpdatedAt: v.UpdatedAt},
			Version:    v.Version,
		},
		TenantID: tenantID,
	}
}

// TenantOwned is a versioned row scoped to one tenant. Orders declare
// tenant_id themselves because it is part of their composite index.
type TenantOwned struct {
	Versioned
	TenantID uuid.UUID `gorm:"type:uuid;not null;index"`
}

func tenantOwnedOf(t shared.TenantAggregateRoot) TenantOwned {
	return TenantOwned{Versioned: versionedOf(t.BaseAggregateRoot), TenantID: t.TenantID}
}

func (t TenantOwned) root() shared.TenantAggregateRoot {
	return t.rootFor(t.TenantID)
}

// All lists every model in dependency order for AutoMigrate
func All() []any {
	return []any{
		&PartnerModel{},
		&ProductModel{},
		&CalculationFactorModel{},
		&OrderModel{},
		&OrderItemModel{},
		&CommissionModel{},
		&AuditLogModel{},
		&CompanyExpenseModel{},
	}
}
