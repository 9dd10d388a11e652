package partner

import (
	"context"

	"github.com/brindes/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PartnerRepository defines the interface for partner persistence
type PartnerRepository interface {
	// FindByIDForTenant finds a partner by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Partner, error)

	// FindAllForTenant lists partners. Filter.Filters["type"] restricts the
	// partner type and Filter.Search matches name, document or email.
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Partner, error)

	// CountForTenant counts partners matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// ExistsByDocument checks if a partner of the given type already uses the document
	ExistsByDocument(ctx context.Context, tenantID uuid.UUID, partnerType PartnerType, document string) (bool, error)

	// IsReferenced reports whether any order or order item points at the partner
	IsReferenced(ctx context.Context, tenantID, id uuid.UUID) (bool, error)

	// Save creates or updates a partner
	Save(ctx context.Context, partner *Partner) error

	// DeleteForTenant deletes a partner within a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
