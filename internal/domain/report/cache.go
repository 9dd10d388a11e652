package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CacheKey identifies one cached monthly report
type CacheKey struct {
	TenantID uuid.UUID
	Year     int
	Month    time.Month
	Policy   CostPolicy
}

// String renders the key as {tenant}:{yyyy-mm}:{policy}
func (k CacheKey) String() string {
	return fmt.Sprintf("%s:%04d-%02d:%s", k.TenantID, k.Year, int(k.Month), k.Policy)
}

// Cache stores computed monthly reports.
//
// Reports are derived data. Any order, commission or expense change for a
// tenant invalidates every cached month of that tenant.
type Cache interface {
	// Get returns nil, nil on a miss
	Get(ctx context.Context, key CacheKey) (*MonthlyReport, error)

	// Set stores a report. A zero ttl uses the implementation default.
	Set(ctx context.Context, key CacheKey, r *MonthlyReport, ttl time.Duration) error

	// InvalidateTenant drops all cached reports of a tenant
	InvalidateTenant(ctx context.Context, tenantID uuid.UUID) error

	Close() error
}
