package cache

import (
	"context"
	"sync"
	"time"

	"github.com/brindes/backend/internal/domain/report"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type reportEntry struct {
	report    report.MonthlyReport
	expiresAt time.Time
}

// InMemoryReportCache implements report.Cache in process memory
type InMemoryReportCache struct {
	mu      sync.RWMutex
	entries map[report.CacheKey]reportEntry
	ttl     time.Duration
	logger  *zap.Logger
	now     func() time.Time
}

// NewInMemoryReportCache creates an empty cache
func NewInMemoryReportCache(opts ...ReportCacheOption) *InMemoryReportCache {
	o := buildReportOptions(opts)
	return &InMemoryReportCache{
		entries: make(map[report.CacheKey]reportEntry),
		ttl:     o.ttl,
		logger:  o.logger,
		now:     time.Now,
	}
}

// Get returns a copy of the cached report, or nil on a miss
func (c *InMemoryReportCache) Get(_ context.Context, key report.CacheKey) (*report.MonthlyReport, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || !c.now().Before(e.expiresAt) {
		return nil, nil
	}
	r := e.report
	return &r, nil
}

// Set stores a copy of r
func (c *InMemoryReportCache) Set(_ context.Context, key report.CacheKey, r *report.MonthlyReport, ttl time.Duration) error {
	if r == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = c.ttl
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = reportEntry{report: *r, expiresAt: c.now().Add(ttl)}
	return nil
}

// InvalidateTenant drops all entries of the tenant
func (c *InMemoryReportCache) InvalidateTenant(_ context.Context, tenantID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	deleted := 0
	for key := range c.entries {
		if key.TenantID == tenantID {
			delete(c.entries, key)
			deleted++
		}
	}
	c.logger.Debug("Invalidated report cache",
		zap.String("tenant_id", tenantID.String()),
		zap.Int("deleted", deleted))
	return nil
}

// Size returns the number of entries, expired ones included
func (c *InMemoryReportCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *InMemoryReportCache) Close() error {
	return nil
}

var _ report.Cache = (*InMemoryReportCache)(nil)
