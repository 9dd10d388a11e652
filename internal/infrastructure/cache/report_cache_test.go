package cache

import (
	"context"
	"testing"
	"time"

	"github.com/brindes/backend/internal/domain/report"
	"github.com/brindes/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *report.MonthlyReport {
	return &report.MonthlyReport{
		Year:       2025,
		Month:      time.March,
		CostPolicy: report.DefaultCostPolicy,
		OrderCount: 2,
		TotalSales: decimal.RequireFromString("15000.00"),
		Net:        decimal.RequireFromString("4200.50"),
	}
}

func TestInMemoryReportCache_GetSet(t *testing.T) {
	c := NewInMemoryReportCache()
	ctx := context.Background()
	key := report.CacheKey{TenantID: uuid.New(), Year: 2025, Month: time.March, Policy: report.DefaultCostPolicy}

	got, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, c.Set(ctx, key, sampleReport(), 0))

	got, err = c.Get(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Net.Equal(decimal.RequireFromString("4200.50")))

	other := key
	other.Policy = report.CostPolicyEstimated
	got, err = c.Get(ctx, other)
	require.NoError(t, err)
	assert.Nil(t, got, "policy is part of the key")
}

func TestInMemoryReportCache_Expiry(t *testing.T) {
	c := NewInMemoryReportCache(WithReportTTL(time.Minute))
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	ctx := context.Background()
	key := report.CacheKey{TenantID: uuid.New(), Year: 2025, Month: time.March}
	require.NoError(t, c.Set(ctx, key, sampleReport(), 0))

	now = now.Add(59 * time.Second)
	got, _ := c.Get(ctx, key)
	assert.NotNil(t, got)

	now = now.Add(time.Second)
	got, _ = c.Get(ctx, key)
	assert.Nil(t, got)
}

func TestInMemoryReportCache_InvalidateTenant(t *testing.T) {
	c := NewInMemoryReportCache()
	ctx := context.Background()
	tenantA, tenantB := uuid.New(), uuid.New()

	for _, m := range []time.Month{time.January, time.February} {
		require.NoError(t, c.Set(ctx, report.CacheKey{TenantID: tenantA, Year: 2025, Month: m}, sampleReport(), 0))
	}
	keyB := report.CacheKey{TenantID: tenantB, Year: 2025, Month: time.January}
	require.NoError(t, c.Set(ctx, keyB, sampleReport(), 0))
	assert.Equal(t, 3, c.Size())

	require.NoError(t, c.InvalidateTenant(ctx, tenantA))

	assert.Equal(t, 1, c.Size())
	got, _ := c.Get(ctx, keyB)
	assert.NotNil(t, got)
}

func TestInMemoryReportCache_SetNil(t *testing.T) {
	c := NewInMemoryReportCache()
	require.NoError(t, c.Set(context.Background(), report.CacheKey{}, nil, 0))
	assert.Equal(t, 0, c.Size())
}

func TestCacheKey_String(t *testing.T) {
	tenant := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	key := report.CacheKey{TenantID: tenant, Year: 2025, Month: time.March, Policy: report.CostPolicyRealized}
	assert.Equal(t, "11111111-1111-1111-1111-111111111111:2025-03:realized", key.String())
}

func TestFactory_RedisDisabled(t *testing.T) {
	f := NewFactory(config.RedisConfig{Enabled: false})
	defer f.Close()

	store, err := f.CreateIdempotencyStore()
	require.NoError(t, err)
	defer store.Close()
	assert.IsType(t, &InMemoryIdempotencyStore{}, store)

	rc, err := f.CreateReportCache()
	require.NoError(t, err)
	assert.IsType(t, &InMemoryReportCache{}, rc)
}

func TestFactory_RedisUnavailable(t *testing.T) {
	unreachable := config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1}

	t.Run("falls back to memory", func(t *testing.T) {
		f := NewFactory(unreachable)
		store, err := f.CreateIdempotencyStore()
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &InMemoryIdempotencyStore{}, store)
	})

	t.Run("fails without fallback", func(t *testing.T) {
		f := NewFactory(unreachable, WithInMemoryFallback(false))
		_, err := f.CreateReportCache()
		assert.Error(t, err)
	})
}
