package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/brindes/backend/internal/domain/report"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	reportKeyPrefix      = "orders:report:monthly:"
	defaultReportTTL     = 10 * time.Minute
	defaultScanBatchSize = 100
)

// RedisReportCache implements report.Cache using Redis
type RedisReportCache struct {
	client     *redis.Client
	ownsClient bool
	ttl        time.Duration
	logger     *zap.Logger
}

// ReportCacheOption is a functional option for the report caches
type ReportCacheOption func(*reportCacheOptions)

type reportCacheOptions struct {
	ttl    time.Duration
	logger *zap.Logger
}

// WithReportTTL sets the default TTL used when Set receives zero
func WithReportTTL(ttl time.Duration) ReportCacheOption {
	return func(o *reportCacheOptions) {
		if ttl > 0 {
			o.ttl = ttl
		}
	}
}

// WithReportLogger sets the logger
func WithReportLogger(logger *zap.Logger) ReportCacheOption {
	return func(o *reportCacheOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func buildReportOptions(opts []ReportCacheOption) reportCacheOptions {
	o := reportCacheOptions{ttl: defaultReportTTL, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewRedisReportCacheWithClient creates a cache on a shared client.
// The caller keeps ownership of the client.
func NewRedisReportCacheWithClient(client *redis.Client, opts ...ReportCacheOption) *RedisReportCache {
	o := buildReportOptions(opts)
	return &RedisReportCache{
		client: client,
		ttl:    o.ttl,
		logger: o.logger,
	}
}

func reportCacheKey(key report.CacheKey) string {
	return reportKeyPrefix + key.String()
}

// Get returns the cached report, or nil on a miss
func (c *RedisReportCache) Get(ctx context.Context, key report.CacheKey) (*report.MonthlyReport, error) {
	cacheKey := reportCacheKey(key)

	data, err := c.client.Get(ctx, cacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report from cache: %w", err)
	}

	var r report.MonthlyReport
	if err := json.Unmarshal(data, &r); err != nil {
		c.logger.Warn("Dropping corrupted report cache entry",
			zap.String("key", cacheKey),
			zap.Error(err))
		_ = c.client.Del(ctx, cacheKey)
		return nil, nil
	}
	return &r, nil
}

// Set stores a report as JSON
func (c *RedisReportCache) Set(ctx context.Context, key report.CacheKey, r *report.MonthlyReport, ttl time.Duration) error {
	if r == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = c.ttl
	}

	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := c.client.Set(ctx, reportCacheKey(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set report in cache: %w", err)
	}
	return nil
}

// InvalidateTenant deletes every month of the tenant. SCAN keeps Redis
// responsive where KEYS would block it.
func (c *RedisReportCache) InvalidateTenant(ctx context.Context, tenantID uuid.UUID) error {
	pattern := reportKeyPrefix + tenantID.String() + ":*"
	var (
		cursor  uint64
		deleted int64
	)
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, defaultScanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("failed to scan report cache keys: %w", err)
		}
		if len(keys) > 0 {
			n, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				return fmt.Errorf("failed to delete report cache keys: %w", err)
			}
			deleted += n
		}
		if next == 0 {
			break
		}
		cursor = next
	}

	c.logger.Debug("Invalidated report cache",
		zap.String("tenant_id", tenantID.String()),
		zap.Int64("deleted", deleted))
	return nil
}

// Close closes the client if the cache created it
func (c *RedisReportCache) Close() error {
	if c.ownsClient {
		return c.client.Close()
	}
	return nil
}

var _ report.Cache = (*RedisReportCache)(nil)
