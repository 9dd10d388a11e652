package cache

import (
	"fmt"
	"time"

	"github.com/brindes/backend/internal/domain/report"
	"github.com/brindes/backend/internal/domain/shared"
	"github.com/brindes/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Factory builds the idempotency store and the report cache. Both share one
// Redis client when Redis is enabled and reachable.
type Factory struct {
	redisConfig           config.RedisConfig
	reportTTL             time.Duration
	logger                *zap.Logger
	allowInMemoryFallback bool

	client *redis.Client
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to
// in-memory stores. Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// WithReportCacheTTL sets the monthly report TTL
func WithReportCacheTTL(ttl time.Duration) FactoryOption {
	return func(f *Factory) {
		f.reportTTL = ttl
	}
}

// NewFactory creates a new factory
func NewFactory(cfg config.RedisConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		redisConfig:           cfg,
		reportTTL:             defaultReportTTL,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// redisClient connects lazily. A nil client with nil error means Redis is
// disabled or unavailable and fallback is allowed.
func (f *Factory) redisClient() (*redis.Client, error) {
	if f.client != nil || !f.redisConfig.Enabled {
		return f.client, nil
	}

	client, err := NewRedisClient(f.redisConfig)
	if err != nil {
		if !f.allowInMemoryFallback {
			return nil, fmt.Errorf("redis required but unavailable: %w", err)
		}
		f.logger.Warn("Redis unavailable, falling back to in-memory stores. "+
			"Idempotency keys are not shared across instances.",
			zap.String("addr", f.redisConfig.Addr()),
			zap.Error(err),
		)
		f.redisConfig.Enabled = false
		return nil, nil
	}
	f.client = client
	return client, nil
}

// RedisClient exposes the shared client for other Redis-backed components.
// It is nil when the factory runs in memory.
func (f *Factory) RedisClient() (*redis.Client, error) {
	return f.redisClient()
}

// CreateIdempotencyStore returns a Redis store, or an in-memory one when Redis
// is disabled or unreachable
func (f *Factory) CreateIdempotencyStore() (shared.IdempotencyStore, error) {
	client, err := f.redisClient()
	if err != nil {
		return nil, err
	}
	if client == nil {
		return NewInMemoryIdempotencyStore(), nil
	}
	f.logger.Info("using Redis idempotency store")
	return NewRedisIdempotencyStoreWithClient(client, ""), nil
}

// CreateReportCache returns a Redis report cache, or an in-memory one
func (f *Factory) CreateReportCache() (report.Cache, error) {
	opts := []ReportCacheOption{WithReportTTL(f.reportTTL), WithReportLogger(f.logger)}

	client, err := f.redisClient()
	if err != nil {
		return nil, err
	}
	if client == nil {
		return NewInMemoryReportCache(opts...), nil
	}
	f.logger.Info("using Redis report cache")
	return NewRedisReportCacheWithClient(client, opts...), nil
}

// Close closes the shared Redis client
func (f *Factory) Close() error {
	if f.client == nil {
		return nil
	}
	return f.client.Close()
}
