package telemetry

import (
	"cmp"
	"context"
	"database/sql"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/brindes/backend/internal/infrastructure/config"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Database metric names
const (
	MetricDBPoolConnections    = "orders_db_pool_connections"
	MetricDBPoolConnectionsMax = "orders_db_pool_connections_max"
	MetricDBQueryTotal         = "orders_db_query_total"
	MetricDBQueryDuration      = "orders_db_query_duration_seconds"
	MetricDBSlowQueryTotal     = "orders_db_slow_query_total"
)

// DBMetricsConfig holds configuration for database metrics collection.
type DBMetricsConfig struct {
	Enabled            bool
	SlowQueryThreshold time.Duration
	PoolStatsInterval  time.Duration
}

func DefaultDBMetricsConfig() DBMetricsConfig {
	return DBMetricsConfig{
		Enabled:            true,
		SlowQueryThreshold: 200 * time.Millisecond,
		PoolStatsInterval:  15 * time.Second,
	}
}

// DBMetricsConfigFromApp shares the slow query threshold with tracing so a
// query flagged on a span is also counted.
func DBMetricsConfigFromApp(cfg config.TelemetryConfig) DBMetricsConfig {
	out := DefaultDBMetricsConfig()
	out.Enabled = cfg.Enabled && cfg.MetricsEnabled
	if cfg.DBSlowQueryThresh > 0 {
		out.SlowQueryThreshold = cfg.DBSlowQueryThresh
	}
	return out
}

// DBMetrics counts statements and samples the connection pool.
type DBMetrics struct {
	pool     *Gauge
	poolMax  *Gauge
	queries  *Counter
	latency  *Histogram
	slow     *Counter
	config   DBMetricsConfig
	logger   *zap.Logger
	sqlDB    atomic.Pointer[sql.DB]
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func NewDBMetrics(meter metric.Meter, cfg DBMetricsConfig, logger *zap.Logger) (*DBMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SlowQueryThreshold <= 0 {
		cfg.SlowQueryThreshold = DefaultDBMetricsConfig().SlowQueryThreshold
	}
	if cfg.PoolStatsInterval <= 0 {
		cfg.PoolStatsInterval = DefaultDBMetricsConfig().PoolStatsInterval
	}
	m := &DBMetrics{config: cfg, logger: logger, stop: make(chan struct{})}

	gauges := []struct {
		dst **Gauge
		in  Instrument
	}{
		{&m.pool, Instrument{Name: MetricDBPoolConnections, Description: "Connections in the pool by state", Unit: "{connection}"}},
		{&m.poolMax, Instrument{Name: MetricDBPoolConnectionsMax, Description: "Maximum open connections allowed", Unit: "{connection}"}},
	}
	for _, g := range gauges {
		gauge, err := NewGauge(meter, g.in)
		if err != nil {
			return nil, err
		}
		*g.dst = gauge
	}

	var err error
	if m.queries, err = NewCounter(meter, Instrument{Name: MetricDBQueryTotal, Description: "Database queries by operation", Unit: "{query}"}); err != nil {
		return nil, err
	}
	if m.slow, err = NewCounter(meter, Instrument{Name: MetricDBSlowQueryTotal, Description: "Queries slower than the configured threshold", Unit: "{query}"}); err != nil {
		return nil, err
	}
	m.latency, err = NewHistogram(meter, Instrument{
		Name:        MetricDBQueryDuration,
		Description: "Database query latency in seconds",
		Unit:        "s",
		Buckets:     DBDurationBuckets,
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// SetSQLDB must be called before StartPoolStatsCollection.
func (m *DBMetrics) SetSQLDB(sqlDB *sql.DB) {
	m.sqlDB.Store(sqlDB)
}

// StartPoolStatsCollection samples pool stats once now and then every
// PoolStatsInterval until Stop or ctx is done.
func (m *DBMetrics) StartPoolStatsCollection(ctx context.Context) {
	if m.sqlDB.Load() == nil {
		m.logger.Warn("Pool stats collection not started: no sql.DB set")
		return
	}
	m.done = make(chan struct{})
	m.samplePool(ctx)

	go func() {
		defer close(m.done)
		ticker := time.NewTicker(m.config.PoolStatsInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.samplePool(ctx)
			case <-m.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
	m.logger.Info("Pool stats collection started", zap.Duration("interval", m.config.PoolStatsInterval))
}

func (m *DBMetrics) samplePool(ctx context.Context) {
	sqlDB := m.sqlDB.Load()
	if sqlDB == nil {
		return
	}
	stats := sqlDB.Stats()
	m.poolMax.Record(ctx, int64(stats.MaxOpenConnections))
	for state, n := range map[string]int{"idle": stats.Idle, "in_use": stats.InUse, "open": stats.OpenConnections} {
		m.pool.Record(ctx, int64(n), AttrDBState.String(state))
	}
}

// Stop ends pool sampling. It may be called more than once.
func (m *DBMetrics) Stop() {
	m.stopOnce.Do(func() {
		close(m.stop)
		if m.done != nil {
			<-m.done
		}
	})
}

// RecordQuery counts one statement. Slow queries are counted per table.
func (m *DBMetrics) RecordQuery(ctx context.Context, operation, table string, duration time.Duration) {
	op := AttrDBOperation.String(cmp.Or(strings.ToUpper(operation), "UNKNOWN"))
	m.queries.Inc(ctx, op)
	m.latency.RecordDuration(ctx, duration, op)
	if duration > m.config.SlowQueryThreshold {
		m.slow.Inc(ctx, AttrDBTable.String(cmp.Or(table, "unknown")))
	}
}

// DBMetricsPlugin is the gorm.Plugin feeding DBMetrics.
type DBMetricsPlugin struct {
	metrics *DBMetrics
	logger  *zap.Logger
}

func NewDBMetricsPlugin(metrics *DBMetrics, logger *zap.Logger) *DBMetricsPlugin {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DBMetricsPlugin{metrics: metrics, logger: logger}
}

func (p *DBMetricsPlugin) Name() string {
	return "orders_db_metrics"
}

func (p *DBMetricsPlugin) Initialize(db *gorm.DB) error {
	return registerTimedCallbacks(db, "orders_metrics", func(db *gorm.DB, verb string) {
		ctx := db.Statement.Context
		if ctx == nil {
			ctx = context.Background()
		}
		elapsed, _ := statementElapsed(ctx)
		p.metrics.RecordQuery(ctx, verb, db.Statement.Table, elapsed)
	})
}

// RegisterDBMetrics installs the metrics plugin on db and returns the
// instruments so the caller can start pool sampling and Stop on shutdown.
// It returns nil, nil when metrics are disabled.
func RegisterDBMetrics(db *gorm.DB, tp *Providers, cfg DBMetricsConfig, logger *zap.Logger) (*DBMetrics, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.Enabled || tp == nil || !tp.MetricsEnabled() {
		logger.Debug("Database metrics disabled, skipping registration")
		return nil, nil
	}

	metrics, err := NewDBMetrics(tp.Meter("orders.db"), cfg, logger)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	metrics.SetSQLDB(sqlDB)

	if err := db.Use(NewDBMetricsPlugin(metrics, logger)); err != nil {
		return nil, err
	}
	logger.Info("Database metrics registered",
		zap.Duration("slow_query_threshold", cfg.SlowQueryThreshold),
		zap.Duration("pool_stats_interval", cfg.PoolStatsInterval),
	)
	return metrics, nil
}
