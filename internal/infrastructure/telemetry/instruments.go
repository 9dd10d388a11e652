package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Instrument names and describes one metric. Buckets only apply to
// histograms.
type Instrument struct {
	Name        string
	Description string
	Unit        string
	Buckets     []float64
}

// Counter is a monotonically increasing integer
type Counter struct{ c metric.Int64Counter }

// FloatCounter accumulates non-integer totals such as money amounts
type FloatCounter struct{ c metric.Float64Counter }

// Histogram records a distribution, durations in seconds
type Histogram struct{ h metric.Float64Histogram }

// Gauge records a point-in-time value
type Gauge struct{ g metric.Int64Gauge }

func NewCounter(m metric.Meter, in Instrument) (*Counter, error) {
	c, err := m.Int64Counter(in.Name, metric.WithDescription(in.Description), metric.WithUnit(in.Unit))
	if err != nil {
		return nil, fmt.Errorf("counter %s: %w", in.Name, err)
	}
	return &Counter{c}, nil
}

func NewFloatCounter(m metric.Meter, in Instrument) (*FloatCounter, error) {
	c, err := m.Float64Counter(in.Name, metric.WithDescription(in.Description), metric.WithUnit(in.Unit))
	if err != nil {
		return nil, fmt.Errorf("float counter %s: %w", in.Name, err)
	}
	return &FloatCounter{c}, nil
}

func NewHistogram(m metric.Meter, in Instrument) (*Histogram, error) {
	opts := []metric.Float64HistogramOption{metric.WithDescription(in.Description), metric.WithUnit(in.Unit)}
	if len(in.Buckets) > 0 {
		opts = append(opts, metric.WithExplicitBucketBoundaries(in.Buckets...))
	}
	h, err := m.Float64Histogram(in.Name, opts...)
	if err != nil {
		return nil, fmt.Errorf("histogram %s: %w", in.Name, err)
	}
	return &Histogram{h}, nil
}

func NewGauge(m metric.Meter, in Instrument) (*Gauge, error) {
	g, err := m.Int64Gauge(in.Name, metric.WithDescription(in.Description), metric.WithUnit(in.Unit))
	if err != nil {
		return nil, fmt.Errorf("gauge %s: %w", in.Name, err)
	}
	return &Gauge{g}, nil
}

func (c *Counter) Add(ctx context.Context, n int64, attrs ...attribute.KeyValue) {
	c.c.Add(ctx, n, metric.WithAttributes(attrs...))
}

func (c *Counter) Inc(ctx context.Context, attrs ...attribute.KeyValue) {
	c.Add(ctx, 1, attrs...)
}

// Add adds v, which must not be negative
func (c *FloatCounter) Add(ctx context.Context, v float64, attrs ...attribute.KeyValue) {
	c.c.Add(ctx, v, metric.WithAttributes(attrs...))
}

func (h *Histogram) Record(ctx context.Context, v float64, attrs ...attribute.KeyValue) {
	h.h.Record(ctx, v, metric.WithAttributes(attrs...))
}

func (h *Histogram) RecordDuration(ctx context.Context, d time.Duration, attrs ...attribute.KeyValue) {
	h.Record(ctx, d.Seconds(), attrs...)
}

func (g *Gauge) Record(ctx context.Context, v int64, attrs ...attribute.KeyValue) {
	g.g.Record(ctx, v, metric.WithAttributes(attrs...))
}

// Attribute keys
var (
	AttrTenantID = attribute.Key("tenant_id")

	AttrHTTPMethod     = attribute.Key("http.method")
	AttrHTTPStatusCode = attribute.Key("http.status_code")
	AttrHTTPRoute      = attribute.Key("http.route")

	AttrDBOperation = attribute.Key("db.operation")
	AttrDBTable     = attribute.Key("db.table")
	AttrDBState     = attribute.Key("db.pool.state")

	AttrInstallmentType = attribute.Key("installment_type")
	AttrComponent       = attribute.Key("component")
	AttrFromStatus      = attribute.Key("from_status")
	AttrToStatus        = attribute.Key("to_status")
	AttrCacheResult     = attribute.Key("cache.result")
)

// Histogram buckets in seconds
var (
	HTTPDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
	DBDurationBuckets   = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}
)
