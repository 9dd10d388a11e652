package middleware

import (
	"time"

	"github.com/brindes/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// HTTPMetricsConfig holds configuration for HTTP metrics middleware.
type HTTPMetricsConfig struct {
	Providers *telemetry.Providers
	Enabled   bool
}

type httpMetrics struct {
	requests      *telemetry.Counter
	latency       *telemetry.Histogram
	requestBytes  *telemetry.Histogram
	responseBytes *telemetry.Histogram
	inFlight      metric.Int64UpDownCounter
}

var sizeBuckets = []float64{100, 500, 1000, 5000, 10000, 50000, 100000, 500000, 1000000}

func newHTTPMetrics(meter metric.Meter) (*httpMetrics, error) {
	m := &httpMetrics{}
	var err error
	if m.requests, err = telemetry.NewCounter(meter, telemetry.Instrument{
		Name: "http_server_request_total", Description: "HTTP requests served", Unit: "{request}",
	}); err != nil {
		return nil, err
	}
	if m.latency, err = telemetry.NewHistogram(meter, telemetry.Instrument{
		Name: "http_server_request_duration_seconds", Description: "HTTP request latency", Unit: "s",
		Buckets: telemetry.HTTPDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if m.requestBytes, err = telemetry.NewHistogram(meter, telemetry.Instrument{
		Name: "http_server_request_size_bytes", Description: "HTTP request body size", Unit: "By",
		Buckets: sizeBuckets,
	}); err != nil {
		return nil, err
	}
	if m.responseBytes, err = telemetry.NewHistogram(meter, telemetry.Instrument{
		Name: "http_server_response_size_bytes", Description: "HTTP response body size", Unit: "By",
		Buckets: sizeBuckets,
	}); err != nil {
		return nil, err
	}
	m.inFlight, err = meter.Int64UpDownCounter("http_server_active_requests",
		metric.WithDescription("HTTP requests in flight"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// HTTPMetrics counts requests by method, route, status and tenant and
// records latency and body sizes.
func HTTPMetrics(cfg HTTPMetricsConfig) gin.HandlerFunc {
	if !cfg.Enabled || cfg.Providers == nil || !cfg.Providers.MetricsEnabled() {
		return passThrough
	}
	return HTTPMetricsWithMeter(cfg.Providers.Meter("http.server"), true)
}

// HTTPMetricsWithMeter builds the middleware on an existing meter
func HTTPMetricsWithMeter(meter metric.Meter, enabled bool) gin.HandlerFunc {
	if !enabled {
		return passThrough
	}
	m, err := newHTTPMetrics(meter)
	if err != nil {
		return passThrough
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		start := time.Now()
		m.inFlight.Add(ctx, 1)
		c.Next()
		m.inFlight.Add(ctx, -1)

		route := getRoutePattern(c)
		base := []attribute.KeyValue{
			telemetry.AttrHTTPMethod.String(c.Request.Method),
			telemetry.AttrHTTPRoute.String(route),
		}
		counted := append(base[:len(base):len(base)], telemetry.AttrHTTPStatusCode.Int(c.Writer.Status()))
		if id, ok := GetTenantID(c); ok {
			counted = append(counted, telemetry.AttrTenantID.String(id.String()))
		}

		m.requests.Inc(ctx, counted...)
		m.latency.RecordDuration(ctx, time.Since(start), base...)
		if n := c.Request.ContentLength; n > 0 {
			m.requestBytes.Record(ctx, float64(n), base...)
		}
		if n := c.Writer.Size(); n > 0 {
			m.responseBytes.Record(ctx, float64(n), base...)
		}
	}
}

func passThrough(c *gin.Context) {
	c.Next()
}

// getRoutePattern keeps label cardinality bounded by using the matched
// route instead of the raw path.
func getRoutePattern(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return "unknown"
}
