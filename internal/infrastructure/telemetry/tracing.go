package telemetry

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the tracer used for application service spans
const TracerName = "orders-backend"

// Span attribute keys shared by the application services
const (
	SpanAttrTenantID     = "tenant_id"
	SpanAttrOrderID      = "order_id"
	SpanAttrOrderNumber  = "order_number"
	SpanAttrOrderStatus  = "order_status"
	SpanAttrInstallment  = "installment_type"
	SpanAttrItemID       = "item_id"
	SpanAttrComponent    = "component"
	SpanAttrAmount       = "amount"
	SpanAttrActor        = "actor"
	SpanAttrPrivileged   = "privileged"
	SpanAttrCostPolicy   = "cost_policy"
	SpanAttrReportPeriod = "report_period"
)

// WithAttribute is a start option carrying one attribute converted like
// SetAttributes does.
func WithAttribute(key string, value any) trace.SpanStartOption {
	return trace.WithAttributes(toAttribute(key, value))
}

// WithSpanKind overrides the default internal kind
func WithSpanKind(kind trace.SpanKind) trace.SpanStartOption {
	return trace.WithSpanKind(kind)
}

// StartSpan starts an internal span from the global provider, so it follows
// whatever Setup installed. The caller ends it.
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	opts = append([]trace.SpanStartOption{trace.WithSpanKind(trace.SpanKindInternal)}, opts...)
	return otel.Tracer(TracerName).Start(ctx, name, opts...)
}

// StartServiceSpan names the span {service}.{method}
func StartServiceSpan(ctx context.Context, service, method string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return StartSpan(ctx, service+"."+method, opts...)
}

// SetAttributes adds key, value pairs. A pair whose key is not a string is
// skipped, as is a trailing key.
func SetAttributes(span trace.Span, keyValues ...any) {
	if span != nil {
		span.SetAttributes(pairsToAttributes(keyValues)...)
	}
}

// RecordError marks span failed. A nil err leaves it untouched.
func RecordError(span trace.Span, err error, opts ...trace.EventOption) {
	if span == nil || err == nil {
		return
	}
	span.RecordError(err, opts...)
	span.SetStatus(codes.Error, err.Error())
}

func SetOK(span trace.Span) {
	if span != nil {
		span.SetStatus(codes.Ok, "")
	}
}

// AddEvent adds a time-stamped event with key, value attributes
func AddEvent(span trace.Span, name string, keyValues ...any) {
	if span != nil {
		span.AddEvent(name, trace.WithAttributes(pairsToAttributes(keyValues)...))
	}
}

func pairsToAttributes(keyValues []any) []attribute.KeyValue {
	var attrs []attribute.KeyValue
	for len(keyValues) >= 2 {
		if key, ok := keyValues[0].(string); ok {
			attrs = append(attrs, toAttribute(key, keyValues[1]))
		}
		keyValues = keyValues[2:]
	}
	return attrs
}

// toAttribute keeps money exact: decimals travel as fixed two-place strings.
func toAttribute(key string, value any) attribute.KeyValue {
	k := attribute.Key(key)
	switch v := value.(type) {
	case decimal.Decimal:
		return k.String(v.StringFixed(2))
	case string:
		return k.String(v)
	case bool:
		return k.Bool(v)
	case int:
		return k.Int(v)
	case int64:
		return k.Int64(v)
	case float64:
		return k.Float64(v)
	case []string:
		return k.StringSlice(v)
	case fmt.Stringer:
		return k.String(v.String())
	}
	return k.String(fmt.Sprint(value))
}
