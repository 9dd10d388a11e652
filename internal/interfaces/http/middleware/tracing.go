// Package middleware provides the HTTP middleware chain of the order API.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

// TracingWithConfig starts a server span per request through otelgin,
// named after the matched route ("POST /api/v1/orders/:id/status").
func TracingWithConfig(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return passThrough
	}
	return otelgin.Middleware(cfg.ServiceName)
}

// TracingAttributeInjector tags the request span with request id, tenant
// and actor. Mount it after the JWT middleware.
func TracingAttributeInjector() gin.HandlerFunc {
	return func(c *gin.Context) {
		if span := trace.SpanFromContext(c.Request.Context()); span.IsRecording() {
			span.SetAttributes(requestAttributes(c)...)
		}
		c.Next()
	}
}

func requestAttributes(c *gin.Context) []attribute.KeyValue {
	var attrs []attribute.KeyValue
	if id := GetRequestID(c); id != "" {
		attrs = append(attrs, attribute.String("request_id", id))
	}
	if tenantID, ok := GetTenantID(c); ok {
		attrs = append(attrs, attribute.String("tenant_id", tenantID.String()))
	}
	if actor, ok := GetActor(c); ok {
		attrs = append(attrs,
			attribute.String("actor", actor.DisplayName()),
			attribute.Bool("actor.admin", actor.IsAdmin()),
		)
	}
	return attrs
}

var spanErrorText = map[int]string{
	http.StatusUnauthorized:        "Unauthorized",
	http.StatusForbidden:           "Forbidden",
	http.StatusNotFound:            "Not Found",
	http.StatusConflict:            "Conflict",
	http.StatusUnprocessableEntity: "Invalid State",
}

// SpanErrorMarker sets an error status on spans of 4xx and 5xx answers.
// otelgin alone leaves client errors unset.
func SpanErrorMarker() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		status := c.Writer.Status()
		span := trace.SpanFromContext(c.Request.Context())
		if status < http.StatusBadRequest || !span.IsRecording() {
			return
		}
		text, ok := spanErrorText[status]
		switch {
		case status >= http.StatusInternalServerError:
			text = "Internal Server Error"
		case !ok:
			text = "Client Error"
		}
		span.SetStatus(codes.Error, text)
		span.SetAttributes(attribute.Int("http.status_code", status))
	}
}
