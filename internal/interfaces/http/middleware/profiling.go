package middleware

import (
	"context"

	"github.com/brindes/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
)

// ProfileLabels tags CPU and allocation samples taken while a request runs
// with its route pattern and method. Pass enabled=false to skip the pprof
// label bookkeeping when no profiler is attached.
func ProfileLabels(enabled bool) gin.HandlerFunc {
	if !enabled {
		return passThrough
	}
	return func(c *gin.Context) {
		telemetry.WithProfileLabels(c.Request.Context(), func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		}, "route", getRoutePattern(c), "method", c.Request.Method)
	}
}
