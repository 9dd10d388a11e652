package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/brindes/backend/internal/domain/shared"
	"github.com/brindes/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IdempotencyKeyHeader lets clients retry a command without repeating it
const IdempotencyKeyHeader = "Idempotency-Key"

const maxIdempotencyKeyLength = 200

// IdempotencyConfig configures the Idempotency middleware
type IdempotencyConfig struct {
	Store  shared.IdempotencyStore
	TTL    time.Duration
	Logger *zap.Logger
}

// Idempotency rejects a replay of a request carrying an Idempotency-Key that
// already succeeded. Requests without the header pass through. Keys of
// requests that fail are released so the client can retry.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	if cfg.TTL <= 0 {
		cfg.TTL = shared.DefaultKeyTTL
	}

	return func(c *gin.Context) {
		key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
		if key == "" || cfg.Store == nil {
			c.Next()
			return
		}
		if len(key) > maxIdempotencyKeyLength {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeBadRequest, "Idempotency-Key is too long", GetRequestID(c)))
			return
		}

		storeKey := idempotencyStoreKey(c, key)
		ctx := c.Request.Context()
		fresh, err := cfg.Store.MarkProcessed(ctx, storeKey, cfg.TTL)
		if err != nil {
			// Store outage: process the request rather than refuse it
			if cfg.Logger != nil {
				cfg.Logger.Warn("Idempotency store unavailable", zap.Error(err))
			}
			c.Next()
			return
		}
		if !fresh {
			c.AbortWithStatusJSON(http.StatusConflict, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeDuplicateRequest, "Request with this Idempotency-Key was already processed", GetRequestID(c)))
			return
		}

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			if err := cfg.Store.Release(ctx, storeKey); err != nil && cfg.Logger != nil {
				cfg.Logger.Warn("Failed to release idempotency key", zap.Error(err))
			}
		}
	}
}

// idempotencyStoreKey scopes a client key to the tenant, actor and route
func idempotencyStoreKey(c *gin.Context, key string) string {
	var tenant, actor string
	if id, ok := GetTenantID(c); ok {
		tenant = id.String()
	}
	if a, ok := GetActor(c); ok {
		actor = a.ID.String()
	}
	route := c.FullPath()
	if route == "" {
		route = c.Request.URL.Path
	}
	return strings.Join([]string{"http", tenant, actor, c.Request.Method, c.Request.URL.Path, route, key}, ":")
}
