package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/brindes/backend/internal/domain/shared"
	"github.com/brindes/backend/internal/infrastructure/auth"
	"github.com/brindes/backend/internal/infrastructure/logger"
	"github.com/brindes/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Context keys set by the auth middleware
const (
	JWTClaimsKey   = "jwt_claims"
	JWTTenantIDKey = "jwt_tenant_id"
	JWTActorKey    = "jwt_actor"
	AuthHeaderKey  = "Authorization"
	BearerPrefix   = "Bearer "
)

type JWTMiddlewareConfig struct {
	JWTService *auth.JWTService
	// Revocations may be nil, which skips both revocation checks
	Revocations auth.RevocationList
	SkipPaths   []string
	Logger      *zap.Logger
}

func DefaultJWTConfig(jwtService *auth.JWTService) JWTMiddlewareConfig {
	return JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths:  []string{"/health", "/api/v1/health"},
	}
}

func JWTAuthMiddleware(jwtService *auth.JWTService) gin.HandlerFunc {
	return JWTAuthMiddlewareWithConfig(DefaultJWTConfig(jwtService))
}

// authFailure is a rejected request: the cause for the log and the reason
// sent back
type authFailure struct {
	err    error
	reason string
}

// JWTAuthMiddlewareWithConfig validates the bearer token and stores the
// tenant and actor for the handlers and the request logger.
func JWTAuthMiddlewareWithConfig(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	skip := make(map[string]bool, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = true
	}

	return func(c *gin.Context) {
		if skip[c.Request.URL.Path] {
			c.Next()
			return
		}
		claims, actor, tenantID, fail := authenticate(c, cfg, log)
		if fail != nil {
			rejectRequest(c, log, *fail)
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTTenantIDKey, tenantID)
		c.Set(JWTActorKey, actor)
		ctx := logger.WithActor(logger.WithTenantID(c.Request.Context(), claims.TenantID), actor.DisplayName())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func authenticate(c *gin.Context, cfg JWTMiddlewareConfig, log *zap.Logger) (*auth.Claims, shared.Actor, uuid.UUID, *authFailure) {
	token, fail := bearerToken(c.GetHeader(AuthHeaderKey))
	if fail != nil {
		return nil, shared.Actor{}, uuid.Nil, fail
	}
	claims, err := cfg.JWTService.ValidateToken(token)
	if err != nil {
		return nil, shared.Actor{}, uuid.Nil, &authFailure{err, "token validation failed"}
	}
	if cfg.Revocations != nil && revoked(c, cfg.Revocations, claims, log) {
		return nil, shared.Actor{}, uuid.Nil, &authFailure{auth.ErrTokenRevoked, "token revoked"}
	}
	tenantID, err := claims.TenantUUID()
	if err != nil {
		return nil, shared.Actor{}, uuid.Nil, &authFailure{auth.ErrInvalidClaims, "invalid tenant claim"}
	}
	actor, err := cfg.JWTService.Actor(claims)
	if err != nil {
		return nil, shared.Actor{}, uuid.Nil, &authFailure{err, "invalid user claim"}
	}
	return claims, actor, tenantID, nil
}

func bearerToken(header string) (string, *authFailure) {
	switch {
	case header == "":
		return "", &authFailure{auth.ErrInvalidToken, "missing authorization header"}
	case !strings.HasPrefix(header, BearerPrefix):
		return "", &authFailure{auth.ErrInvalidToken, "authorization scheme is not Bearer"}
	}
	token := strings.TrimSpace(header[len(BearerPrefix):])
	if token == "" {
		return "", &authFailure{auth.ErrInvalidToken, "empty bearer token"}
	}
	return token, nil
}

// revoked fails open: a revocation store outage is logged, not enforced
func revoked(c *gin.Context, list auth.RevocationList, claims *auth.Claims, log *zap.Logger) bool {
	ctx := c.Request.Context()
	if claims.ID != "" {
		hit, err := list.IsRevoked(ctx, claims.ID)
		if err != nil {
			log.Error("Token revocation check failed", zap.String("jti", claims.ID), zap.Error(err))
		} else if hit {
			return true
		}
	}
	hit, err := list.IsUserRevoked(ctx, claims.UserID, claims.IssuedAtTime())
	if err != nil {
		log.Error("User revocation check failed", zap.String("user_id", claims.UserID), zap.Error(err))
		return false
	}
	return hit
}

var invalidTokenErrors = []error{
	auth.ErrInvalidToken, auth.ErrInvalidClaims, auth.ErrTokenNotYetValid,
	auth.ErrMissingTenantID, auth.ErrMissingUserID,
}

func rejectRequest(c *gin.Context, log *zap.Logger, fail authFailure) {
	log.Warn("Request rejected by auth",
		zap.String("reason", fail.reason),
		zap.String("path", c.Request.URL.Path),
		zap.Error(fail.err),
	)

	code, message := dto.ErrCodeUnauthorized, "Authentication required"
	switch {
	case errors.Is(fail.err, auth.ErrExpiredToken):
		code, message = dto.ErrCodeTokenExpired, "Token has expired"
	case errors.Is(fail.err, auth.ErrTokenRevoked):
		code, message = dto.ErrCodeTokenRevoked, "Token has been revoked"
	default:
		for _, target := range invalidTokenErrors {
			if errors.Is(fail.err, target) {
				code, message = dto.ErrCodeTokenInvalid, "Invalid token"
				break
			}
		}
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponseWithRequestID(code, message, GetRequestID(c)))
}

func fromContext[T any](c *gin.Context, key string) (T, bool) {
	v, ok := c.Get(key)
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// GetJWTClaims returns the validated claims, or nil on public routes
func GetJWTClaims(c *gin.Context) *auth.Claims {
	claims, _ := fromContext[*auth.Claims](c, JWTClaimsKey)
	return claims
}

// GetTenantID returns the authenticated tenant
func GetTenantID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := fromContext[uuid.UUID](c, JWTTenantIDKey)
	return id, ok && id != uuid.Nil
}

// GetActor returns the authenticated actor
func GetActor(c *gin.Context) (shared.Actor, bool) {
	return fromContext[shared.Actor](c, JWTActorKey)
}
