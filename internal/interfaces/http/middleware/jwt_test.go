package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/brindes/backend/internal/infrastructure/auth"
	"github.com/brindes/backend/internal/infrastructure/config"
	"github.com/brindes/backend/internal/infrastructure/logger"
	"github.com/brindes/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService(expiration time.Duration) *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		AccessTokenExpiration: expiration,
		Issuer:                "orders-test",
		AdminPermission:       "orders:admin",
	})
}

func issueTestToken(t *testing.T, svc *auth.JWTService, in auth.TokenInput) string {
	t.Helper()
	token, _, err := svc.IssueToken(in)
	require.NoError(t, err)
	return token
}

type authEcho struct {
	TenantID string `json:"tenant_id"`
	Actor    string `json:"actor"`
	Admin    bool   `json:"admin"`
	LogActor string `json:"log_actor"`
}

func newJWTRouter(cfg JWTMiddlewareConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(JWTAuthMiddlewareWithConfig(cfg))
	router.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, "up") })
	router.GET("/api/v1/orders", func(c *gin.Context) {
		tenantID, _ := GetTenantID(c)
		actor, _ := GetActor(c)
		c.JSON(http.StatusOK, authEcho{
			TenantID: tenantID.String(),
			Actor:    actor.DisplayName(),
			Admin:    actor.IsAdmin(),
			LogActor: logger.GetActor(c.Request.Context()),
		})
	})
	return router
}

func doAuthRequest(router *gin.Engine, path, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if header != "" {
		req.Header.Set(AuthHeaderKey, header)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp.Error.Code
}

func TestJWTAuthMiddleware(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	tenantID := uuid.New()
	router := newJWTRouter(DefaultJWTConfig(svc))

	t.Run("valid token sets tenant and actor", func(t *testing.T) {
		token := issueTestToken(t, svc, auth.TokenInput{TenantID: tenantID, UserID: uuid.New(), Username: "ana.vendas"})
		w := doAuthRequest(router, "/api/v1/orders", BearerPrefix+token)

		require.Equal(t, http.StatusOK, w.Code)
		var echo authEcho
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &echo))
		assert.Equal(t, tenantID.String(), echo.TenantID)
		assert.Equal(t, "ana.vendas", echo.Actor)
		assert.Equal(t, "ana.vendas", echo.LogActor)
		assert.False(t, echo.Admin)
	})

	t.Run("admin permission grants the capability", func(t *testing.T) {
		token := issueTestToken(t, svc, auth.TokenInput{
			TenantID: tenantID, UserID: uuid.New(), Username: "dono", Permissions: []string{"orders:admin"},
		})
		w := doAuthRequest(router, "/api/v1/orders", BearerPrefix+token)

		require.Equal(t, http.StatusOK, w.Code)
		var echo authEcho
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &echo))
		assert.True(t, echo.Admin)
	})

	t.Run("skip path", func(t *testing.T) {
		w := doAuthRequest(router, "/health", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"missing header", "", dto.ErrCodeTokenInvalid},
		{"wrong scheme", "Basic abc", dto.ErrCodeTokenInvalid},
		{"empty token", BearerPrefix, dto.ErrCodeTokenInvalid},
		{"garbage token", BearerPrefix + "not.a.jwt", dto.ErrCodeTokenInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doAuthRequest(router, "/api/v1/orders", tt.header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, tt.code, errorCode(t, w))
		})
	}

	t.Run("expired token", func(t *testing.T) {
		expired := newTestJWTService(-time.Minute)
		token := issueTestToken(t, expired, auth.TokenInput{TenantID: tenantID, UserID: uuid.New()})
		w := doAuthRequest(router, "/api/v1/orders", BearerPrefix+token)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeTokenExpired, errorCode(t, w))
	})
}

func TestJWTAuthMiddleware_Revocation(t *testing.T) {
	ctx := context.Background()
	svc := newTestJWTService(15 * time.Minute)
	revocations := auth.NewInMemoryRevocationList()
	cfg := DefaultJWTConfig(svc)
	cfg.Revocations = revocations
	router := newJWTRouter(cfg)

	t.Run("revoked jti", func(t *testing.T) {
		token := issueTestToken(t, svc, auth.TokenInput{TenantID: uuid.New(), UserID: uuid.New()})
		claims, err := svc.ValidateToken(token)
		require.NoError(t, err)
		require.NoError(t, revocations.Revoke(ctx, claims.ID, time.Hour))

		w := doAuthRequest(router, "/api/v1/orders", BearerPrefix+token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeTokenRevoked, errorCode(t, w))
	})

	t.Run("revoked user", func(t *testing.T) {
		userID := uuid.New()
		token := issueTestToken(t, svc, auth.TokenInput{TenantID: uuid.New(), UserID: userID})
		require.NoError(t, revocations.RevokeUser(ctx, userID.String(), time.Hour))

		w := doAuthRequest(router, "/api/v1/orders", BearerPrefix+token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("other tokens still pass", func(t *testing.T) {
		token := issueTestToken(t, svc, auth.TokenInput{TenantID: uuid.New(), UserID: uuid.New()})
		w := doAuthRequest(router, "/api/v1/orders", BearerPrefix+token)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
