package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/brindes/backend/internal/domain/shared"
	"github.com/brindes/backend/internal/interfaces/http/dto"
	"github.com/brindes/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// setJWTContext simulates what the JWT middleware stores for a request
func setJWTContext(c *gin.Context, tenantID uuid.UUID, actor shared.Actor) {
	c.Set(middleware.JWTTenantIDKey, tenantID)
	c.Set(middleware.JWTActorKey, actor)
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestBaseHandlerSuccessWithMeta(t *testing.T) {
	h := &BaseHandler{}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	h.SuccessWithMeta(c, []string{"item1", "item2"}, 45, 2, 20)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(45), resp.Meta.Total)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}

func TestBaseHandlerHandleError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode int
		expectedErr  string
	}{
		{"validation", shared.NewValidationError("quantity must be positive"), http.StatusBadRequest, dto.ErrCodeValidation},
		{"not found", shared.NewDomainError(shared.CodeNotFound, "order not found"), http.StatusNotFound, dto.ErrCodeNotFound},
		{"already exists", shared.NewDomainError(shared.CodeAlreadyExists, "order number taken"), http.StatusConflict, dto.ErrCodeAlreadyExists},
		{"invalid state", shared.NewInvalidStateError("status change requires confirmed entry"), http.StatusUnprocessableEntity, dto.ErrCodeInvalidState},
		{"permission denied", shared.NewPermissionDeniedError("administrator required"), http.StatusForbidden, dto.ErrCodeForbidden},
		{"concurrency", shared.NewDomainError(shared.CodeConcurrencyConflict, "stale version"), http.StatusConflict, dto.ErrCodeConcurrencyConflict},
		{"wrapped domain error", fmt.Errorf("confirm: %w", shared.NewInvalidStateError("x")), http.StatusUnprocessableEntity, dto.ErrCodeInvalidState},
		{"unknown error", fmt.Errorf("driver: bad connection"), http.StatusInternalServerError, dto.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			h.HandleError(c, tt.err)

			assert.Equal(t, tt.expectedCode, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.expectedErr, resp.Error.Code)
		})
	}

	t.Run("internal errors hide the cause", func(t *testing.T) {
		h := &BaseHandler{}
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		h.HandleError(c, fmt.Errorf("pq: password authentication failed"))
		assert.NotContains(t, w.Body.String(), "password")
	})
}

func TestBaseHandlerBindJSON(t *testing.T) {
	type body struct {
		Status string `json:"status" binding:"required"`
	}
	h := &BaseHandler{}
	router := gin.New()
	router.POST("/test", func(c *gin.Context) {
		var b body
		if !h.BindJSON(c, &b) {
			return
		}
		h.Success(c, b)
	})

	t.Run("validation failure lists fields", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(`{}`)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		require.Len(t, resp.Error.Details, 1)
		assert.Equal(t, "status", resp.Error.Details[0].Field)
	})

	t.Run("malformed json", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(`{"status":`)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeBadRequest, decodeResponse(t, w).Error.Code)
	})
}

func TestBaseHandlerTenantAndActor(t *testing.T) {
	h := &BaseHandler{}

	t.Run("missing auth context", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		_, _, ok := h.TenantAndActor(c)
		assert.False(t, ok)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("present", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		tenantID := uuid.New()
		setJWTContext(c, tenantID, shared.NewActor(uuid.New(), "ana.vendas"))

		gotTenant, actor, ok := h.TenantAndActor(c)
		require.True(t, ok)
		assert.Equal(t, tenantID, gotTenant)
		assert.Equal(t, "ana.vendas", actor.DisplayName())
	})
}

func TestBaseHandlerQueryUUID(t *testing.T) {
	h := &BaseHandler{}
	id := uuid.New()

	tests := []struct {
		name   string
		query  string
		ok     bool
		expect *uuid.UUID
	}{
		{"absent", "", true, nil},
		{"valid", "client_id=" + id.String(), true, &id},
		{"malformed", "client_id=abc", false, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)

			got, ok := h.QueryUUID(c, "client_id")
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expect, got)
			if !tt.ok {
				assert.Equal(t, http.StatusBadRequest, w.Code)
			}
		})
	}
}
