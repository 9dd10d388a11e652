package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/brindes/backend/internal/domain/shared"
	"github.com/brindes/backend/internal/infrastructure/cache"
	"github.com/brindes/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockIdempotencyStore struct {
	mock.Mock
}

func (m *mockIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *mockIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *mockIdempotencyStore) Release(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *mockIdempotencyStore) Close() error {
	return m.Called().Error(0)
}

func newIdempotencyRouter(store shared.IdempotencyStore, tenantID uuid.UUID, status *int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	actor := shared.NewActor(uuid.New(), "ana.vendas")
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(JWTTenantIDKey, tenantID)
		c.Set(JWTActorKey, actor)
		c.Next()
	})
	router.Use(Idempotency(IdempotencyConfig{Store: store, TTL: time.Hour}))
	router.POST("/orders/:id/payables/confirm", func(c *gin.Context) {
		c.String(*status, "done")
	})
	return router
}

func postWithKey(router *gin.Engine, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/orders/42/payables/confirm", nil)
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestIdempotency(t *testing.T) {
	t.Run("replay is rejected", func(t *testing.T) {
		store := cache.NewInMemoryIdempotencyStore()
		defer store.Close()
		status := http.StatusOK
		router := newIdempotencyRouter(store, uuid.New(), &status)

		assert.Equal(t, http.StatusOK, postWithKey(router, "confirm-frete-1").Code)
		w := postWithKey(router, "confirm-frete-1")
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), dto.ErrCodeDuplicateRequest)
		assert.Equal(t, http.StatusOK, postWithKey(router, "confirm-frete-2").Code)
	})

	t.Run("requests without a key are not tracked", func(t *testing.T) {
		store := new(mockIdempotencyStore)
		status := http.StatusOK
		router := newIdempotencyRouter(store, uuid.New(), &status)

		assert.Equal(t, http.StatusOK, postWithKey(router, "").Code)
		assert.Equal(t, http.StatusOK, postWithKey(router, "").Code)
		store.AssertNotCalled(t, "MarkProcessed", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("failed request releases the key", func(t *testing.T) {
		store := cache.NewInMemoryIdempotencyStore()
		defer store.Close()
		status := http.StatusUnprocessableEntity
		router := newIdempotencyRouter(store, uuid.New(), &status)

		assert.Equal(t, http.StatusUnprocessableEntity, postWithKey(router, "retry-me").Code)
		status = http.StatusOK
		assert.Equal(t, http.StatusOK, postWithKey(router, "retry-me").Code)
	})

	t.Run("keys are scoped per tenant", func(t *testing.T) {
		store := cache.NewInMemoryIdempotencyStore()
		defer store.Close()
		status := http.StatusOK

		assert.Equal(t, http.StatusOK, postWithKey(newIdempotencyRouter(store, uuid.New(), &status), "same").Code)
		assert.Equal(t, http.StatusOK, postWithKey(newIdempotencyRouter(store, uuid.New(), &status), "same").Code)
	})

	t.Run("store outage fails open", func(t *testing.T) {
		store := new(mockIdempotencyStore)
		store.On("MarkProcessed", mock.Anything, mock.Anything, time.Hour).Return(false, errors.New("redis down"))
		status := http.StatusOK
		router := newIdempotencyRouter(store, uuid.New(), &status)

		assert.Equal(t, http.StatusOK, postWithKey(router, "k1").Code)
		store.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
	})
}
