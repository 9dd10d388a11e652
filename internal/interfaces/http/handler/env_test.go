package handler

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/brindes/backend/internal/domain/shared"
	"github.com/brindes/backend/internal/infrastructure/persistence"
	"github.com/brindes/backend/internal/infrastructure/persistence/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	handlerTenant = uuid.MustParse("00000000-0000-0000-0000-0000000000cc")
	handlerSeller = shared.NewActor(uuid.New(), "VENDAS 02")
	handlerAdmin  = shared.NewAdminActor(uuid.New(), "admin@brindes.com")
)

// apiEnv serves handlers over an in-memory SQLite database. Requests run as
// actor for handlerTenant, the way the JWT middleware would set them.
type apiEnv struct {
	db     *gorm.DB
	engine *gin.Engine
	api    *gin.RouterGroup
	actor  shared.Actor
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), persistence.GormConfig(logger.Default.LogMode(logger.Silent)))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.All()...))

	env := &apiEnv{db: db, engine: gin.New(), actor: handlerSeller}
	env.api = env.engine.Group("/api/v1", func(c *gin.Context) {
		setJWTContext(c, handlerTenant, env.actor)
		c.Next()
	})
	return env
}

func (e *apiEnv) do(method, path string, body any) *httptest.ResponseRecorder {
	var payload []byte
	switch b := body.(type) {
	case nil:
	case string:
		payload = []byte(b)
	default:
		payload, _ = json.Marshal(b)
	}
	req := httptest.NewRequest(method, "/api/v1"+path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

// decodeData unmarshals the data member of a success envelope into v
func decodeData(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.True(t, envelope.Success, "body: %s", w.Body.String())
	require.NoError(t, json.Unmarshal(envelope.Data, v))
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, code int) {
	t.Helper()
	require.Equal(t, code, w.Code, "body: %s", w.Body.String())
}
