package persistence

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/brindes/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newMockOrderRepository creates a GormOrderRepository with a mocked SQL connection
func newMockOrderRepository(t *testing.T) (*GormOrderRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, GormConfig(logger.Default.LogMode(logger.Silent)))
	require.NoError(t, err)

	return NewGormOrderRepository(gormDB), mock, mockDB
}

func TestGormOrderRepository_Commit_DatabaseFailure(t *testing.T) {
	t.Run("failed begin is a persistence failure", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		order := newRepoOrder(t, "PED-90", march(1))
		mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

		result, err := repo.Commit(context.Background(), order)

		assert.Nil(t, result)
		assert.Error(t, err)
		assert.NotEmpty(t, order.PendingAuditEntries())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failed version lookup rolls back", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		order := newRepoOrder(t, "PED-91", march(1))
		mock.ExpectBegin()
		// gorm quotes a selected column that maps to a model field
		mock.ExpectQuery(`SELECT "version" FROM "orders" WHERE tenant_id = \$1 AND id = \$2 LIMIT \$3`).
			WithArgs(repoTenant, order.ID, 1).
			WillReturnError(errors.New("connection reset"))
		mock.ExpectRollback()

		result, err := repo.Commit(context.Background(), order)

		assert.Nil(t, result)
		assert.ErrorIs(t, err, shared.ErrPersistence)
		assert.Equal(t, 1, order.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOrderRepository_FindByIDForTenant_Mock(t *testing.T) {
	t.Run("returns not found for missing order", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		orderID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE tenant_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, orderID, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		order, err := repo.FindByIDForTenant(context.Background(), tenantID, orderID)

		assert.Nil(t, order)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
