package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/backoffice/backend/internal/domain/alerting"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockAlertRepository creates a tenant repository over a mocked SQL
// connection.
func newMockAlertRepository(t *testing.T) (*GormTenantRepository[alerting.Alert], sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormTenantRepository[alerting.Alert](gormDB), mock, mockDB
}

func TestGormTenantRepository_FindByIDAndTenant(t *testing.T) {
	t.Run("scopes the lookup to the tenant", func(t *testing.T) {
		repo, mock, mockDB := newMockAlertRepository(t)
		defer mockDB.Close()

		rows := sqlmock.NewRows([]string{"id", "tenant_id", "type", "severity", "status", "message"}).
			AddRow(int64(5), int64(1), "invoice_overdue", "warning", "open", "invoice 42")

		mock.ExpectQuery(`SELECT \* FROM "monitoring_alerts" WHERE tenant_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(int64(1), int64(5), 1).
			WillReturnRows(rows)

		alert, err := repo.FindByIDAndTenant(context.Background(), 1, 5)

		require.NoError(t, err)
		assert.Equal(t, int64(5), alert.ID)
		assert.Equal(t, "invoice_overdue", alert.Type)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("a row under another tenant is not found", func(t *testing.T) {
		repo, mock, mockDB := newMockAlertRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "monitoring_alerts" WHERE tenant_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(int64(2), int64(5), 1).
			WillReturnError(gorm.ErrRecordNotFound)

		alert, err := repo.FindByIDAndTenant(context.Background(), 2, 5)

		assert.Nil(t, alert)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormTenantRepository_FindAllByTenant(t *testing.T) {
	t.Run("applies criteria and ordering", func(t *testing.T) {
		repo, mock, mockDB := newMockAlertRepository(t)
		defer mockDB.Close()

		rows := sqlmock.NewRows([]string{"id", "tenant_id", "type", "status"}).
			AddRow(int64(1), int64(1), "invoice_overdue", "open").
			AddRow(int64(2), int64(1), "budget_expiring", "open")

		mock.ExpectQuery(`SELECT \* FROM "monitoring_alerts" WHERE tenant_id = \$1 AND status = \$2 ORDER BY created_at DESC`).
			WithArgs(int64(1), "open").
			WillReturnRows(rows)

		alerts, err := repo.FindAllByTenant(context.Background(), 1, shared.Query{
			Criteria: shared.Fields{"status": "open"},
			OrderBy:  &shared.OrderBy{Field: "created_at", Direction: shared.SortDesc},
		})

		require.NoError(t, err)
		assert.Len(t, alerts, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects criteria field names that are not identifiers", func(t *testing.T) {
		repo, _, mockDB := newMockAlertRepository(t)
		defer mockDB.Close()

		_, err := repo.FindAllByTenant(context.Background(), 1, shared.Query{
			Criteria: shared.Fields{"status; DROP TABLE": "open"},
		})

		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestGormTenantRepository_FieldExists(t *testing.T) {
	t.Run("counts matches within the tenant excluding the given id", func(t *testing.T) {
		repo, mock, mockDB := newMockAlertRepository(t)
		defer mockDB.Close()

		tenantID := int64(1)
		mock.ExpectQuery(`SELECT count\(\*\) FROM "monitoring_alerts" WHERE type = \$1 AND tenant_id = \$2 AND id <> \$3`).
			WithArgs("invoice_overdue", tenantID, int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(1)))

		exists, err := repo.FieldExists(context.Background(), &tenantID, "type", "invoice_overdue", 7)

		require.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("a nil tenant checks globally", func(t *testing.T) {
		repo, mock, mockDB := newMockAlertRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "monitoring_alerts" WHERE type = \$1`).
			WithArgs("invoice_overdue").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(0)))

		exists, err := repo.FieldExists(context.Background(), nil, "type", "invoice_overdue", 0)

		require.NoError(t, err)
		assert.False(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects field names that are not identifiers", func(t *testing.T) {
		repo, _, mockDB := newMockAlertRepository(t)
		defer mockDB.Close()

		_, err := repo.FieldExists(context.Background(), nil, "type = type OR 1=1 --", "x", 0)

		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestGormTenantRepository_DeleteManyByTenant(t *testing.T) {
	t.Run("deletes the tenant's rows and reports the count", func(t *testing.T) {
		repo, mock, mockDB := newMockAlertRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`DELETE FROM "monitoring_alerts" WHERE tenant_id = \$1 AND id IN \(\$2,\$3\)`).
			WithArgs(int64(1), int64(5), int64(6)).
			WillReturnResult(sqlmock.NewResult(0, 2))

		affected, err := repo.DeleteManyByTenant(context.Background(), 1, []int64{5, 6})

		require.NoError(t, err)
		assert.Equal(t, int64(2), affected)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("an empty id list touches nothing", func(t *testing.T) {
		repo, mock, mockDB := newMockAlertRepository(t)
		defer mockDB.Close()

		affected, err := repo.DeleteManyByTenant(context.Background(), 1, nil)

		require.NoError(t, err)
		assert.Zero(t, affected)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormTenantRepository_UpdateManyByTenant(t *testing.T) {
	t.Run("rejects update field names that are not identifiers", func(t *testing.T) {
		repo, _, mockDB := newMockAlertRepository(t)
		defer mockDB.Close()

		_, err := repo.UpdateManyByTenant(context.Background(), 1, []int64{5}, shared.Fields{
			"status = 'resolved' WHERE 1=1 --": "x",
		})

		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}
