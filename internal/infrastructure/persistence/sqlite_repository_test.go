package persistence

import (
	"context"
	"testing"

	"github.com/backoffice/backend/internal/domain/catalog"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&catalog.Category{}, &catalog.AreaOfActivity{})
	require.NoError(t, err)

	return db
}

func TestGormTenantRepository_RoundTrip(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewGormTenantRepository[catalog.Category](db)
	ctx := context.Background()

	t.Run("save assigns an id and lookup is tenant scoped", func(t *testing.T) {
		category := catalog.NewCategory(1, "Consulting", "consulting", nil)

		require.NoError(t, repo.Save(ctx, category))
		require.NotZero(t, category.ID)

		found, err := repo.FindByIDAndTenant(ctx, 1, category.ID)
		require.NoError(t, err)
		assert.Equal(t, "Consulting", found.Name)

		_, err = repo.FindByIDAndTenant(ctx, 2, category.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("list filters by criteria and orders", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, catalog.NewCategory(1, "Audit", "audit", nil)))
		inactive := catalog.NewCategory(1, "Legacy", "legacy", nil)
		inactive.IsActive = false
		require.NoError(t, repo.Save(ctx, inactive))
		require.NoError(t, repo.Save(ctx, catalog.NewCategory(2, "Other Tenant", "other", nil)))

		active, err := repo.FindAllByTenant(ctx, 1, shared.Query{
			Criteria: map[string]any{"is_active": true},
			OrderBy:  &shared.OrderBy{Field: "name", Direction: shared.SortAsc},
		})
		require.NoError(t, err)
		require.Len(t, active, 2)
		assert.Equal(t, "Audit", active[0].Name)
		assert.Equal(t, "Consulting", active[1].Name)
	})

	t.Run("field exists honors tenant and exclusion", func(t *testing.T) {
		taken, err := repo.FieldExists(ctx, ptr(int64(1)), "name", "Audit", 0)
		require.NoError(t, err)
		assert.True(t, taken)

		taken, err = repo.FieldExists(ctx, ptr(int64(3)), "name", "Audit", 0)
		require.NoError(t, err)
		assert.False(t, taken)

		audit, err := repo.FindOneByTenant(ctx, 1, shared.Where("name", "Audit"))
		require.NoError(t, err)
		taken, err = repo.FieldExists(ctx, ptr(int64(1)), "name", "Audit", audit.ID)
		require.NoError(t, err)
		assert.False(t, taken)
	})

	t.Run("bulk update and delete stay inside the tenant", func(t *testing.T) {
		mine, err := repo.FindAllByTenant(ctx, 1, shared.Query{})
		require.NoError(t, err)
		ids := make([]int64, 0, len(mine))
		for _, c := range mine {
			ids = append(ids, c.ID)
		}

		affected, err := repo.UpdateManyByTenant(ctx, 1, ids, shared.Fields{"is_active": false})
		require.NoError(t, err)
		assert.Equal(t, int64(len(ids)), affected)

		affected, err = repo.DeleteManyByTenant(ctx, 1, ids)
		require.NoError(t, err)
		assert.Equal(t, int64(len(ids)), affected)

		theirs, err := repo.CountByTenant(ctx, 2, shared.Query{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), theirs)
	})
}

func TestGormTenantRepository_TenantIDs(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewGormTenantRepository[catalog.Category](db)
	ctx := context.Background()

	t.Run("an empty table lists no tenants", func(t *testing.T) {
		ids, err := repo.TenantIDs(ctx)
		require.NoError(t, err)
		assert.Empty(t, ids)
	})

	t.Run("tenants come back distinct and ordered", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, catalog.NewCategory(3, "Audit", "audit-3", nil)))
		require.NoError(t, repo.Save(ctx, catalog.NewCategory(1, "Audit", "audit-1", nil)))
		require.NoError(t, repo.Save(ctx, catalog.NewCategory(1, "Consulting", "consulting-1", nil)))

		ids, err := repo.TenantIDs(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int64{1, 3}, ids)
	})
}

func TestGormGlobalRepository_UniqueViolation(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewGormGlobalRepository[catalog.AreaOfActivity](db)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, catalog.NewAreaOfActivity("Retail", "retail")))

	t.Run("a duplicate slug maps to the domain sentinel", func(t *testing.T) {
		err := repo.Save(ctx, catalog.NewAreaOfActivity("Retail Again", "retail"))

		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("slug exists answers from the table", func(t *testing.T) {
		taken, err := repo.SlugExists(ctx, nil, "retail", 0)
		require.NoError(t, err)
		assert.True(t, taken)

		taken, err = repo.SlugExists(ctx, nil, "wholesale", 0)
		require.NoError(t, err)
		assert.False(t, taken)
	})
}

func ptr[T any](v T) *T { return &v }
