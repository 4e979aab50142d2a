package catalog

import (
	"context"
	"testing"

	"github.com/backoffice/backend/internal/domain/catalog"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCategoryService(categories *testutil.MemoryTenantRepository[catalog.Category], services ReferenceChecker) *CategoryService {
	return NewCategoryService(categories, services, zap.NewNop())
}

func TestCategoryService_Create(t *testing.T) {
	t.Run("derives the slug from the name", func(t *testing.T) {
		repo := &testutil.MemoryTenantRepository[catalog.Category]{}

		result := newCategoryService(repo, nil).Create(context.Background(), 1,
			shared.Fields{"name": "Serviços Gerais"})

		require.True(t, result.IsSuccess(), result.Message())
		assert.Equal(t, "servicos-gerais", result.Data().Slug)
		assert.True(t, result.Data().IsActive)
	})

	t.Run("an explicit slug is kept", func(t *testing.T) {
		repo := &testutil.MemoryTenantRepository[catalog.Category]{}

		result := newCategoryService(repo, nil).Create(context.Background(), 1,
			shared.Fields{"name": "General", "slug": "custom-slug"})

		require.True(t, result.IsSuccess(), result.Message())
		assert.Equal(t, "custom-slug", result.Data().Slug)
	})

	t.Run("the parent must exist under the same tenant", func(t *testing.T) {
		repo := &testutil.MemoryTenantRepository[catalog.Category]{}
		other := repo.Seed(catalog.NewCategory(2, "Theirs", "theirs", nil))

		result := newCategoryService(repo, nil).Create(context.Background(), 1,
			shared.Fields{"name": "Mine", "parent_id": other.ID})

		assert.Equal(t, shared.ErrorKindInvalidData, result.Kind())
		assert.Contains(t, result.Details(), "parent_id")
	})

	t.Run("a same-tenant parent resolves", func(t *testing.T) {
		repo := &testutil.MemoryTenantRepository[catalog.Category]{}
		parent := repo.Seed(catalog.NewCategory(1, "Parent", "parent", nil))

		result := newCategoryService(repo, nil).Create(context.Background(), 1,
			shared.Fields{"name": "Child", "parent_id": parent.ID})

		require.True(t, result.IsSuccess(), result.Message())
		require.NotNil(t, result.Data().ParentID)
		assert.Equal(t, parent.ID, *result.Data().ParentID)
	})

	t.Run("duplicate name within the tenant is invalid data", func(t *testing.T) {
		repo := &testutil.MemoryTenantRepository[catalog.Category]{}
		repo.Seed(catalog.NewCategory(1, "General", "general", nil))

		result := newCategoryService(repo, nil).Create(context.Background(), 1,
			shared.Fields{"name": "General"})

		assert.Equal(t, shared.ErrorKindInvalidData, result.Kind())
		assert.Contains(t, result.Details(), "name")
		assert.Len(t, repo.Rows, 1)
	})

	t.Run("the same name under another tenant is fine", func(t *testing.T) {
		repo := &testutil.MemoryTenantRepository[catalog.Category]{}
		repo.Seed(catalog.NewCategory(2, "General", "general", nil))

		result := newCategoryService(repo, nil).Create(context.Background(), 1,
			shared.Fields{"name": "General"})

		require.True(t, result.IsSuccess(), result.Message())
		assert.Len(t, repo.Rows, 2)
	})
}

func TestCategoryService_Update(t *testing.T) {
	t.Run("a category cannot become its own parent", func(t *testing.T) {
		repo := &testutil.MemoryTenantRepository[catalog.Category]{}
		category := repo.Seed(catalog.NewCategory(1, "General", "general", nil))

		result := newCategoryService(repo, nil).Update(context.Background(), 1, category.ID,
			shared.Fields{"parent_id": category.ID})

		assert.Equal(t, shared.ErrorKindInvalidData, result.Kind())
		assert.Contains(t, result.Details(), "parent_id")
		assert.Nil(t, category.ParentID)
	})

	t.Run("reparenting under a sibling works", func(t *testing.T) {
		repo := &testutil.MemoryTenantRepository[catalog.Category]{}
		parent := repo.Seed(catalog.NewCategory(1, "Parent", "parent", nil))
		category := repo.Seed(catalog.NewCategory(1, "General", "general", nil))

		result := newCategoryService(repo, nil).Update(context.Background(), 1, category.ID,
			shared.Fields{"parent_id": parent.ID})

		require.True(t, result.IsSuccess(), result.Message())
		require.NotNil(t, result.Data().ParentID)
		assert.Equal(t, parent.ID, *result.Data().ParentID)
	})
}

func TestCategoryService_Delete(t *testing.T) {
	t.Run("a category used by services cannot be deleted", func(t *testing.T) {
		repo := &testutil.MemoryTenantRepository[catalog.Category]{}
		services := &testutil.MemoryTenantRepository[catalog.Service]{}
		category := repo.Seed(catalog.NewCategory(1, "General", "general", nil))
		svc := catalog.NewService(1, "Cleaning")
		svc.CategoryID = &category.ID
		services.Seed(svc)

		result := newCategoryService(repo, services).Delete(context.Background(), 1, category.ID)

		assert.Equal(t, shared.ErrorKindConflict, result.Kind())
		assert.Equal(t, "category cannot be deleted: it is in use by services", result.Message())
		assert.Len(t, repo.Rows, 1)
	})

	t.Run("a category with child categories cannot be deleted", func(t *testing.T) {
		repo := &testutil.MemoryTenantRepository[catalog.Category]{}
		parent := repo.Seed(catalog.NewCategory(1, "Parent", "parent", nil))
		repo.Seed(catalog.NewCategory(1, "Child", "child", &parent.ID))

		result := newCategoryService(repo, nil).Delete(context.Background(), 1, parent.ID)

		assert.Equal(t, shared.ErrorKindConflict, result.Kind())
		assert.Equal(t, "category cannot be deleted: it is in use by child categories", result.Message())
	})

	t.Run("an unreferenced category deletes", func(t *testing.T) {
		repo := &testutil.MemoryTenantRepository[catalog.Category]{}
		services := &testutil.MemoryTenantRepository[catalog.Service]{}
		category := repo.Seed(catalog.NewCategory(1, "General", "general", nil))

		result := newCategoryService(repo, services).Delete(context.Background(), 1, category.ID)

		require.True(t, result.IsSuccess(), result.Message())
		assert.Empty(t, repo.Rows)
	})

	t.Run("delete many skips guarded ids", func(t *testing.T) {
		repo := &testutil.MemoryTenantRepository[catalog.Category]{}
		parent := repo.Seed(catalog.NewCategory(1, "Parent", "parent", nil))
		repo.Seed(catalog.NewCategory(1, "Child", "child", &parent.ID))
		lone := repo.Seed(catalog.NewCategory(1, "Lone", "lone", nil))

		result := newCategoryService(repo, nil).DeleteMany(context.Background(), 1, []int64{parent.ID, lone.ID})

		require.True(t, result.IsSuccess())
		assert.Equal(t, int64(1), result.Data())
	})
}

func TestCategoryService_Toggle(t *testing.T) {
	repo := &testutil.MemoryTenantRepository[catalog.Category]{}
	category := repo.Seed(catalog.NewCategory(1, "General", "general", nil))
	service := newCategoryService(repo, nil)

	result := service.Toggle(context.Background(), 1, category.ID)
	require.True(t, result.IsSuccess())
	assert.False(t, result.Data().IsActive)

	result = service.Toggle(context.Background(), 1, category.ID)
	require.True(t, result.IsSuccess())
	assert.True(t, result.Data().IsActive)
}
