package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/backoffice/backend/internal/application/crud"
	"github.com/backoffice/backend/internal/domain/catalog"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/domain/shared/slug"
	"github.com/backoffice/backend/internal/domain/shared/validation"
	"go.uber.org/zap"
)

// ReferenceChecker answers whether any dependent rows reference a
// parent under a tenant.
type ReferenceChecker interface {
	ExistsByTenant(ctx context.Context, tenantID int64, q shared.Query) (bool, error)
}

type categoryStrategy struct {
	repo     catalog.CategoryRepository
	services ReferenceChecker
}

func (categoryStrategy) Label() string { return "category" }

func (st categoryStrategy) New(data shared.Fields, tenantID int64) (*catalog.Category, error) {
	var parentID *int64
	if id, ok := data.Int64("parent_id"); ok {
		parentID = &id
	}
	c := catalog.NewCategory(tenantID, data.String("name"), data.String("slug"), parentID)
	if active, ok := data.Bool("is_active"); ok {
		c.IsActive = active
	}
	return c, nil
}

func (st categoryStrategy) Apply(c *catalog.Category, data shared.Fields) error {
	if data.Has("name") {
		c.Name = data.String("name")
	}
	if data.Has("slug") {
		c.Slug = data.String("slug")
	}
	if data.Has("parent_id") {
		if id, ok := data.Int64("parent_id"); ok {
			c.ParentID = &id
		}
	}
	if active, ok := data.Bool("is_active"); ok {
		c.IsActive = active
	}
	c.UpdatedAt = time.Now()
	return nil
}

func (st categoryStrategy) Rules(isUpdate bool) []validation.Rule {
	rules := []validation.Rule{
		validation.Length("name", 1, 255),
		validation.Unique("name", st.repo),
		validation.References("parent_id", st.repo),
	}
	if !isUpdate {
		rules = append([]validation.Rule{validation.Required("name")}, rules...)
	}
	return rules
}

// A category stays while services use it or child categories point at
// it.
func (st categoryStrategy) CanDelete(ctx context.Context, c *catalog.Category) (bool, string, error) {
	if st.services != nil {
		inUse, err := st.services.ExistsByTenant(ctx, c.TenantID, shared.Where("category_id", c.ID))
		if err != nil {
			return false, "", err
		}
		if inUse {
			return false, "services", nil
		}
	}
	hasChildren, err := st.repo.ExistsByTenant(ctx, c.TenantID, shared.Where("parent_id", c.ID))
	if err != nil {
		return false, "", err
	}
	if hasChildren {
		return false, "child categories", nil
	}
	return true, "", nil
}

// CategoryService manages the tenant's service categories.
type CategoryService struct {
	crud   *crud.TenantService[catalog.Category]
	repo   catalog.CategoryRepository
	slugs  *slug.Generator
	logger *zap.Logger
}

// NewCategoryService creates the category service. services guards
// deletion: a category still referenced by a service cannot be removed.
func NewCategoryService(repo catalog.CategoryRepository, services ReferenceChecker, logger *zap.Logger) *CategoryService {
	strategy := categoryStrategy{repo: repo, services: services}
	return &CategoryService{
		crud:   crud.NewTenantService[catalog.Category](repo, strategy, logger),
		repo:   repo,
		slugs:  slug.NewGenerator(nil),
		logger: logger,
	}
}

// Get returns the category when it exists under the tenant.
func (s *CategoryService) Get(ctx context.Context, tenantID, id int64) shared.Result[*catalog.Category] {
	return s.crud.Get(ctx, tenantID, id)
}

// List returns the tenant's categories matching the query.
func (s *CategoryService) List(ctx context.Context, tenantID int64, q shared.Query) shared.Result[[]catalog.Category] {
	return s.crud.List(ctx, tenantID, q)
}

// Paginate returns one page of the tenant's categories.
func (s *CategoryService) Paginate(ctx context.Context, tenantID int64, page, pageSize int, q shared.Query) shared.Result[shared.Paginated[catalog.Category]] {
	return s.crud.Paginate(ctx, tenantID, page, pageSize, q)
}

// Count returns the number of matching categories.
func (s *CategoryService) Count(ctx context.Context, tenantID int64, q shared.Query) shared.Result[int64] {
	return s.crud.Count(ctx, tenantID, q)
}

// FindBySlug returns the category carrying the slug, or a successful
// nil when none does.
func (s *CategoryService) FindBySlug(ctx context.Context, tenantID int64, slugValue string) shared.Result[*catalog.Category] {
	return s.crud.FindBy(ctx, tenantID, "slug", slugValue)
}

// Create validates the payload and persists the category. A missing
// slug is derived from the name, suffixed until unique in the tenant.
func (s *CategoryService) Create(ctx context.Context, tenantID int64, data shared.Fields) shared.Result[*catalog.Category] {
	data = crud.Sanitize(data)
	if data.String("slug") == "" && data.String("name") != "" {
		generated, err := s.slugs.GenerateUnique(ctx, data.String("name"), &tenantID, 0, s.repo)
		if err != nil {
			return crud.Failure[*catalog.Category](s.logger, "category", err, "create")
		}
		data["slug"] = generated
	}
	return s.crud.Create(ctx, tenantID, data)
}

// Update overwrites the supplied fields after the tenant-qualified
// lookup and validation pass. A category cannot become its own parent:
// the self-cycle would permanently trip the child-category delete
// guard.
func (s *CategoryService) Update(ctx context.Context, tenantID, id int64, data shared.Fields) shared.Result[*catalog.Category] {
	if parentID, ok := data.Int64("parent_id"); ok && parentID == id {
		violations := &validation.Violations{}
		violations.Add("parent_id", "the parent_id field cannot reference the category itself")
		return shared.FailWithDetails[*catalog.Category](shared.ErrorKindInvalidData,
			violations.Message(), violations.Details())
	}
	return s.crud.Update(ctx, tenantID, id, data)
}

// Delete removes the category unless services or child categories
// still reference it.
func (s *CategoryService) Delete(ctx context.Context, tenantID, id int64) shared.Result[*catalog.Category] {
	return s.crud.Delete(ctx, tenantID, id)
}

// DeleteMany removes the given categories one by one so the delete
// guard applies to each; only actual removals count.
func (s *CategoryService) DeleteMany(ctx context.Context, tenantID int64, ids []int64) shared.Result[int64] {
	var affected int64
	for _, id := range ids {
		if result := s.crud.Delete(ctx, tenantID, id); result.IsSuccess() {
			affected++
		}
	}
	return shared.OK(affected, fmt.Sprintf("%d category records deleted", affected))
}

// Toggle flips the category's active flag.
func (s *CategoryService) Toggle(ctx context.Context, tenantID, id int64) shared.Result[*catalog.Category] {
	category, err := s.repo.FindByIDAndTenant(ctx, tenantID, id)
	if err != nil {
		return crud.Failure[*catalog.Category](s.logger, "category", err, "update")
	}
	category.Toggle()
	if err := s.repo.Save(ctx, category); err != nil {
		return crud.Failure[*catalog.Category](s.logger, "category", err, "update")
	}
	return shared.OK(category, "category updated successfully")
}
