package catalog

import (
	"context"
	"time"

	"github.com/backoffice/backend/internal/application/crud"
	"github.com/backoffice/backend/internal/domain/catalog"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/domain/shared/slug"
	"github.com/backoffice/backend/internal/domain/shared/validation"
	"go.uber.org/zap"
)

type areaStrategy struct {
	repo     catalog.AreaOfActivityRepository
	partners validation.Checker
}

func (areaStrategy) Label() string { return "area of activity" }

func (st areaStrategy) New(data shared.Fields, _ int64) (*catalog.AreaOfActivity, error) {
	area := catalog.NewAreaOfActivity(data.String("name"), data.String("slug"))
	if active, ok := data.Bool("is_active"); ok {
		area.IsActive = active
	}
	return area, nil
}

func (st areaStrategy) Apply(a *catalog.AreaOfActivity, data shared.Fields) error {
	if data.Has("name") {
		a.Name = data.String("name")
	}
	if data.Has("slug") {
		a.Slug = data.String("slug")
	}
	if active, ok := data.Bool("is_active"); ok {
		a.IsActive = active
	}
	a.UpdatedAt = time.Now()
	return nil
}

func (st areaStrategy) Rules(isUpdate bool) []validation.Rule {
	rules := []validation.Rule{
		validation.Length("name", 1, 100),
		validation.Length("slug", 1, 100),
		validation.Unique("slug", st.repo),
	}
	if !isUpdate {
		rules = append([]validation.Rule{validation.Required("name")}, rules...)
	}
	return rules
}

func (st areaStrategy) CanDelete(ctx context.Context, a *catalog.AreaOfActivity) (bool, string, error) {
	if st.partners == nil {
		return true, "", nil
	}
	inUse, err := st.partners.FieldExists(ctx, nil, "area_of_activity_id", a.ID, 0)
	if err != nil {
		return false, "", err
	}
	if inUse {
		return false, "partner records", nil
	}
	return true, "", nil
}

// AreaOfActivityService manages the global area-of-activity lookup.
// Deletion is blocked while any partner's common data references the
// area; deactivation via Toggle is the soft alternative.
type AreaOfActivityService struct {
	crud   *crud.GlobalService[catalog.AreaOfActivity]
	repo   catalog.AreaOfActivityRepository
	slugs  *slug.Generator
	logger *zap.Logger
}

// NewAreaOfActivityService creates the area service. partners guards
// deletion and may be nil.
func NewAreaOfActivityService(
	repo catalog.AreaOfActivityRepository,
	partners validation.Checker,
	logger *zap.Logger,
) *AreaOfActivityService {
	return &AreaOfActivityService{
		crud:   crud.NewGlobalService[catalog.AreaOfActivity](repo, areaStrategy{repo: repo, partners: partners}, logger),
		repo:   repo,
		slugs:  slug.NewGenerator(nil),
		logger: logger,
	}
}

// Get returns the area by id.
func (s *AreaOfActivityService) Get(ctx context.Context, id int64) shared.Result[*catalog.AreaOfActivity] {
	return s.crud.Get(ctx, id)
}

// List returns every area matching the query.
func (s *AreaOfActivityService) List(ctx context.Context, q shared.Query) shared.Result[[]catalog.AreaOfActivity] {
	return s.crud.List(ctx, q)
}

// Paginate returns one page of areas.
func (s *AreaOfActivityService) Paginate(ctx context.Context, page, pageSize int, q shared.Query) shared.Result[shared.Paginated[catalog.AreaOfActivity]] {
	return s.crud.Paginate(ctx, page, pageSize, q)
}

// FindBySlug returns the area with the given slug, nil when absent.
func (s *AreaOfActivityService) FindBySlug(ctx context.Context, slugValue string) shared.Result[*catalog.AreaOfActivity] {
	return s.crud.FindBy(ctx, "slug", slugValue)
}

// Create persists a new area, deriving the slug from the name when the
// payload does not supply one.
func (s *AreaOfActivityService) Create(ctx context.Context, data shared.Fields) shared.Result[*catalog.AreaOfActivity] {
	data = crud.Sanitize(data)
	if !data.Has("slug") && data.Has("name") {
		generated, err := s.slugs.GenerateUnique(ctx, data.String("name"), nil, 0, s.repo)
		if err != nil {
			return crud.Failure[*catalog.AreaOfActivity](s.logger, "area of activity", err, "create")
		}
		data["slug"] = generated
	}
	return s.crud.Create(ctx, data)
}

// Update overwrites the supplied fields after lookup and validation.
func (s *AreaOfActivityService) Update(ctx context.Context, id int64, data shared.Fields) shared.Result[*catalog.AreaOfActivity] {
	return s.crud.Update(ctx, id, data)
}

// Delete removes the area unless partner records still reference it.
func (s *AreaOfActivityService) Delete(ctx context.Context, id int64) shared.Result[*catalog.AreaOfActivity] {
	return s.crud.Delete(ctx, id)
}

// Toggle flips the area's active flag.
func (s *AreaOfActivityService) Toggle(ctx context.Context, id int64) shared.Result[*catalog.AreaOfActivity] {
	area, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return crud.Failure[*catalog.AreaOfActivity](s.logger, "area of activity", err, "update")
	}
	area.Toggle()
	if err := s.repo.Save(ctx, area); err != nil {
		return crud.Failure[*catalog.AreaOfActivity](s.logger, "area of activity", err, "update")
	}
	return shared.OK(area, "area of activity updated successfully")
}
