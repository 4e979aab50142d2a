package identity

import (
	"context"
	"time"

	"github.com/backoffice/backend/internal/application/crud"
	"github.com/backoffice/backend/internal/domain/identity"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/domain/shared/slug"
	"github.com/backoffice/backend/internal/domain/shared/validation"
	"go.uber.org/zap"
)

type roleStrategy struct {
	repo identity.RoleRepository
}

func (roleStrategy) Label() string { return "role" }

func (st roleStrategy) New(data shared.Fields, _ int64) (*identity.Role, error) {
	return identity.NewRole(data.String("name"), data.String("slug"), data.String("description")), nil
}

func (st roleStrategy) Apply(r *identity.Role, data shared.Fields) error {
	if data.Has("name") {
		r.Name = data.String("name")
	}
	if data.Has("slug") {
		r.Slug = data.String("slug")
	}
	if data.Has("description") {
		r.Description = data.String("description")
	}
	r.UpdatedAt = time.Now()
	return nil
}

func (st roleStrategy) Rules(isUpdate bool) []validation.Rule {
	rules := []validation.Rule{
		validation.Length("name", 1, 100),
		validation.Unique("name", st.repo),
		validation.Length("slug", 1, 100),
		validation.Unique("slug", st.repo),
	}
	if !isUpdate {
		rules = append([]validation.Rule{validation.Required("name")}, rules...)
	}
	return rules
}

func (st roleStrategy) CanDelete(_ context.Context, r *identity.Role) (bool, string, error) {
	if r.IsSystem {
		return false, "the system configuration", nil
	}
	return true, "", nil
}

// RoleService manages the global role catalogue. Role names arrive in
// Portuguese; slugs resolve through the role translation dictionary so
// "Gerente Financeiro" and "Financial Manager" land on the same slug.
type RoleService struct {
	crud   *crud.GlobalService[identity.Role]
	repo   identity.RoleRepository
	slugs  *slug.Generator
	logger *zap.Logger
}

// NewRoleService creates the role service.
func NewRoleService(repo identity.RoleRepository, logger *zap.Logger) *RoleService {
	return &RoleService{
		crud:   crud.NewGlobalService[identity.Role](repo, roleStrategy{repo: repo}, logger),
		repo:   repo,
		slugs:  slug.NewGenerator(slug.RoleTranslations()),
		logger: logger,
	}
}

// Get returns the role by id.
func (s *RoleService) Get(ctx context.Context, id int64) shared.Result[*identity.Role] {
	return s.crud.Get(ctx, id)
}

// List returns every role matching the query.
func (s *RoleService) List(ctx context.Context, q shared.Query) shared.Result[[]identity.Role] {
	return s.crud.List(ctx, q)
}

// Paginate returns one page of roles.
func (s *RoleService) Paginate(ctx context.Context, page, pageSize int, q shared.Query) shared.Result[shared.Paginated[identity.Role]] {
	return s.crud.Paginate(ctx, page, pageSize, q)
}

// FindBySlug returns the role with the given slug, nil when absent.
func (s *RoleService) FindBySlug(ctx context.Context, slugValue string) shared.Result[*identity.Role] {
	return s.crud.FindBy(ctx, "slug", slugValue)
}

// Create persists a new role, deriving the slug from the name when the
// payload does not supply one.
func (s *RoleService) Create(ctx context.Context, data shared.Fields) shared.Result[*identity.Role] {
	data = crud.Sanitize(data)
	if !data.Has("slug") && data.Has("name") {
		generated, err := s.slugs.GenerateUnique(ctx, data.String("name"), nil, 0, s.repo)
		if err != nil {
			return crud.Failure[*identity.Role](s.logger, "role", err, "create")
		}
		data["slug"] = generated
	}
	return s.crud.Create(ctx, data)
}

// Update overwrites the supplied fields after lookup and validation.
func (s *RoleService) Update(ctx context.Context, id int64, data shared.Fields) shared.Result[*identity.Role] {
	return s.crud.Update(ctx, id, data)
}

// Delete removes the role. System roles are protected.
func (s *RoleService) Delete(ctx context.Context, id int64) shared.Result[*identity.Role] {
	return s.crud.Delete(ctx, id)
}
