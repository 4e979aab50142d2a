package catalog

import (
	"context"
	"time"

	"github.com/backoffice/backend/internal/application/crud"
	"github.com/backoffice/backend/internal/domain/catalog"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/domain/shared/validation"
	"go.uber.org/zap"
)

type serviceStrategy struct {
	repo       catalog.ServiceRepository
	categories catalog.CategoryRepository
}

func (serviceStrategy) Label() string { return "service" }

func (st serviceStrategy) New(data shared.Fields, tenantID int64) (*catalog.Service, error) {
	svc := catalog.NewService(tenantID, data.String("name"))
	svc.Description = data.String("description")
	if id, ok := data.Int64("category_id"); ok {
		svc.CategoryID = &id
	}
	if data.Has("status") {
		svc.Status = catalog.ServiceStatus(data.String("status"))
	}
	if price, ok := data.Decimal("price"); ok {
		svc.Price = price
	}
	return svc, nil
}

func (st serviceStrategy) Apply(svc *catalog.Service, data shared.Fields) error {
	if data.Has("name") {
		svc.Name = data.String("name")
	}
	if data.Has("description") {
		svc.Description = data.String("description")
	}
	if data.Has("category_id") {
		if id, ok := data.Int64("category_id"); ok {
			svc.CategoryID = &id
		}
	}
	if data.Has("status") {
		svc.Status = catalog.ServiceStatus(data.String("status"))
	}
	if price, ok := data.Decimal("price"); ok {
		svc.Price = price
	}
	svc.UpdatedAt = time.Now()
	return nil
}

func (st serviceStrategy) Rules(isUpdate bool) []validation.Rule {
	rules := []validation.Rule{
		validation.Length("name", 1, 255),
		validation.Unique("name", st.repo),
		validation.Enum("status", catalog.ServiceStatusValues()...),
		validation.Range("price", 0, 99999999),
		validation.References("category_id", st.categories),
	}
	if !isUpdate {
		rules = append([]validation.Rule{validation.Required("name")}, rules...)
	}
	return rules
}

// Services carry no dependent rows of their own; archiving covers the
// cases where history must survive.
func (st serviceStrategy) CanDelete(context.Context, *catalog.Service) (bool, string, error) {
	return true, "", nil
}

// ServiceService manages the offerings a tenant sells. It is a plain
// lifecycle service: the generic orchestrator does all the work.
type ServiceService struct {
	*crud.TenantService[catalog.Service]
}

// NewServiceService creates the service for catalog offerings. The
// category repository backs the same-tenant reference check.
func NewServiceService(repo catalog.ServiceRepository, categories catalog.CategoryRepository, logger *zap.Logger) *ServiceService {
	strategy := serviceStrategy{repo: repo, categories: categories}
	return &ServiceService{TenantService: crud.NewTenantService[catalog.Service](repo, strategy, logger)}
}
