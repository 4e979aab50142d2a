package catalog

import (
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/domain/shared/slug"
	"github.com/backoffice/backend/internal/domain/shared/validation"
)

// CategoryRepository persists categories.
type CategoryRepository interface {
	shared.TenantRepository[Category]
	validation.Checker
	slug.Checker
}

// ServiceRepository persists offered services.
type ServiceRepository interface {
	shared.TenantRepository[Service]
	validation.Checker
}

// AreaOfActivityRepository persists the global area-of-activity lookup.
type AreaOfActivityRepository interface {
	shared.GlobalRepository[AreaOfActivity]
	validation.Checker
	slug.Checker
}

// ServiceStatusRepository reads the global service status lookup table.
type ServiceStatusRepository interface {
	shared.GlobalRepository[ServiceStatusEntry]
	validation.Checker
}
