package partner

import (
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/domain/shared/slug"
	"github.com/backoffice/backend/internal/domain/shared/validation"
)

// CustomerRepository persists customers. Beyond the tenant-scoped CRUD
// contract it answers uniqueness and slug collision checks for the
// validation layer.
type CustomerRepository interface {
	shared.TenantRepository[Customer]
	validation.Checker
	slug.Checker
}

// ProviderRepository persists providers.
type ProviderRepository interface {
	shared.TenantRepository[Provider]
	validation.Checker
	slug.Checker
}

// ContactRepository persists customer and provider contacts.
type ContactRepository interface {
	shared.TenantRepository[Contact]
	validation.Checker
}

// AddressRepository persists customer and provider addresses.
type AddressRepository interface {
	shared.TenantRepository[Address]
	validation.Checker
}

// CommonDataRepository persists the shared corporate data block.
type CommonDataRepository interface {
	shared.TenantRepository[CommonData]
	validation.Checker
}
