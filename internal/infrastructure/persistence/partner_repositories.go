package persistence

import (
	"github.com/backoffice/backend/internal/domain/partner"
	"gorm.io/gorm"
)

// NewCustomerRepository creates the customer repository. Single-entity
// reads eagerly load the composite children so callers get the full
// aggregate in one round trip.
func NewCustomerRepository(db *gorm.DB) partner.CustomerRepository {
	return NewGormTenantRepository[partner.Customer](db, "Contacts", "Addresses", "Common")
}

// NewProviderRepository creates the provider repository.
func NewProviderRepository(db *gorm.DB) partner.ProviderRepository {
	return NewGormTenantRepository[partner.Provider](db, "Contacts", "Addresses", "Common")
}

// NewContactRepository creates the contact repository.
func NewContactRepository(db *gorm.DB) partner.ContactRepository {
	return NewGormTenantRepository[partner.Contact](db)
}

// NewAddressRepository creates the address repository.
func NewAddressRepository(db *gorm.DB) partner.AddressRepository {
	return NewGormTenantRepository[partner.Address](db)
}

// NewCommonDataRepository creates the common data repository.
func NewCommonDataRepository(db *gorm.DB) partner.CommonDataRepository {
	return NewGormTenantRepository[partner.CommonData](db)
}
