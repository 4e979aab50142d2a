package persistence

import (
	"github.com/backoffice/backend/internal/domain/catalog"
	"gorm.io/gorm"
)

// NewCategoryRepository creates the category repository.
func NewCategoryRepository(db *gorm.DB) catalog.CategoryRepository {
	return NewGormTenantRepository[catalog.Category](db)
}

// NewServiceRepository creates the repository for offered services.
func NewServiceRepository(db *gorm.DB) catalog.ServiceRepository {
	return NewGormTenantRepository[catalog.Service](db)
}

// NewAreaOfActivityRepository creates the repository for the global
// area-of-activity lookup table.
func NewAreaOfActivityRepository(db *gorm.DB) catalog.AreaOfActivityRepository {
	return NewGormGlobalRepository[catalog.AreaOfActivity](db)
}

// NewServiceStatusRepository creates the repository for the global
// service status lookup table.
func NewServiceStatusRepository(db *gorm.DB) catalog.ServiceStatusRepository {
	return NewGormGlobalRepository[catalog.ServiceStatusEntry](db)
}
