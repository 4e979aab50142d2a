package persistence

import (
	"github.com/backoffice/backend/internal/domain/identity"
	"gorm.io/gorm"
)

// NewRoleRepository creates the global role repository.
func NewRoleRepository(db *gorm.DB) identity.RoleRepository {
	return NewGormGlobalRepository[identity.Role](db)
}
