package identity

import (
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/domain/shared/slug"
	"github.com/backoffice/backend/internal/domain/shared/validation"
)

// Role is global reference data shared by every tenant: names are
// unique across the whole installation and slugs come from the role
// translation dictionary.
type Role struct {
	shared.BaseEntity
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Slug        string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Description string `gorm:"type:text"`
	IsSystem    bool   `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Role) TableName() string {
	return "roles"
}

// NewRole creates a role with the given name and slug.
func NewRole(name, slugValue, description string) *Role {
	return &Role{
		Name:        name,
		Slug:        slugValue,
		Description: description,
	}
}

// RoleRepository persists roles.
type RoleRepository interface {
	shared.GlobalRepository[Role]
	validation.Checker
	slug.Checker
}
