package catalog

import (
	"time"

	"github.com/backoffice/backend/internal/domain/shared"
)

// Category groups the services a tenant offers. Names are unique within
// a tenant, not globally; an optional parent builds a shallow hierarchy.
type Category struct {
	shared.TenantOwned
	Name     string `gorm:"type:varchar(255);not null;index"`
	Slug     string `gorm:"type:varchar(255);not null;index"`
	ParentID *int64 `gorm:"index"`
	IsActive bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates an active category owned by the given tenant.
func NewCategory(tenantID int64, name, slugValue string, parentID *int64) *Category {
	return &Category{
		TenantOwned: shared.NewTenantOwned(tenantID),
		Name:        name,
		Slug:        slugValue,
		ParentID:    parentID,
		IsActive:    true,
	}
}

// Toggle flips the active flag.
func (c *Category) Toggle() {
	c.IsActive = !c.IsActive
	c.UpdatedAt = time.Now()
}
