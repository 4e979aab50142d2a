package catalog

import (
	"time"

	"github.com/backoffice/backend/internal/domain/shared"
)

// AreaOfActivity is a global lookup classifying what a partner does.
// Rows are shared by every tenant and referenced from partner common
// data; names arrive in Portuguese and slugs are globally unique.
type AreaOfActivity struct {
	shared.BaseEntity
	Name     string `gorm:"type:varchar(100);not null"`
	Slug     string `gorm:"type:varchar(100);not null;uniqueIndex"`
	IsActive bool   `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (AreaOfActivity) TableName() string {
	return "areas_of_activity"
}

// NewAreaOfActivity creates an active area with the given name and slug.
func NewAreaOfActivity(name, slugValue string) *AreaOfActivity {
	return &AreaOfActivity{
		Name:     name,
		Slug:     slugValue,
		IsActive: true,
	}
}

// Toggle flips the active flag.
func (a *AreaOfActivity) Toggle() {
	a.IsActive = !a.IsActive
	a.UpdatedAt = time.Now()
}
