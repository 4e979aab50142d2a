package catalog

import (
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ServiceStatus values mirror the service_statuses lookup table. The
// table is global reference data; these constants exist for validation
// and for code that branches on status.
type ServiceStatus string

const (
	ServiceStatusActive    ServiceStatus = "active"
	ServiceStatusPaused    ServiceStatus = "paused"
	ServiceStatusArchived  ServiceStatus = "archived"
	ServiceStatusDraft     ServiceStatus = "draft"
)

// ServiceStatusValues returns the closed set accepted by validation.
func ServiceStatusValues() []string {
	return []string{
		string(ServiceStatusActive),
		string(ServiceStatusPaused),
		string(ServiceStatusArchived),
		string(ServiceStatusDraft),
	}
}

// Service is an offering a tenant sells: a description, a category and
// a base price. Budgets and invoices reference services by id.
type Service struct {
	shared.TenantOwned
	Name        string          `gorm:"type:varchar(255);not null;index"`
	Description string          `gorm:"type:text"`
	CategoryID  *int64          `gorm:"index"`
	Status      ServiceStatus   `gorm:"type:varchar(20);not null;default:'draft'"`
	Price       decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (Service) TableName() string {
	return "services"
}

// NewService creates a draft service owned by the given tenant.
func NewService(tenantID int64, name string) *Service {
	return &Service{
		TenantOwned: shared.NewTenantOwned(tenantID),
		Name:        name,
		Status:      ServiceStatusDraft,
		Price:       decimal.Zero,
	}
}

// ServiceStatusEntry is a row of the global service_statuses lookup
// table. It has no tenant dimension and is served read-only.
type ServiceStatusEntry struct {
	shared.BaseEntity
	Code      string `gorm:"type:varchar(20);not null;uniqueIndex"`
	Label     string `gorm:"type:varchar(100);not null"`
	SortOrder int    `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ServiceStatusEntry) TableName() string {
	return "service_statuses"
}
