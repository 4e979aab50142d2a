package partner

import (
	"time"

	"github.com/backoffice/backend/internal/domain/shared"
)

// ProviderStatus represents the lifecycle status of a provider
type ProviderStatus string

const (
	ProviderStatusActive   ProviderStatus = "active"
	ProviderStatusInactive ProviderStatus = "inactive"
)

// Provider is a tenant-owned supplier of services. It shares the
// composite shape of Customer: common data, contacts and addresses are
// created and updated with the provider in one unit of work.
type Provider struct {
	shared.TenantOwned
	Name      string         `gorm:"type:varchar(255);not null;index"`
	Slug      string         `gorm:"type:varchar(255);not null;index"`
	Status    ProviderStatus `gorm:"type:varchar(20);not null;default:'active'"`
	Email     string         `gorm:"type:varchar(255)"`
	Phone     string         `gorm:"type:varchar(20)"`
	Notes     string         `gorm:"type:text"`
	Contacts  []Contact      `gorm:"foreignKey:ProviderID"`
	Addresses []Address      `gorm:"foreignKey:ProviderID"`
	Common    *CommonData    `gorm:"foreignKey:ProviderID"`
}

// TableName returns the table name for GORM
func (Provider) TableName() string {
	return "providers"
}

// NewProvider creates an active provider owned by the given tenant.
func NewProvider(tenantID int64, name, slug string) *Provider {
	return &Provider{
		TenantOwned: shared.NewTenantOwned(tenantID),
		Name:        name,
		Slug:        slug,
		Status:      ProviderStatusActive,
	}
}

// IsActive reports whether the provider is available for new budgets.
func (p *Provider) IsActive() bool {
	return p.Status == ProviderStatusActive
}

// Deactivate marks the provider inactive without deleting history.
func (p *Provider) Deactivate() {
	p.Status = ProviderStatusInactive
	p.UpdatedAt = time.Now()
}
