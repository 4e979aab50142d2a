package partner

import (
	"time"

	"github.com/backoffice/backend/internal/domain/shared"
)

// CustomerStatus represents the lifecycle status of a customer
type CustomerStatus string

const (
	CustomerStatusActive   CustomerStatus = "active"
	CustomerStatusInactive CustomerStatus = "inactive"
)

// Customer is a tenant-owned business partner that receives budgets and
// invoices. Contacts, addresses and common data hang off it and are
// maintained through the composite customer operations.
type Customer struct {
	shared.TenantOwned
	Name      string         `gorm:"type:varchar(255);not null;index"`
	Slug      string         `gorm:"type:varchar(255);not null;index"`
	Status    CustomerStatus `gorm:"type:varchar(20);not null;default:'active'"`
	Email     string         `gorm:"type:varchar(255)"`
	Phone     string         `gorm:"type:varchar(20)"`
	Notes     string         `gorm:"type:text"`
	Contacts  []Contact      `gorm:"foreignKey:CustomerID"`
	Addresses []Address      `gorm:"foreignKey:CustomerID"`
	Common    *CommonData    `gorm:"foreignKey:CustomerID"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates an active customer owned by the given tenant.
func NewCustomer(tenantID int64, name, slug string) *Customer {
	return &Customer{
		TenantOwned: shared.NewTenantOwned(tenantID),
		Name:        name,
		Slug:        slug,
		Status:      CustomerStatusActive,
	}
}

// IsActive reports whether the customer can participate in new
// budgets and invoices.
func (c *Customer) IsActive() bool {
	return c.Status == CustomerStatusActive
}

// Deactivate marks the customer inactive without deleting history.
func (c *Customer) Deactivate() {
	c.Status = CustomerStatusInactive
	c.UpdatedAt = time.Now()
}

// Activate re-enables an inactive customer.
func (c *Customer) Activate() {
	c.Status = CustomerStatusActive
	c.UpdatedAt = time.Now()
}
