package partner

import "github.com/backoffice/backend/internal/domain/shared"

// ContactType distinguishes how a contact entry is used
type ContactType string

const (
	ContactTypePrimary ContactType = "primary"
	ContactTypeBilling ContactType = "billing"
	ContactTypeOther   ContactType = "other"
)

// Contact is a reachable person or channel attached to a customer or a
// provider. Exactly one owner reference is set.
type Contact struct {
	shared.TenantOwned
	CustomerID *int64      `gorm:"index"`
	ProviderID *int64      `gorm:"index"`
	Type       ContactType `gorm:"type:varchar(20);not null;default:'primary'"`
	Name       string      `gorm:"type:varchar(255)"`
	Email      string      `gorm:"type:varchar(255)"`
	Phone      string      `gorm:"type:varchar(20)"`
}

// TableName returns the table name for GORM
func (Contact) TableName() string {
	return "contacts"
}

// Address is a postal location attached to a customer or a provider.
type Address struct {
	shared.TenantOwned
	CustomerID *int64 `gorm:"index"`
	ProviderID *int64 `gorm:"index"`
	Street     string `gorm:"type:varchar(255)"`
	Number     string `gorm:"type:varchar(20)"`
	District   string `gorm:"type:varchar(100)"`
	City       string `gorm:"type:varchar(100)"`
	State      string `gorm:"type:varchar(50)"`
	ZipCode    string `gorm:"type:varchar(20)"`
}

// TableName returns the table name for GORM
func (Address) TableName() string {
	return "addresses"
}

// CommonData carries corporate identification shared by customers and
// providers: document numbers, legal name, and so on.
type CommonData struct {
	shared.TenantOwned
	CustomerID       *int64 `gorm:"index"`
	ProviderID       *int64 `gorm:"index"`
	LegalName        string `gorm:"type:varchar(255)"`
	TradeName        string `gorm:"type:varchar(255)"`
	Document         string `gorm:"type:varchar(32)"`
	StateReg         string `gorm:"type:varchar(32)"`
	AreaOfActivityID *int64 `gorm:"index"`
}

// TableName returns the table name for GORM
func (CommonData) TableName() string {
	return "common_data"
}
