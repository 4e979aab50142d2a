package billing

import (
	"time"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// BudgetStatus values mirror the budget_statuses lookup table.
type BudgetStatus string

const (
	BudgetStatusDraft     BudgetStatus = "DRAFT"
	BudgetStatusPending   BudgetStatus = "PENDING"
	BudgetStatusApproved  BudgetStatus = "APPROVED"
	BudgetStatusRejected  BudgetStatus = "REJECTED"
	BudgetStatusCancelled BudgetStatus = "CANCELLED"
	BudgetStatusCompleted BudgetStatus = "COMPLETED"
	BudgetStatusExpired   BudgetStatus = "EXPIRED"
)

// BudgetStatusValues returns the closed set accepted by validation.
func BudgetStatusValues() []string {
	return []string{
		string(BudgetStatusDraft),
		string(BudgetStatusPending),
		string(BudgetStatusApproved),
		string(BudgetStatusRejected),
		string(BudgetStatusCancelled),
		string(BudgetStatusCompleted),
		string(BudgetStatusExpired),
	}
}

// Budget is a tenant-owned quotation prepared for a customer. It can be
// shared externally through signed tokens and eventually turned into an
// invoice.
type Budget struct {
	shared.TenantOwned
	CustomerID int64           `gorm:"not null;index"`
	Title      string          `gorm:"type:varchar(255);not null"`
	Slug       string          `gorm:"type:varchar(255);not null;index"`
	Status     BudgetStatus    `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	Total      decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	ValidUntil *time.Time
	Notes      string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Budget) TableName() string {
	return "budgets"
}

// NewBudget creates a draft budget for a customer of the given tenant.
func NewBudget(tenantID, customerID int64, title, slugValue string) *Budget {
	return &Budget{
		TenantOwned: shared.NewTenantOwned(tenantID),
		CustomerID:  customerID,
		Title:       title,
		Slug:        slugValue,
		Status:      BudgetStatusDraft,
		Total:       decimal.Zero,
	}
}

// IsExpired reports whether the validity window has passed.
func (b *Budget) IsExpired(now time.Time) bool {
	return b.ValidUntil != nil && now.After(*b.ValidUntil)
}

// BudgetStatusEntry is a row of the global budget_statuses lookup
// table, served read-only to populate selection lists.
type BudgetStatusEntry struct {
	shared.BaseEntity
	Code      string `gorm:"type:varchar(20);not null;uniqueIndex"`
	Label     string `gorm:"type:varchar(100);not null"`
	SortOrder int    `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (BudgetStatusEntry) TableName() string {
	return "budget_statuses"
}
