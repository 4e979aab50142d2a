package billing

import (
	"time"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the payment state of an invoice
type InvoiceStatus string

const (
	InvoiceStatusPending   InvoiceStatus = "PENDING"
	InvoiceStatusPaid      InvoiceStatus = "PAID"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
	InvoiceStatusOverdue   InvoiceStatus = "OVERDUE"
)

// InvoiceStatusValues returns the closed set accepted by validation.
func InvoiceStatusValues() []string {
	return []string{
		string(InvoiceStatusPending),
		string(InvoiceStatusPaid),
		string(InvoiceStatusCancelled),
		string(InvoiceStatusOverdue),
	}
}

// Invoice is a tenant-owned receivable issued to a customer. Its line
// items are created and persisted with the invoice as one unit of work;
// a single invalid item rejects the whole invoice.
type Invoice struct {
	shared.TenantOwned
	CustomerID int64           `gorm:"not null;index"`
	BudgetID   *int64          `gorm:"index"`
	Number     string          `gorm:"type:varchar(50);not null;index"`
	Status     InvoiceStatus   `gorm:"type:varchar(20);not null;default:'PENDING'"`
	Total      decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	DueDate    *time.Time
	Items      []InvoiceItem `gorm:"foreignKey:InvoiceID"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// NewInvoice creates a pending invoice for a customer of the tenant.
func NewInvoice(tenantID, customerID int64, number string) *Invoice {
	return &Invoice{
		TenantOwned: shared.NewTenantOwned(tenantID),
		CustomerID:  customerID,
		Number:      number,
		Status:      InvoiceStatusPending,
		Total:       decimal.Zero,
	}
}

// AddItem appends a line item and keeps the total consistent.
func (i *Invoice) AddItem(item InvoiceItem) {
	i.Items = append(i.Items, item)
	i.Total = i.Total.Add(item.Amount())
}

// RecalculateTotal recomputes the total from the line items.
func (i *Invoice) RecalculateTotal() {
	total := decimal.Zero
	for _, item := range i.Items {
		total = total.Add(item.Amount())
	}
	i.Total = total
}

// MarkPaid transitions the invoice to PAID.
func (i *Invoice) MarkPaid(at time.Time) {
	i.Status = InvoiceStatusPaid
	i.UpdatedAt = at
}

// IsOverdue reports whether an unpaid invoice is past its due date.
func (i *Invoice) IsOverdue(now time.Time) bool {
	return i.Status == InvoiceStatusPending && i.DueDate != nil && now.After(*i.DueDate)
}

// InvoiceItem is one line of an invoice.
type InvoiceItem struct {
	shared.TenantOwned
	InvoiceID   int64           `gorm:"not null;index"`
	Description string          `gorm:"type:varchar(255);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(14,2);not null"`
}

// TableName returns the table name for GORM
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// Amount returns quantity times unit price.
func (it InvoiceItem) Amount() decimal.Decimal {
	return it.Quantity.Mul(it.UnitPrice)
}
