package billing

import "github.com/backoffice/backend/internal/domain/shared"

// DocumentKind classifies stored documents
type DocumentKind string

const (
	DocumentKindBudgetPDF  DocumentKind = "budget_pdf"
	DocumentKindInvoicePDF DocumentKind = "invoice_pdf"
	DocumentKindReport     DocumentKind = "report"
)

// Document records an externally-rendered file (budget or invoice PDF,
// report export) kept in object storage. Rendering is out of scope;
// this entity only tracks what was stored and where.
type Document struct {
	shared.TenantOwned
	Kind        DocumentKind `gorm:"type:varchar(20);not null;index"`
	BudgetID    *int64       `gorm:"index"`
	InvoiceID   *int64       `gorm:"index"`
	FileName    string       `gorm:"type:varchar(255);not null"`
	StorageKey  string       `gorm:"type:varchar(512);not null;index"`
	ContentType string       `gorm:"type:varchar(100);not null"`
	SizeBytes   int64        `gorm:"not null;default:0"`
	Uploaded    bool         `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Document) TableName() string {
	return "documents"
}

// MarkUploaded records that the object was confirmed present in
// storage.
func (d *Document) MarkUploaded() {
	d.Uploaded = true
}
