package persistence

import (
	"github.com/backoffice/backend/internal/domain/billing"
	"gorm.io/gorm"
)

// NewBudgetRepository creates the budget repository.
func NewBudgetRepository(db *gorm.DB) billing.BudgetRepository {
	return NewGormTenantRepository[billing.Budget](db)
}

// NewInvoiceRepository creates the invoice repository. Items are loaded
// with the invoice.
func NewInvoiceRepository(db *gorm.DB) billing.InvoiceRepository {
	return NewGormTenantRepository[billing.Invoice](db, "Items")
}

// NewInvoiceItemRepository creates the invoice line item repository.
func NewInvoiceItemRepository(db *gorm.DB) billing.InvoiceItemRepository {
	return NewGormTenantRepository[billing.InvoiceItem](db)
}

// NewDocumentRepository creates the stored document metadata repository.
func NewDocumentRepository(db *gorm.DB) billing.DocumentRepository {
	return NewGormTenantRepository[billing.Document](db)
}

// NewBudgetStatusRepository creates the repository for the global
// budget status lookup table.
func NewBudgetStatusRepository(db *gorm.DB) billing.BudgetStatusRepository {
	return NewGormGlobalRepository[billing.BudgetStatusEntry](db)
}
