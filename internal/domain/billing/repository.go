package billing

import (
	"context"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/domain/shared/slug"
	"github.com/backoffice/backend/internal/domain/shared/validation"
)

// BudgetRepository persists budgets.
type BudgetRepository interface {
	shared.TenantRepository[Budget]
	validation.Checker
	slug.Checker

	// TenantIDs lists the distinct tenants holding budgets, for the
	// expiry sweep.
	TenantIDs(ctx context.Context) ([]int64, error)
}

// InvoiceRepository persists invoices together with their items.
type InvoiceRepository interface {
	shared.TenantRepository[Invoice]
	validation.Checker
}

// InvoiceItemRepository persists invoice line items.
type InvoiceItemRepository interface {
	shared.TenantRepository[InvoiceItem]
	validation.Checker
}

// DocumentRepository persists stored document metadata.
type DocumentRepository interface {
	shared.TenantRepository[Document]
	validation.Checker
}

// BudgetStatusRepository reads the global budget status lookup table.
type BudgetStatusRepository interface {
	shared.GlobalRepository[BudgetStatusEntry]
	validation.Checker
}
