package persistence

import (
	"context"

	appbilling "github.com/backoffice/backend/internal/application/billing"
	"github.com/backoffice/backend/internal/domain/billing"
	"gorm.io/gorm"
)

// GormBillingTransactionScope implements the billing TransactionScope
// using GORM transactions.
type GormBillingTransactionScope struct {
	db *gorm.DB
}

// NewGormBillingTransactionScope creates a new GormBillingTransactionScope.
func NewGormBillingTransactionScope(db *gorm.DB) *GormBillingTransactionScope {
	return &GormBillingTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormBillingTransactionScope) Execute(ctx context.Context, fn func(repos appbilling.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormBillingRepositories{tx: tx})
	})
}

type gormBillingRepositories struct {
	tx *gorm.DB
}

func (r *gormBillingRepositories) BudgetRepo() billing.BudgetRepository {
	return NewBudgetRepository(r.tx)
}

func (r *gormBillingRepositories) InvoiceRepo() billing.InvoiceRepository {
	return NewInvoiceRepository(r.tx)
}

func (r *gormBillingRepositories) InvoiceItemRepo() billing.InvoiceItemRepository {
	return NewInvoiceItemRepository(r.tx)
}

func (r *gormBillingRepositories) DocumentRepo() billing.DocumentRepository {
	return NewDocumentRepository(r.tx)
}

var _ appbilling.TransactionScope = (*GormBillingTransactionScope)(nil)
var _ appbilling.TransactionalRepositories = (*gormBillingRepositories)(nil)
