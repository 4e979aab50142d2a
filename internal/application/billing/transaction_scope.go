package billing

import (
	"context"

	"github.com/backoffice/backend/internal/domain/billing"
)

// TransactionScope provides transactional access to billing
// repositories. An invoice and its line items are persisted inside one
// scope so partial writes never become visible.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the billing repositories
// within a transaction.
type TransactionalRepositories interface {
	BudgetRepo() billing.BudgetRepository
	InvoiceRepo() billing.InvoiceRepository
	InvoiceItemRepo() billing.InvoiceItemRepository
	DocumentRepo() billing.DocumentRepository
}

// NoOpTransactionScope runs the function without a real transaction.
type NoOpTransactionScope struct {
	budgetRepo      billing.BudgetRepository
	invoiceRepo     billing.InvoiceRepository
	invoiceItemRepo billing.InvoiceItemRepository
	documentRepo    billing.DocumentRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	budgetRepo billing.BudgetRepository,
	invoiceRepo billing.InvoiceRepository,
	invoiceItemRepo billing.InvoiceItemRepository,
	documentRepo billing.DocumentRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		budgetRepo:      budgetRepo,
		invoiceRepo:     invoiceRepo,
		invoiceItemRepo: invoiceItemRepo,
		documentRepo:    documentRepo,
	}
}

// Execute runs the function without transactional guarantees.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) BudgetRepo() billing.BudgetRepository           { return s.budgetRepo }
func (s *NoOpTransactionScope) InvoiceRepo() billing.InvoiceRepository         { return s.invoiceRepo }
func (s *NoOpTransactionScope) InvoiceItemRepo() billing.InvoiceItemRepository { return s.invoiceItemRepo }
func (s *NoOpTransactionScope) DocumentRepo() billing.DocumentRepository       { return s.documentRepo }
