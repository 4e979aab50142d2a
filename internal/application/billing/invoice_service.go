package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/backoffice/backend/internal/application/crud"
	"github.com/backoffice/backend/internal/domain/billing"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/domain/shared/validation"
	"go.uber.org/zap"
)

// InvoiceInput is the payload of an invoice create or update: the
// invoice's own fields plus its line items. A nil item slice on update
// keeps the existing items; a non-nil one replaces them.
type InvoiceInput struct {
	Data  shared.Fields
	Items []shared.Fields
}

type invoiceStrategy struct {
	repo      billing.InvoiceRepository
	customers validation.Checker
	budgets   validation.Checker
	documents billing.DocumentRepository
}

func (invoiceStrategy) Label() string { return "invoice" }

func (st invoiceStrategy) New(data shared.Fields, tenantID int64) (*billing.Invoice, error) {
	customerID, _ := data.Int64("customer_id")
	inv := billing.NewInvoice(tenantID, customerID, data.String("number"))
	if id, ok := data.Int64("budget_id"); ok {
		inv.BudgetID = &id
	}
	if data.Has("status") {
		inv.Status = billing.InvoiceStatus(data.String("status"))
	}
	if due, ok := fieldTime(data, "due_date"); ok {
		inv.DueDate = &due
	}
	return inv, nil
}

func (st invoiceStrategy) Apply(inv *billing.Invoice, data shared.Fields) error {
	if data.Has("number") {
		inv.Number = data.String("number")
	}
	if id, ok := data.Int64("customer_id"); ok {
		inv.CustomerID = id
	}
	if data.Has("budget_id") {
		if id, ok := data.Int64("budget_id"); ok {
			inv.BudgetID = &id
		}
	}
	if data.Has("status") {
		inv.Status = billing.InvoiceStatus(data.String("status"))
	}
	if due, ok := fieldTime(data, "due_date"); ok {
		inv.DueDate = &due
	}
	inv.UpdatedAt = time.Now()
	return nil
}

func (st invoiceStrategy) Rules(isUpdate bool) []validation.Rule {
	rules := []validation.Rule{
		validation.Length("number", 1, 50),
		validation.Unique("number", st.repo),
		validation.Enum("status", billing.InvoiceStatusValues()...),
		validation.References("customer_id", st.customers),
		validation.References("budget_id", st.budgets),
	}
	if !isUpdate {
		rules = append([]validation.Rule{
			validation.Required("number"),
			validation.Required("customer_id"),
		}, rules...)
	}
	return rules
}

// Paid invoices and invoices with stored documents are immutable
// history.
func (st invoiceStrategy) CanDelete(ctx context.Context, inv *billing.Invoice) (bool, string, error) {
	if inv.Status == billing.InvoiceStatusPaid {
		return false, "recorded payments", nil
	}
	hasDocs, err := st.documents.ExistsByTenant(ctx, inv.TenantID, shared.Where("invoice_id", inv.ID))
	if err != nil {
		return false, "", err
	}
	if hasDocs {
		return false, "documents", nil
	}
	return true, "", nil
}

func invoiceItemRules() []validation.Rule {
	return []validation.Rule{
		validation.Required("description"),
		validation.Length("description", 1, 255),
		validation.Required("quantity"),
		validation.Range("quantity", 0.001, 9999999),
		validation.Required("unit_price"),
		validation.Range("unit_price", 0, 99999999),
	}
}

func buildInvoiceItem(tenantID int64, data shared.Fields) billing.InvoiceItem {
	quantity, _ := data.Decimal("quantity")
	unitPrice, _ := data.Decimal("unit_price")
	return billing.InvoiceItem{
		TenantOwned: shared.NewTenantOwned(tenantID),
		Description: data.String("description"),
		Quantity:    quantity,
		UnitPrice:   unitPrice,
	}
}

// InvoiceService manages invoices and their line items. The invoice and
// its items are persisted in one transaction; a single invalid item
// rejects the whole call with the item's violations spelled out.
type InvoiceService struct {
	crud     *crud.TenantService[billing.Invoice]
	repo     billing.InvoiceRepository
	scope    TransactionScope
	strategy invoiceStrategy
	logger   *zap.Logger
}

// NewInvoiceService creates the invoice service. customers and budgets
// back the same-tenant reference checks.
func NewInvoiceService(
	repo billing.InvoiceRepository,
	customers validation.Checker,
	budgets validation.Checker,
	documents billing.DocumentRepository,
	scope TransactionScope,
	logger *zap.Logger,
) *InvoiceService {
	strategy := invoiceStrategy{repo: repo, customers: customers, budgets: budgets, documents: documents}
	return &InvoiceService{
		crud:     crud.NewTenantService[billing.Invoice](repo, strategy, logger),
		repo:     repo,
		scope:    scope,
		strategy: strategy,
		logger:   logger,
	}
}

// Get returns the invoice with its items preloaded.
func (s *InvoiceService) Get(ctx context.Context, tenantID, id int64) shared.Result[*billing.Invoice] {
	return s.crud.Get(ctx, tenantID, id)
}

// List returns the tenant's invoices matching the query.
func (s *InvoiceService) List(ctx context.Context, tenantID int64, q shared.Query) shared.Result[[]billing.Invoice] {
	return s.crud.List(ctx, tenantID, q)
}

// Paginate returns one page of the tenant's invoices.
func (s *InvoiceService) Paginate(ctx context.Context, tenantID int64, page, pageSize int, q shared.Query) shared.Result[shared.Paginated[billing.Invoice]] {
	return s.crud.Paginate(ctx, tenantID, page, pageSize, q)
}

// Count returns the number of matching invoices.
func (s *InvoiceService) Count(ctx context.Context, tenantID int64, q shared.Query) shared.Result[int64] {
	return s.crud.Count(ctx, tenantID, q)
}

// FindByNumber returns the invoice with the given number, or a
// successful nil when none carries it.
func (s *InvoiceService) FindByNumber(ctx context.Context, tenantID int64, number string) shared.Result[*billing.Invoice] {
	return s.crud.FindBy(ctx, tenantID, "number", number)
}

// Create validates the invoice and every line item before touching
// storage, then persists the aggregate in one transaction. The total is
// computed from the items, never taken from the payload.
func (s *InvoiceService) Create(ctx context.Context, tenantID int64, in InvoiceInput) shared.Result[*billing.Invoice] {
	data := crud.Sanitize(in.Data)

	violations, err := validation.Evaluate(ctx, data, &tenantID, 0, s.strategy.Rules(false))
	if err != nil {
		return crud.Failure[*billing.Invoice](s.logger, "invoice", err, "create")
	}
	if err := s.validateItems(ctx, tenantID, in.Items, violations); err != nil {
		return crud.Failure[*billing.Invoice](s.logger, "invoice", err, "create")
	}
	if !violations.Empty() {
		return shared.FailWithDetails[*billing.Invoice](shared.ErrorKindInvalidData, violations.Message(), violations.Details())
	}

	invoice, err := s.strategy.New(data, tenantID)
	if err != nil {
		return crud.Failure[*billing.Invoice](s.logger, "invoice", err, "create")
	}
	for _, payload := range in.Items {
		invoice.AddItem(buildInvoiceItem(tenantID, crud.Sanitize(payload)))
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		return repos.InvoiceRepo().Save(ctx, invoice)
	})
	if err != nil {
		return crud.Failure[*billing.Invoice](s.logger, "invoice", err, "create")
	}
	return shared.OK(invoice, "invoice created successfully")
}

// Update applies the invoice fields and, when a non-nil item slice is
// supplied, replaces the line items and recomputes the total, all
// atomically.
func (s *InvoiceService) Update(ctx context.Context, tenantID, id int64, in InvoiceInput) shared.Result[*billing.Invoice] {
	data := crud.Sanitize(in.Data)

	invoice, err := s.repo.FindByIDAndTenant(ctx, tenantID, id)
	if err != nil {
		return crud.Failure[*billing.Invoice](s.logger, "invoice", err, "update")
	}

	violations, err := validation.Evaluate(ctx, data, &tenantID, id, s.strategy.Rules(true))
	if err != nil {
		return crud.Failure[*billing.Invoice](s.logger, "invoice", err, "update")
	}
	if err := s.validateItems(ctx, tenantID, in.Items, violations); err != nil {
		return crud.Failure[*billing.Invoice](s.logger, "invoice", err, "update")
	}
	if !violations.Empty() {
		return shared.FailWithDetails[*billing.Invoice](shared.ErrorKindInvalidData, violations.Message(), violations.Details())
	}

	if err := s.strategy.Apply(invoice, data); err != nil {
		return crud.Failure[*billing.Invoice](s.logger, "invoice", err, "update")
	}

	replaceItems := in.Items != nil
	var newItems []billing.InvoiceItem
	if replaceItems {
		newItems = make([]billing.InvoiceItem, 0, len(in.Items))
		for _, payload := range in.Items {
			item := buildInvoiceItem(tenantID, crud.Sanitize(payload))
			item.InvoiceID = id
			newItems = append(newItems, item)
		}
	}

	// Detach preloaded items; replacement is explicit below.
	existingItems := invoice.Items
	invoice.Items = nil
	if replaceItems {
		invoice.Items = newItems
		invoice.RecalculateTotal()
		invoice.Items = nil
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.InvoiceRepo().Save(ctx, invoice); err != nil {
			return err
		}
		if !replaceItems {
			return nil
		}
		for i := range existingItems {
			if err := repos.InvoiceItemRepo().Delete(ctx, &existingItems[i]); err != nil {
				return err
			}
		}
		for i := range newItems {
			if err := repos.InvoiceItemRepo().Save(ctx, &newItems[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return crud.Failure[*billing.Invoice](s.logger, "invoice", err, "update")
	}
	if replaceItems {
		invoice.Items = newItems
	} else {
		invoice.Items = existingItems
	}
	return shared.OK(invoice, "invoice updated successfully")
}

// Delete removes the invoice and its items unless it is paid or has
// stored documents.
func (s *InvoiceService) Delete(ctx context.Context, tenantID, id int64) shared.Result[*billing.Invoice] {
	invoice, err := s.repo.FindByIDAndTenant(ctx, tenantID, id)
	if err != nil {
		return crud.Failure[*billing.Invoice](s.logger, "invoice", err, "delete")
	}

	ok, blockedBy, err := s.strategy.CanDelete(ctx, invoice)
	if err != nil {
		return crud.Failure[*billing.Invoice](s.logger, "invoice", err, "delete")
	}
	if !ok {
		return shared.Fail[*billing.Invoice](shared.ErrorKindConflict,
			fmt.Sprintf("invoice cannot be deleted: it is in use by %s", blockedBy))
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		for i := range invoice.Items {
			if err := repos.InvoiceItemRepo().Delete(ctx, &invoice.Items[i]); err != nil {
				return err
			}
		}
		invoice.Items = nil
		return repos.InvoiceRepo().Delete(ctx, invoice)
	})
	if err != nil {
		return crud.Failure[*billing.Invoice](s.logger, "invoice", err, "delete")
	}
	return shared.OK[*billing.Invoice](nil, "invoice deleted successfully")
}

// DeleteMany removes the given invoices one by one so the delete guard
// and item cleanup apply to each; only actual removals count.
func (s *InvoiceService) DeleteMany(ctx context.Context, tenantID int64, ids []int64) shared.Result[int64] {
	var affected int64
	for _, id := range ids {
		if result := s.Delete(ctx, tenantID, id); result.IsSuccess() {
			affected++
		}
	}
	return shared.OK(affected, fmt.Sprintf("%d invoice records deleted", affected))
}

// MarkPaid transitions a pending invoice to PAID.
func (s *InvoiceService) MarkPaid(ctx context.Context, tenantID, id int64) shared.Result[*billing.Invoice] {
	invoice, err := s.repo.FindByIDAndTenant(ctx, tenantID, id)
	if err != nil {
		return crud.Failure[*billing.Invoice](s.logger, "invoice", err, "update")
	}
	if invoice.Status != billing.InvoiceStatusPending && invoice.Status != billing.InvoiceStatusOverdue {
		return shared.Fail[*billing.Invoice](shared.ErrorKindConflict,
			fmt.Sprintf("invoice in status %s cannot be marked paid", invoice.Status))
	}
	invoice.MarkPaid(time.Now())
	items := invoice.Items
	invoice.Items = nil
	if err := s.repo.Save(ctx, invoice); err != nil {
		return crud.Failure[*billing.Invoice](s.logger, "invoice", err, "update")
	}
	invoice.Items = items
	return shared.OK(invoice, "invoice updated successfully")
}

func (s *InvoiceService) validateItems(ctx context.Context, tenantID int64, items []shared.Fields, into *validation.Violations) error {
	for i, payload := range items {
		v, err := validation.Evaluate(ctx, crud.Sanitize(payload), &tenantID, 0, invoiceItemRules())
		if err != nil {
			return err
		}
		into.Merge(fmt.Sprintf("items.%d.", i), v)
	}
	return nil
}
