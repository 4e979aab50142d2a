package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/backoffice/backend/internal/application/crud"
	"github.com/backoffice/backend/internal/domain/billing"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/domain/shared/slug"
	"github.com/backoffice/backend/internal/domain/shared/validation"
	"go.uber.org/zap"
)

type budgetStrategy struct {
	repo      billing.BudgetRepository
	customers validation.Checker
	invoices  billing.InvoiceRepository
	documents billing.DocumentRepository
}

func (budgetStrategy) Label() string { return "budget" }

func (st budgetStrategy) New(data shared.Fields, tenantID int64) (*billing.Budget, error) {
	customerID, _ := data.Int64("customer_id")
	b := billing.NewBudget(tenantID, customerID, data.String("title"), data.String("slug"))
	b.Notes = data.String("notes")
	if data.Has("status") {
		b.Status = billing.BudgetStatus(data.String("status"))
	}
	if total, ok := data.Decimal("total"); ok {
		b.Total = total
	}
	if until, ok := fieldTime(data, "valid_until"); ok {
		b.ValidUntil = &until
	}
	return b, nil
}

func (st budgetStrategy) Apply(b *billing.Budget, data shared.Fields) error {
	if data.Has("title") {
		b.Title = data.String("title")
	}
	if data.Has("slug") {
		b.Slug = data.String("slug")
	}
	if data.Has("notes") {
		b.Notes = data.String("notes")
	}
	if data.Has("status") {
		b.Status = billing.BudgetStatus(data.String("status"))
	}
	if id, ok := data.Int64("customer_id"); ok {
		b.CustomerID = id
	}
	if total, ok := data.Decimal("total"); ok {
		b.Total = total
	}
	if until, ok := fieldTime(data, "valid_until"); ok {
		b.ValidUntil = &until
	}
	b.UpdatedAt = time.Now()
	return nil
}

func (st budgetStrategy) Rules(isUpdate bool) []validation.Rule {
	rules := []validation.Rule{
		validation.Length("title", 1, 255),
		validation.Enum("status", billing.BudgetStatusValues()...),
		validation.Range("total", 0, 999999999),
		validation.References("customer_id", st.customers),
	}
	if !isUpdate {
		rules = append([]validation.Rule{
			validation.Required("title"),
			validation.Required("customer_id"),
		}, rules...)
	}
	return rules
}

// A budget that produced invoices or stored documents keeps its row.
func (st budgetStrategy) CanDelete(ctx context.Context, b *billing.Budget) (bool, string, error) {
	inUse, err := st.invoices.ExistsByTenant(ctx, b.TenantID, shared.Where("budget_id", b.ID))
	if err != nil {
		return false, "", err
	}
	if inUse {
		return false, "invoices", nil
	}
	hasDocs, err := st.documents.ExistsByTenant(ctx, b.TenantID, shared.Where("budget_id", b.ID))
	if err != nil {
		return false, "", err
	}
	if hasDocs {
		return false, "documents", nil
	}
	return true, "", nil
}

// BudgetService manages quotations. Slugs make budgets addressable in
// share links; status transitions go through Update with the closed
// status set enforced by validation.
type BudgetService struct {
	crud   *crud.TenantService[billing.Budget]
	repo   billing.BudgetRepository
	slugs  *slug.Generator
	logger *zap.Logger
}

// NewBudgetService creates the budget service. customers backs the
// same-tenant reference check; invoices and documents guard deletion.
func NewBudgetService(
	repo billing.BudgetRepository,
	customers validation.Checker,
	invoices billing.InvoiceRepository,
	documents billing.DocumentRepository,
	logger *zap.Logger,
) *BudgetService {
	strategy := budgetStrategy{repo: repo, customers: customers, invoices: invoices, documents: documents}
	return &BudgetService{
		crud:   crud.NewTenantService[billing.Budget](repo, strategy, logger),
		repo:   repo,
		slugs:  slug.NewGenerator(nil),
		logger: logger,
	}
}

// Get returns the budget when it exists under the tenant.
func (s *BudgetService) Get(ctx context.Context, tenantID, id int64) shared.Result[*billing.Budget] {
	return s.crud.Get(ctx, tenantID, id)
}

// List returns the tenant's budgets matching the query.
func (s *BudgetService) List(ctx context.Context, tenantID int64, q shared.Query) shared.Result[[]billing.Budget] {
	return s.crud.List(ctx, tenantID, q)
}

// Paginate returns one page of the tenant's budgets.
func (s *BudgetService) Paginate(ctx context.Context, tenantID int64, page, pageSize int, q shared.Query) shared.Result[shared.Paginated[billing.Budget]] {
	return s.crud.Paginate(ctx, tenantID, page, pageSize, q)
}

// Count returns the number of matching budgets.
func (s *BudgetService) Count(ctx context.Context, tenantID int64, q shared.Query) shared.Result[int64] {
	return s.crud.Count(ctx, tenantID, q)
}

// FindBySlug returns the budget carrying the slug, or a successful nil
// when none does.
func (s *BudgetService) FindBySlug(ctx context.Context, tenantID int64, slugValue string) shared.Result[*billing.Budget] {
	return s.crud.FindBy(ctx, tenantID, "slug", slugValue)
}

// Create validates the payload and persists the budget. A missing slug
// is derived from the title, suffixed until unique in the tenant.
func (s *BudgetService) Create(ctx context.Context, tenantID int64, data shared.Fields) shared.Result[*billing.Budget] {
	data = crud.Sanitize(data)
	if data.String("slug") == "" && data.String("title") != "" {
		generated, err := s.slugs.GenerateUnique(ctx, data.String("title"), &tenantID, 0, s.repo)
		if err != nil {
			return crud.Failure[*billing.Budget](s.logger, "budget", err, "create")
		}
		data["slug"] = generated
	}
	return s.crud.Create(ctx, tenantID, data)
}

// Update overwrites the supplied fields after lookup and validation.
func (s *BudgetService) Update(ctx context.Context, tenantID, id int64, data shared.Fields) shared.Result[*billing.Budget] {
	return s.crud.Update(ctx, tenantID, id, data)
}

// Delete removes the budget unless invoices or documents reference it.
func (s *BudgetService) Delete(ctx context.Context, tenantID, id int64) shared.Result[*billing.Budget] {
	return s.crud.Delete(ctx, tenantID, id)
}

// DeleteMany removes the given budgets one by one so the delete guard
// applies to each; only actual removals count.
func (s *BudgetService) DeleteMany(ctx context.Context, tenantID int64, ids []int64) shared.Result[int64] {
	var affected int64
	for _, id := range ids {
		if result := s.crud.Delete(ctx, tenantID, id); result.IsSuccess() {
			affected++
		}
	}
	return shared.OK(affected, fmt.Sprintf("%d budget records deleted", affected))
}

// ExpireOverdue flips every budget whose validity window has passed to
// EXPIRED and reports how many were affected. Meant to run from a
// periodic sweep.
func (s *BudgetService) ExpireOverdue(ctx context.Context, tenantID int64, now time.Time) shared.Result[int64] {
	candidates, err := s.repo.FindAllByTenant(ctx, tenantID, shared.Query{
		Criteria: map[string]any{"status": string(billing.BudgetStatusPending)},
	})
	if err != nil {
		return crud.Failure[int64](s.logger, "budget", err, "update")
	}
	var affected int64
	for i := range candidates {
		b := &candidates[i]
		if !b.IsExpired(now) {
			continue
		}
		b.Status = billing.BudgetStatusExpired
		b.UpdatedAt = now
		if err := s.repo.Save(ctx, b); err != nil {
			return crud.Failure[int64](s.logger, "budget", err, "update")
		}
		affected++
	}
	return shared.OK(affected, fmt.Sprintf("%d budget records updated", affected))
}

// ExpireOverdueAll runs the expiry sweep across every tenant holding
// budgets and reports the total number flipped.
func (s *BudgetService) ExpireOverdueAll(ctx context.Context, now time.Time) shared.Result[int64] {
	tenants, err := s.repo.TenantIDs(ctx)
	if err != nil {
		return crud.Failure[int64](s.logger, "budget", err, "update")
	}
	var total int64
	for _, tenantID := range tenants {
		result := s.ExpireOverdue(ctx, tenantID, now)
		if !result.IsSuccess() {
			return result
		}
		total += result.Data()
	}
	return shared.OK(total, fmt.Sprintf("%d budget records updated", total))
}

// fieldTime reads a timestamp payload field, accepting time.Time and
// RFC 3339 strings.
func fieldTime(data shared.Fields, key string) (time.Time, bool) {
	switch v := data[key].(type) {
	case time.Time:
		return v, true
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return *v, true
	case string:
		t, err := time.Parse(time.RFC3339, v)
		return t, err == nil
	default:
		return time.Time{}, false
	}
}
