package billing

import (
	"context"
	"testing"
	"time"

	"github.com/backoffice/backend/internal/domain/billing"
	"github.com/backoffice/backend/internal/domain/partner"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type budgetFixture struct {
	budgets   *testutil.MemoryTenantRepository[billing.Budget]
	customers *testutil.MemoryTenantRepository[partner.Customer]
	invoices  *testutil.MemoryTenantRepository[billing.Invoice]
	documents *testutil.MemoryTenantRepository[billing.Document]
}

func newBudgetFixture() *budgetFixture {
	return &budgetFixture{
		budgets:   &testutil.MemoryTenantRepository[billing.Budget]{},
		customers: &testutil.MemoryTenantRepository[partner.Customer]{},
		invoices:  &testutil.MemoryTenantRepository[billing.Invoice]{},
		documents: &testutil.MemoryTenantRepository[billing.Document]{},
	}
}

func (f *budgetFixture) service() *BudgetService {
	return NewBudgetService(f.budgets, f.customers, f.invoices, f.documents, zap.NewNop())
}

func (f *budgetFixture) seedCustomer(tenantID int64) *partner.Customer {
	return f.customers.Seed(partner.NewCustomer(tenantID, "Acme Corp", "acme-corp"))
}

func TestBudgetService_Create(t *testing.T) {
	t.Run("persists a draft budget with a derived slug", func(t *testing.T) {
		f := newBudgetFixture()
		customer := f.seedCustomer(1)

		result := f.service().Create(context.Background(), 1, shared.Fields{
			"title":       "Renovation Quote",
			"customer_id": customer.ID,
		})

		require.True(t, result.IsSuccess(), result.Message())
		budget := result.Data()
		assert.Equal(t, billing.BudgetStatusDraft, budget.Status)
		assert.Equal(t, "renovation-quote", budget.Slug)
		assert.Equal(t, customer.ID, budget.CustomerID)
		assert.True(t, budget.Total.IsZero())
	})

	t.Run("the customer must exist under the same tenant", func(t *testing.T) {
		f := newBudgetFixture()
		foreign := f.seedCustomer(2)

		result := f.service().Create(context.Background(), 1, shared.Fields{
			"title":       "Renovation Quote",
			"customer_id": foreign.ID,
		})

		assert.Equal(t, shared.ErrorKindInvalidData, result.Kind())
		assert.Contains(t, result.Details(), "customer_id")
		assert.Empty(t, f.budgets.Rows)
	})

	t.Run("customer id is required", func(t *testing.T) {
		f := newBudgetFixture()

		result := f.service().Create(context.Background(), 1, shared.Fields{"title": "Quote"})

		assert.Equal(t, shared.ErrorKindInvalidData, result.Kind())
		assert.Contains(t, result.Details(), "customer_id")
	})

	t.Run("status outside the closed set is invalid", func(t *testing.T) {
		f := newBudgetFixture()
		customer := f.seedCustomer(1)

		result := f.service().Create(context.Background(), 1, shared.Fields{
			"title":       "Quote",
			"customer_id": customer.ID,
			"status":      "SHELVED",
		})

		assert.Equal(t, shared.ErrorKindInvalidData, result.Kind())
		assert.Contains(t, result.Details(), "status")
	})

	t.Run("valid until accepts an RFC 3339 string", func(t *testing.T) {
		f := newBudgetFixture()
		customer := f.seedCustomer(1)

		result := f.service().Create(context.Background(), 1, shared.Fields{
			"title":       "Quote",
			"customer_id": customer.ID,
			"valid_until": "2026-12-31T00:00:00Z",
		})

		require.True(t, result.IsSuccess(), result.Message())
		require.NotNil(t, result.Data().ValidUntil)
		assert.Equal(t, 2026, result.Data().ValidUntil.Year())
	})
}

func TestBudgetService_Update(t *testing.T) {
	t.Run("status transitions go through the closed set", func(t *testing.T) {
		f := newBudgetFixture()
		customer := f.seedCustomer(1)
		budget := f.budgets.Seed(billing.NewBudget(1, customer.ID, "Quote", "quote"))

		result := f.service().Update(context.Background(), 1, budget.ID,
			shared.Fields{"status": "PENDING"})

		require.True(t, result.IsSuccess(), result.Message())
		assert.Equal(t, billing.BudgetStatusPending, result.Data().Status)
	})
}

func TestBudgetService_Delete(t *testing.T) {
	t.Run("a budget that produced an invoice keeps its row", func(t *testing.T) {
		f := newBudgetFixture()
		customer := f.seedCustomer(1)
		budget := f.budgets.Seed(billing.NewBudget(1, customer.ID, "Quote", "quote"))
		invoice := billing.NewInvoice(1, customer.ID, "INV-001")
		invoice.BudgetID = &budget.ID
		f.invoices.Seed(invoice)

		result := f.service().Delete(context.Background(), 1, budget.ID)

		assert.Equal(t, shared.ErrorKindConflict, result.Kind())
		assert.Equal(t, "budget cannot be deleted: it is in use by invoices", result.Message())
		assert.Len(t, f.budgets.Rows, 1)
	})

	t.Run("a budget with stored documents keeps its row", func(t *testing.T) {
		f := newBudgetFixture()
		customer := f.seedCustomer(1)
		budget := f.budgets.Seed(billing.NewBudget(1, customer.ID, "Quote", "quote"))
		f.documents.Seed(&billing.Document{
			TenantOwned: shared.NewTenantOwned(1),
			Kind:        billing.DocumentKindBudgetPDF,
			BudgetID:    &budget.ID,
		})

		result := f.service().Delete(context.Background(), 1, budget.ID)

		assert.Equal(t, shared.ErrorKindConflict, result.Kind())
		assert.Equal(t, "budget cannot be deleted: it is in use by documents", result.Message())
	})

	t.Run("an unreferenced budget deletes", func(t *testing.T) {
		f := newBudgetFixture()
		customer := f.seedCustomer(1)
		budget := f.budgets.Seed(billing.NewBudget(1, customer.ID, "Quote", "quote"))

		result := f.service().Delete(context.Background(), 1, budget.ID)

		require.True(t, result.IsSuccess(), result.Message())
		assert.Empty(t, f.budgets.Rows)
	})
}

func TestBudgetService_ExpireOverdue(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	seed := func(f *budgetFixture, customerID int64, title string, status billing.BudgetStatus, until *time.Time) *billing.Budget {
		b := billing.NewBudget(1, customerID, title, title)
		b.Status = status
		b.ValidUntil = until
		return f.budgets.Seed(b)
	}

	t.Run("flips only pending budgets past their window", func(t *testing.T) {
		f := newBudgetFixture()
		customer := f.seedCustomer(1)
		lapsed := seed(f, customer.ID, "lapsed", billing.BudgetStatusPending, &past)
		current := seed(f, customer.ID, "current", billing.BudgetStatusPending, &future)
		open := seed(f, customer.ID, "open", billing.BudgetStatusPending, nil)
		approved := seed(f, customer.ID, "approved", billing.BudgetStatusApproved, &past)

		result := f.service().ExpireOverdue(context.Background(), 1, now)

		require.True(t, result.IsSuccess(), result.Message())
		assert.Equal(t, int64(1), result.Data())

		statusOf := func(id int64) billing.BudgetStatus {
			b, err := f.budgets.FindByIDAndTenant(context.Background(), 1, id)
			require.NoError(t, err)
			return b.Status
		}
		assert.Equal(t, billing.BudgetStatusExpired, statusOf(lapsed.ID))
		assert.Equal(t, billing.BudgetStatusPending, statusOf(current.ID))
		assert.Equal(t, billing.BudgetStatusPending, statusOf(open.ID))
		assert.Equal(t, billing.BudgetStatusApproved, statusOf(approved.ID))
	})

	t.Run("a sweep with nothing to do reports zero", func(t *testing.T) {
		f := newBudgetFixture()

		result := f.service().ExpireOverdue(context.Background(), 1, now)

		require.True(t, result.IsSuccess())
		assert.Equal(t, int64(0), result.Data())
	})
}

func TestBudgetService_ExpireOverdueAll(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)

	seed := func(f *budgetFixture, tenantID, customerID int64, title string, until *time.Time) *billing.Budget {
		b := billing.NewBudget(tenantID, customerID, title, title)
		b.Status = billing.BudgetStatusPending
		b.ValidUntil = until
		return f.budgets.Seed(b)
	}

	t.Run("sweeps every tenant holding budgets", func(t *testing.T) {
		f := newBudgetFixture()
		first := f.seedCustomer(1)
		second := f.seedCustomer(2)
		seed(f, 1, first.ID, "lapsed-one", &past)
		seed(f, 1, first.ID, "lapsed-two", &past)
		seed(f, 2, second.ID, "lapsed-three", &past)
		kept := seed(f, 2, second.ID, "open", nil)

		result := f.service().ExpireOverdueAll(context.Background(), now)

		require.True(t, result.IsSuccess(), result.Message())
		assert.Equal(t, int64(3), result.Data())

		b, err := f.budgets.FindByIDAndTenant(context.Background(), 2, kept.ID)
		require.NoError(t, err)
		assert.Equal(t, billing.BudgetStatusPending, b.Status)
	})

	t.Run("a storage failure stops the sweep", func(t *testing.T) {
		f := newBudgetFixture()
		f.budgets.FailWith = context.DeadlineExceeded

		result := f.service().ExpireOverdueAll(context.Background(), now)

		assert.False(t, result.IsSuccess())
	})
}

func TestBudgetStatusService_ReadOnly(t *testing.T) {
	repo := &testutil.MemoryGlobalRepository[billing.BudgetStatusEntry]{}
	repo.Seed(&billing.BudgetStatusEntry{Code: "DRAFT", Label: "Draft"})
	service := NewBudgetStatusService(repo, zap.NewNop())
	ctx := context.Background()

	result := service.List(ctx, shared.Query{})
	require.True(t, result.IsSuccess())
	assert.Len(t, result.Data(), 1)

	create := service.Create(ctx, shared.Fields{"code": "NEW"})
	assert.Equal(t, shared.ErrorKindNotSupported, create.Kind())
}
