package partner

import (
	"context"
	"testing"

	"github.com/backoffice/backend/internal/domain/catalog"
	"github.com/backoffice/backend/internal/domain/partner"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// staticChecker answers reference-guard checks with a fixed value.
type staticChecker struct {
	inUse bool
	err   error
}

func (c staticChecker) ExistsByTenant(context.Context, int64, shared.Query) (bool, error) {
	return c.inUse, c.err
}

type customerFixture struct {
	customers  *testutil.MemoryTenantRepository[partner.Customer]
	contacts   *testutil.MemoryTenantRepository[partner.Contact]
	addresses  *testutil.MemoryTenantRepository[partner.Address]
	commonData *testutil.MemoryTenantRepository[partner.CommonData]
	areas      *testutil.MemoryGlobalRepository[catalog.AreaOfActivity]
	budgets    staticChecker
	invoices   staticChecker
}

func (f *customerFixture) service() *CustomerService {
	scope := NewNoOpTransactionScope(f.customers, nil, f.contacts, f.addresses, f.commonData)
	return NewCustomerService(f.customers, scope, f.budgets, f.invoices, f.areas, zap.NewNop())
}

func newCustomerFixture() *customerFixture {
	return &customerFixture{
		customers:  &testutil.MemoryTenantRepository[partner.Customer]{},
		contacts:   &testutil.MemoryTenantRepository[partner.Contact]{},
		addresses:  &testutil.MemoryTenantRepository[partner.Address]{},
		commonData: &testutil.MemoryTenantRepository[partner.CommonData]{},
		areas:      &testutil.MemoryGlobalRepository[catalog.AreaOfActivity]{},
	}
}

func TestCustomerService_Create(t *testing.T) {
	t.Run("persists the aggregate with generated slug", func(t *testing.T) {
		f := newCustomerFixture()

		result := f.service().Create(context.Background(), 1, CompositeInput{
			Data: shared.Fields{"name": "Acme Corp", "email": "billing@acme.com"},
			Contacts: []shared.Fields{
				{"name": "Jo Doe", "email": "jo@acme.com"},
			},
			Addresses: []shared.Fields{
				{"street": "Main St", "city": "Springfield"},
			},
			Common: shared.Fields{"legal_name": "Acme Corporation Ltd"},
		})

		require.True(t, result.IsSuccess(), result.Message())
		customer := result.Data()
		assert.Equal(t, "acme-corp", customer.Slug)
		assert.Equal(t, int64(1), customer.TenantID)
		assert.Equal(t, partner.CustomerStatusActive, customer.Status)
		require.Len(t, customer.Contacts, 1)
		assert.Equal(t, partner.ContactTypePrimary, customer.Contacts[0].Type)
		assert.Equal(t, int64(1), customer.Contacts[0].TenantID)
		require.Len(t, customer.Addresses, 1)
		require.NotNil(t, customer.Common)
		assert.Len(t, f.customers.Rows, 1)
	})

	t.Run("slug collisions get a numeric suffix", func(t *testing.T) {
		f := newCustomerFixture()
		f.customers.Seed(partner.NewCustomer(1, "Acme Corp", "acme-corp"))

		result := f.service().Create(context.Background(), 1, CompositeInput{
			Data: shared.Fields{"name": "Acme-Corp"},
		})

		require.True(t, result.IsSuccess(), result.Message())
		assert.Equal(t, "acme-corp-1", result.Data().Slug)
	})

	t.Run("a failing child rejects the whole aggregate", func(t *testing.T) {
		f := newCustomerFixture()

		result := f.service().Create(context.Background(), 1, CompositeInput{
			Data: shared.Fields{"name": "Acme Corp"},
			Contacts: []shared.Fields{
				{"name": "Jo Doe"},
				{"email": "not-an-email"},
			},
		})

		assert.Equal(t, shared.ErrorKindInvalidData, result.Kind())
		details := result.Details()
		assert.Contains(t, details, "contacts.1.name")
		assert.Contains(t, details, "contacts.1.email")
		assert.NotContains(t, details, "contacts.0.name")
		assert.Empty(t, f.customers.Rows)
		assert.Empty(t, f.contacts.Rows)
	})

	t.Run("parent and child failures aggregate", func(t *testing.T) {
		f := newCustomerFixture()

		result := f.service().Create(context.Background(), 1, CompositeInput{
			Data:      shared.Fields{"status": "paused"},
			Addresses: []shared.Fields{{"city": "Springfield"}},
			Common:    shared.Fields{"document": "0123456789012345678901234567890123"},
		})

		assert.Equal(t, shared.ErrorKindInvalidData, result.Kind())
		details := result.Details()
		assert.Contains(t, details, "name")
		assert.Contains(t, details, "status")
		assert.Contains(t, details, "addresses.0.street")
		assert.Contains(t, details, "common.document")
	})

	t.Run("a known area of activity lands on the common data", func(t *testing.T) {
		f := newCustomerFixture()
		area := f.areas.Seed(catalog.NewAreaOfActivity("Retail", "retail"))

		result := f.service().Create(context.Background(), 1, CompositeInput{
			Data:   shared.Fields{"name": "Acme Corp"},
			Common: shared.Fields{"legal_name": "Acme Ltd", "area_of_activity_id": area.ID},
		})

		require.True(t, result.IsSuccess(), result.Message())
		require.NotNil(t, result.Data().Common)
		require.NotNil(t, result.Data().Common.AreaOfActivityID)
		assert.Equal(t, area.ID, *result.Data().Common.AreaOfActivityID)
	})

	t.Run("an unknown area of activity is invalid data", func(t *testing.T) {
		f := newCustomerFixture()

		result := f.service().Create(context.Background(), 1, CompositeInput{
			Data:   shared.Fields{"name": "Acme Corp"},
			Common: shared.Fields{"area_of_activity_id": int64(42)},
		})

		assert.Equal(t, shared.ErrorKindInvalidData, result.Kind())
		assert.Contains(t, result.Details(), "common.area_of_activity_id")
		assert.Empty(t, f.customers.Rows)
	})

	t.Run("duplicate name within the tenant is invalid data", func(t *testing.T) {
		f := newCustomerFixture()
		f.customers.Seed(partner.NewCustomer(1, "Acme Corp", "acme-corp"))

		result := f.service().Create(context.Background(), 1, CompositeInput{
			Data: shared.Fields{"name": "Acme Corp"},
		})

		assert.Equal(t, shared.ErrorKindInvalidData, result.Kind())
		assert.Contains(t, result.Details(), "name")
	})

	t.Run("the same name under another tenant is fine", func(t *testing.T) {
		f := newCustomerFixture()
		f.customers.Seed(partner.NewCustomer(2, "Acme Corp", "acme-corp"))

		result := f.service().Create(context.Background(), 1, CompositeInput{
			Data: shared.Fields{"name": "Acme Corp"},
		})

		require.True(t, result.IsSuccess(), result.Message())
	})

	t.Run("reserved fields in the payload are ignored", func(t *testing.T) {
		f := newCustomerFixture()

		result := f.service().Create(context.Background(), 7, CompositeInput{
			Data: shared.Fields{"name": "Acme Corp", "tenant_id": int64(3), "id": int64(99)},
		})

		require.True(t, result.IsSuccess(), result.Message())
		assert.Equal(t, int64(7), result.Data().TenantID)
		assert.NotEqual(t, int64(99), result.Data().ID)
	})
}

func TestCustomerService_Update(t *testing.T) {
	t.Run("replaces supplied child collections wholesale", func(t *testing.T) {
		f := newCustomerFixture()
		customer := f.customers.Seed(partner.NewCustomer(1, "Acme Corp", "acme-corp"))
		id := customer.ID
		f.contacts.Seed(&partner.Contact{
			TenantOwned: shared.NewTenantOwned(1),
			CustomerID:  &id,
			Name:        "Old Contact",
		})

		result := f.service().Update(context.Background(), 1, id, CompositeInput{
			Data: shared.Fields{"name": "Acme Corp Renamed"},
			Contacts: []shared.Fields{
				{"name": "New Contact", "type": "billing"},
			},
		})

		require.True(t, result.IsSuccess(), result.Message())
		assert.Equal(t, "Acme Corp Renamed", result.Data().Name)
		require.Len(t, f.contacts.Rows, 1)
		assert.Equal(t, "New Contact", f.contacts.Rows[0].Name)
		assert.Equal(t, partner.ContactTypeBilling, f.contacts.Rows[0].Type)
		require.NotNil(t, f.contacts.Rows[0].CustomerID)
		assert.Equal(t, id, *f.contacts.Rows[0].CustomerID)
	})

	t.Run("nil child collections are left untouched", func(t *testing.T) {
		f := newCustomerFixture()
		customer := f.customers.Seed(partner.NewCustomer(1, "Acme Corp", "acme-corp"))
		id := customer.ID
		f.contacts.Seed(&partner.Contact{
			TenantOwned: shared.NewTenantOwned(1),
			CustomerID:  &id,
			Name:        "Keep Me",
		})

		result := f.service().Update(context.Background(), 1, id, CompositeInput{
			Data: shared.Fields{"notes": "updated"},
		})

		require.True(t, result.IsSuccess(), result.Message())
		require.Len(t, f.contacts.Rows, 1)
		assert.Equal(t, "Keep Me", f.contacts.Rows[0].Name)
	})

	t.Run("an empty child collection clears the relation", func(t *testing.T) {
		f := newCustomerFixture()
		customer := f.customers.Seed(partner.NewCustomer(1, "Acme Corp", "acme-corp"))
		id := customer.ID
		f.contacts.Seed(&partner.Contact{
			TenantOwned: shared.NewTenantOwned(1),
			CustomerID:  &id,
			Name:        "Remove Me",
		})

		result := f.service().Update(context.Background(), 1, id, CompositeInput{
			Data:     shared.Fields{},
			Contacts: []shared.Fields{},
		})

		require.True(t, result.IsSuccess(), result.Message())
		assert.Empty(t, f.contacts.Rows)
	})

	t.Run("keeping the own name does not trip uniqueness", func(t *testing.T) {
		f := newCustomerFixture()
		customer := f.customers.Seed(partner.NewCustomer(1, "Acme Corp", "acme-corp"))

		result := f.service().Update(context.Background(), 1, customer.ID, CompositeInput{
			Data: shared.Fields{"name": "Acme Corp", "notes": "still the same name"},
		})

		require.True(t, result.IsSuccess(), result.Message())
	})

	t.Run("another tenant's customer is not found", func(t *testing.T) {
		f := newCustomerFixture()
		customer := f.customers.Seed(partner.NewCustomer(2, "Acme Corp", "acme-corp"))

		result := f.service().Update(context.Background(), 1, customer.ID, CompositeInput{
			Data: shared.Fields{"name": "Hijacked"},
		})

		assert.Equal(t, shared.ErrorKindNotFound, result.Kind())
		assert.Equal(t, "Acme Corp", customer.Name)
	})
}

func TestCustomerService_Delete(t *testing.T) {
	t.Run("removes the customer and its children", func(t *testing.T) {
		f := newCustomerFixture()
		customer := f.customers.Seed(partner.NewCustomer(1, "Acme Corp", "acme-corp"))
		id := customer.ID
		f.contacts.Seed(&partner.Contact{TenantOwned: shared.NewTenantOwned(1), CustomerID: &id})
		f.addresses.Seed(&partner.Address{TenantOwned: shared.NewTenantOwned(1), CustomerID: &id})
		f.commonData.Seed(&partner.CommonData{TenantOwned: shared.NewTenantOwned(1), CustomerID: &id})

		result := f.service().Delete(context.Background(), 1, id)

		require.True(t, result.IsSuccess(), result.Message())
		assert.Empty(t, f.customers.Rows)
		assert.Empty(t, f.contacts.Rows)
		assert.Empty(t, f.addresses.Rows)
		assert.Empty(t, f.commonData.Rows)
	})

	t.Run("a customer referenced by budgets cannot be deleted", func(t *testing.T) {
		f := newCustomerFixture()
		f.budgets = staticChecker{inUse: true}
		customer := f.customers.Seed(partner.NewCustomer(1, "Acme Corp", "acme-corp"))

		result := f.service().Delete(context.Background(), 1, customer.ID)

		assert.Equal(t, shared.ErrorKindConflict, result.Kind())
		assert.Equal(t, "customer cannot be deleted: it is in use by budgets", result.Message())
		assert.Len(t, f.customers.Rows, 1)
	})

	t.Run("a customer referenced by invoices cannot be deleted", func(t *testing.T) {
		f := newCustomerFixture()
		f.invoices = staticChecker{inUse: true}
		customer := f.customers.Seed(partner.NewCustomer(1, "Acme Corp", "acme-corp"))

		result := f.service().Delete(context.Background(), 1, customer.ID)

		assert.Equal(t, shared.ErrorKindConflict, result.Kind())
		assert.Equal(t, "customer cannot be deleted: it is in use by invoices", result.Message())
	})

	t.Run("delete many skips guarded and missing ids", func(t *testing.T) {
		f := newCustomerFixture()
		a := f.customers.Seed(partner.NewCustomer(1, "A", "a"))
		b := f.customers.Seed(partner.NewCustomer(1, "B", "b"))

		result := f.service().DeleteMany(context.Background(), 1, []int64{a.ID, b.ID, 999})

		require.True(t, result.IsSuccess())
		assert.Equal(t, int64(2), result.Data())
		assert.Equal(t, "2 customer records deleted", result.Message())
	})
}

func TestCustomerService_StatusTransitions(t *testing.T) {
	t.Run("deactivate keeps the record", func(t *testing.T) {
		f := newCustomerFixture()
		customer := f.customers.Seed(partner.NewCustomer(1, "Acme Corp", "acme-corp"))

		result := f.service().Deactivate(context.Background(), 1, customer.ID)

		require.True(t, result.IsSuccess(), result.Message())
		assert.Equal(t, partner.CustomerStatusInactive, result.Data().Status)
		assert.Len(t, f.customers.Rows, 1)
	})

	t.Run("activate re-enables", func(t *testing.T) {
		f := newCustomerFixture()
		customer := f.customers.Seed(partner.NewCustomer(1, "Acme Corp", "acme-corp"))
		customer.Deactivate()

		result := f.service().Activate(context.Background(), 1, customer.ID)

		require.True(t, result.IsSuccess(), result.Message())
		assert.True(t, result.Data().IsActive())
	})
}

func TestCustomerService_Queries(t *testing.T) {
	t.Run("find by slug returns nil when absent", func(t *testing.T) {
		f := newCustomerFixture()

		result := f.service().FindBySlug(context.Background(), 1, "nope")

		require.True(t, result.IsSuccess())
		assert.Nil(t, result.Data())
	})

	t.Run("list is scoped to the tenant", func(t *testing.T) {
		f := newCustomerFixture()
		f.customers.Seed(partner.NewCustomer(1, "Mine", "mine"))
		f.customers.Seed(partner.NewCustomer(2, "Theirs", "theirs"))

		result := f.service().List(context.Background(), 1, shared.Query{})

		require.True(t, result.IsSuccess())
		require.Len(t, result.Data(), 1)
		assert.Equal(t, "Mine", result.Data()[0].Name)
	})
}
