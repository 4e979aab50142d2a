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

type providerFixture struct {
	providers  *testutil.MemoryTenantRepository[partner.Provider]
	contacts   *testutil.MemoryTenantRepository[partner.Contact]
	addresses  *testutil.MemoryTenantRepository[partner.Address]
	commonData *testutil.MemoryTenantRepository[partner.CommonData]
	areas      *testutil.MemoryGlobalRepository[catalog.AreaOfActivity]
}

func (f *providerFixture) service() *ProviderService {
	scope := NewNoOpTransactionScope(nil, f.providers, f.contacts, f.addresses, f.commonData)
	return NewProviderService(f.providers, scope, f.areas, zap.NewNop())
}

func newProviderFixture() *providerFixture {
	return &providerFixture{
		providers:  &testutil.MemoryTenantRepository[partner.Provider]{},
		contacts:   &testutil.MemoryTenantRepository[partner.Contact]{},
		addresses:  &testutil.MemoryTenantRepository[partner.Address]{},
		commonData: &testutil.MemoryTenantRepository[partner.CommonData]{},
		areas:      &testutil.MemoryGlobalRepository[catalog.AreaOfActivity]{},
	}
}

func TestProviderService_Create(t *testing.T) {
	t.Run("persists the aggregate with children", func(t *testing.T) {
		f := newProviderFixture()

		result := f.service().Create(context.Background(), 1, CompositeInput{
			Data: shared.Fields{"name": "Parts Supplier"},
			Contacts: []shared.Fields{
				{"name": "Sales Desk", "type": "billing"},
			},
		})

		require.True(t, result.IsSuccess(), result.Message())
		provider := result.Data()
		assert.Equal(t, "parts-supplier", provider.Slug)
		require.Len(t, provider.Contacts, 1)
		assert.Equal(t, partner.ContactTypeBilling, provider.Contacts[0].Type)
	})

	t.Run("child violations use the provider prefixes too", func(t *testing.T) {
		f := newProviderFixture()

		result := f.service().Create(context.Background(), 1, CompositeInput{
			Data:      shared.Fields{"name": "Parts Supplier"},
			Addresses: []shared.Fields{{"city": "Springfield"}},
		})

		assert.Equal(t, shared.ErrorKindInvalidData, result.Kind())
		assert.Contains(t, result.Details(), "addresses.0.street")
	})
}

func TestProviderService_Delete(t *testing.T) {
	t.Run("providers are never reference-guarded", func(t *testing.T) {
		f := newProviderFixture()
		provider := f.providers.Seed(partner.NewProvider(1, "Parts Supplier", "parts-supplier"))
		id := provider.ID
		f.contacts.Seed(&partner.Contact{TenantOwned: shared.NewTenantOwned(1), ProviderID: &id})

		result := f.service().Delete(context.Background(), 1, id)

		require.True(t, result.IsSuccess(), result.Message())
		assert.Empty(t, f.providers.Rows)
		assert.Empty(t, f.contacts.Rows)
	})
}

func TestProviderService_Update(t *testing.T) {
	t.Run("replaces supplied children and keeps the rest", func(t *testing.T) {
		f := newProviderFixture()
		provider := f.providers.Seed(partner.NewProvider(1, "Parts Supplier", "parts-supplier"))
		id := provider.ID
		f.addresses.Seed(&partner.Address{TenantOwned: shared.NewTenantOwned(1), ProviderID: &id, Street: "Old Rd"})

		result := f.service().Update(context.Background(), 1, id, CompositeInput{
			Data:      shared.Fields{"phone": "555-0100"},
			Addresses: []shared.Fields{{"street": "New Ave"}},
		})

		require.True(t, result.IsSuccess(), result.Message())
		assert.Equal(t, "555-0100", result.Data().Phone)
		require.Len(t, f.addresses.Rows, 1)
		assert.Equal(t, "New Ave", f.addresses.Rows[0].Street)
		require.NotNil(t, f.addresses.Rows[0].ProviderID)
		assert.Equal(t, id, *f.addresses.Rows[0].ProviderID)
	})
}
