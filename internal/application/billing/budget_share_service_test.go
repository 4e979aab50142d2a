package billing

import (
	"context"
	"testing"
	"time"

	"github.com/backoffice/backend/internal/domain/billing"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/infrastructure/auth"
	"github.com/backoffice/backend/internal/infrastructure/config"
	"github.com/backoffice/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newShareTokens(expiration time.Duration) *auth.ShareTokenService {
	return auth.NewShareTokenService(config.ShareTokenConfig{
		Secret:     "test-signing-secret-for-share-links",
		Expiration: expiration,
		Issuer:     "backoffice-test",
	})
}

type shareFixture struct {
	budgets     *testutil.MemoryTenantRepository[billing.Budget]
	tokens      *auth.ShareTokenService
	revocations *auth.InMemoryRevocationStore
}

func newShareFixture() *shareFixture {
	return &shareFixture{
		budgets:     &testutil.MemoryTenantRepository[billing.Budget]{},
		tokens:      newShareTokens(time.Hour),
		revocations: auth.NewInMemoryRevocationStore(),
	}
}

func (f *shareFixture) service() *BudgetShareService {
	return NewBudgetShareService(f.budgets, f.tokens, f.revocations, zap.NewNop())
}

func (f *shareFixture) seedBudget(tenantID int64, status billing.BudgetStatus) *billing.Budget {
	b := billing.NewBudget(tenantID, 1, "Quote", "quote")
	b.Status = status
	return f.budgets.Seed(b)
}

func TestBudgetShareService_Share(t *testing.T) {
	t.Run("issues a resolvable token", func(t *testing.T) {
		f := newShareFixture()
		budget := f.seedBudget(1, billing.BudgetStatusPending)
		service := f.service()

		issued := service.Share(context.Background(), 1, budget.ID)
		require.True(t, issued.IsSuccess(), issued.Message())
		require.NotNil(t, issued.Data())
		assert.NotEmpty(t, issued.Data().Token)
		assert.NotEmpty(t, issued.Data().JTI)

		resolved := service.Resolve(context.Background(), issued.Data().Token)
		require.True(t, resolved.IsSuccess(), resolved.Message())
		assert.Equal(t, budget.ID, resolved.Data().ID)
	})

	t.Run("draft budgets cannot be shared", func(t *testing.T) {
		f := newShareFixture()
		budget := f.seedBudget(1, billing.BudgetStatusDraft)

		result := f.service().Share(context.Background(), 1, budget.ID)

		assert.Equal(t, shared.ErrorKindConflict, result.Kind())
		assert.Equal(t, "draft budgets cannot be shared", result.Message())
	})

	t.Run("another tenant's budget cannot be shared", func(t *testing.T) {
		f := newShareFixture()
		budget := f.seedBudget(2, billing.BudgetStatusPending)

		result := f.service().Share(context.Background(), 1, budget.ID)

		assert.Equal(t, shared.ErrorKindNotFound, result.Kind())
	})
}

func TestBudgetShareService_Resolve(t *testing.T) {
	t.Run("garbage tokens answer not found", func(t *testing.T) {
		f := newShareFixture()

		result := f.service().Resolve(context.Background(), "not-a-token")

		assert.Equal(t, shared.ErrorKindNotFound, result.Kind())
		assert.Equal(t, "budget not found", result.Message())
	})

	t.Run("tokens signed with another secret answer not found", func(t *testing.T) {
		f := newShareFixture()
		budget := f.seedBudget(1, billing.BudgetStatusPending)

		other := auth.NewShareTokenService(config.ShareTokenConfig{
			Secret:     "a-different-signing-secret-entirely",
			Expiration: time.Hour,
			Issuer:     "backoffice-test",
		})
		token, err := other.Generate(1, budget.ID)
		require.NoError(t, err)

		result := f.service().Resolve(context.Background(), token.Token)

		assert.Equal(t, shared.ErrorKindNotFound, result.Kind())
	})

	t.Run("expired tokens answer not found", func(t *testing.T) {
		f := newShareFixture()
		budget := f.seedBudget(1, billing.BudgetStatusPending)
		f.tokens = newShareTokens(-time.Minute)

		token, err := f.tokens.Generate(1, budget.ID)
		require.NoError(t, err)

		result := f.service().Resolve(context.Background(), token.Token)

		assert.Equal(t, shared.ErrorKindNotFound, result.Kind())
	})

	t.Run("a token for a deleted budget answers not found", func(t *testing.T) {
		f := newShareFixture()
		budget := f.seedBudget(1, billing.BudgetStatusPending)
		service := f.service()

		token := service.Share(context.Background(), 1, budget.ID)
		require.True(t, token.IsSuccess())
		f.budgets.Rows = nil

		result := service.Resolve(context.Background(), token.Data().Token)

		assert.Equal(t, shared.ErrorKindNotFound, result.Kind())
	})

	t.Run("a budget past its validity window answers not found", func(t *testing.T) {
		f := newShareFixture()
		budget := f.seedBudget(1, billing.BudgetStatusPending)
		past := time.Now().Add(-time.Hour)
		budget.ValidUntil = &past
		service := f.service()

		token := service.Share(context.Background(), 1, budget.ID)
		require.True(t, token.IsSuccess())

		result := service.Resolve(context.Background(), token.Data().Token)

		assert.Equal(t, shared.ErrorKindNotFound, result.Kind())
		assert.Equal(t, "budget not found", result.Message())
	})
}

func TestBudgetShareService_Revoke(t *testing.T) {
	t.Run("a revoked token stops resolving", func(t *testing.T) {
		f := newShareFixture()
		budget := f.seedBudget(1, billing.BudgetStatusPending)
		service := f.service()

		token := service.Share(context.Background(), 1, budget.ID)
		require.True(t, token.IsSuccess())

		revoked := service.Revoke(context.Background(), token.Data().Token)
		require.True(t, revoked.IsSuccess(), revoked.Message())

		result := service.Resolve(context.Background(), token.Data().Token)
		assert.Equal(t, shared.ErrorKindNotFound, result.Kind())
		assert.Equal(t, "budget not found", result.Message())
	})

	t.Run("revoking garbage answers not found", func(t *testing.T) {
		f := newShareFixture()

		result := f.service().Revoke(context.Background(), "not-a-token")

		assert.Equal(t, shared.ErrorKindNotFound, result.Kind())
	})
}
