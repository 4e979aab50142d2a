package billing

import (
	"context"
	"time"

	"github.com/backoffice/backend/internal/application/crud"
	"github.com/backoffice/backend/internal/domain/billing"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// BudgetShareService issues and resolves external budget share links.
// A share token grants read access to exactly one budget of one tenant;
// an invalid, expired, revoked or cross-tenant token resolves to
// NOT_FOUND so outsiders cannot probe which budgets exist.
type BudgetShareService struct {
	budgets     billing.BudgetRepository
	tokens      *auth.ShareTokenService
	revocations auth.RevocationStore
	logger      *zap.Logger
}

// NewBudgetShareService creates the share link service.
func NewBudgetShareService(
	budgets billing.BudgetRepository,
	tokens *auth.ShareTokenService,
	revocations auth.RevocationStore,
	logger *zap.Logger,
) *BudgetShareService {
	return &BudgetShareService{
		budgets:     budgets,
		tokens:      tokens,
		revocations: revocations,
		logger:      logger,
	}
}

// Share issues a token for the budget after the tenant-qualified lookup
// passes. Draft budgets cannot be shared.
func (s *BudgetShareService) Share(ctx context.Context, tenantID, budgetID int64) shared.Result[*auth.ShareToken] {
	budget, err := s.budgets.FindByIDAndTenant(ctx, tenantID, budgetID)
	if err != nil {
		return crud.Failure[*auth.ShareToken](s.logger, "budget", err, "share")
	}
	if budget.Status == billing.BudgetStatusDraft {
		return shared.Fail[*auth.ShareToken](shared.ErrorKindConflict, "draft budgets cannot be shared")
	}

	token, err := s.tokens.Generate(tenantID, budgetID)
	if err != nil {
		return crud.Failure[*auth.ShareToken](s.logger, "budget", err, "share")
	}
	return shared.OK(token, "budget share link created successfully")
}

// Resolve returns the budget a share token points at. Every failure
// mode answers NOT_FOUND.
func (s *BudgetShareService) Resolve(ctx context.Context, token string) shared.Result[*billing.Budget] {
	tenantID, budgetID, jti, err := s.tokens.Validate(token)
	if err != nil {
		return shared.Fail[*billing.Budget](shared.ErrorKindNotFound, "budget not found")
	}

	revoked, err := s.revocations.IsRevoked(ctx, jti)
	if err != nil {
		return crud.Failure[*billing.Budget](s.logger, "budget", err, "resolve")
	}
	if revoked {
		return shared.Fail[*billing.Budget](shared.ErrorKindNotFound, "budget not found")
	}

	budget, err := s.budgets.FindByIDAndTenant(ctx, tenantID, budgetID)
	if err != nil {
		return crud.Failure[*billing.Budget](s.logger, "budget", err, "resolve")
	}
	if budget.IsExpired(time.Now()) {
		return shared.Fail[*billing.Budget](shared.ErrorKindNotFound, "budget not found")
	}
	return shared.OK(budget, "budget retrieved successfully")
}

// Revoke invalidates an issued share token for its remaining lifetime.
func (s *BudgetShareService) Revoke(ctx context.Context, token string) shared.Result[*struct{}] {
	_, _, jti, err := s.tokens.Validate(token)
	if err != nil {
		return shared.Fail[*struct{}](shared.ErrorKindNotFound, "budget not found")
	}
	if err := s.revocations.Revoke(ctx, jti, s.tokens.Expiration()); err != nil {
		return crud.Failure[*struct{}](s.logger, "budget", err, "revoke")
	}
	return shared.OK[*struct{}](nil, "budget share link revoked successfully")
}
