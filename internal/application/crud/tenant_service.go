package crud

import (
	"context"
	"errors"
	"fmt"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/domain/shared/validation"
	"go.uber.org/zap"
)

// TenantService orchestrates the lifecycle of one tenant-owned entity
// type. Every operation takes the tenant id explicitly, passes through
// a tenant-qualified lookup before touching an existing row, and wraps
// its outcome in a Result. An id owned by another tenant is
// indistinguishable from a missing id.
type TenantService[T any] struct {
	repo     shared.TenantRepository[T]
	strategy Strategy[T]
	logger   *zap.Logger
	readOnly bool
}

// NewTenantService creates the orchestrator for one entity type.
func NewTenantService[T any](repo shared.TenantRepository[T], strategy Strategy[T], logger *zap.Logger) *TenantService[T] {
	return &TenantService[T]{repo: repo, strategy: strategy, logger: logger}
}

// NewReadOnlyTenantService creates an orchestrator whose mutating
// operations uniformly return NOT_SUPPORTED, keeping the service
// surface total for lookup-style entities.
func NewReadOnlyTenantService[T any](repo shared.TenantRepository[T], strategy Strategy[T], logger *zap.Logger) *TenantService[T] {
	return &TenantService[T]{repo: repo, strategy: strategy, logger: logger, readOnly: true}
}

// Get returns the entity only when it exists under the given tenant.
func (s *TenantService[T]) Get(ctx context.Context, tenantID, id int64) shared.Result[*T] {
	entity, err := s.repo.FindByIDAndTenant(ctx, tenantID, id)
	if err != nil {
		return failure[*T](s, err, "fetch")
	}
	return shared.OK(entity, fmt.Sprintf("%s retrieved successfully", s.strategy.Label()))
}

// List returns every matching entity for the tenant. No matches is a
// success with an empty slice, never an error.
func (s *TenantService[T]) List(ctx context.Context, tenantID int64, q shared.Query) shared.Result[[]T] {
	items, err := s.repo.FindAllByTenant(ctx, tenantID, q)
	if err != nil {
		return failure[[]T](s, err, "list")
	}
	if items == nil {
		items = []T{}
	}
	return shared.OK(items, fmt.Sprintf("%s list retrieved successfully", s.strategy.Label()))
}

// Paginate returns one page of matching entities for the tenant.
func (s *TenantService[T]) Paginate(ctx context.Context, tenantID int64, page, pageSize int, q shared.Query) shared.Result[shared.Paginated[T]] {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	result, err := s.repo.PaginateByTenant(ctx, tenantID, page, pageSize, q)
	if err != nil {
		return failure[shared.Paginated[T]](s, err, "paginate")
	}
	return shared.OK(result, fmt.Sprintf("%s page retrieved successfully", s.strategy.Label()))
}

// Count returns the number of matching entities. Zero is a success.
func (s *TenantService[T]) Count(ctx context.Context, tenantID int64, q shared.Query) shared.Result[int64] {
	n, err := s.repo.CountByTenant(ctx, tenantID, q)
	if err != nil {
		return failure[int64](s, err, "count")
	}
	return shared.OK(n, fmt.Sprintf("%s count retrieved successfully", s.strategy.Label()))
}

// Exists reports whether any entity matches the criteria.
func (s *TenantService[T]) Exists(ctx context.Context, tenantID int64, q shared.Query) shared.Result[bool] {
	found, err := s.repo.ExistsByTenant(ctx, tenantID, q)
	if err != nil {
		return failure[bool](s, err, "check")
	}
	return shared.OK(found, fmt.Sprintf("%s existence checked successfully", s.strategy.Label()))
}

// FindBy returns the first entity matching a single-field criterion.
// Unlike Get, absence is not an error: the result is a success with a
// nil payload.
func (s *TenantService[T]) FindBy(ctx context.Context, tenantID int64, field string, value any) shared.Result[*T] {
	entity, err := s.repo.FindOneByTenant(ctx, tenantID, shared.Where(field, value))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.OK[*T](nil, fmt.Sprintf("no %s matched the criteria", s.strategy.Label()))
		}
		return failure[*T](s, err, "fetch")
	}
	return shared.OK(entity, fmt.Sprintf("%s retrieved successfully", s.strategy.Label()))
}

// Create validates the payload, builds the entity with the tenant id
// injected from the argument (never from the payload) and persists it.
// Validation failure rejects the whole call before any mutation.
func (s *TenantService[T]) Create(ctx context.Context, tenantID int64, data shared.Fields) shared.Result[*T] {
	if s.readOnly {
		return s.notSupported("create")
	}
	data = Sanitize(data)

	if result, ok := s.validate(ctx, tenantID, data, false, 0); !ok {
		return result
	}

	entity, err := s.strategy.New(data, tenantID)
	if err != nil {
		return failure[*T](s, err, "create")
	}
	if err := s.repo.Save(ctx, entity); err != nil {
		return failure[*T](s, err, "create")
	}
	return shared.OK(entity, fmt.Sprintf("%s created successfully", s.strategy.Label()))
}

// Update looks the entity up under the tenant first, then validates the
// payload with the current record excluded from uniqueness checks, then
// overwrites fields in place and persists. The first failing stage
// short-circuits without invoking the next.
func (s *TenantService[T]) Update(ctx context.Context, tenantID, id int64, data shared.Fields) shared.Result[*T] {
	if s.readOnly {
		return s.notSupported("update")
	}
	data = Sanitize(data)

	entity, err := s.repo.FindByIDAndTenant(ctx, tenantID, id)
	if err != nil {
		return failure[*T](s, err, "update")
	}

	if result, ok := s.validate(ctx, tenantID, data, true, id); !ok {
		return result
	}

	if err := s.strategy.Apply(entity, data); err != nil {
		return failure[*T](s, err, "update")
	}
	if err := s.repo.Save(ctx, entity); err != nil {
		return failure[*T](s, err, "update")
	}
	return shared.OK(entity, fmt.Sprintf("%s updated successfully", s.strategy.Label()))
}

// Delete removes the entity after the tenant-qualified lookup and the
// referential-integrity guard both pass. A guarded entity yields
// CONFLICT and the row is untouched.
func (s *TenantService[T]) Delete(ctx context.Context, tenantID, id int64) shared.Result[*T] {
	if s.readOnly {
		return s.notSupported("delete")
	}

	entity, err := s.repo.FindByIDAndTenant(ctx, tenantID, id)
	if err != nil {
		return failure[*T](s, err, "delete")
	}

	ok, blockedBy, err := s.strategy.CanDelete(ctx, entity)
	if err != nil {
		return failure[*T](s, err, "delete")
	}
	if !ok {
		return shared.Fail[*T](shared.ErrorKindConflict,
			fmt.Sprintf("%s cannot be deleted: it is in use by %s", s.strategy.Label(), blockedBy))
	}

	if err := s.repo.Delete(ctx, entity); err != nil {
		return failure[*T](s, err, "delete")
	}
	return shared.OK[*T](nil, fmt.Sprintf("%s deleted successfully", s.strategy.Label()))
}

// DeleteMany removes the given ids within the tenant and reports the
// number of rows actually removed; ids that did not exist under the
// tenant simply do not count.
func (s *TenantService[T]) DeleteMany(ctx context.Context, tenantID int64, ids []int64) shared.Result[int64] {
	if s.readOnly {
		return shared.Fail[int64](shared.ErrorKindNotSupported,
			fmt.Sprintf("delete is not supported for %s", s.strategy.Label()))
	}
	affected, err := s.repo.DeleteManyByTenant(ctx, tenantID, ids)
	if err != nil {
		return failure[int64](s, err, "delete")
	}
	return shared.OK(affected, fmt.Sprintf("%d %s records deleted", affected, s.strategy.Label()))
}

// UpdateMany applies the same field overwrite to the given ids within
// the tenant and reports the number of rows actually changed.
func (s *TenantService[T]) UpdateMany(ctx context.Context, tenantID int64, ids []int64, data shared.Fields) shared.Result[int64] {
	if s.readOnly {
		return shared.Fail[int64](shared.ErrorKindNotSupported,
			fmt.Sprintf("update is not supported for %s", s.strategy.Label()))
	}
	data = Sanitize(data)
	affected, err := s.repo.UpdateManyByTenant(ctx, tenantID, ids, data)
	if err != nil {
		return failure[int64](s, err, "update")
	}
	return shared.OK(affected, fmt.Sprintf("%d %s records updated", affected, s.strategy.Label()))
}

// validate runs the strategy's rule set. The bool reports whether the
// caller may proceed; when false the returned result carries either the
// aggregated INVALID_DATA outcome or a checker fault.
func (s *TenantService[T]) validate(ctx context.Context, tenantID int64, data shared.Fields, isUpdate bool, excludeID int64) (shared.Result[*T], bool) {
	violations, err := validation.Evaluate(ctx, data, &tenantID, excludeID, s.strategy.Rules(isUpdate))
	if err != nil {
		return failure[*T](s, err, "validate"), false
	}
	if !violations.Empty() {
		return shared.FailWithDetails[*T](shared.ErrorKindInvalidData, violations.Message(), violations.Details()), false
	}
	return shared.Result[*T]{}, true
}

func (s *TenantService[T]) notSupported(op string) shared.Result[*T] {
	return shared.Fail[*T](shared.ErrorKindNotSupported,
		fmt.Sprintf("%s is not supported for %s", op, s.strategy.Label()))
}

// failure translates a repository or strategy error into a Result.
func failure[R any, T any](s *TenantService[T], err error, op string) shared.Result[R] {
	return Failure[R](s.logger, s.strategy.Label(), err, op)
}

// Failure translates a repository or strategy error into a Result.
// Expected conditions keep a precise kind; anything else is logged and
// collapsed into a generic ERROR so storage internals never leak.
// Composite services use it directly so their messages match the
// orchestrators'.
func Failure[R any](logger *zap.Logger, label string, err error, op string) shared.Result[R] {
	kind := shared.KindForError(err)
	switch kind {
	case shared.ErrorKindNotFound:
		return shared.Fail[R](kind, fmt.Sprintf("%s not found", label))
	case shared.ErrorKindConflict:
		return shared.Fail[R](kind, fmt.Sprintf("%s conflicts with existing data", label))
	case shared.ErrorKindInvalidData:
		return shared.Fail[R](kind, err.Error())
	case shared.ErrorKindNotSupported:
		return shared.Fail[R](kind, fmt.Sprintf("operation not supported for %s", label))
	default:
		logger.Error("unexpected storage failure",
			zap.String("entity", label),
			zap.String("operation", op),
			zap.Error(err))
		return shared.Fail[R](shared.ErrorKindError, fmt.Sprintf("failed to %s %s", op, label))
	}
}
