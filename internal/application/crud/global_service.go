package crud

import (
	"context"
	"errors"
	"fmt"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/domain/shared/validation"
	"go.uber.org/zap"
)

// GlobalService orchestrates the lifecycle of an entity with no tenant
// dimension: shared lookup and reference data such as roles and status
// enumerations. Orchestration mirrors TenantService but is keyed by id
// alone and uniqueness rules are global.
type GlobalService[T any] struct {
	repo     shared.GlobalRepository[T]
	strategy Strategy[T]
	logger   *zap.Logger
	readOnly bool
}

// NewGlobalService creates the orchestrator for one global entity type.
func NewGlobalService[T any](repo shared.GlobalRepository[T], strategy Strategy[T], logger *zap.Logger) *GlobalService[T] {
	return &GlobalService[T]{repo: repo, strategy: strategy, logger: logger}
}

// NewReadOnlyGlobalService creates an orchestrator for pure lookup data:
// reads work, every mutating operation returns NOT_SUPPORTED.
func NewReadOnlyGlobalService[T any](repo shared.GlobalRepository[T], strategy Strategy[T], logger *zap.Logger) *GlobalService[T] {
	return &GlobalService[T]{repo: repo, strategy: strategy, logger: logger, readOnly: true}
}

// Get returns the entity by id.
func (s *GlobalService[T]) Get(ctx context.Context, id int64) shared.Result[*T] {
	entity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return globalFailure[*T](s, err, "fetch")
	}
	return shared.OK(entity, fmt.Sprintf("%s retrieved successfully", s.strategy.Label()))
}

// List returns every matching entity. No matches is a success with an
// empty slice.
func (s *GlobalService[T]) List(ctx context.Context, q shared.Query) shared.Result[[]T] {
	items, err := s.repo.FindAll(ctx, q)
	if err != nil {
		return globalFailure[[]T](s, err, "list")
	}
	if items == nil {
		items = []T{}
	}
	return shared.OK(items, fmt.Sprintf("%s list retrieved successfully", s.strategy.Label()))
}

// Paginate returns one page of matching entities.
func (s *GlobalService[T]) Paginate(ctx context.Context, page, pageSize int, q shared.Query) shared.Result[shared.Paginated[T]] {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	result, err := s.repo.Paginate(ctx, page, pageSize, q)
	if err != nil {
		return globalFailure[shared.Paginated[T]](s, err, "paginate")
	}
	return shared.OK(result, fmt.Sprintf("%s page retrieved successfully", s.strategy.Label()))
}

// Count returns the number of matching entities.
func (s *GlobalService[T]) Count(ctx context.Context, q shared.Query) shared.Result[int64] {
	n, err := s.repo.Count(ctx, q)
	if err != nil {
		return globalFailure[int64](s, err, "count")
	}
	return shared.OK(n, fmt.Sprintf("%s count retrieved successfully", s.strategy.Label()))
}

// FindBy returns the first entity matching a single-field criterion;
// absence is a success with a nil payload.
func (s *GlobalService[T]) FindBy(ctx context.Context, field string, value any) shared.Result[*T] {
	entity, err := s.repo.FindOne(ctx, shared.Where(field, value))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.OK[*T](nil, fmt.Sprintf("no %s matched the criteria", s.strategy.Label()))
		}
		return globalFailure[*T](s, err, "fetch")
	}
	return shared.OK(entity, fmt.Sprintf("%s retrieved successfully", s.strategy.Label()))
}

// Create validates the payload with global uniqueness and persists a
// new entity.
func (s *GlobalService[T]) Create(ctx context.Context, data shared.Fields) shared.Result[*T] {
	if s.readOnly {
		return s.notSupported("create")
	}
	data = Sanitize(data)

	if result, ok := s.validate(ctx, data, false, 0); !ok {
		return result
	}

	entity, err := s.strategy.New(data, 0)
	if err != nil {
		return globalFailure[*T](s, err, "create")
	}
	if err := s.repo.Save(ctx, entity); err != nil {
		return globalFailure[*T](s, err, "create")
	}
	return shared.OK(entity, fmt.Sprintf("%s created successfully", s.strategy.Label()))
}

// Update looks the entity up first, then validates with the current
// record excluded from uniqueness, then applies and persists.
func (s *GlobalService[T]) Update(ctx context.Context, id int64, data shared.Fields) shared.Result[*T] {
	if s.readOnly {
		return s.notSupported("update")
	}
	data = Sanitize(data)

	entity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return globalFailure[*T](s, err, "update")
	}

	if result, ok := s.validate(ctx, data, true, id); !ok {
		return result
	}

	if err := s.strategy.Apply(entity, data); err != nil {
		return globalFailure[*T](s, err, "update")
	}
	if err := s.repo.Save(ctx, entity); err != nil {
		return globalFailure[*T](s, err, "update")
	}
	return shared.OK(entity, fmt.Sprintf("%s updated successfully", s.strategy.Label()))
}

// Delete removes the entity after the delete guard passes.
func (s *GlobalService[T]) Delete(ctx context.Context, id int64) shared.Result[*T] {
	if s.readOnly {
		return s.notSupported("delete")
	}

	entity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return globalFailure[*T](s, err, "delete")
	}

	ok, blockedBy, err := s.strategy.CanDelete(ctx, entity)
	if err != nil {
		return globalFailure[*T](s, err, "delete")
	}
	if !ok {
		return shared.Fail[*T](shared.ErrorKindConflict,
			fmt.Sprintf("%s cannot be deleted: it is in use by %s", s.strategy.Label(), blockedBy))
	}

	if err := s.repo.Delete(ctx, entity); err != nil {
		return globalFailure[*T](s, err, "delete")
	}
	return shared.OK[*T](nil, fmt.Sprintf("%s deleted successfully", s.strategy.Label()))
}

func (s *GlobalService[T]) validate(ctx context.Context, data shared.Fields, isUpdate bool, excludeID int64) (shared.Result[*T], bool) {
	violations, err := validation.Evaluate(ctx, data, nil, excludeID, s.strategy.Rules(isUpdate))
	if err != nil {
		return globalFailure[*T](s, err, "validate"), false
	}
	if !violations.Empty() {
		return shared.FailWithDetails[*T](shared.ErrorKindInvalidData, violations.Message(), violations.Details()), false
	}
	return shared.Result[*T]{}, true
}

func (s *GlobalService[T]) notSupported(op string) shared.Result[*T] {
	return shared.Fail[*T](shared.ErrorKindNotSupported,
		fmt.Sprintf("%s is not supported for %s", op, s.strategy.Label()))
}

func globalFailure[R any, T any](s *GlobalService[T], err error, op string) shared.Result[R] {
	return Failure[R](s.logger, s.strategy.Label(), err, op)
}
