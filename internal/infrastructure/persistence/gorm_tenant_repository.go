package persistence

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/backoffice/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// identifierPattern guards column names that end up in SQL fragments.
// Criteria values always go through placeholders; the names themselves
// cannot, so anything that is not a plain identifier is rejected.
var identifierPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// GormTenantRepository is the generic GORM implementation of the
// tenant-scoped repository contract. Every query it builds carries a
// tenant_id predicate, so a row under a different tenant is reported
// exactly like a missing row. Per-entity repositories embed it and add
// whatever extra lookups the entity needs.
type GormTenantRepository[T any] struct {
	db       *gorm.DB
	preloads []string
}

// NewGormTenantRepository creates a repository for one entity type.
// preloads lists associations loaded eagerly on single-entity reads,
// e.g. invoice items or customer contacts.
func NewGormTenantRepository[T any](db *gorm.DB, preloads ...string) *GormTenantRepository[T] {
	return &GormTenantRepository[T]{db: db, preloads: preloads}
}

// WithTx returns a copy of the repository bound to the given
// transaction. Used by transaction scopes so composite operations share
// one atomic unit of work.
func (r *GormTenantRepository[T]) WithTx(tx *gorm.DB) *GormTenantRepository[T] {
	return &GormTenantRepository[T]{db: tx, preloads: r.preloads}
}

// FindByIDAndTenant returns the entity only when it exists and is owned
// by the tenant; a mismatch is indistinguishable from not-found.
func (r *GormTenantRepository[T]) FindByIDAndTenant(ctx context.Context, tenantID, id int64) (*T, error) {
	var entity T
	query := r.withPreloads(r.db.WithContext(ctx)).
		Where("tenant_id = ? AND id = ?", tenantID, id)
	if err := query.First(&entity).Error; err != nil {
		return nil, translateError(err)
	}
	return &entity, nil
}

// FindAllByTenant returns every entity of the tenant matching the query.
func (r *GormTenantRepository[T]) FindAllByTenant(ctx context.Context, tenantID int64, q shared.Query) ([]T, error) {
	var entities []T
	query := r.db.WithContext(ctx).Model(new(T)).Where("tenant_id = ?", tenantID)
	query, err := applyQuery(query, q, true)
	if err != nil {
		return nil, err
	}
	if err := query.Find(&entities).Error; err != nil {
		return nil, translateError(err)
	}
	return entities, nil
}

// FindOneByTenant returns the first entity of the tenant matching the query.
func (r *GormTenantRepository[T]) FindOneByTenant(ctx context.Context, tenantID int64, q shared.Query) (*T, error) {
	var entity T
	query := r.withPreloads(r.db.WithContext(ctx)).Where("tenant_id = ?", tenantID)
	query, err := applyQuery(query, q, false)
	if err != nil {
		return nil, err
	}
	if err := query.First(&entity).Error; err != nil {
		return nil, translateError(err)
	}
	return &entity, nil
}

// PaginateByTenant returns one page plus the total count for the tenant.
func (r *GormTenantRepository[T]) PaginateByTenant(ctx context.Context, tenantID int64, page, pageSize int, q shared.Query) (shared.Paginated[T], error) {
	base := r.db.WithContext(ctx).Model(new(T)).Where("tenant_id = ?", tenantID)
	base, err := applyQuery(base, shared.Query{Criteria: q.Criteria}, false)
	if err != nil {
		return shared.Paginated[T]{}, err
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return shared.Paginated[T]{}, translateError(err)
	}

	var items []T
	paged, err := applyQuery(base, shared.Query{OrderBy: q.OrderBy}, true)
	if err != nil {
		return shared.Paginated[T]{}, err
	}
	offset := (page - 1) * pageSize
	if err := paged.Offset(offset).Limit(pageSize).Find(&items).Error; err != nil {
		return shared.Paginated[T]{}, translateError(err)
	}
	return shared.NewPaginated(items, total, page, pageSize), nil
}

// CountByTenant counts the tenant's entities matching the query.
func (r *GormTenantRepository[T]) CountByTenant(ctx context.Context, tenantID int64, q shared.Query) (int64, error) {
	var total int64
	query := r.db.WithContext(ctx).Model(new(T)).Where("tenant_id = ?", tenantID)
	query, err := applyQuery(query, shared.Query{Criteria: q.Criteria}, false)
	if err != nil {
		return 0, err
	}
	if err := query.Count(&total).Error; err != nil {
		return 0, translateError(err)
	}
	return total, nil
}

// ExistsByTenant reports whether any entity of the tenant matches.
func (r *GormTenantRepository[T]) ExistsByTenant(ctx context.Context, tenantID int64, q shared.Query) (bool, error) {
	total, err := r.CountByTenant(ctx, tenantID, q)
	if err != nil {
		return false, err
	}
	return total > 0, nil
}

// Save persists the entity, inserting when the id is unassigned.
func (r *GormTenantRepository[T]) Save(ctx context.Context, entity *T) error {
	return translateError(r.db.WithContext(ctx).Save(entity).Error)
}

// Delete removes the entity row.
func (r *GormTenantRepository[T]) Delete(ctx context.Context, entity *T) error {
	return translateError(r.db.WithContext(ctx).Delete(entity).Error)
}

// DeleteManyByTenant removes the given ids owned by the tenant and
// reports how many rows actually went away.
func (r *GormTenantRepository[T]) DeleteManyByTenant(ctx context.Context, tenantID int64, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Delete(new(T))
	if result.Error != nil {
		return 0, translateError(result.Error)
	}
	return result.RowsAffected, nil
}

// UpdateManyByTenant overwrites the given fields on the ids owned by
// the tenant and reports how many rows changed.
func (r *GormTenantRepository[T]) UpdateManyByTenant(ctx context.Context, tenantID int64, ids []int64, fields shared.Fields) (int64, error) {
	if len(ids) == 0 || len(fields) == 0 {
		return 0, nil
	}
	updates := make(map[string]any, len(fields))
	for field, value := range fields {
		if !identifierPattern.MatchString(field) {
			return 0, fmt.Errorf("%w: invalid field name %q", shared.ErrInvalidInput, field)
		}
		updates[field] = value
	}
	result := r.db.WithContext(ctx).Model(new(T)).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Updates(updates)
	if result.Error != nil {
		return 0, translateError(result.Error)
	}
	return result.RowsAffected, nil
}

// TenantIDs returns the distinct tenant ids that own at least one row
// of the entity. Background sweeps use it to walk every tenant.
func (r *GormTenantRepository[T]) TenantIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(new(T)).
		Distinct("tenant_id").
		Order("tenant_id").
		Pluck("tenant_id", &ids).Error
	if err != nil {
		return nil, translateError(err)
	}
	return ids, nil
}

// FieldExists implements validation.Checker for uniqueness and reference
// rules. A nil tenantID makes the check global.
func (r *GormTenantRepository[T]) FieldExists(ctx context.Context, tenantID *int64, field string, value any, excludeID int64) (bool, error) {
	if !identifierPattern.MatchString(field) {
		return false, fmt.Errorf("%w: invalid field name %q", shared.ErrInvalidInput, field)
	}
	query := r.db.WithContext(ctx).Model(new(T)).Where(field+" = ?", value)
	if tenantID != nil {
		query = query.Where("tenant_id = ?", *tenantID)
	}
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return false, translateError(err)
	}
	return total > 0, nil
}

// SlugExists implements slug.Checker.
func (r *GormTenantRepository[T]) SlugExists(ctx context.Context, tenantID *int64, slugValue string, excludeID int64) (bool, error) {
	return r.FieldExists(ctx, tenantID, "slug", slugValue, excludeID)
}

func (r *GormTenantRepository[T]) withPreloads(query *gorm.DB) *gorm.DB {
	for _, preload := range r.preloads {
		query = query.Preload(preload)
	}
	return query
}

// applyQuery adds criteria, ordering, limit and offset to a GORM query.
// Criteria are ANDed equality predicates; a nil value means IS NULL.
func applyQuery(query *gorm.DB, q shared.Query, withRange bool) (*gorm.DB, error) {
	for field, value := range q.Criteria {
		if !identifierPattern.MatchString(field) {
			return nil, fmt.Errorf("%w: invalid field name %q", shared.ErrInvalidInput, field)
		}
		if value == nil {
			query = query.Where(field + " IS NULL")
		} else {
			query = query.Where(field+" = ?", value)
		}
	}
	if q.OrderBy != nil {
		if !identifierPattern.MatchString(q.OrderBy.Field) {
			return nil, fmt.Errorf("%w: invalid order field %q", shared.ErrInvalidInput, q.OrderBy.Field)
		}
		direction := "ASC"
		if strings.EqualFold(string(q.OrderBy.Direction), "desc") {
			direction = "DESC"
		}
		query = query.Order(q.OrderBy.Field + " " + direction)
	}
	if withRange {
		if q.Limit > 0 {
			query = query.Limit(q.Limit)
		}
		if q.Offset > 0 {
			query = query.Offset(q.Offset)
		}
	}
	return query, nil
}
