package persistence

import (
	"context"
	"fmt"

	"github.com/backoffice/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormGlobalRepository serves entities that are not tenant-scoped,
// such as roles and status lookup tables.
type GormGlobalRepository[T any] struct {
	db       *gorm.DB
	preloads []string
}

func NewGormGlobalRepository[T any](db *gorm.DB, preloads ...string) *GormGlobalRepository[T] {
	return &GormGlobalRepository[T]{db: db, preloads: preloads}
}

func (r *GormGlobalRepository[T]) WithTx(tx *gorm.DB) *GormGlobalRepository[T] {
	return &GormGlobalRepository[T]{db: tx, preloads: r.preloads}
}

func (r *GormGlobalRepository[T]) FindByID(ctx context.Context, id int64) (*T, error) {
	var entity T
	query := r.withPreloads(r.db.WithContext(ctx))
	if err := query.First(&entity, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &entity, nil
}

func (r *GormGlobalRepository[T]) FindAll(ctx context.Context, q shared.Query) ([]T, error) {
	var entities []T
	query, err := applyQuery(r.db.WithContext(ctx).Model(new(T)), q, true)
	if err != nil {
		return nil, err
	}
	if err := query.Find(&entities).Error; err != nil {
		return nil, translateError(err)
	}
	return entities, nil
}

func (r *GormGlobalRepository[T]) FindOne(ctx context.Context, q shared.Query) (*T, error) {
	var entity T
	query, err := applyQuery(r.withPreloads(r.db.WithContext(ctx)), q, false)
	if err != nil {
		return nil, err
	}
	if err := query.First(&entity).Error; err != nil {
		return nil, translateError(err)
	}
	return &entity, nil
}

func (r *GormGlobalRepository[T]) Paginate(ctx context.Context, page, pageSize int, q shared.Query) (shared.Paginated[T], error) {
	base, err := applyQuery(r.db.WithContext(ctx).Model(new(T)), shared.Query{Criteria: q.Criteria}, false)
	if err != nil {
		return shared.Paginated[T]{}, err
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return shared.Paginated[T]{}, translateError(err)
	}

	var results []T
	paged, err := applyQuery(base, shared.Query{OrderBy: q.OrderBy}, true)
	if err != nil {
		return shared.Paginated[T]{}, err
	}
	offset := (page - 1) * pageSize
	if err := paged.Offset(offset).Limit(pageSize).Find(&results).Error; err != nil {
		return shared.Paginated[T]{}, translateError(err)
	}
	return shared.NewPaginated(results, total, page, pageSize), nil
}

func (r *GormGlobalRepository[T]) Count(ctx context.Context, q shared.Query) (int64, error) {
	query, err := applyQuery(r.db.WithContext(ctx).Model(new(T)), shared.Query{Criteria: q.Criteria}, false)
	if err != nil {
		return 0, err
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, translateError(err)
	}
	return total, nil
}

func (r *GormGlobalRepository[T]) Exists(ctx context.Context, q shared.Query) (bool, error) {
	total, err := r.Count(ctx, q)
	if err != nil {
		return false, err
	}
	return total > 0, nil
}

func (r *GormGlobalRepository[T]) Save(ctx context.Context, entity *T) error {
	return translateError(r.db.WithContext(ctx).Save(entity).Error)
}

func (r *GormGlobalRepository[T]) Delete(ctx context.Context, entity *T) error {
	return translateError(r.db.WithContext(ctx).Delete(entity).Error)
}

// FieldExists implements validation.Checker. The tenantID is ignored
// because the entity is not tenant-scoped.
func (r *GormGlobalRepository[T]) FieldExists(ctx context.Context, tenantID *int64, field string, value any, excludeID int64) (bool, error) {
	if !identifierPattern.MatchString(field) {
		return false, fmt.Errorf("%w: invalid field name %q", shared.ErrInvalidInput, field)
	}
	query := r.db.WithContext(ctx).Model(new(T)).Where(field+" = ?", value)
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
func (r *GormGlobalRepository[T]) SlugExists(ctx context.Context, tenantID *int64, slugValue string, excludeID int64) (bool, error) {
	return r.FieldExists(ctx, tenantID, "slug", slugValue, excludeID)
}

func (r *GormGlobalRepository[T]) withPreloads(query *gorm.DB) *gorm.DB {
	for _, preload := range r.preloads {
		query = query.Preload(preload)
	}
	return query
}
