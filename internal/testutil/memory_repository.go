// Package testutil provides in-memory repository doubles for service
// tests. The repositories satisfy the shared persistence contracts plus
// the validation and slug checker interfaces by scanning their rows, so
// uniqueness and reference checks reflect the seeded data instead of
// canned answers.
package testutil

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/backoffice/backend/internal/domain/shared"
)

// MemoryTenantRepository is an in-memory shared.TenantRepository.
// FailWith, when set, makes every operation return that error.
type MemoryTenantRepository[T any] struct {
	Rows     []*T
	FailWith error
	nextID   int64
}

// Seed stores a row directly, assigning the next id when unset.
func (r *MemoryTenantRepository[T]) Seed(entity *T) *T {
	if entityID(entity) == 0 {
		r.nextID++
		setEntityID(entity, r.nextID)
	} else if id := entityID(entity); id > r.nextID {
		r.nextID = id
	}
	r.Rows = append(r.Rows, entity)
	return entity
}

func (r *MemoryTenantRepository[T]) FindByIDAndTenant(_ context.Context, tenantID, id int64) (*T, error) {
	if r.FailWith != nil {
		return nil, r.FailWith
	}
	for _, row := range r.Rows {
		if entityID(row) == id && entityTenant(row) == tenantID {
			return row, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *MemoryTenantRepository[T]) FindAllByTenant(_ context.Context, tenantID int64, q shared.Query) ([]T, error) {
	if r.FailWith != nil {
		return nil, r.FailWith
	}
	var out []T
	for _, row := range r.Rows {
		if entityTenant(row) == tenantID && matches(row, q.Criteria) {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (r *MemoryTenantRepository[T]) FindOneByTenant(ctx context.Context, tenantID int64, q shared.Query) (*T, error) {
	if r.FailWith != nil {
		return nil, r.FailWith
	}
	for _, row := range r.Rows {
		if entityTenant(row) == tenantID && matches(row, q.Criteria) {
			return row, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *MemoryTenantRepository[T]) PaginateByTenant(ctx context.Context, tenantID int64, page, pageSize int, q shared.Query) (shared.Paginated[T], error) {
	items, err := r.FindAllByTenant(ctx, tenantID, q)
	if err != nil {
		return shared.Paginated[T]{}, err
	}
	total := int64(len(items))
	start := (page - 1) * pageSize
	if start > len(items) {
		start = len(items)
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return shared.NewPaginated(items[start:end], total, page, pageSize), nil
}

func (r *MemoryTenantRepository[T]) CountByTenant(ctx context.Context, tenantID int64, q shared.Query) (int64, error) {
	items, err := r.FindAllByTenant(ctx, tenantID, q)
	return int64(len(items)), err
}

func (r *MemoryTenantRepository[T]) ExistsByTenant(ctx context.Context, tenantID int64, q shared.Query) (bool, error) {
	n, err := r.CountByTenant(ctx, tenantID, q)
	return n > 0, err
}

func (r *MemoryTenantRepository[T]) Save(_ context.Context, entity *T) error {
	if r.FailWith != nil {
		return r.FailWith
	}
	if entityID(entity) == 0 {
		r.nextID++
		setEntityID(entity, r.nextID)
		r.Rows = append(r.Rows, entity)
		return nil
	}
	for i, row := range r.Rows {
		if entityID(row) == entityID(entity) {
			r.Rows[i] = entity
			return nil
		}
	}
	r.Rows = append(r.Rows, entity)
	return nil
}

func (r *MemoryTenantRepository[T]) Delete(_ context.Context, entity *T) error {
	if r.FailWith != nil {
		return r.FailWith
	}
	for i, row := range r.Rows {
		if entityID(row) == entityID(entity) {
			r.Rows = append(r.Rows[:i], r.Rows[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *MemoryTenantRepository[T]) DeleteManyByTenant(_ context.Context, tenantID int64, ids []int64) (int64, error) {
	if r.FailWith != nil {
		return 0, r.FailWith
	}
	wanted := make(map[int64]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	var kept []*T
	var affected int64
	for _, row := range r.Rows {
		if entityTenant(row) == tenantID && wanted[entityID(row)] {
			affected++
			continue
		}
		kept = append(kept, row)
	}
	r.Rows = kept
	return affected, nil
}

func (r *MemoryTenantRepository[T]) UpdateManyByTenant(_ context.Context, tenantID int64, ids []int64, fields shared.Fields) (int64, error) {
	if r.FailWith != nil {
		return 0, r.FailWith
	}
	wanted := make(map[int64]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	var affected int64
	for _, row := range r.Rows {
		if entityTenant(row) == tenantID && wanted[entityID(row)] {
			for field, value := range fields {
				setField(row, field, value)
			}
			affected++
		}
	}
	return affected, nil
}

// TenantIDs returns the distinct tenant ids present in the rows,
// sorted ascending.
func (r *MemoryTenantRepository[T]) TenantIDs(_ context.Context) ([]int64, error) {
	if r.FailWith != nil {
		return nil, r.FailWith
	}
	seen := make(map[int64]bool)
	var ids []int64
	for _, row := range r.Rows {
		id := entityTenant(row)
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// FieldExists scans the rows, satisfying validation.Checker.
func (r *MemoryTenantRepository[T]) FieldExists(_ context.Context, tenantID *int64, field string, value any, excludeID int64) (bool, error) {
	if r.FailWith != nil {
		return false, r.FailWith
	}
	for _, row := range r.Rows {
		if tenantID != nil && entityTenant(row) != *tenantID {
			continue
		}
		if excludeID > 0 && entityID(row) == excludeID {
			continue
		}
		if matches(row, map[string]any{field: value}) {
			return true, nil
		}
	}
	return false, nil
}

// SlugExists scans the rows, satisfying slug.Checker.
func (r *MemoryTenantRepository[T]) SlugExists(ctx context.Context, tenantID *int64, slugValue string, excludeID int64) (bool, error) {
	return r.FieldExists(ctx, tenantID, "slug", slugValue, excludeID)
}

// MemoryGlobalRepository is an in-memory shared.GlobalRepository.
type MemoryGlobalRepository[T any] struct {
	Rows     []*T
	FailWith error
	nextID   int64
}

// Seed stores a row directly, assigning the next id when unset.
func (r *MemoryGlobalRepository[T]) Seed(entity *T) *T {
	if entityID(entity) == 0 {
		r.nextID++
		setEntityID(entity, r.nextID)
	} else if id := entityID(entity); id > r.nextID {
		r.nextID = id
	}
	r.Rows = append(r.Rows, entity)
	return entity
}

func (r *MemoryGlobalRepository[T]) FindByID(_ context.Context, id int64) (*T, error) {
	if r.FailWith != nil {
		return nil, r.FailWith
	}
	for _, row := range r.Rows {
		if entityID(row) == id {
			return row, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *MemoryGlobalRepository[T]) FindAll(_ context.Context, q shared.Query) ([]T, error) {
	if r.FailWith != nil {
		return nil, r.FailWith
	}
	var out []T
	for _, row := range r.Rows {
		if matches(row, q.Criteria) {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (r *MemoryGlobalRepository[T]) FindOne(_ context.Context, q shared.Query) (*T, error) {
	if r.FailWith != nil {
		return nil, r.FailWith
	}
	for _, row := range r.Rows {
		if matches(row, q.Criteria) {
			return row, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *MemoryGlobalRepository[T]) Paginate(ctx context.Context, page, pageSize int, q shared.Query) (shared.Paginated[T], error) {
	items, err := r.FindAll(ctx, q)
	if err != nil {
		return shared.Paginated[T]{}, err
	}
	return shared.NewPaginated(items, int64(len(items)), page, pageSize), nil
}

func (r *MemoryGlobalRepository[T]) Count(ctx context.Context, q shared.Query) (int64, error) {
	items, err := r.FindAll(ctx, q)
	return int64(len(items)), err
}

func (r *MemoryGlobalRepository[T]) Exists(ctx context.Context, q shared.Query) (bool, error) {
	n, err := r.Count(ctx, q)
	return n > 0, err
}

func (r *MemoryGlobalRepository[T]) Save(_ context.Context, entity *T) error {
	if r.FailWith != nil {
		return r.FailWith
	}
	if entityID(entity) == 0 {
		r.nextID++
		setEntityID(entity, r.nextID)
		r.Rows = append(r.Rows, entity)
		return nil
	}
	for i, row := range r.Rows {
		if entityID(row) == entityID(entity) {
			r.Rows[i] = entity
			return nil
		}
	}
	r.Rows = append(r.Rows, entity)
	return nil
}

func (r *MemoryGlobalRepository[T]) Delete(_ context.Context, entity *T) error {
	if r.FailWith != nil {
		return r.FailWith
	}
	for i, row := range r.Rows {
		if entityID(row) == entityID(entity) {
			r.Rows = append(r.Rows[:i], r.Rows[i+1:]...)
			return nil
		}
	}
	return nil
}

// FieldExists scans the rows, satisfying validation.Checker. tenantID
// is ignored: global entities have no tenant dimension.
func (r *MemoryGlobalRepository[T]) FieldExists(_ context.Context, _ *int64, field string, value any, excludeID int64) (bool, error) {
	if r.FailWith != nil {
		return false, r.FailWith
	}
	for _, row := range r.Rows {
		if excludeID > 0 && entityID(row) == excludeID {
			continue
		}
		if matches(row, map[string]any{field: value}) {
			return true, nil
		}
	}
	return false, nil
}

// SlugExists scans the rows, satisfying slug.Checker.
func (r *MemoryGlobalRepository[T]) SlugExists(ctx context.Context, tenantID *int64, slugValue string, excludeID int64) (bool, error) {
	return r.FieldExists(ctx, tenantID, "slug", slugValue, excludeID)
}

func entityID(entity any) int64 {
	return reflect.ValueOf(entity).Elem().FieldByName("ID").Int()
}

func setEntityID(entity any, id int64) {
	reflect.ValueOf(entity).Elem().FieldByName("ID").SetInt(id)
}

func entityTenant(entity any) int64 {
	fv := reflect.ValueOf(entity).Elem().FieldByName("TenantID")
	if !fv.IsValid() {
		return 0
	}
	return fv.Int()
}

// matches compares column-style criteria against struct fields,
// dereferencing pointer columns and comparing scalars loosely the way
// a SQL equality would.
func matches(entity any, criteria map[string]any) bool {
	for field, want := range criteria {
		fv := reflect.ValueOf(entity).Elem().FieldByName(fieldName(field))
		if !fv.IsValid() {
			return false
		}
		if fv.Kind() == reflect.Ptr {
			if fv.IsNil() {
				return false
			}
			fv = fv.Elem()
		}
		if !looselyEqual(fv, want) {
			return false
		}
	}
	return true
}

func looselyEqual(fv reflect.Value, want any) bool {
	switch fv.Kind() {
	case reflect.String:
		return fv.String() == fmt.Sprint(want)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		wv := reflect.ValueOf(want)
		switch wv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return fv.Int() == wv.Int()
		case reflect.Float32, reflect.Float64:
			return fv.Int() == int64(wv.Float())
		}
		return false
	case reflect.Bool:
		wv, ok := want.(bool)
		return ok && fv.Bool() == wv
	default:
		return reflect.DeepEqual(fv.Interface(), want)
	}
}

func setField(entity any, field string, value any) {
	fv := reflect.ValueOf(entity).Elem().FieldByName(fieldName(field))
	if !fv.IsValid() || !fv.CanSet() {
		return
	}
	switch fv.Kind() {
	case reflect.String:
		fv.SetString(fmt.Sprint(value))
	case reflect.Bool:
		if b, ok := value.(bool); ok {
			fv.SetBool(b)
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		wv := reflect.ValueOf(value)
		switch wv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			fv.SetInt(wv.Int())
		case reflect.Float32, reflect.Float64:
			fv.SetInt(int64(wv.Float()))
		}
	}
}

// fieldName converts a snake_case column name to the exported struct
// field name, keeping id segments fully capitalized.
func fieldName(column string) string {
	parts := strings.Split(column, "_")
	for i, part := range parts {
		if part == "id" {
			parts[i] = "ID"
			continue
		}
		if part != "" {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, "")
}
