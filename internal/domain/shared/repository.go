package shared

import (
	"context"
	"strconv"

	"github.com/shopspring/decimal"
)

// Fields is a raw field map carrying a create or update payload before
// it has been validated and applied to an entity.
type Fields map[string]any

// String returns the named field as a string, with "" for absent or
// non-string values.
func (f Fields) String(key string) string {
	if v, ok := f[key].(string); ok {
		return v
	}
	return ""
}

// Has reports whether the field is present and non-nil.
func (f Fields) Has(key string) bool {
	v, ok := f[key]
	return ok && v != nil
}

// Int64 returns the named field as an int64, accepting the integer and
// float representations a decoded payload may carry.
func (f Fields) Int64(key string) (int64, bool) {
	switch v := f[key].(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case float64:
		return int64(v), true
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

// Decimal returns the named field as a decimal, accepting numeric and
// string representations.
func (f Fields) Decimal(key string) (decimal.Decimal, bool) {
	switch v := f[key].(type) {
	case decimal.Decimal:
		return v, true
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int64:
		return decimal.NewFromInt(v), true
	case float64:
		return decimal.NewFromFloat(v), true
	case string:
		d, err := decimal.NewFromString(v)
		return d, err == nil
	default:
		return decimal.Decimal{}, false
	}
}

// Bool returns the named field as a bool.
func (f Fields) Bool(key string) (bool, bool) {
	v, ok := f[key].(bool)
	return v, ok
}

// SortDirection is the direction of an ordering clause.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// OrderBy is a (field, direction) ordering pair.
type OrderBy struct {
	Field     string
	Direction SortDirection
}

// Query describes list criteria: equality filters ANDed together plus
// optional ordering, limit and offset. Zero limit means unbounded and a
// nil OrderBy means repository default order.
type Query struct {
	Criteria map[string]any
	OrderBy  *OrderBy
	Limit    int
	Offset   int
}

// Where returns a query filtering on a single field.
func Where(field string, value any) Query {
	return Query{Criteria: map[string]any{field: value}}
}

// Paginated represents one page of a paginated result
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginated creates a new paginated result
func NewPaginated[T any](items []T, total int64, page, pageSize int) Paginated[T] {
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	return Paginated[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// TenantRepository is the persistence contract for tenant-owned entities.
// Every method is tenant-qualified: an id that exists under a different
// tenant behaves exactly like a missing id (ErrNotFound).
type TenantRepository[T any] interface {
	FindByIDAndTenant(ctx context.Context, tenantID, id int64) (*T, error)
	FindAllByTenant(ctx context.Context, tenantID int64, q Query) ([]T, error)
	FindOneByTenant(ctx context.Context, tenantID int64, q Query) (*T, error)
	PaginateByTenant(ctx context.Context, tenantID int64, page, pageSize int, q Query) (Paginated[T], error)
	CountByTenant(ctx context.Context, tenantID int64, q Query) (int64, error)
	ExistsByTenant(ctx context.Context, tenantID int64, q Query) (bool, error)
	Save(ctx context.Context, entity *T) error
	Delete(ctx context.Context, entity *T) error
	DeleteManyByTenant(ctx context.Context, tenantID int64, ids []int64) (int64, error)
	UpdateManyByTenant(ctx context.Context, tenantID int64, ids []int64, fields Fields) (int64, error)
}

// GlobalRepository is the persistence contract for entities with no
// tenant dimension (roles, status lookup tables).
type GlobalRepository[T any] interface {
	FindByID(ctx context.Context, id int64) (*T, error)
	FindAll(ctx context.Context, q Query) ([]T, error)
	FindOne(ctx context.Context, q Query) (*T, error)
	Paginate(ctx context.Context, page, pageSize int, q Query) (Paginated[T], error)
	Count(ctx context.Context, q Query) (int64, error)
	Exists(ctx context.Context, q Query) (bool, error)
	Save(ctx context.Context, entity *T) error
	Delete(ctx context.Context, entity *T) error
}
