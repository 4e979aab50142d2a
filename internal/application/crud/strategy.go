// Package crud implements the tenant-scoped entity lifecycle shared by
// every back-office service: validation before mutation, tenant-qualified
// lookups, delete guards and a uniform Result envelope. Concrete services
// instantiate the generic orchestrators with an entity strategy instead
// of inheriting from a base class.
package crud

import (
	"context"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/domain/shared/validation"
)

// Strategy supplies the entity-specific behavior the orchestrators
// cannot know: construction, field application, validation rules and
// the referential-integrity delete guard. One strategy exists per
// entity type; everything else is shared.
type Strategy[T any] interface {
	// Label names the entity in result messages, e.g. "customer".
	Label() string

	// New builds an entity from a validated payload. For tenant-owned
	// entities the tenant id is injected here and never read from the
	// payload; global strategies receive tenantID 0.
	New(data shared.Fields, tenantID int64) (*T, error)

	// Apply overwrites entity fields in place from a validated update
	// payload. Identity and tenant ownership are never touched.
	Apply(entity *T, data shared.Fields) error

	// Rules returns the declarative rule set evaluated before any
	// mutation. isUpdate switches uniqueness checks to exclude the
	// record being updated.
	Rules(isUpdate bool) []validation.Rule

	// CanDelete is the referential-integrity guard. When it returns
	// false, blockedBy names the blocking relationship for the
	// CONFLICT message.
	CanDelete(ctx context.Context, entity *T) (ok bool, blockedBy string, err error)
}

// ReadOnlyStrategy backs read-only orchestrators for lookup tables.
// The mutating hooks are never reached: the orchestrator rejects
// mutations with NOT_SUPPORTED before consulting the strategy.
type ReadOnlyStrategy[T any] struct {
	Name string
}

func (s ReadOnlyStrategy[T]) Label() string { return s.Name }

func (s ReadOnlyStrategy[T]) New(shared.Fields, int64) (*T, error) {
	return nil, shared.ErrNotSupported
}

func (s ReadOnlyStrategy[T]) Apply(*T, shared.Fields) error {
	return shared.ErrNotSupported
}

func (s ReadOnlyStrategy[T]) Rules(bool) []validation.Rule { return nil }

func (s ReadOnlyStrategy[T]) CanDelete(context.Context, *T) (bool, string, error) {
	return false, "", shared.ErrNotSupported
}

// Sanitize strips reserved fields from a caller-supplied payload
// before validation and application: identity is repository-assigned
// and tenant ownership is immutable after creation. Composite services
// apply the same stripping to nested child payloads.
func Sanitize(data shared.Fields) shared.Fields {
	if data == nil {
		return shared.Fields{}
	}
	cleaned := make(shared.Fields, len(data))
	for k, v := range data {
		if k == "id" || k == "tenant_id" {
			continue
		}
		cleaned[k] = v
	}
	return cleaned
}
