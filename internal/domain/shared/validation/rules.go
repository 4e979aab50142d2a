// Package validation evaluates declarative per-field rules against raw
// payload maps before any mutation reaches the persistence layer.
package validation

import "context"

// Checker answers existence questions for uniqueness and reference
// rules. Repositories implement it; tenantID is nil for global
// entities and excludeID (>0) removes the record being updated from
// uniqueness checks.
type Checker interface {
	FieldExists(ctx context.Context, tenantID *int64, field string, value any, excludeID int64) (bool, error)
}

// Kind identifies a rule variant.
type Kind int

const (
	// KindRequired fails when the field is absent, nil or blank.
	KindRequired Kind = iota
	// KindLength bounds the rune length of a string field.
	KindLength
	// KindRange bounds a numeric field.
	KindRange
	// KindEnum restricts a field to a closed value set.
	KindEnum
	// KindEmail requires a plausible email address.
	KindEmail
	// KindUnique requires no other row with the same value, scoped to
	// the tenant for tenant-owned entities and globally otherwise.
	KindUnique
	// KindReferences requires the value to resolve to an existing row
	// that itself belongs to the same tenant.
	KindReferences
)

// Rule is a typed descriptor: a field, a kind and the parameters the
// kind needs. Unknown parameters are ignored by the evaluator.
type Rule struct {
	Field   string
	Kind    Kind
	Min     float64
	Max     float64
	Values  []string
	Checker Checker
	// RefField is the column checked by KindReferences; defaults to "id".
	RefField string
	// Global drops the tenant scope from the checker call; used for
	// references into shared lookup tables.
	Global bool
	// Message overrides the generated message when set.
	Message string
}

// Required builds a required-field rule.
func Required(field string) Rule {
	return Rule{Field: field, Kind: KindRequired}
}

// Length builds a string length rule. A zero max means unbounded.
func Length(field string, min, max int) Rule {
	return Rule{Field: field, Kind: KindLength, Min: float64(min), Max: float64(max)}
}

// Range builds a numeric range rule.
func Range(field string, min, max float64) Rule {
	return Rule{Field: field, Kind: KindRange, Min: min, Max: max}
}

// Enum builds a closed-set rule.
func Enum(field string, values ...string) Rule {
	return Rule{Field: field, Kind: KindEnum, Values: values}
}

// Email builds an email format rule.
func Email(field string) Rule {
	return Rule{Field: field, Kind: KindEmail}
}

// Unique builds a tenant-scoped uniqueness rule backed by the entity's
// own repository.
func Unique(field string, checker Checker) Rule {
	return Rule{Field: field, Kind: KindUnique, Checker: checker}
}

// References builds a same-tenant foreign key rule backed by the
// referenced entity's repository.
func References(field string, checker Checker) Rule {
	return Rule{Field: field, Kind: KindReferences, Checker: checker, RefField: "id"}
}

// ReferencesGlobal builds a foreign key rule into a global lookup
// table; the referenced row is shared by every tenant.
func ReferencesGlobal(field string, checker Checker) Rule {
	return Rule{Field: field, Kind: KindReferences, Checker: checker, RefField: "id", Global: true}
}
