package validation

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Violations accumulates failing rule messages keyed by field, in rule
// evaluation order.
type Violations struct {
	byField map[string][]string
	order   []string
}

// Add records a failure message for a field.
func (v *Violations) Add(field, message string) {
	if v.byField == nil {
		v.byField = make(map[string][]string)
	}
	if _, seen := v.byField[field]; !seen {
		v.order = append(v.order, field)
	}
	v.byField[field] = append(v.byField[field], message)
}

// Merge folds another set of violations in, prefixing its field names.
// Used for nested payloads such as invoice items.
func (v *Violations) Merge(prefix string, other *Violations) {
	if other == nil {
		return
	}
	for _, field := range other.order {
		for _, msg := range other.byField[field] {
			v.Add(prefix+field, msg)
		}
	}
}

// Empty reports whether no rule failed.
func (v *Violations) Empty() bool {
	return v == nil || len(v.byField) == 0
}

// Message joins every failure into one human-readable string.
func (v *Violations) Message() string {
	var parts []string
	for _, field := range v.order {
		parts = append(parts, v.byField[field]...)
	}
	return strings.Join(parts, ", ")
}

// Details returns the per-field failure map.
func (v *Violations) Details() map[string][]string {
	return v.byField
}

// Evaluate runs every rule against the payload and aggregates all
// failures; it never stops at the first one. The returned error is an
// infrastructure fault from a Checker, not a validation outcome.
// tenantID is nil for global entities; excludeID (>0) is the id of the
// record being updated, excluded from uniqueness checks.
func Evaluate(ctx context.Context, data shared.Fields, tenantID *int64, excludeID int64, rules []Rule) (*Violations, error) {
	violations := &Violations{}

	for _, rule := range rules {
		value, present := data[rule.Field]
		if rule.Kind == KindRequired {
			if !present || value == nil || isBlank(value) {
				violations.Add(rule.Field, rule.message("the %s field is required"))
			}
			continue
		}

		// Non-required rules only apply to supplied values.
		if !present || value == nil || isBlank(value) {
			continue
		}

		switch rule.Kind {
		case KindLength:
			s, ok := value.(string)
			if !ok {
				violations.Add(rule.Field, rule.message("the %s field must be a string"))
				continue
			}
			n := utf8.RuneCountInString(s)
			if n < int(rule.Min) || (rule.Max > 0 && n > int(rule.Max)) {
				violations.Add(rule.Field, rule.messagef("the %s field must be between %d and %d characters", rule.Field, int(rule.Min), int(rule.Max)))
			}

		case KindRange:
			f, ok := asFloat(value)
			if !ok {
				violations.Add(rule.Field, rule.message("the %s field must be numeric"))
				continue
			}
			if f < rule.Min || f > rule.Max {
				violations.Add(rule.Field, rule.messagef("the %s field must be between %v and %v", rule.Field, rule.Min, rule.Max))
			}

		case KindEnum:
			s := fmt.Sprintf("%v", value)
			found := false
			for _, allowed := range rule.Values {
				if s == allowed {
					found = true
					break
				}
			}
			if !found {
				violations.Add(rule.Field, rule.messagef("the %s field must be one of: %s", rule.Field, strings.Join(rule.Values, ", ")))
			}

		case KindEmail:
			s, ok := value.(string)
			if !ok || !looksLikeEmail(s) {
				violations.Add(rule.Field, rule.message("the %s field must be a valid email address"))
			}

		case KindUnique:
			taken, err := rule.Checker.FieldExists(ctx, tenantID, rule.Field, value, excludeID)
			if err != nil {
				return nil, err
			}
			if taken {
				violations.Add(rule.Field, rule.messagef("the %s %q is already in use", rule.Field, value))
			}

		case KindReferences:
			refField := rule.RefField
			if refField == "" {
				refField = "id"
			}
			scope := tenantID
			if rule.Global {
				scope = nil
			}
			found, err := rule.Checker.FieldExists(ctx, scope, refField, value, 0)
			if err != nil {
				return nil, err
			}
			if !found {
				violations.Add(rule.Field, rule.message("the %s field references a record that does not exist"))
			}
		}
	}

	return violations, nil
}

func (r Rule) message(format string) string {
	if r.Message != "" {
		return r.Message
	}
	return fmt.Sprintf(format, r.Field)
}

func (r Rule) messagef(format string, args ...any) string {
	if r.Message != "" {
		return r.Message
	}
	return fmt.Sprintf(format, args...)
}

func isBlank(value any) bool {
	s, ok := value.(string)
	return ok && strings.TrimSpace(s) == ""
}

func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case decimal.Decimal:
		f, _ := v.Float64()
		return f, true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func looksLikeEmail(s string) bool {
	at := strings.Index(s, "@")
	if at <= 0 || at == len(s)-1 {
		return false
	}
	domain := s[at+1:]
	return strings.Contains(domain, ".") && !strings.ContainsAny(s, " \t\n")
}
