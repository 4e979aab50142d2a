package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResult_OK(t *testing.T) {
	t.Run("carries data and message", func(t *testing.T) {
		result := OK(42, "value retrieved successfully")

		assert.True(t, result.IsSuccess())
		assert.Equal(t, 42, result.Data())
		assert.Equal(t, "value retrieved successfully", result.Message())
		assert.Empty(t, result.Kind())
		assert.Nil(t, result.Details())
	})

	t.Run("allows nil pointer payload", func(t *testing.T) {
		result := OK[*int](nil, "deleted successfully")

		assert.True(t, result.IsSuccess())
		assert.Nil(t, result.Data())
	})

	t.Run("allows empty slice payload", func(t *testing.T) {
		result := OK([]string{}, "list retrieved successfully")

		assert.True(t, result.IsSuccess())
		assert.NotNil(t, result.Data())
		assert.Empty(t, result.Data())
	})
}

func TestResult_Fail(t *testing.T) {
	t.Run("carries kind and message", func(t *testing.T) {
		result := Fail[string](ErrorKindNotFound, "customer not found")

		assert.False(t, result.IsSuccess())
		assert.Equal(t, ErrorKindNotFound, result.Kind())
		assert.Equal(t, "customer not found", result.Message())
		assert.Nil(t, result.Details())
	})

	t.Run("data is the zero value and never panics", func(t *testing.T) {
		assert.NotPanics(t, func() {
			intResult := Fail[int](ErrorKindError, "boom")
			assert.Equal(t, 0, intResult.Data())

			ptrResult := Fail[*struct{ Name string }](ErrorKindError, "boom")
			assert.Nil(t, ptrResult.Data())

			sliceResult := Fail[[]int](ErrorKindError, "boom")
			assert.Nil(t, sliceResult.Data())
		})
	})
}

func TestResult_FailWithDetails(t *testing.T) {
	t.Run("carries per-field messages", func(t *testing.T) {
		details := map[string][]string{
			"name":  {"the name field is required"},
			"email": {"the email field must be a valid email address"},
		}
		result := FailWithDetails[*string](ErrorKindInvalidData, "validation failed", details)

		assert.False(t, result.IsSuccess())
		assert.Equal(t, ErrorKindInvalidData, result.Kind())
		assert.Equal(t, details, result.Details())
	})
}

func TestKindForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind ErrorKind
	}{
		{"not found", ErrNotFound, ErrorKindNotFound},
		{"already exists maps to conflict", ErrAlreadyExists, ErrorKindConflict},
		{"in use maps to conflict", ErrInUse, ErrorKindConflict},
		{"invalid input", ErrInvalidInput, ErrorKindInvalidData},
		{"not supported", ErrNotSupported, ErrorKindNotSupported},
		{"unknown error collapses to generic", assert.AnError, ErrorKindError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, KindForError(tt.err))
		})
	}
}

func TestFields(t *testing.T) {
	t.Run("string accessor", func(t *testing.T) {
		data := Fields{"name": "Acme", "count": 3}

		assert.Equal(t, "Acme", data.String("name"))
		assert.Equal(t, "", data.String("count"))
		assert.Equal(t, "", data.String("missing"))
	})

	t.Run("int64 accepts decoded numeric shapes", func(t *testing.T) {
		data := Fields{
			"a": int64(7),
			"b": 7,
			"c": float64(7),
			"d": "7",
			"e": "not a number",
		}

		for _, key := range []string{"a", "b", "c", "d"} {
			v, ok := data.Int64(key)
			assert.True(t, ok, key)
			assert.Equal(t, int64(7), v, key)
		}
		_, ok := data.Int64("e")
		assert.False(t, ok)
	})

	t.Run("has reports presence of non-nil values", func(t *testing.T) {
		data := Fields{"present": "x", "null": nil}

		assert.True(t, data.Has("present"))
		assert.False(t, data.Has("null"))
		assert.False(t, data.Has("absent"))
	})

	t.Run("decimal accepts string and float forms", func(t *testing.T) {
		data := Fields{"price": "19.90", "qty": 2.5}

		price, ok := data.Decimal("price")
		assert.True(t, ok)
		assert.Equal(t, "19.9", price.String())

		qty, ok := data.Decimal("qty")
		assert.True(t, ok)
		assert.Equal(t, "2.5", qty.String())
	})
}
