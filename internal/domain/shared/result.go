package shared

// ErrorKind classifies the failure of a service operation.
// The set is closed: callers switch on these values to translate
// outcomes into transport-level responses.
type ErrorKind string

const (
	ErrorKindNotFound     ErrorKind = "NOT_FOUND"
	ErrorKindInvalidData  ErrorKind = "INVALID_DATA"
	ErrorKindConflict     ErrorKind = "CONFLICT"
	ErrorKindNotSupported ErrorKind = "NOT_SUPPORTED"
	ErrorKindError        ErrorKind = "ERROR"
)

// Result is the envelope returned by every service operation.
// It is either a success carrying data and a message, or an error
// carrying a kind, a message and optional per-field details. Exactly
// one variant is populated; IsSuccess is the discriminator.
type Result[T any] struct {
	ok      bool
	data    T
	message string
	kind    ErrorKind
	details map[string][]string
}

// OK builds a success result.
func OK[T any](data T, message string) Result[T] {
	return Result[T]{ok: true, data: data, message: message}
}

// Fail builds an error result with the given kind.
func Fail[T any](kind ErrorKind, message string) Result[T] {
	return Result[T]{kind: kind, message: message}
}

// FailWithDetails builds an error result carrying per-field messages.
func FailWithDetails[T any](kind ErrorKind, message string, details map[string][]string) Result[T] {
	return Result[T]{kind: kind, message: message, details: details}
}

// IsSuccess reports whether the result is the success variant.
func (r Result[T]) IsSuccess() bool {
	return r.ok
}

// Data returns the payload of a success result. On an error result it
// returns the zero value of T; it never panics. Callers must check
// IsSuccess before interpreting the payload.
func (r Result[T]) Data() T {
	return r.data
}

// Message returns the human-readable message for either variant.
func (r Result[T]) Message() string {
	return r.message
}

// Kind returns the error kind. It is empty on a success result.
func (r Result[T]) Kind() ErrorKind {
	return r.kind
}

// Details returns per-field error messages, or nil when absent.
func (r Result[T]) Details() map[string][]string {
	return r.details
}
