package shared

import "errors"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound      = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput  = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrInUse         = NewDomainError("IN_USE", "Resource is referenced by other records")
	ErrNotSupported  = NewDomainError("NOT_SUPPORTED", "Operation not supported for this resource")
)

// KindForError maps a repository error to the ErrorKind reported at the
// service boundary. Unique-constraint violations surface as CONFLICT: the
// validation pre-check is advisory and the storage constraint is
// authoritative. Anything unrecognized is an unexpected fault and maps
// to the generic ERROR kind.
func KindForError(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrNotFound):
		return ErrorKindNotFound
	case errors.Is(err, ErrAlreadyExists):
		return ErrorKindConflict
	case errors.Is(err, ErrInUse):
		return ErrorKindConflict
	case errors.Is(err, ErrInvalidInput):
		return ErrorKindInvalidData
	case errors.Is(err, ErrNotSupported):
		return ErrorKindNotSupported
	default:
		return ErrorKindError
	}
}
