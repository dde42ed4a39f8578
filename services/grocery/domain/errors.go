package domain

import "errors"

// Sentinel errors for the grocery domain. Use errors.Is() to check these.
var (
	// ErrItemNotFound indicates the requested item does not exist. Callers that
	// resolve ids from untrusted input return it for malformed ids as well.
	ErrItemNotFound = errors.New("item not found")

	// ErrItemAlreadyExists indicates an item with the same id is already stored.
	ErrItemAlreadyExists = errors.New("item already exists")

	// ErrInvalidItemName indicates the item name violates domain constraints.
	ErrInvalidItemName = errors.New("invalid item name")
)

// FieldError reports a domain rule violation on a single input field.
// It unwraps to the sentinel in Err so errors.Is keeps working.
type FieldError struct {
	Field  string
	Reason string
	Err    error
}

// NewFieldError returns a FieldError for field wrapping sentinel.
func NewFieldError(field, reason string, sentinel error) *FieldError {
	return &FieldError{Field: field, Reason: reason, Err: sentinel}
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Reason
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
