package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that the referenced record exists in none of the
// configured stores. Moderation operations return it unwrapped so callers
// can tell "nothing to change" apart from a store failure.
var ErrNotFound = errors.New("record not found")

// ValidationError rejects a submission before geometry or storage work
// runs: malformed coordinates, an unknown assessment kind, an unknown
// facility type, an unknown logistics status.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for the named input field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
