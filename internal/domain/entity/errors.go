package entity

import (
	"errors"
	"fmt"
)

// ErrNoFetchMethod indicates a source with neither a feed URL nor a page URL.
var ErrNoFetchMethod = errors.New("source has neither feed nor page URL")

// ValidationError represents a validation error with field information.
// It implements the error interface and provides context about which field
// failed validation.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}
