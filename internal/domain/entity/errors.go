package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain layer operations.
var (
	// ErrUnknownAirport indicates that no canonical IATA mapping exists for a
	// source-supplied airport identifier. Callers skip the offending record.
	ErrUnknownAirport = errors.New("unknown airport identifier")

	// ErrMissingCredential indicates that a source family's API key is not
	// configured. Fatal only for the primary source family.
	ErrMissingCredential = errors.New("missing API credential")
)

// ValidationError reports a domain invariant violation with the offending
// field.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}
