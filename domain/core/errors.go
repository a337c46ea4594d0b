package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound    = errors.New("resource not found")
	ErrRunNotFound = fmt.Errorf("%w: run", ErrNotFound)

	// Target and column errors
	ErrTargetUnknown  = errors.New("unknown target indicator")
	ErrColumnMissing  = errors.New("required column missing")
	ErrBoundsNotFound = errors.New("prediction bounds not found for target")

	// Table errors
	ErrEmptyTable    = errors.New("table has no data rows")
	ErrRowCountDrift = errors.New("result row count differs from input")

	// Model errors
	ErrModelMissing = errors.New("no model available for target")
)

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewValidationError(field string, reason string) error {
	return fmt.Errorf("validation failed for %s: %s", field, reason)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsBoundsError(err error) bool {
	return errors.Is(err, ErrBoundsNotFound)
}
