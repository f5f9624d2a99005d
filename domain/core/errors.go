package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound       = errors.New("resource not found")
	ErrColumnNotFound = fmt.Errorf("%w: column", ErrNotFound)
	ErrRunNotFound    = fmt.Errorf("%w: report run", ErrNotFound)

	// Operation errors
	ErrInvalidOperation = errors.New("invalid operation")
	ErrDegenerateInput  = errors.New("degenerate input")
)

// Error constructors with context
func NewColumnNotFoundError(column string) error {
	return fmt.Errorf("%w %q", ErrColumnNotFound, column)
}

func NewRunNotFoundError(id string) error {
	return fmt.Errorf("%w with id %s", ErrRunNotFound, id)
}

func NewInvalidOperationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidOperation, fmt.Sprintf(format, args...))
}

func NewDegenerateInputError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrDegenerateInput, fmt.Sprintf(format, args...))
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsColumnNotFound(err error) bool {
	return errors.Is(err, ErrColumnNotFound)
}

func IsInvalidOperation(err error) bool {
	return errors.Is(err, ErrInvalidOperation)
}

func IsDegenerateInput(err error) bool {
	return errors.Is(err, ErrDegenerateInput)
}
