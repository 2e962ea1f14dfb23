package catalog

import (
	"errors"
	"fmt"
)

// Error types for catalog operations
type (
	// TransportError indicates a network or HTTP failure talking to the source
	TransportError struct {
		Op       string
		Category Category
		Err      error
	}

	// NotFoundError indicates a title could not be resolved
	NotFoundError struct {
		ID  int
		Err error
	}

	// PreconditionError indicates missing or invalid configuration or credentials
	PreconditionError struct {
		Reason string
		Err    error
	}
)

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Category, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *NotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("title %d not found: %v", e.ID, e.Err)
	}
	return fmt.Sprintf("title %d not found", e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

func (e *PreconditionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *PreconditionError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is or wraps a NotFoundError
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsPrecondition reports whether err is or wraps a PreconditionError
func IsPrecondition(err error) bool {
	var target *PreconditionError
	return errors.As(err, &target)
}

// IsTransport reports whether err is or wraps a TransportError
func IsTransport(err error) bool {
	var target *TransportError
	return errors.As(err, &target)
}
