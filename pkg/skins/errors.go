package skins

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	// ErrNoSkin indicates that every step of the skin fallback chain failed.
	// The runtime shuts down without ever showing a UI.
	ErrNoSkin = errors.New("no usable skin")

	// ErrCancelled indicates the user dismissed the skin selection prompt.
	ErrCancelled = errors.New("operation cancelled by user")
)

// InfrastructureError represents a failure of the runtime itself rather than
// of a skin: the backend could not open, the event source broke, the config
// could not be read.
type InfrastructureError struct {
	Op  string // Operation that failed (e.g., "open_backend", "next_event")
	Err error  // Underlying error
}

func (e *InfrastructureError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("skins: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("skins: %s", e.Op)
}

func (e *InfrastructureError) Unwrap() error {
	return e.Err
}

// NewInfrastructureError creates a new infrastructure error.
func NewInfrastructureError(op string, err error) *InfrastructureError {
	return &InfrastructureError{Op: op, Err: err}
}

// IsInfrastructureError checks if an error is an infrastructure error.
func IsInfrastructureError(err error) bool {
	var infraErr *InfrastructureError
	return errors.As(err, &infraErr)
}

// IsCancelled checks if an error indicates user cancellation.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}
