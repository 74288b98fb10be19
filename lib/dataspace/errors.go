package dataspace

import (
	"errors"
	"fmt"
)

// Sentinel errors for comparison using errors.Is()
var (
	// Configuration errors
	ErrMissingConfiguration = errors.New("server host and port are required")
	ErrAlreadyOpen          = errors.New("server already configured")
	ErrNotOpen              = errors.New("server not configured")

	// Registry errors
	ErrInvalidName       = errors.New("dataspace name must not be empty")
	ErrDataspaceNotFound = errors.New("dataspace not found")

	// Template errors
	ErrTemplateArgs = errors.New("template arguments do not match placeholders")
)

// Error carries the failed operation and the dataspace it was called with.
type Error struct {
	Op   string // Operation that failed (e.g., "Read")
	Name string // Dataspace name, if any
	Err  error  // Underlying error
}

func (e *Error) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s [%s]: %v", e.Op, e.Name, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is/As
func (e *Error) Unwrap() error {
	return e.Err
}

func newError(op, name string, err error) *Error {
	return &Error{Op: op, Name: name, Err: err}
}

// IsConfigurationError reports whether err was caused by how the client was set up or
// called, as opposed to the state of the remote store.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrMissingConfiguration) ||
		errors.Is(err, ErrAlreadyOpen) ||
		errors.Is(err, ErrNotOpen) ||
		errors.Is(err, ErrInvalidName) ||
		errors.Is(err, ErrDataspaceNotFound) ||
		errors.Is(err, ErrTemplateArgs)
}
