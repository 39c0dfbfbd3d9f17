package action

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidName is returned for names outside [A-Za-z0-9_-]+.
	ErrInvalidName = errors.New("invalid action name")

	// ErrNotFound is returned when the registry has no such action.
	ErrNotFound = errors.New("action not found")
)

// LoadError wraps a failure to load one action file.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load action %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
