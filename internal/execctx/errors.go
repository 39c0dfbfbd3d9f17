package execctx

import (
	"errors"
	"fmt"
)

// Errors returned by context construction and execution.
var (
	// ErrMissingActionName indicates context parameters without a name.
	ErrMissingActionName = errors.New("action name is required")

	// ErrNilRun indicates an action record without a run entrypoint.
	ErrNilRun = errors.New("run entrypoint is nil")
)

// ExecutionError wraps whatever an action raised into one error type.
// The executor captures it into the Result; it is never rethrown.
type ExecutionError struct {
	// Action is the action that failed.
	Action string
	// Err is the normalized cause.
	Err error
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	return fmt.Sprintf("action %q: %v", e.Action, e.Err)
}

// Unwrap returns the underlying error.
func (e *ExecutionError) Unwrap() error { return e.Err }

// normalizeRaised converts an arbitrary raised value (an error, a
// string, or anything else) into an ExecutionError.
func normalizeRaised(action string, raised any) *ExecutionError {
	var err error
	switch v := raised.(type) {
	case error:
		err = v
	case string:
		err = errors.New(v)
	default:
		err = fmt.Errorf("%v", v)
	}
	return &ExecutionError{Action: action, Err: err}
}
