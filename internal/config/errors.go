package config

import (
	"errors"
	"fmt"
)

// Errors returned by configuration operations.
var (
	// ErrUnknownLayer indicates a layer value outside user/workspace.
	ErrUnknownLayer = errors.New("unknown configuration layer")

	// ErrUnsupportedVersion indicates a document version newer than this build.
	ErrUnsupportedVersion = errors.New("unsupported config version")

	// ErrInvalidLogLevel indicates a logLevel outside debug/info/warn/error.
	ErrInvalidLogLevel = errors.New("invalid log level")

	// ErrInvalidLocale indicates a locale that is not a BCP 47-ish language tag.
	ErrInvalidLocale = errors.New("invalid locale")

	// ErrEmptyPath indicates an empty dot-notation path.
	ErrEmptyPath = errors.New("empty config path")
)

// LoadError describes a failure to read or validate one configuration
// layer. Loads never abort on it; the layer degrades to absent.
type LoadError struct {
	// Layer is the layer that failed to load.
	Layer Layer
	// Path is the file path of the layer.
	Path string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s config %s: %v", e.Layer, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *LoadError) Unwrap() error { return e.Err }

// WriteError describes a failure to persist a configuration change.
// The on-disk file is left unchanged when this is returned.
type WriteError struct {
	// Layer is the layer that was being written.
	Layer Layer
	// Key is the dot-notation path of the value.
	Key string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s config key %q: %v", e.Layer, e.Key, e.Err)
}

// Unwrap returns the underlying error.
func (e *WriteError) Unwrap() error { return e.Err }
