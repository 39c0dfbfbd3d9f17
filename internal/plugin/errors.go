package plugin

import (
	"errors"
	"fmt"
)

// Manifest rejection reasons. Each names the specific contract
// violation so a plugin author sees why the package was refused.
var (
	ErrMissingName    = errors.New("manifest is missing meta.name")
	ErrBadPrefix      = errors.New("plugin name lacks the " + NamePrefix + " prefix")
	ErrInvalidName    = errors.New("plugin name contains disallowed characters")
	ErrNoActions      = errors.New("manifest declares no action files")
	ErrInvalidAction  = errors.New("manifest action entry is not a non-empty string")
	ErrInvalidLocales = errors.New("manifest locales entry is not a string")
)

// LoadError wraps a failure to load one plugin. It never affects
// sibling plugins.
type LoadError struct {
	Plugin string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load plugin %s: %v", e.Plugin, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
