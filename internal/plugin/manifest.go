package plugin

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	// NamePrefix is the mandatory plugin package name prefix.
	NamePrefix = "hoist-plugin-"

	// ManifestFile is the conventional manifest path inside a plugin
	// directory.
	ManifestFile = "plugin.json"
)

var pluginNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Meta is the plugin's descriptive metadata.
type Meta struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
	Namespace   string `json:"namespace,omitempty"`
}

// Manifest is a parsed, validated plugin.json. Validation is eager:
// a manifest that violates the plugin contract never produces a
// Manifest value, only a specific rejection reason.
type Manifest struct {
	Meta         Meta
	Actions      []string
	Locales      string
	ConfigSchema map[string]any

	dir string
}

// manifestDoc is the raw decode target. Actions and Locales stay
// loosely typed so validation can name the exact violation instead of
// surfacing a generic decode error.
type manifestDoc struct {
	Meta         Meta           `json:"meta"`
	Actions      []any          `json:"actions"`
	Locales      any            `json:"locales"`
	ConfigSchema map[string]any `json:"configSchema"`
}

// ParseManifest reads and validates the manifest inside a plugin
// directory.
func ParseManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var doc manifestDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	m := &Manifest{
		Meta:         doc.Meta,
		ConfigSchema: doc.ConfigSchema,
		dir:          dir,
	}

	if doc.Meta.Name == "" {
		return nil, ErrMissingName
	}
	short, hasPrefix := strings.CutPrefix(doc.Meta.Name, NamePrefix)
	if !hasPrefix {
		return nil, fmt.Errorf("%w: %q", ErrBadPrefix, doc.Meta.Name)
	}
	if !pluginNamePattern.MatchString(short) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, doc.Meta.Name)
	}

	if len(doc.Actions) == 0 {
		return nil, ErrNoActions
	}
	for _, entry := range doc.Actions {
		rel, ok := entry.(string)
		if !ok || strings.TrimSpace(rel) == "" {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAction, entry)
		}
		m.Actions = append(m.Actions, rel)
	}

	if doc.Locales != nil {
		rel, ok := doc.Locales.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %v", ErrInvalidLocales, doc.Locales)
		}
		m.Locales = rel
	}

	return m, nil
}

// Namespace returns the plugin's translation namespace: the explicit
// meta.namespace, or the package name with the prefix stripped.
func (m *Manifest) Namespace() string {
	if m.Meta.Namespace != "" {
		return m.Meta.Namespace
	}
	return strings.TrimPrefix(m.Meta.Name, NamePrefix)
}

// ActionPaths returns the declared action files as absolute paths
// inside the plugin directory.
func (m *Manifest) ActionPaths() []string {
	paths := make([]string, len(m.Actions))
	for i, rel := range m.Actions {
		paths[i] = filepath.Join(m.dir, rel)
	}
	return paths
}

// LocalesPath returns the absolute locales directory, empty when the
// manifest declares none.
func (m *Manifest) LocalesPath() string {
	if m.Locales == "" {
		return ""
	}
	return filepath.Join(m.dir, m.Locales)
}
