package config

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// CurrentVersion is the newest document schema version this build reads.
const CurrentVersion = 1

// Layer identifies one of the two configuration precedence tiers.
type Layer uint8

const (
	// LayerUser is the user-global layer (~/.config/hoist/config.json).
	LayerUser Layer = iota

	// LayerWorkspace is the workspace-local layer (.hoist/config.json).
	LayerWorkspace
)

// String returns a human-readable name for the layer.
func (l Layer) String() string {
	switch l {
	case LayerUser:
		return "user"
	case LayerWorkspace:
		return "workspace"
	default:
		return "unknown"
	}
}

// ParseLayer parses a layer name as accepted on the command line.
func ParseLayer(s string) (Layer, error) {
	switch s {
	case "user":
		return LayerUser, nil
	case "workspace":
		return LayerWorkspace, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownLayer, s)
	}
}

// Document is one configuration document. Per layer every field is
// optional; the merged document is total for schema fields because
// Defaults fills them in.
type Document struct {
	Version   int                    `json:"version,omitempty"`
	Locale    string                 `json:"locale,omitempty"`
	LogLevel  string                 `json:"logLevel,omitempty"`
	Theme     map[string]any         `json:"theme,omitempty"`
	UI        map[string]any         `json:"ui,omitempty"`
	Plugins   map[string]PluginValue `json:"plugins,omitempty"`
	// Bookmarks keeps no omitempty: the defaulted empty list must
	// survive the generic-tree round trip so the merged document stays
	// total.
	Bookmarks []string `json:"bookmarks"`
}

// localePattern matches simple language tags such as "en" or "pt-BR".
var localePattern = regexp.MustCompile(`^[a-z]{2,3}(-[A-Za-z]{2,4})?$`)

// validLogLevels are the accepted logLevel values.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks the schema-defined fields of a partial document.
// Unknown keys are not an error; they are preserved through writes.
func (d *Document) Validate() error {
	if d.Version > CurrentVersion {
		return fmt.Errorf("%w: %d (max %d)", ErrUnsupportedVersion, d.Version, CurrentVersion)
	}
	if d.LogLevel != "" && !validLogLevels[d.LogLevel] {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, d.LogLevel)
	}
	if d.Locale != "" && !localePattern.MatchString(d.Locale) {
		return fmt.Errorf("%w: %q", ErrInvalidLocale, d.Locale)
	}
	return nil
}

// Defaults returns the compiled-in configuration document.
func Defaults() *Document {
	return &Document{
		Version:  CurrentVersion,
		Locale:   "en",
		LogLevel: "info",
		Theme: map[string]any{
			"primaryColor": "cyan",
			"accentColor":  "magenta",
		},
		UI: map[string]any{
			"compactList":  false,
			"showCategory": true,
		},
		Plugins:   map[string]PluginValue{},
		Bookmarks: []string{},
	}
}

// Map returns the document as a generic tree, the shape execution
// contexts snapshot.
func (d *Document) Map() (map[string]any, error) {
	return d.toMap()
}

// toMap converts a document to its generic tree form for merging.
func (d *Document) toMap() (map[string]any, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// documentFromMap decodes a generic tree back into a typed document.
func documentFromMap(m map[string]any) (*Document, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	return &d, nil
}
