package action

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/cbarrett/hoist/internal/execctx"
)

// Built-in source identifiers. Plugin sources are produced by
// PluginSource and carry the plugin name.
const (
	SourceProject = "project"
	SourceGlobal  = "global"

	pluginSourcePrefix = "plugin:"
)

// DefaultCategory is assigned when an action declares no category.
const DefaultCategory = "general"

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// PluginSource returns the source identifier for a plugin's actions.
func PluginSource(pluginName string) string {
	return pluginSourcePrefix + pluginName
}

// ParsePluginSource extracts the plugin name from a plugin source
// identifier. ok is false for project and global sources.
func ParsePluginSource(source string) (name string, ok bool) {
	return strings.CutPrefix(source, pluginSourcePrefix)
}

// ValidName reports whether name is a legal action name.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// NameFromFile derives the default action name from a file path by
// stripping the directory and extension.
func NameFromFile(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Record is a registered action: metadata plus the callable entrypoints
// produced by the script loader.
type Record struct {
	// Name is the registry key.
	Name string

	// Description is the static description.
	Description string

	// Category groups actions in listings.
	Category string

	// Tags are free-form labels.
	Tags []string

	// FilePath is the Lua file the action was loaded from.
	FilePath string

	// Source identifies where the record came from: SourceProject,
	// SourceGlobal, or PluginSource(name).
	Source string

	// Run is the action entrypoint.
	Run execctx.RunFunc

	// DescribeFn optionally produces a context-dependent description.
	DescribeFn execctx.DescribeFunc

	close func()
}

// Describe returns the context-dependent description when the action
// declared one, otherwise the static description.
func (r *Record) Describe(ctx *execctx.Context) string {
	if r.DescribeFn != nil {
		return r.DescribeFn(ctx)
	}
	return r.Description
}

// FromPlugin reports whether the record came from a plugin, and which.
func (r *Record) FromPlugin() (string, bool) {
	return ParsePluginSource(r.Source)
}

// Close releases the record's interpreter resources, if any.
func (r *Record) Close() {
	if r.close != nil {
		r.close()
	}
}
