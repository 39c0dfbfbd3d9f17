package execctx

import (
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/cbarrett/hoist/internal/i18n"
)

// RunFunc is the entrypoint of a loaded action.
type RunFunc func(ctx *Context) error

// DescribeFunc produces a context-dependent action description.
type DescribeFunc func(ctx *Context) string

// Params are the inputs to context assembly. Given equal params the
// factory produces an equivalent context; assembly itself performs no
// I/O beyond snapshotting the process environment.
type Params struct {
	// ActionName is the invoked action; required.
	ActionName string

	// Args are the extra arguments passed by the caller.
	Args []string

	// MergedConfig is the merged configuration tree.
	MergedConfig map[string]any

	// Locale selects the translation locale.
	Locale string

	// PluginNamespace is the i18n namespace of the originating plugin,
	// empty for project and global actions.
	PluginNamespace string

	// PluginConfig is the plugin-supplied configuration, if any.
	PluginConfig map[string]any

	// WorkDir is the working directory for shell commands.
	WorkDir string

	// Sink optionally streams output messages as they are emitted.
	Sink Sink
}

// Context is the capability bundle an action runs against. It is built
// per invocation and discarded after the action returns.
type Context struct {
	ActionName   string
	Args         []string
	Translator   *i18n.Translator
	Output       *Output
	Shell        *ShellRunner
	Config       map[string]any
	PluginConfig map[string]any
	Env          map[string]string
}

// T resolves a translation key through the scoped translator.
func (c *Context) T(key string) string { return c.Translator.T(key) }

// Factory assembles execution contexts.
type Factory struct {
	catalog *i18n.Catalog
	logger  *zap.Logger
}

// NewFactory creates a context factory over the translation catalog.
func NewFactory(catalog *i18n.Catalog, logger *zap.Logger) *Factory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Factory{catalog: catalog, logger: logger}
}

// New builds a context from the given parameters. The configuration
// snapshot is deep-copied so an action can never mutate shared state.
func (f *Factory) New(p Params) (*Context, error) {
	if strings.TrimSpace(p.ActionName) == "" {
		return nil, ErrMissingActionName
	}

	locale := p.Locale
	if locale == "" {
		locale = i18n.FallbackLocale
	}

	return &Context{
		ActionName:   p.ActionName,
		Args:         append([]string(nil), p.Args...),
		Translator:   i18n.NewTranslator(f.catalog, locale, p.ActionName, p.PluginNamespace),
		Output:       NewOutput(p.Sink),
		Shell:        NewShellRunner(p.WorkDir, nil),
		Config:       cloneTree(p.MergedConfig),
		PluginConfig: cloneTree(p.PluginConfig),
		Env:          snapshotEnv(),
	}, nil
}

// snapshotEnv captures the process environment as a map.
func snapshotEnv() map[string]string {
	environ := os.Environ()
	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		if key, val, ok := strings.Cut(kv, "="); ok {
			env[key] = val
		}
	}
	return env
}

// cloneTree deep-copies a generic JSON-shaped tree.
func cloneTree(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = cloneTreeValue(v)
	}
	return dst
}

func cloneTreeValue(val any) any {
	switch v := val.(type) {
	case map[string]any:
		return cloneTree(v)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = cloneTreeValue(item)
		}
		return out
	default:
		return val
	}
}
