package plugin

import (
	"go.uber.org/zap"

	"github.com/cbarrett/hoist/internal/action"
	"github.com/cbarrett/hoist/internal/i18n"
)

// Plugin is a loaded plugin. Enabled, UserConfig, and the cached
// actions are mutated in place on reload; the manager owns every
// Plugin exclusively.
type Plugin struct {
	// Meta is the manifest metadata.
	Meta Meta

	// Namespace is the resolved translation namespace.
	Namespace string

	// ActionPaths are the absolute declared action files.
	ActionPaths []string

	// LocalesPath is the absolute locales directory, empty when the
	// plugin bundles no translations.
	LocalesPath string

	// ConfigSchema is the declared configuration schema, if any.
	ConfigSchema map[string]any

	// UserConfig is the plugin configuration from the merged document.
	UserConfig map[string]any

	// Enabled is the resolved enablement from the merged document.
	Enabled bool

	actions []*action.Record
}

// Name returns the full package name.
func (p *Plugin) Name() string { return p.Meta.Name }

// Actions returns the plugin's loaded action records; empty while the
// plugin is disabled.
func (p *Plugin) Actions() []*action.Record {
	return p.actions
}

// closeActions releases every cached action record.
func (p *Plugin) closeActions() {
	for _, rec := range p.actions {
		rec.Close()
	}
	p.actions = nil
}

// Loader turns descriptors into loaded plugins.
type Loader struct {
	catalog *i18n.Catalog
	actions *action.Loader
	logger  *zap.Logger
}

// NewLoader creates a plugin loader feeding translations into catalog.
func NewLoader(catalog *i18n.Catalog, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		catalog: catalog,
		actions: action.NewLoader(catalog, logger),
		logger:  logger,
	}
}

// Load produces a Plugin from a descriptor with the supplied config
// state. A descriptor carrying a discovery error fails here, scoped to
// this one plugin. Actions are loaded only when the plugin is enabled;
// within an enabled plugin, an action file that fails to load is
// skipped with a warning and the remaining files still load.
func (l *Loader) Load(desc *Descriptor, userConfig map[string]any, enabled bool) (*Plugin, error) {
	if desc.Err != nil {
		return nil, &LoadError{Plugin: desc.Name, Err: desc.Err}
	}

	p := &Plugin{
		Meta:         desc.Manifest.Meta,
		Namespace:    desc.Manifest.Namespace(),
		ActionPaths:  desc.Manifest.ActionPaths(),
		LocalesPath:  desc.Manifest.LocalesPath(),
		ConfigSchema: desc.Manifest.ConfigSchema,
		UserConfig:   userConfig,
		Enabled:      enabled,
	}

	if enabled {
		l.loadActions(p)
	}
	return p, nil
}

// loadActions registers the plugin's locale bundles and loads its
// declared action files into the plugin's cache.
func (l *Loader) loadActions(p *Plugin) {
	if p.LocalesPath != "" {
		l.catalog.LoadDir(p.LocalesPath, p.Namespace)
	}

	source := action.PluginSource(p.Meta.Name)
	for _, path := range p.ActionPaths {
		rec, err := l.actions.LoadFile(path, source)
		if err != nil {
			l.logger.Warn("skipping plugin action",
				zap.String("plugin", p.Meta.Name),
				zap.String("path", path),
				zap.Error(err))
			continue
		}
		p.actions = append(p.actions, rec)
	}
}
