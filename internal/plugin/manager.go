package plugin

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/cbarrett/hoist/internal/action"
	"github.com/cbarrett/hoist/internal/config"
)

// Manager orchestrates the plugin lifecycle: discovery, concurrent
// loading, enablement resolution from the merged configuration, and
// runtime reload of the enablement set.
type Manager struct {
	discovery *Discovery
	loader    *Loader
	logger    *zap.Logger

	mu      sync.RWMutex
	loaded  bool
	plugins map[string]*Plugin
	order   []string
}

// NewManager creates a manager over the given discovery and loader.
func NewManager(discovery *Discovery, loader *Loader, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		discovery: discovery,
		loader:    loader,
		logger:    logger,
		plugins:   make(map[string]*Plugin),
	}
}

// LoadAll discovers and loads every installed plugin concurrently, one
// independent task per plugin. A plugin that fails to load is logged
// and excluded; its siblings are unaffected. Repeat calls are no-ops.
func (m *Manager) LoadAll(ctx context.Context, cfg *config.Document) {
	m.mu.Lock()
	if m.loaded {
		m.mu.Unlock()
		return
	}
	m.loaded = true
	m.mu.Unlock()

	descriptors := m.discovery.Discover()
	results := make([]*Plugin, len(descriptors))

	var wg sync.WaitGroup
	for i, desc := range descriptors {
		wg.Add(1)
		go func(i int, desc *Descriptor) {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}

			enabled, userConfig := resolveEntry(cfg, desc.Name)
			p, err := m.loader.Load(desc, userConfig, enabled)
			if err != nil {
				m.logger.Warn("plugin excluded",
					zap.String("plugin", desc.Name), zap.Error(err))
				return
			}
			results[i] = p
		}(i, desc)
	}
	wg.Wait()

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range results {
		if p == nil {
			continue
		}
		m.plugins[p.Name()] = p
		m.order = append(m.order, p.Name())
		m.logger.Info("plugin loaded",
			zap.String("plugin", p.Name()),
			zap.String("version", p.Meta.Version),
			zap.Bool("enabled", p.Enabled),
			zap.Int("actions", len(p.actions)))
	}
}

// ReloadActions recomputes every loaded plugin's enablement and config
// from the new merged document, reloads action lists for plugins that
// are now enabled, and drops the actions of plugins that are now
// disabled. Used to apply a runtime plugin toggle without restarting.
//
// The displaced records are returned instead of closed here: the caller
// closes them after it has swapped its own registry, so a lookup racing
// the reload cannot resolve to an already-closed record.
func (m *Manager) ReloadActions(cfg *config.Document) []*action.Record {
	m.mu.Lock()
	defer m.mu.Unlock()

	var displaced []*action.Record
	for _, name := range m.order {
		p := m.plugins[name]
		enabled, userConfig := resolveEntry(cfg, name)

		displaced = append(displaced, p.actions...)
		p.actions = nil
		p.Enabled = enabled
		p.UserConfig = userConfig
		if enabled {
			m.loader.loadActions(p)
		}

		m.logger.Debug("plugin reloaded",
			zap.String("plugin", name),
			zap.Bool("enabled", enabled),
			zap.Int("actions", len(p.actions)))
	}
	return displaced
}

// Resolve returns a plugin's execution metadata, snapshotted under the
// manager's lock. ReloadActions reassigns UserConfig in place, so
// callers must not reach through Get for fields they read concurrently.
func (m *Manager) Resolve(name string) (namespace string, userConfig map[string]any, ok bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.plugins[name]
	if !ok {
		return "", nil, false
	}
	return p.Namespace, p.UserConfig, true
}

// Actions returns the aggregated action records of every enabled
// plugin, in plugin load order.
func (m *Manager) Actions() []*action.Record {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*action.Record
	for _, name := range m.order {
		out = append(out, m.plugins[name].actions...)
	}
	return out
}

// Plugins returns every loaded plugin in load order.
func (m *Manager) Plugins() []*Plugin {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Plugin, 0, len(m.order))
	for _, name := range m.order {
		out = append(out, m.plugins[name])
	}
	return out
}

// Get returns the loaded plugin with the given package name.
func (m *Manager) Get(name string) (*Plugin, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.plugins[name]
	return p, ok
}

// Close releases every plugin's action interpreters.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.plugins {
		p.closeActions()
	}
}

// Count returns the number of loaded plugins.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.plugins)
}

// resolveEntry derives a plugin's enablement and configuration from
// the merged document: absent means enabled with no config, a false
// shorthand disables, and an object form is enabled unless it says
// enabled=false.
func resolveEntry(cfg *config.Document, name string) (enabled bool, userConfig map[string]any) {
	if cfg == nil {
		return true, nil
	}
	entry, ok := cfg.Plugins[name]
	if !ok {
		return true, nil
	}
	return entry.Enabled(), entry.Settings()
}
