package host

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/cbarrett/hoist/internal/action"
	"github.com/cbarrett/hoist/internal/config"
	"github.com/cbarrett/hoist/internal/config/watcher"
	"github.com/cbarrett/hoist/internal/execctx"
	"github.com/cbarrett/hoist/internal/i18n"
	"github.com/cbarrett/hoist/internal/plugin"
)

// commonLocalesDir under the user dir feeds the "common" namespace.
const commonLocalesDir = "locales"

// Options configure a Host. Zero values select the conventional paths.
type Options struct {
	// WorkspaceRoot is the project directory; defaults to the current
	// working directory.
	WorkspaceRoot string

	// UserDir is the user-global hoist directory; defaults to
	// ~/.config/hoist.
	UserDir string

	// Logger receives runtime logs.
	Logger *zap.Logger

	// Sink optionally streams action output live.
	Sink execctx.Sink
}

// DefaultUserDir returns the conventional user-global directory.
func DefaultUserDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "hoist")
	}
	return filepath.Join(home, ".config", "hoist")
}

// Host is the action runtime. It owns the merged configuration, the
// registry, and the plugin manager for the life of the process.
type Host struct {
	opts     Options
	logger   *zap.Logger
	store    *config.Store
	catalog  *i18n.Catalog
	registry *action.Registry
	loader   *action.Loader
	plugins  *plugin.Manager
	executor *execctx.Executor
	watch    *watcher.Watcher

	mu      sync.RWMutex
	merged  *config.Document
	project []*action.Record
	global  []*action.Record
}

// New assembles a host from options. No I/O happens until Start.
func New(opts Options) *Host {
	if opts.WorkspaceRoot == "" {
		if wd, err := os.Getwd(); err == nil {
			opts.WorkspaceRoot = wd
		} else {
			opts.WorkspaceRoot = "."
		}
	}
	if opts.UserDir == "" {
		opts.UserDir = DefaultUserDir()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	userConfig := filepath.Join(opts.UserDir, "config.json")
	workspaceConfig := config.DefaultWorkspacePath(opts.WorkspaceRoot)

	store := config.NewStore(userConfig, workspaceConfig, logger)
	catalog := i18n.NewCatalog(logger)

	h := &Host{
		opts:     opts,
		logger:   logger,
		store:    store,
		catalog:  catalog,
		registry: action.NewRegistry(),
		loader:   action.NewLoader(catalog, logger),
		plugins: plugin.NewManager(
			plugin.NewDiscovery(filepath.Join(opts.UserDir, "plugins"), logger),
			plugin.NewLoader(catalog, logger),
			logger,
		),
		executor: execctx.NewExecutor(execctx.NewFactory(catalog, logger), logger),
		watch: watcher.New(logger, []string{
			userConfig,
			workspaceConfig,
		}),
	}
	return h
}

// Start loads the merged configuration, the common locale bundles, and
// the three action sources. The sources load concurrently; their
// results are applied to the registry sequentially in project, global,
// plugin order so final ownership never depends on I/O timing.
func (h *Host) Start(ctx context.Context) {
	merged := h.store.LoadMerged()
	h.catalog.LoadDir(filepath.Join(h.opts.UserDir, commonLocalesDir), i18n.CommonNamespace)

	var (
		wg      sync.WaitGroup
		project []*action.Record
		global  []*action.Record
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		h.plugins.LoadAll(ctx, merged)
	}()
	go func() {
		defer wg.Done()
		project = h.loader.LoadDir(h.projectActionsDir(), action.SourceProject)
	}()
	go func() {
		defer wg.Done()
		global = h.loader.LoadDir(h.globalActionsDir(), action.SourceGlobal)
	}()
	wg.Wait()

	h.mu.Lock()
	defer h.mu.Unlock()
	h.merged = merged
	h.project = project
	h.global = global
	h.applyRegistry()

	h.logger.Info("host started",
		zap.Int("actions", h.registry.Count()),
		zap.Int("plugins", h.plugins.Count()),
		zap.String("locale", merged.Locale))
}

// Reload re-reads the configuration and rebuilds the registry. Plugin
// enablement changes take effect here without restarting the process.
// Displaced records are closed only after the registry swap so a
// concurrent lookup never resolves to a closed record.
func (h *Host) Reload(ctx context.Context) {
	merged := h.store.LoadMerged()
	displaced := h.plugins.ReloadActions(merged)

	h.mu.Lock()
	displaced = append(displaced, h.project...)
	displaced = append(displaced, h.global...)
	h.merged = merged
	h.project = h.loader.LoadDir(h.projectActionsDir(), action.SourceProject)
	h.global = h.loader.LoadDir(h.globalActionsDir(), action.SourceGlobal)
	h.applyRegistry()
	count := h.registry.Count()
	h.mu.Unlock()

	for _, rec := range displaced {
		rec.Close()
	}

	h.logger.Info("configuration reloaded", zap.Int("actions", count))
}

// applyRegistry rebuilds the registry wholesale in ascending priority
// order. Callers hold h.mu.
func (h *Host) applyRegistry() {
	h.registry.Clear()
	for _, batch := range [][]*action.Record{h.project, h.global, h.plugins.Actions()} {
		for _, rec := range batch {
			if _, err := h.registry.Register(rec); err != nil {
				h.logger.Warn("action rejected",
					zap.String("action", rec.Name),
					zap.String("source", rec.Source),
					zap.Error(err))
			}
		}
	}
}

// WatchConfig starts the configuration file watcher; every debounced
// change triggers a full Reload.
func (h *Host) WatchConfig(ctx context.Context) error {
	h.watch.OnChange(func() { h.Reload(ctx) })
	return h.watch.Start(ctx)
}

// RunAction executes a registered action by name. The outcome is
// always a Result; an unknown action yields a failed one.
func (h *Host) RunAction(name string, args []string) execctx.Result {
	rec, err := h.registry.Get(name)
	if err != nil {
		return execctx.Result{
			ActionName: name,
			Output:     []string{},
			Err:        &execctx.ExecutionError{Action: name, Err: err},
		}
	}
	return h.executor.Run(rec.Run, h.paramsFor(rec, args))
}

// DescribeAction resolves the action's description, using its describe
// function when it declared one.
func (h *Host) DescribeAction(name string, args []string) (string, error) {
	rec, err := h.registry.Get(name)
	if err != nil {
		return "", err
	}
	ctx, err := execctx.NewFactory(h.catalog, h.logger).New(h.paramsFor(rec, args))
	if err != nil {
		return rec.Description, nil
	}
	return rec.Describe(ctx), nil
}

// paramsFor assembles execution parameters for a record from the
// current merged configuration and the record's plugin, if any.
func (h *Host) paramsFor(rec *action.Record, args []string) execctx.Params {
	h.mu.RLock()
	merged := h.merged
	h.mu.RUnlock()

	p := execctx.Params{
		ActionName: rec.Name,
		Args:       args,
		WorkDir:    h.opts.WorkspaceRoot,
		Sink:       h.opts.Sink,
	}
	if merged != nil {
		p.Locale = merged.Locale
		if tree, err := merged.Map(); err == nil {
			p.MergedConfig = tree
		}
	}
	if pluginName, ok := rec.FromPlugin(); ok {
		if namespace, userConfig, found := h.plugins.Resolve(pluginName); found {
			p.PluginNamespace = namespace
			p.PluginConfig = userConfig
		}
	}
	return p
}

// Actions returns every registered action sorted by name.
func (h *Host) Actions() []*action.Record {
	return h.registry.All()
}

// Plugins returns every loaded plugin in load order.
func (h *Host) Plugins() []*plugin.Plugin {
	return h.plugins.Plugins()
}

// Config returns the current merged configuration document.
func (h *Host) Config() *config.Document {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.merged
}

// Store exposes the layer store for configuration edits.
func (h *Host) Store() *config.Store {
	return h.store
}

// Close stops the watcher and releases every loaded action.
func (h *Host) Close() {
	h.watch.Stop()

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, rec := range h.project {
		rec.Close()
	}
	for _, rec := range h.global {
		rec.Close()
	}
	h.project = nil
	h.global = nil
	h.registry.Clear()
	h.plugins.Close()
}

func (h *Host) projectActionsDir() string {
	return filepath.Join(h.opts.WorkspaceRoot, ".hoist", "actions")
}

func (h *Host) globalActionsDir() string {
	return filepath.Join(h.opts.UserDir, "actions")
}
