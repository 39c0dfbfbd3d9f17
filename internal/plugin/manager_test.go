package plugin

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/cbarrett/hoist/internal/config"
	"github.com/cbarrett/hoist/internal/i18n"
)

// installPlugin writes a valid plugin package with one action per name.
func installPlugin(t *testing.T, root, short string, actionNames ...string) {
	t.Helper()
	dir := filepath.Join(root, NamePrefix+short)
	manifest := `{"meta": {"name": "` + NamePrefix + short + `"}, "actions": [`
	for i, name := range actionNames {
		if i > 0 {
			manifest += ", "
		}
		manifest += `"` + name + `.lua"`
	}
	manifest += `]}`
	writeManifest(t, dir, manifest)

	for _, name := range actionNames {
		body := `return { name = "` + name + `", description = "from ` + short + `", run = function(ctx) end }`
		if err := os.WriteFile(filepath.Join(dir, name+".lua"), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func newTestManager(t *testing.T, root string) *Manager {
	t.Helper()
	catalog := i18n.NewCatalog(zap.NewNop())
	return NewManager(
		NewDiscovery(root, zap.NewNop()),
		NewLoader(catalog, zap.NewNop()),
		zap.NewNop(),
	)
}

func TestLoadAllPartialFailureIsolation(t *testing.T) {
	root := t.TempDir()
	installPlugin(t, root, "alpha", "first")
	installPlugin(t, root, "beta", "second")
	installPlugin(t, root, "gamma", "third")
	// corrupt one manifest after install
	writeManifest(t, filepath.Join(root, NamePrefix+"beta"), `{"meta": {}}`)

	mgr := newTestManager(t, root)
	mgr.LoadAll(context.Background(), &config.Document{})

	if mgr.Count() != 2 {
		t.Fatalf("Count = %d, want 2", mgr.Count())
	}
	if _, ok := mgr.Get(NamePrefix + "beta"); ok {
		t.Error("broken plugin was not excluded")
	}
	if len(mgr.Actions()) != 2 {
		t.Errorf("Actions = %d, want 2", len(mgr.Actions()))
	}
}

func TestLoadAllIsIdempotent(t *testing.T) {
	root := t.TempDir()
	installPlugin(t, root, "alpha", "first")

	mgr := newTestManager(t, root)
	mgr.LoadAll(context.Background(), &config.Document{})
	mgr.LoadAll(context.Background(), &config.Document{})

	if mgr.Count() != 1 {
		t.Errorf("Count = %d, want 1", mgr.Count())
	}
	if len(mgr.Actions()) != 1 {
		t.Errorf("Actions = %d, want 1", len(mgr.Actions()))
	}
}

func TestLoadAllEnablementFromConfig(t *testing.T) {
	disabled := false
	tests := []struct {
		name        string
		cfg         *config.Document
		wantEnabled bool
		wantActions int
	}{
		{
			name:        "absent entry enables",
			cfg:         &config.Document{},
			wantEnabled: true,
			wantActions: 1,
		},
		{
			name: "boolean false disables",
			cfg: &config.Document{Plugins: map[string]config.PluginValue{
				NamePrefix + "alpha": config.BoolValue(false),
			}},
			wantEnabled: false,
			wantActions: 0,
		},
		{
			name: "object without enabled field enables",
			cfg: &config.Document{Plugins: map[string]config.PluginValue{
				NamePrefix + "alpha": config.ObjectValue(nil, map[string]any{"k": "v"}),
			}},
			wantEnabled: true,
			wantActions: 1,
		},
		{
			name: "object enabled false disables",
			cfg: &config.Document{Plugins: map[string]config.PluginValue{
				NamePrefix + "alpha": config.ObjectValue(&disabled, nil),
			}},
			wantEnabled: false,
			wantActions: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			installPlugin(t, root, "alpha", "first")

			mgr := newTestManager(t, root)
			mgr.LoadAll(context.Background(), tt.cfg)

			p, ok := mgr.Get(NamePrefix + "alpha")
			if !ok {
				t.Fatal("plugin not loaded")
			}
			if p.Enabled != tt.wantEnabled {
				t.Errorf("Enabled = %v, want %v", p.Enabled, tt.wantEnabled)
			}
			if len(p.Actions()) != tt.wantActions {
				t.Errorf("actions = %d, want %d", len(p.Actions()), tt.wantActions)
			}
		})
	}
}

func TestLoadAllPassesUserConfig(t *testing.T) {
	root := t.TempDir()
	installPlugin(t, root, "alpha", "first")

	cfg := &config.Document{Plugins: map[string]config.PluginValue{
		NamePrefix + "alpha": config.ObjectValue(nil, map[string]any{"remote": "origin"}),
	}}

	mgr := newTestManager(t, root)
	mgr.LoadAll(context.Background(), cfg)

	p, _ := mgr.Get(NamePrefix + "alpha")
	if p.UserConfig["remote"] != "origin" {
		t.Errorf("UserConfig = %v", p.UserConfig)
	}
}

func TestReloadActionsTogglesPlugin(t *testing.T) {
	root := t.TempDir()
	installPlugin(t, root, "alpha", "first")

	mgr := newTestManager(t, root)
	mgr.LoadAll(context.Background(), &config.Document{})
	if len(mgr.Actions()) != 1 {
		t.Fatalf("initial actions = %d", len(mgr.Actions()))
	}

	mgr.ReloadActions(&config.Document{Plugins: map[string]config.PluginValue{
		NamePrefix + "alpha": config.BoolValue(false),
	}})
	if len(mgr.Actions()) != 0 {
		t.Fatalf("actions after disable = %d", len(mgr.Actions()))
	}

	mgr.ReloadActions(&config.Document{})
	if len(mgr.Actions()) != 1 {
		t.Fatalf("actions after re-enable = %d", len(mgr.Actions()))
	}
}

func TestReloadActionsHandsBackDisplacedRecords(t *testing.T) {
	root := t.TempDir()
	installPlugin(t, root, "alpha", "first")

	mgr := newTestManager(t, root)
	mgr.LoadAll(context.Background(), &config.Document{})

	old := mgr.Actions()
	if len(old) != 1 {
		t.Fatalf("initial actions = %d", len(old))
	}

	displaced := mgr.ReloadActions(&config.Document{})
	if len(displaced) != 1 || displaced[0] != old[0] {
		t.Fatalf("displaced = %v, want the pre-reload record", displaced)
	}
	// the fresh record is live; only the displaced one is the caller's
	// to close
	if len(mgr.Actions()) != 1 || mgr.Actions()[0] == old[0] {
		t.Error("reload did not produce a fresh record")
	}
}

func TestResolveSnapshotsPluginMetadata(t *testing.T) {
	root := t.TempDir()
	installPlugin(t, root, "alpha", "first")

	mgr := newTestManager(t, root)
	mgr.LoadAll(context.Background(), &config.Document{Plugins: map[string]config.PluginValue{
		NamePrefix + "alpha": config.ObjectValue(nil, map[string]any{"remote": "origin"}),
	}})

	namespace, userConfig, ok := mgr.Resolve(NamePrefix + "alpha")
	if !ok || namespace != "alpha" {
		t.Fatalf("Resolve = %q, %v", namespace, ok)
	}
	if userConfig["remote"] != "origin" {
		t.Errorf("userConfig = %v", userConfig)
	}

	if _, _, ok := mgr.Resolve("hoist-plugin-missing"); ok {
		t.Error("Resolve reported an unknown plugin")
	}
}

func TestDiscoverSkipsNonPluginEntries(t *testing.T) {
	root := t.TempDir()
	installPlugin(t, root, "alpha", "first")
	if err := os.MkdirAll(filepath.Join(root, "random-dir"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "stray-file"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	discovery := NewDiscovery(root, zap.NewNop())
	found := discovery.Discover()
	if len(found) != 1 || found[0].Name != NamePrefix+"alpha" {
		t.Errorf("found = %v", found)
	}
}

func TestDiscoverAbsentRoot(t *testing.T) {
	discovery := NewDiscovery(filepath.Join(t.TempDir(), "nope"), zap.NewNop())
	if found := discovery.Discover(); len(found) != 0 {
		t.Errorf("found = %v", found)
	}
}

func TestLoadRegistersPluginLocales(t *testing.T) {
	root := t.TempDir()
	installPlugin(t, root, "alpha", "first")
	dir := filepath.Join(root, NamePrefix+"alpha")
	writeManifest(t, dir, `{
		"meta": {"name": "`+NamePrefix+`alpha"},
		"actions": ["first.lua"],
		"locales": "locales"
	}`)
	if err := os.MkdirAll(filepath.Join(dir, "locales"), 0o755); err != nil {
		t.Fatal(err)
	}
	bundle := []byte(`{"greeting": "Bonjour"}`)
	if err := os.WriteFile(filepath.Join(dir, "locales", "fr.json"), bundle, 0o644); err != nil {
		t.Fatal(err)
	}

	catalog := i18n.NewCatalog(zap.NewNop())
	mgr := NewManager(
		NewDiscovery(root, zap.NewNop()),
		NewLoader(catalog, zap.NewNop()),
		zap.NewNop(),
	)
	mgr.LoadAll(context.Background(), &config.Document{})

	if text, ok := catalog.Lookup("fr", "alpha", "greeting"); !ok || text != "Bonjour" {
		t.Errorf("Lookup = %q, %v", text, ok)
	}
}
