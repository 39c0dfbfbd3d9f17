package host

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/cbarrett/hoist/internal/action"
	"github.com/cbarrett/hoist/internal/execctx"
)

func write(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func actionBody(name, description string) string {
	return `return {
		name = "` + name + `",
		description = "` + description + `",
		run = function(ctx) ctx.output.log("ran ` + description + `") end,
	}`
}

// newTestHost lays out a workspace and user dir with a "deploy" action
// in all three sources.
func newTestHost(t *testing.T) *Host {
	t.Helper()
	workspace := t.TempDir()
	userDir := t.TempDir()

	write(t, filepath.Join(workspace, ".hoist", "actions", "deploy.lua"), actionBody("deploy", "P"))
	write(t, filepath.Join(userDir, "actions", "deploy.lua"), actionBody("deploy", "G"))
	write(t, filepath.Join(userDir, "plugins", "hoist-plugin-tools", "plugin.json"),
		`{"meta": {"name": "hoist-plugin-tools"}, "actions": ["deploy.lua"]}`)
	write(t, filepath.Join(userDir, "plugins", "hoist-plugin-tools", "deploy.lua"),
		actionBody("deploy", "Pl"))

	h := New(Options{
		WorkspaceRoot: workspace,
		UserDir:       userDir,
		Logger:        zap.NewNop(),
	})
	t.Cleanup(h.Close)
	return h
}

func TestStartPriorityOrder(t *testing.T) {
	h := newTestHost(t)
	h.Start(context.Background())

	recs := h.Actions()
	if len(recs) != 1 {
		t.Fatalf("actions = %d, want 1 (same name from all sources)", len(recs))
	}
	if recs[0].Description != "Pl" {
		t.Errorf("Description = %q, want the plugin's %q", recs[0].Description, "Pl")
	}
	if recs[0].Source != action.PluginSource("hoist-plugin-tools") {
		t.Errorf("Source = %q", recs[0].Source)
	}
}

func TestGlobalShadowsProjectWhenPluginDisabled(t *testing.T) {
	h := newTestHost(t)
	write(t, filepath.Join(h.opts.WorkspaceRoot, ".hoist", "config.json"),
		`{"plugins": {"hoist-plugin-tools": false}}`)

	h.Start(context.Background())

	rec, err := h.registry.Get("deploy")
	if err != nil {
		t.Fatal(err)
	}
	if rec.Description != "G" {
		t.Errorf("Description = %q, want %q", rec.Description, "G")
	}
}

func TestRunAction(t *testing.T) {
	h := newTestHost(t)
	h.Start(context.Background())

	result := h.RunAction("deploy", nil)
	if !result.Success {
		t.Fatalf("Success = false, err = %v", result.Err)
	}
	if len(result.Output) != 1 || result.Output[0] != "ran Pl" {
		t.Errorf("Output = %v", result.Output)
	}
}

func TestRunActionUnknownName(t *testing.T) {
	h := newTestHost(t)
	h.Start(context.Background())

	result := h.RunAction("no-such-action", nil)
	if result.Success {
		t.Fatal("Success = true")
	}
	if !errors.Is(result.Err, action.ErrNotFound) {
		t.Errorf("Err = %v, want ErrNotFound in chain", result.Err)
	}
	var execErr *execctx.ExecutionError
	if !errors.As(result.Err, &execErr) {
		t.Errorf("Err type = %T, want *ExecutionError", result.Err)
	}
}

func TestReloadAppliesPluginToggle(t *testing.T) {
	h := newTestHost(t)
	h.Start(context.Background())

	if rec, _ := h.registry.Get("deploy"); rec.Description != "Pl" {
		t.Fatalf("initial owner = %q", rec.Description)
	}

	write(t, filepath.Join(h.opts.WorkspaceRoot, ".hoist", "config.json"),
		`{"plugins": {"hoist-plugin-tools": false}}`)
	h.Reload(context.Background())

	rec, err := h.registry.Get("deploy")
	if err != nil {
		t.Fatal(err)
	}
	if rec.Description != "G" {
		t.Errorf("owner after disable = %q, want %q", rec.Description, "G")
	}

	write(t, filepath.Join(h.opts.WorkspaceRoot, ".hoist", "config.json"), `{}`)
	h.Reload(context.Background())

	rec, _ = h.registry.Get("deploy")
	if rec.Description != "Pl" {
		t.Errorf("owner after re-enable = %q, want %q", rec.Description, "Pl")
	}
}

func TestConcurrentReloadAndRun(t *testing.T) {
	h := newTestHost(t)
	h.Start(context.Background())

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 25; i++ {
			h.Reload(context.Background())
		}
	}()

	for i := 0; i < 100; i++ {
		result := h.RunAction("deploy", nil)
		// A run racing a reload may lose its record mid-swap; it must
		// still come back as a well-formed result, never a panic or a
		// success/error contradiction.
		if result.Success && result.Err != nil {
			t.Fatalf("successful result carries error %v", result.Err)
		}
		if !result.Success && result.Err == nil {
			t.Fatal("failed result carries no error")
		}
	}
	<-done
}

func TestStartWithEmptyDirectories(t *testing.T) {
	h := New(Options{
		WorkspaceRoot: t.TempDir(),
		UserDir:       t.TempDir(),
		Logger:        zap.NewNop(),
	})
	t.Cleanup(h.Close)

	h.Start(context.Background())
	if len(h.Actions()) != 0 {
		t.Errorf("actions = %v", h.Actions())
	}
	if cfg := h.Config(); cfg == nil || cfg.Locale == "" {
		t.Errorf("merged config not total: %+v", cfg)
	}
}

func TestPluginConfigReachesAction(t *testing.T) {
	workspace := t.TempDir()
	userDir := t.TempDir()

	write(t, filepath.Join(userDir, "plugins", "hoist-plugin-tools", "plugin.json"),
		`{"meta": {"name": "hoist-plugin-tools"}, "actions": ["show.lua"]}`)
	write(t, filepath.Join(userDir, "plugins", "hoist-plugin-tools", "show.lua"), `
		return {
			name = "show",
			description = "Show plugin config",
			run = function(ctx)
				ctx.output.log("remote=" .. ctx.plugin_config.remote)
			end,
		}
	`)
	write(t, filepath.Join(userDir, "config.json"),
		`{"plugins": {"hoist-plugin-tools": {"config": {"remote": "origin"}}}}`)

	h := New(Options{WorkspaceRoot: workspace, UserDir: userDir, Logger: zap.NewNop()})
	t.Cleanup(h.Close)
	h.Start(context.Background())

	result := h.RunAction("show", nil)
	if !result.Success {
		t.Fatalf("err = %v", result.Err)
	}
	if len(result.Output) != 1 || result.Output[0] != "remote=origin" {
		t.Errorf("Output = %v", result.Output)
	}
}

func TestDescribeAction(t *testing.T) {
	workspace := t.TempDir()
	write(t, filepath.Join(workspace, ".hoist", "actions", "dyn.lua"), `
		return {
			description = "Static",
			run = function(ctx) end,
			describe = function(ctx) return "Dynamic" end,
		}
	`)

	h := New(Options{WorkspaceRoot: workspace, UserDir: t.TempDir(), Logger: zap.NewNop()})
	t.Cleanup(h.Close)
	h.Start(context.Background())

	got, err := h.DescribeAction("dyn", nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != "Dynamic" {
		t.Errorf("DescribeAction = %q", got)
	}
}
