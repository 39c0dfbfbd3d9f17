package plugin

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeManifest(t *testing.T, dir, body string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestFile), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestParseManifest(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "hoist-plugin-git")
	writeManifest(t, dir, `{
		"meta": {
			"name": "hoist-plugin-git",
			"version": "1.2.0",
			"description": "Git helpers"
		},
		"actions": ["actions/status.lua", "actions/push.lua"],
		"locales": "locales",
		"configSchema": {"remote": "string"}
	}`)

	m, err := ParseManifest(dir)
	if err != nil {
		t.Fatal(err)
	}

	if m.Meta.Name != "hoist-plugin-git" || m.Meta.Version != "1.2.0" {
		t.Errorf("Meta = %+v", m.Meta)
	}
	if m.Namespace() != "git" {
		t.Errorf("Namespace = %q", m.Namespace())
	}
	want := []string{
		filepath.Join(dir, "actions/status.lua"),
		filepath.Join(dir, "actions/push.lua"),
	}
	if !reflect.DeepEqual(m.ActionPaths(), want) {
		t.Errorf("ActionPaths = %v", m.ActionPaths())
	}
	if m.LocalesPath() != filepath.Join(dir, "locales") {
		t.Errorf("LocalesPath = %q", m.LocalesPath())
	}
	if m.ConfigSchema["remote"] != "string" {
		t.Errorf("ConfigSchema = %v", m.ConfigSchema)
	}
}

func TestParseManifestExplicitNamespace(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "hoist-plugin-git")
	writeManifest(t, dir, `{
		"meta": {"name": "hoist-plugin-git", "namespace": "vcs"},
		"actions": ["a.lua"]
	}`)

	m, err := ParseManifest(dir)
	if err != nil {
		t.Fatal(err)
	}
	if m.Namespace() != "vcs" {
		t.Errorf("Namespace = %q", m.Namespace())
	}
}

func TestParseManifestRejections(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{
			name: "missing name",
			body: `{"meta": {}, "actions": ["a.lua"]}`,
			want: ErrMissingName,
		},
		{
			name: "bad prefix",
			body: `{"meta": {"name": "git-tools"}, "actions": ["a.lua"]}`,
			want: ErrBadPrefix,
		},
		{
			name: "disallowed characters",
			body: `{"meta": {"name": "hoist-plugin-Git Tools!"}, "actions": ["a.lua"]}`,
			want: ErrInvalidName,
		},
		{
			name: "no actions key",
			body: `{"meta": {"name": "hoist-plugin-git"}}`,
			want: ErrNoActions,
		},
		{
			name: "empty actions array",
			body: `{"meta": {"name": "hoist-plugin-git"}, "actions": []}`,
			want: ErrNoActions,
		},
		{
			name: "non-string action entry",
			body: `{"meta": {"name": "hoist-plugin-git"}, "actions": [42]}`,
			want: ErrInvalidAction,
		},
		{
			name: "blank action entry",
			body: `{"meta": {"name": "hoist-plugin-git"}, "actions": [" "]}`,
			want: ErrInvalidAction,
		},
		{
			name: "non-string locales",
			body: `{"meta": {"name": "hoist-plugin-git"}, "actions": ["a.lua"], "locales": 7}`,
			want: ErrInvalidLocales,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "hoist-plugin-x")
			writeManifest(t, dir, tt.body)
			if _, err := ParseManifest(dir); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseManifestMissingFile(t *testing.T) {
	if _, err := ParseManifest(t.TempDir()); err == nil {
		t.Fatal("expected an error for a directory without a manifest")
	}
}
