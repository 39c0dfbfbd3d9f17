package config

import (
	"encoding/json"
	"fmt"
)

// PluginValue is the per-plugin configuration entry. It is a two-variant
// union: a bare boolean enabled shorthand, or the full {enabled, config}
// object. Exactly one of Bool and Object is set on a decoded value; the
// zero PluginValue means the entry was absent.
type PluginValue struct {
	Bool   *bool
	Object *PluginSettings
}

// PluginSettings is the object form of a plugin entry.
type PluginSettings struct {
	Enabled *bool          `json:"enabled,omitempty"`
	Config  map[string]any `json:"config,omitempty"`
}

// BoolValue returns a PluginValue in boolean shorthand form.
func BoolValue(enabled bool) PluginValue {
	return PluginValue{Bool: &enabled}
}

// ObjectValue returns a PluginValue in object form.
func ObjectValue(enabled *bool, cfg map[string]any) PluginValue {
	return PluginValue{Object: &PluginSettings{Enabled: enabled, Config: cfg}}
}

// IsZero reports whether the entry was absent from every layer.
func (v PluginValue) IsZero() bool {
	return v.Bool == nil && v.Object == nil
}

// Enabled reports whether the plugin is enabled. An absent entry and an
// object without an enabled field both report true; only an explicit
// false disables.
func (v PluginValue) Enabled() bool {
	switch {
	case v.Bool != nil:
		return *v.Bool
	case v.Object != nil:
		return v.Object.Enabled == nil || *v.Object.Enabled
	default:
		return true
	}
}

// Settings returns the plugin-supplied configuration map, or nil for
// the boolean shorthand and absent entries.
func (v PluginValue) Settings() map[string]any {
	if v.Object == nil {
		return nil
	}
	return v.Object.Config
}

// UnmarshalJSON implements json.Unmarshaler for the two-variant union.
func (v *PluginValue) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		v.Bool = &b
		v.Object = nil
		return nil
	}

	var s PluginSettings
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("plugin entry must be a boolean or an object: %w", err)
	}
	v.Bool = nil
	v.Object = &s
	return nil
}

// MarshalJSON implements json.Marshaler.
func (v PluginValue) MarshalJSON() ([]byte, error) {
	switch {
	case v.Bool != nil:
		return json.Marshal(*v.Bool)
	case v.Object != nil:
		return json.Marshal(v.Object)
	default:
		return []byte("null"), nil
	}
}

// MergePluginValue merges the user and workspace entries for one plugin.
//
// Rules:
//   - one side absent: the other wins; both absent: disabled shorthand
//   - workspace boolean: replaces the user entry entirely
//   - workspace object over user boolean: enabled falls back to the user
//     boolean, config comes from workspace alone
//   - both objects: enabled falls back workspace-to-user, configs deep-merge
func MergePluginValue(user, workspace PluginValue) PluginValue {
	switch {
	case user.IsZero() && workspace.IsZero():
		return BoolValue(false)
	case workspace.IsZero():
		return user
	case user.IsZero():
		return workspace
	case workspace.Bool != nil:
		return workspace
	}

	ws := workspace.Object
	if user.Bool != nil {
		enabled := ws.Enabled
		if enabled == nil {
			enabled = user.Bool
		}
		cfg := ws.Config
		if cfg == nil {
			cfg = map[string]any{}
		}
		return ObjectValue(enabled, cfg)
	}

	us := user.Object
	enabled := ws.Enabled
	if enabled == nil {
		enabled = us.Enabled
	}
	return ObjectValue(enabled, DeepMerge(us.Config, ws.Config))
}
