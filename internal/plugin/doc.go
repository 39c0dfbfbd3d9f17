// Package plugin discovers, validates, and loads installed plugin
// packages, and manages their lifecycle against the merged
// configuration.
//
// A plugin is a directory under the plugins root whose name carries the
// hoist-plugin- prefix and which holds a plugin.json manifest declaring
// metadata, action files, and optional locales and config schema.
// Discovery never executes plugin code: a malformed manifest is
// recorded on the descriptor and surfaces later as a load failure for
// that one plugin.
//
// Lifecycle per plugin: discovered, then loaded (enabled or disabled),
// then actions-loaded if enabled. The manager loads all discovered
// plugins concurrently; one plugin's failure is logged and excluded
// without affecting its siblings.
package plugin
