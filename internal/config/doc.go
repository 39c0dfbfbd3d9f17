// Package config implements the two-layer configuration system for hoist.
//
// Configuration lives in two JSON documents: a user-global file
// (~/.config/hoist/config.json) and a workspace-local file
// (.hoist/config.json). Every field is optional in either layer; the
// merged document is total because compiled-in defaults fill the gaps.
// Precedence is workspace over user over defaults, field by field.
//
// Plugin entries are special-cased: a plugin value is either a bare
// boolean (enabled shorthand) or an {enabled, config} object, and the
// two layers merge with rules that preserve the config object across
// the shorthand (see MergePluginValue).
//
// Writes go through Save/Delete, which operate on the raw on-disk bytes
// with dot-notation paths so that keys outside the schema survive a
// partial write untouched.
package config
