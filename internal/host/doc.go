// Package host wires the runtime together: configuration, the
// translation catalog, plugin lifecycle, action loading from the three
// sources, the registry, and the executor.
//
// Startup loads the three action sources concurrently but applies them
// to the registry in a fixed priority order: project, then global,
// then plugin. Registration is last-wins, so a plugin action shadows a
// same-named global action, which shadows a same-named project action,
// regardless of which source finished loading first.
package host
