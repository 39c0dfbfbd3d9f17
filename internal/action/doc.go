// Package action defines the action record, the registry that resolves
// names to records, and the loader that turns Lua files on disk into
// registered actions.
//
// Actions arrive from three kinds of sources: the workspace action
// directory, the user-global action directory, and plugins. Sources are
// applied to the registry in ascending priority order; registration is
// last-wins, so a later source silently replaces an earlier record with
// the same name.
package action
