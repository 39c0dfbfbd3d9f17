package script

import (
	"fmt"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/cbarrett/hoist/internal/execctx"
)

// Action is a loaded Lua action. It owns its interpreter state; Close
// must be called when the action is discarded.
type Action struct {
	// Name declared in the action table, empty when the file declared
	// none (the caller derives one from the file name).
	Name string

	// Description is the static action description.
	Description string

	// Category is the declared grouping, empty when absent.
	Category string

	// Tags are the declared free-form labels.
	Tags []string

	// Translations are the inline locale bundles, locale -> key -> text.
	Translations map[string]map[string]string

	// HasDescribe reports whether the file declared a describe function.
	HasDescribe bool

	state    *State
	run      *lua.LFunction
	describe *lua.LFunction
}

// LoadAction executes the Lua file at path in a fresh sandboxed state
// and validates the table it returns. On any failure the state is
// closed before returning.
func LoadAction(path string) (*Action, error) {
	state := NewState()

	value, err := state.LoadChunk(path)
	if err != nil {
		state.Close()
		return nil, err
	}

	tbl, ok := value.(*lua.LTable)
	if !ok {
		state.Close()
		return nil, fmt.Errorf("%w, got %s", ErrNotTable, value.Type())
	}

	action := &Action{state: state}
	if err := action.fromTable(tbl); err != nil {
		state.Close()
		return nil, err
	}
	return action, nil
}

// fromTable populates the action from the declaration table.
func (a *Action) fromTable(tbl *lua.LTable) error {
	if name, ok := tbl.RawGetString("name").(lua.LString); ok {
		a.Name = strings.TrimSpace(string(name))
	}

	desc, ok := tbl.RawGetString("description").(lua.LString)
	if !ok || strings.TrimSpace(string(desc)) == "" {
		return ErrMissingDescription
	}
	a.Description = string(desc)

	run, ok := tbl.RawGetString("run").(*lua.LFunction)
	if !ok {
		return ErrMissingRun
	}
	a.run = run

	if describe, ok := tbl.RawGetString("describe").(*lua.LFunction); ok {
		a.describe = describe
		a.HasDescribe = true
	}

	if category, ok := tbl.RawGetString("category").(lua.LString); ok {
		a.Category = string(category)
	}

	if tags, ok := tbl.RawGetString("tags").(*lua.LTable); ok {
		tags.ForEach(func(_, v lua.LValue) {
			if s, ok := v.(lua.LString); ok {
				a.Tags = append(a.Tags, string(s))
			}
		})
	}

	if translations, ok := tbl.RawGetString("translations").(*lua.LTable); ok {
		a.Translations = decodeTranslations(translations)
	}

	return nil
}

// decodeTranslations flattens the inline locale bundles. Non-string
// entries are silently dropped.
func decodeTranslations(tbl *lua.LTable) map[string]map[string]string {
	raw, ok := luaToGo(tbl).(map[string]any)
	if !ok {
		return nil
	}

	out := make(map[string]map[string]string)
	for locale, bundle := range raw {
		entries, ok := bundle.(map[string]any)
		if !ok {
			continue
		}
		flat := make(map[string]string)
		for key, text := range entries {
			if s, ok := text.(string); ok {
				flat[key] = s
			}
		}
		if len(flat) > 0 {
			out[locale] = flat
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Run invokes the action's run function against ctx. A Lua error or
// interpreter panic comes back as a Go error for the executor to
// normalize.
func (a *Action) Run(ctx *execctx.Context) error {
	return a.state.CallProtected(func(L *lua.LState) error {
		return L.CallByParam(lua.P{
			Fn:      a.run,
			NRet:    0,
			Protect: true,
		}, contextTable(L, ctx))
	})
}

// Describe invokes the declared describe function and returns its
// string result. On a missing function, call failure, or non-string
// result it falls back to the static description.
func (a *Action) Describe(ctx *execctx.Context) string {
	if a.describe == nil {
		return a.Description
	}

	text := a.Description
	err := a.state.CallProtected(func(L *lua.LState) error {
		if err := L.CallByParam(lua.P{
			Fn:      a.describe,
			NRet:    1,
			Protect: true,
		}, contextTable(L, ctx)); err != nil {
			return err
		}
		if s, ok := L.Get(-1).(lua.LString); ok {
			text = string(s)
		}
		L.Pop(1)
		return nil
	})
	if err != nil {
		return a.Description
	}
	return text
}

// Close releases the action's interpreter state.
func (a *Action) Close() {
	a.state.Close()
}
