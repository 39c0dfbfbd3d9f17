package script

import (
	"context"
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/cbarrett/hoist/internal/execctx"
)

// contextTable builds the ctx table handed to run and describe:
//
//	ctx.name           invoked action name
//	ctx.args           positional arguments (array)
//	ctx.config         merged configuration snapshot
//	ctx.plugin_config  plugin configuration, nil for non-plugin actions
//	ctx.env            process environment at invocation time
//	ctx.t(key)         scoped translation lookup
//	ctx.output.log(m)  buffered + streamed output line
//	ctx.shell.run(cmd, ...)  subprocess, returns {code, stdout, stderr}
func contextTable(L *lua.LState, ctx *execctx.Context) *lua.LTable {
	tbl := L.NewTable()
	tbl.RawSetString("name", lua.LString(ctx.ActionName))
	tbl.RawSetString("args", stringsToTable(L, ctx.Args))
	tbl.RawSetString("config", goToLua(L, ctx.Config))
	tbl.RawSetString("plugin_config", goToLua(L, ctx.PluginConfig))
	tbl.RawSetString("env", stringMapToTable(L, ctx.Env))

	tbl.RawSetString("t", L.NewFunction(func(L *lua.LState) int {
		key := L.CheckString(1)
		L.Push(lua.LString(ctx.Translator.T(key)))
		return 1
	}))

	output := L.NewTable()
	output.RawSetString("log", L.NewFunction(func(L *lua.LState) int {
		ctx.Output.Log(L.CheckString(1))
		return 0
	}))
	tbl.RawSetString("output", output)

	shell := L.NewTable()
	shell.RawSetString("run", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		args := make([]string, 0, L.GetTop()-1)
		for i := 2; i <= L.GetTop(); i++ {
			args = append(args, L.CheckString(i))
		}

		result := ctx.Shell.Run(context.Background(), name, args...)

		out := L.NewTable()
		out.RawSetString("code", lua.LNumber(result.ExitCode))
		out.RawSetString("stdout", lua.LString(result.Stdout))
		out.RawSetString("stderr", lua.LString(result.Stderr))
		L.Push(out)
		return 1
	}))
	tbl.RawSetString("shell", shell)

	return tbl
}

// goToLua converts a JSON-shaped Go value into a Lua value.
func goToLua(L *lua.LState, v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(val)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case string:
		return lua.LString(val)
	case []any:
		tbl := L.NewTable()
		for i, item := range val {
			tbl.RawSetInt(i+1, goToLua(L, item))
		}
		return tbl
	case []string:
		return stringsToTable(L, val)
	case map[string]any:
		tbl := L.NewTable()
		for k, item := range val {
			tbl.RawSetString(k, goToLua(L, item))
		}
		return tbl
	default:
		return lua.LString(fmt.Sprintf("%v", val))
	}
}

// luaToGo converts a Lua value into its JSON-shaped Go equivalent.
// Tables with contiguous 1..n integer keys become slices, everything
// else becomes a string-keyed map. Functions convert to nil.
func luaToGo(lv lua.LValue) any {
	return luaToGoVisited(lv, make(map[*lua.LTable]bool))
}

func luaToGoVisited(lv lua.LValue, visited map[*lua.LTable]bool) any {
	switch v := lv.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		f := float64(v)
		if f == float64(int64(f)) {
			return int64(f)
		}
		return f
	case lua.LString:
		return string(v)
	case *lua.LTable:
		if visited[v] {
			return nil
		}
		visited[v] = true
		return tableToGo(v, visited)
	default:
		return nil
	}
}

func tableToGo(t *lua.LTable, visited map[*lua.LTable]bool) any {
	isArray := true
	maxN := 0
	count := 0
	t.ForEach(func(k, _ lua.LValue) {
		count++
		kn, ok := k.(lua.LNumber)
		if !ok || float64(kn) != float64(int(kn)) || int(kn) < 1 {
			isArray = false
			return
		}
		if int(kn) > maxN {
			maxN = int(kn)
		}
	})

	if isArray && count > 0 && count == maxN {
		arr := make([]any, maxN)
		for i := 1; i <= maxN; i++ {
			arr[i-1] = luaToGoVisited(t.RawGetInt(i), visited)
		}
		return arr
	}

	m := make(map[string]any, count)
	t.ForEach(func(k, v lua.LValue) {
		m[k.String()] = luaToGoVisited(v, visited)
	})
	return m
}

// stringsToTable converts a string slice to a Lua array.
func stringsToTable(L *lua.LState, items []string) *lua.LTable {
	tbl := L.NewTable()
	for i, item := range items {
		tbl.RawSetInt(i+1, lua.LString(item))
	}
	return tbl
}

// stringMapToTable converts a string map to a Lua table.
func stringMapToTable(L *lua.LState, m map[string]string) *lua.LTable {
	tbl := L.NewTable()
	for k, v := range m {
		tbl.RawSetString(k, lua.LString(v))
	}
	return tbl
}
