package config

import (
	lua "github.com/yuin/gopher-lua"
)

// sandboxLuaVM strips everything from L that could reach outside the VM:
// command execution, the filesystem, code loading and the debug library.
// string, table and math are left in place.
func sandboxLuaVM(L *lua.LState) {
	for _, name := range []string{
		"os", "io", "debug", "package",
		"require", "dofile", "loadfile", "load", "loadstring",
		"collectgarbage", "print",
	} {
		L.SetGlobal(name, lua.LNil)
	}
}

// newSandboxedVM creates a Lua VM with only the base, table, string and math
// libraries opened, then sandboxed.
func newSandboxedVM() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, lib := range []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.open))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
	sandboxLuaVM(L)
	return L
}
