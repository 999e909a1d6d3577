package auto

import (
	lua "github.com/yuin/gopher-lua"
)

// DefaultModuleName is the name the module is registered under.
const DefaultModuleName = "auto"

// Loader is a lua.LGFunction returning the module table. It can be passed to
// L.PreloadModule or installed directly as a global.
func (e *Environment) Loader(L *lua.LState) int {
	L.Push(e.Module(L))
	return 1
}

// Preload registers the module with require under DefaultModuleName.
func (e *Environment) Preload(L *lua.LState) {
	L.PreloadModule(DefaultModuleName, e.Loader)
}

// Module builds the table exposed to scripts.
func (e *Environment) Module(L *lua.LState) *lua.LTable {
	mod := L.NewTable()
	L.SetFuncs(mod, map[string]lua.LGFunction{
		"createObject": e.luaCreateObject,
		"createClass":  e.luaCreateClass,
		"init":         e.luaInit,
		"inherits":     luaInherits,
		"isInstance":   luaIsInstance,
		"new":          luaNew,
	})

	names := L.NewTable()
	for _, n := range reservedNames {
		names.Append(lua.LString(n))
	}
	mod.RawSetString("internalProperties", names)
	mod.RawSetString("accessSlot", lua.LString(AccessSlot))
	mod.RawSetString("constructorSlot", lua.LString(ConstructorSlot))
	return mod
}

// createObject([access])
func (e *Environment) luaCreateObject(L *lua.LState) int {
	obj := e.CreateObject(L)
	if access := L.Get(1); isCallable(L, access) {
		obj.RawSetString(AccessSlot, access)
	}
	L.Push(obj)
	return 1
}

// createClass([name])
func (e *Environment) luaCreateClass(L *lua.LState) int {
	L.Push(e.CreateClass(L, className(L, L.Get(1))).Table())
	return 1
}

// init({ emitWarning = fn })
func (e *Environment) luaInit(L *lua.LState) int {
	opts := L.CheckTable(1)
	fn := L.GetField(opts, "emitWarning")
	if !isCallable(L, fn) {
		L.ArgError(1, "emitWarning must be a function")
	}
	e.Init(&luaSink{fn: fn})
	return 0
}

// inherits(Cls, Parent) chains Cls.prototype to Parent.prototype and
// records Parent as Cls.super_.
func luaInherits(L *lua.LState) int {
	ctor := L.CheckTable(1)
	super := L.CheckTable(2)

	proto, ok := L.GetField(ctor, "prototype").(*lua.LTable)
	if !ok {
		L.ArgError(1, "constructor has no prototype table")
	}
	parent, ok := L.GetField(super, "prototype").(*lua.LTable)
	if !ok {
		L.ArgError(2, "super constructor has no prototype table")
	}

	inheritFrom(L, proto, parent)
	ctor.RawSetString("super_", super)
	return 0
}

// isInstance(obj, Cls)
func luaIsInstance(L *lua.LState) int {
	obj := L.CheckAny(1)
	cls := L.CheckTable(2)
	proto, ok := L.GetField(cls, "prototype").(*lua.LTable)
	if !ok {
		L.ArgError(2, "class has no prototype table")
	}
	L.Push(lua.LBool(inPrototypeChain(L, obj, proto)))
	return 1
}

// new(Cls, ...) is equivalent to Cls.new(...).
func luaNew(L *lua.LState) int {
	cls := L.CheckTable(1)
	ctor := L.GetField(cls, "new")
	if !isCallable(L, ctor) {
		L.ArgError(1, "class expected")
	}

	top := L.GetTop()
	L.Push(ctor)
	for i := 2; i <= top; i++ {
		L.Push(L.Get(i))
	}
	L.Call(top-1, 1)
	return 1
}
