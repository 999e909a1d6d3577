package auto

import (
	lua "github.com/yuin/gopher-lua"
)

// instanceMeta builds the metatable wiring an instance to the interception
// engine. name is reported by tostring and toString; proto is the first
// link of the instance's prototype chain.
func (e *Environment) instanceMeta(L *lua.LState, name string, proto *lua.LTable) *lua.LTable {
	mt := L.NewTable()
	mt.RawSetString("__name", lua.LString(name))
	mt.RawSetString(prototypeField, proto)
	mt.RawSetString("__index", L.NewFunction(e.index))
	mt.RawSetString("__tostring", L.NewFunction(objectToString))
	return mt
}

// CreateObject returns a new dynamic object with no resolver installed.
// Reads of missing properties are intercepted once a function is stored in
// its access slot.
func (e *Environment) CreateObject(L *lua.LState) *lua.LTable {
	obj := L.NewTable()
	L.SetMetatable(obj, e.instanceMeta(L, defaultObjectName, basePrototype(L)))
	return obj
}
