package auto

import (
	lua "github.com/yuin/gopher-lua"
)

const (
	// baseRegistryKey stores the shared base prototype in the state registry.
	baseRegistryKey = "autoobj.prototype"

	// prototypeField is the metatable field linking an instance to its
	// prototype table.
	prototypeField = "__prototype"

	// maxPrototypeDepth bounds prototype walks so a cyclic chain built from
	// Lua cannot hang the host.
	maxPrototypeDepth = 100

	defaultObjectName = "Object"
)

// basePrototype returns the root prototype of L, creating it on first use.
// It provides the native behaviour behind a subset of the reserved names.
func basePrototype(L *lua.LState) *lua.LTable {
	if base, ok := L.G.Registry.RawGetString(baseRegistryKey).(*lua.LTable); ok {
		return base
	}

	base := L.NewTable()
	L.SetFuncs(base, map[string]lua.LGFunction{
		"toString":             protoToString,
		"toLocaleString":       protoToString,
		"valueOf":              protoValueOf,
		"hasOwnProperty":       protoHasOwnProperty,
		"propertyIsEnumerable": protoHasOwnProperty,
		"isPrototypeOf":        protoIsPrototypeOf,
	})
	L.G.Registry.RawSetString(baseRegistryKey, base)
	return base
}

// prototypeOf returns the next link of v's prototype chain: the prototype
// recorded on an instance's metatable, or the table a prototype inherits
// from through __index.
func prototypeOf(L *lua.LState, v lua.LValue) *lua.LTable {
	mt, ok := L.GetMetatable(v).(*lua.LTable)
	if !ok {
		return nil
	}
	if p, ok := mt.RawGetString(prototypeField).(*lua.LTable); ok {
		return p
	}
	if p, ok := mt.RawGetString("__index").(*lua.LTable); ok {
		return p
	}
	return nil
}

// inPrototypeChain reports whether proto appears in v's prototype chain.
func inPrototypeChain(L *lua.LState, v lua.LValue, proto *lua.LTable) bool {
	cur := prototypeOf(L, v)
	for i := 0; cur != nil && i < maxPrototypeDepth; i++ {
		if cur == proto {
			return true
		}
		cur = prototypeOf(L, cur)
	}
	return false
}

// inheritFrom makes proto fall back to parent for missing fields.
func inheritFrom(L *lua.LState, proto, parent *lua.LTable) {
	mt := L.NewTable()
	mt.RawSetString("__index", parent)
	L.SetMetatable(proto, mt)
}

// displayName is the name carried by v's metatable, "Object" otherwise.
func displayName(L *lua.LState, v lua.LValue) string {
	if name, ok := L.GetMetaField(v, "__name").(lua.LString); ok {
		return string(name)
	}
	return defaultObjectName
}

// objectToString renders an instance as "[object Name]".
func objectToString(L *lua.LState) int {
	L.Push(lua.LString("[object " + displayName(L, L.Get(1)) + "]"))
	return 1
}

func protoToString(L *lua.LState) int {
	return objectToString(L)
}

func protoValueOf(L *lua.LState) int {
	L.Push(L.Get(1))
	return 1
}

func protoHasOwnProperty(L *lua.LState) int {
	tb, ok := L.Get(1).(*lua.LTable)
	if !ok {
		L.Push(lua.LFalse)
		return 1
	}
	L.Push(lua.LBool(tb.RawGet(L.CheckAny(2)) != lua.LNil))
	return 1
}

func protoIsPrototypeOf(L *lua.LState) int {
	proto, ok := L.Get(1).(*lua.LTable)
	if !ok {
		L.Push(lua.LFalse)
		return 1
	}
	L.Push(lua.LBool(inPrototypeChain(L, L.Get(2), proto)))
	return 1
}
