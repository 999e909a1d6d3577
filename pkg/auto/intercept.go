package auto

import (
	lua "github.com/yuin/gopher-lua"
)

// index is the __index metamethod of every dynamic object and class
// instance. It only runs after a raw lookup on the instance missed, so own
// fields always shadow the resolver. The prototype chain is consulted
// before interception.
func (e *Environment) index(L *lua.LState) int {
	self := L.Get(1)
	key := L.Get(2)

	if proto := prototypeOf(L, self); proto != nil {
		if v := L.GetTable(proto, key); v != lua.LNil {
			L.Push(v)
			return 1
		}
	}

	L.Push(e.intercept(L, self, key))
	return 1
}

// intercept decides whether a read of key on self is redirected to the
// resolver stored in the access slot.
//
// Errors raised by the resolver or the warning sink are not recovered here:
// they unwind to whoever performed the read with the raised value intact.
// Resolvers may read other dynamic properties; the only recursion stop is
// that the access slot itself is never intercepted.
func (e *Environment) intercept(L *lua.LState, self lua.LValue, key lua.LValue) lua.LValue {
	name, ok := key.(lua.LString)
	if !ok {
		return lua.LNil
	}
	if string(name) == AccessSlot || IsReserved(string(name)) {
		return lua.LNil
	}

	resolver := L.GetField(self, AccessSlot)
	if !isCallable(L, resolver) {
		if sink := e.Sink(); sink != nil {
			sink.EmitWarning(L, NoAccessMessage)
		}
		return lua.LNil
	}

	L.Push(resolver)
	L.Push(self)
	L.Push(name)
	L.Call(2, 1)
	ret := L.Get(-1)
	L.Pop(1)
	return ret
}

// isCallable reports whether v can be invoked: a function, or any value
// whose metatable defines __call.
func isCallable(L *lua.LState, v lua.LValue) bool {
	if _, ok := v.(*lua.LFunction); ok {
		return true
	}
	return L.GetMetaField(v, "__call") != lua.LNil
}

// Read performs a protected read of key on obj, running interception as a
// plain Lua index expression would. A nil value means the property was not
// found. A failure raised by a resolver is returned as the *lua.ApiError
// produced by the VM, carrying the raised value untouched; failures raised
// by this package come back as *Error.
func Read(L *lua.LState, obj lua.LValue, key string) (lua.LValue, error) {
	fn := L.NewFunction(func(L *lua.LState) int {
		L.Push(L.GetField(L.Get(1), key))
		return 1
	})
	if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, obj); err != nil {
		return lua.LNil, ErrorFrom(err)
	}
	ret := L.Get(-1)
	L.Pop(1)
	return ret, nil
}
