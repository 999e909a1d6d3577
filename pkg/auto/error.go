package auto

import (
	"errors"

	lua "github.com/yuin/gopher-lua"
)

// Kinds of failure detected by this package.
const (
	KindUsage        = "UsageError"
	KindBrokenObject = "BrokenObjectError"
)

const errorMetaRegistryKey = "autoobj.error"

// Error is a failure detected by the dynamic class machinery. In Lua it is
// raised as a userdata: tostring gives the message, and the fields kind and
// message are readable.
type Error struct {
	Kind string
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// raise throws a typed failure into L. It does not return.
func raise(L *lua.LState, kind string, err error) {
	ud := L.NewUserData()
	ud.Value = &Error{Kind: kind, Err: err}
	L.SetMetatable(ud, errorMeta(L))
	L.Error(ud, 1)
}

func errorMeta(L *lua.LState) *lua.LTable {
	if mt, ok := L.G.Registry.RawGetString(errorMetaRegistryKey).(*lua.LTable); ok {
		return mt
	}

	mt := L.NewTable()
	L.SetFuncs(mt, map[string]lua.LGFunction{
		"__tostring": func(L *lua.LState) int {
			L.Push(lua.LString(checkError(L).Error()))
			return 1
		},
		"__index": func(L *lua.LState) int {
			e := checkError(L)
			switch L.CheckString(2) {
			case "kind":
				L.Push(lua.LString(e.Kind))
			case "message":
				L.Push(lua.LString(e.Error()))
			default:
				L.Push(lua.LNil)
			}
			return 1
		},
	})
	L.G.Registry.RawSetString(errorMetaRegistryKey, mt)
	return mt
}

func checkError(L *lua.LState) *Error {
	ud := L.CheckUserData(1)
	e, ok := ud.Value.(*Error)
	if !ok {
		L.ArgError(1, "autoobj error expected")
	}
	return e
}

// ErrorFrom recovers the *Error carried by a Lua failure raised by this
// package. Any other error, including failures raised by user code, is
// returned unchanged.
func ErrorFrom(err error) error {
	var apiErr *lua.ApiError
	if !errors.As(err, &apiErr) {
		return err
	}
	if ud, ok := apiErr.Object.(*lua.LUserData); ok {
		if e, ok := ud.Value.(*Error); ok {
			return e
		}
	}
	return err
}
