package auto

import (
	"github.com/google/uuid"
	lua "github.com/yuin/gopher-lua"

	autoerr "github.com/lexlapax/autoobj/pkg/errors"
)

// DefaultClassName names classes created without a usable name.
const DefaultClassName = "AutoClass"

// Class is a constructable template whose instances are dynamic objects.
// The Lua side sees Table: a table with the fields name, prototype and new.
// Behaviour is supplied through the prototype (or per instance) via the
// access and constructor slots.
type Class struct {
	id    string
	name  string
	env   *Environment
	table *lua.LTable

	// meta is reused while the class's prototype field is unchanged.
	meta      *lua.LTable
	metaProto *lua.LTable
}

// ID returns the unique identifier assigned at creation.
func (c *Class) ID() string { return c.id }

// Name returns the display name.
func (c *Class) Name() string { return c.name }

// Table returns the Lua value representing the class.
func (c *Class) Table() *lua.LTable { return c.table }

// CreateClass returns a new class named name, or DefaultClassName when name
// is empty. The class table belongs to L.
func (e *Environment) CreateClass(L *lua.LState, name string) *Class {
	if name == "" {
		name = DefaultClassName
	}
	c := &Class{id: uuid.NewString(), name: name, env: e}

	cls := L.NewTable()
	proto := L.NewTable()
	inheritFrom(L, proto, basePrototype(L))
	proto.RawSetString("constructor", cls)

	cls.RawSetString("name", lua.LString(name))
	cls.RawSetString("prototype", proto)
	cls.RawSetString("new", L.NewFunction(c.luaNew))

	mt := L.NewTable()
	mt.RawSetString("__name", lua.LString(name))
	L.SetFuncs(mt, map[string]lua.LGFunction{
		"__call": c.luaCall,
		"__tostring": func(L *lua.LState) int {
			L.Push(lua.LString("[class " + c.name + "]"))
			return 1
		},
	})
	L.SetMetatable(cls, mt)

	c.table = cls
	e.register(ClassInfo{ID: c.id, Name: name})
	return c
}

// New constructs an instance in protected mode. A failure raised by the
// constructor hook is returned as the VM's *lua.ApiError; a broken hook
// yields an *Error wrapping errors.ErrBrokenObject.
func (c *Class) New(L *lua.LState, args ...lua.LValue) (*lua.LTable, error) {
	fn := L.NewFunction(c.luaNew)
	if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...); err != nil {
		return nil, ErrorFrom(err)
	}
	inst := L.Get(-1)
	L.Pop(1)
	return inst.(*lua.LTable), nil
}

// luaNew is the construction convention: Cls.new(...).
func (c *Class) luaNew(L *lua.LState) int {
	args := make([]lua.LValue, 0, L.GetTop())
	for i := 1; i <= L.GetTop(); i++ {
		args = append(args, L.Get(i))
	}
	L.Push(c.construct(L, args))
	return 1
}

// luaCall rejects calling the class as a plain function.
func (c *Class) luaCall(L *lua.LState) int {
	raise(L, KindUsage, autoerr.Wrap(autoerr.ErrUsage, "class %s", c.name))
	return 0
}

// construct creates an instance and hands it to the constructor hook, if
// any. args are forwarded verbatim and the hook's results are dropped.
func (c *Class) construct(L *lua.LState, args []lua.LValue) *lua.LTable {
	inst := L.NewTable()
	L.SetMetatable(inst, c.instanceMeta(L))

	hook := L.GetField(inst, ConstructorSlot)
	if hook == lua.LNil {
		return inst
	}
	if !isCallable(L, hook) {
		raise(L, KindBrokenObject, autoerr.Wrap(autoerr.ErrBrokenObject, "class %s", c.name))
	}

	L.Push(hook)
	L.Push(inst)
	for _, arg := range args {
		L.Push(arg)
	}
	L.Call(1+len(args), 0)
	return inst
}

// instanceMeta returns the metatable for new instances, rebuilding it when
// the prototype field was replaced since the last construction. A
// non-table prototype falls back to the base prototype.
func (c *Class) instanceMeta(L *lua.LState) *lua.LTable {
	proto, ok := c.table.RawGetString("prototype").(*lua.LTable)
	if !ok {
		proto = basePrototype(L)
	}
	if c.meta == nil || c.metaProto != proto {
		c.meta = c.env.instanceMeta(L, c.name, proto)
		c.metaProto = proto
	}
	return c.meta
}

// className converts the argument of createClass to a display name. nil
// gives DefaultClassName; other values use tostring semantics, so a
// raising __tostring propagates and a non-string result falls back to the
// default.
func className(L *lua.LState, v lua.LValue) string {
	switch v := v.(type) {
	case *lua.LNilType:
		return DefaultClassName
	case lua.LString:
		return string(v)
	case lua.LNumber:
		return v.String()
	}
	if s, ok := L.ToStringMeta(v).(lua.LString); ok {
		return string(s)
	}
	return DefaultClassName
}
