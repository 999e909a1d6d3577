package auto

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
)

// newState returns a Lua state with env's module installed as the global auto.
func newState(t *testing.T, env *Environment) *lua.LState {
	t.Helper()
	L := lua.NewState()
	t.Cleanup(L.Close)
	L.SetGlobal(DefaultModuleName, env.Module(L))
	return L
}

// run executes code and returns its first result.
func run(t *testing.T, L *lua.LState, code string) lua.LValue {
	t.Helper()
	ret, err := exec(L, code)
	require.NoError(t, err)
	return ret
}

// exec executes code in protected mode.
func exec(L *lua.LState, code string) (lua.LValue, error) {
	fn, err := L.LoadString(code)
	if err != nil {
		return lua.LNil, err
	}
	L.Push(fn)
	if err := L.PCall(0, 1, nil); err != nil {
		return lua.LNil, err
	}
	ret := L.Get(-1)
	L.Pop(1)
	return ret, nil
}

// MockSink records warnings.
type MockSink struct {
	mock.Mock
}

func (m *MockSink) EmitWarning(_ *lua.LState, msg string) {
	m.Called(msg)
}
