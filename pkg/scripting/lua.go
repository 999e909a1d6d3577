package scripting

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	autoerr "github.com/lexlapax/autoobj/pkg/errors"
	"github.com/lexlapax/autoobj/pkg/log"
)

// ErrFunctionNotFound is returned by ExecuteFunction when no global function
// has the requested name.
var ErrFunctionNotFound = autoerr.ErrFunctionNotFound

// Option configures a LuaEngine.
type Option func(*LuaEngine)

// WithModule installs the table returned by loader as the global name. When
// require is available the module is also registered for it.
func WithModule(name string, loader lua.LGFunction) Option {
	return func(e *LuaEngine) {
		e.modules = append(e.modules, module{name: name, loader: loader})
	}
}

type module struct {
	name   string
	loader lua.LGFunction
}

// LuaEngine runs scripts on a single gopher-lua state. Calls are
// serialized; the state itself is not safe for concurrent use.
type LuaEngine struct {
	mu      sync.Mutex
	L       *lua.LState
	config  Config
	modules []module
}

// NewLuaEngine creates a Lua state configured by cfg with the host API and
// the requested modules installed.
func NewLuaEngine(cfg Config, opts ...Option) (*LuaEngine, error) {
	e := &LuaEngine{config: cfg}
	for _, opt := range opts {
		opt(e)
	}

	e.L = lua.NewState(lua.Options{
		SkipOpenLibs:  cfg.EnableSandboxing,
		CallStackSize: cfg.CallStackSize,
	})

	if cfg.EnableSandboxing {
		if err := setupSandbox(e.L); err != nil {
			e.L.Close()
			return nil, fmt.Errorf("failed to set up sandbox: %w", err)
		}
	}

	registerAPIFunctions(e.L)

	for _, m := range e.modules {
		if err := e.L.CallByParam(lua.P{Fn: e.L.NewFunction(m.loader), NRet: 1, Protect: true}); err != nil {
			e.L.Close()
			return nil, fmt.Errorf("failed to load module %s: %w", m.name, err)
		}
		e.L.SetGlobal(m.name, e.L.Get(-1))
		e.L.Pop(1)

		if !cfg.EnableSandboxing {
			e.L.PreloadModule(m.name, m.loader)
		}
	}

	log.Debug("Lua engine initialized",
		"sandbox", cfg.EnableSandboxing,
		"timeout_ms", cfg.ScriptTimeoutMs,
		"modules", len(e.modules),
	)
	return e, nil
}

// State exposes the underlying Lua state. Callers must not use it
// concurrently with the engine's own methods.
func (e *LuaEngine) State() *lua.LState {
	return e.L
}

// LoadScript compiles and runs content as a chunk named name.
func (e *LuaEngine) LoadScript(name string, content []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	fn, err := e.L.Load(bytes.NewReader(content), name)
	if err != nil {
		return fmt.Errorf("%w: failed to compile %s: %w", autoerr.ErrLuaExecution, name, err)
	}

	e.L.Push(fn)
	if err := e.L.PCall(0, lua.MultRet, nil); err != nil {
		return fmt.Errorf("%w: failed to run %s: %w", autoerr.ErrLuaExecution, name, err)
	}
	e.L.SetTop(0)

	log.Debug("Loaded Lua script", "name", name, "size", len(content))
	return nil
}

// LoadScriptFile loads a Lua script from a file path.
func (e *LuaEngine) LoadScriptFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read script file: %w", err)
	}
	return e.LoadScript(path, content)
}

// LoadScriptDir loads every *.lua file directly inside dir, in name order.
func (e *LuaEngine) LoadScriptDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read script directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".lua") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		if err := e.LoadScriptFile(filepath.Join(dir, name)); err != nil {
			return err
		}
	}
	return nil
}

// ExecuteFunction calls the global Lua function funcName with args
// converted to Lua values and returns its first result converted to Go.
// The context's deadline, or the configured timeout, bounds the call and is
// visible to the script as ctx.deadline.
func (e *LuaEngine) ExecuteFunction(ctx context.Context, funcName string, args ...interface{}) (interface{}, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	fn, ok := e.L.GetGlobal(funcName).(*lua.LFunction)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFunctionNotFound, funcName)
	}

	ctx, cancel := e.withTimeout(ctx)
	defer cancel()
	e.bindContext(ctx)
	defer e.unbindContext()

	luaArgs := make([]lua.LValue, len(args))
	for i, arg := range args {
		luaArgs[i] = convertGoToLua(e.L, arg)
	}

	if err := e.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, luaArgs...); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", autoerr.ErrLuaExecution, funcName, err)
	}
	ret := e.L.Get(-1)
	e.L.Pop(1)

	return convertLuaToGo(ret), nil
}

// Eval runs code and returns its first result. Expressions are tried
// first, so "1 + 1" and "x = 1" both work.
func (e *LuaEngine) Eval(ctx context.Context, code string) (lua.LValue, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	fn, err := e.L.LoadString("return " + code)
	if err != nil {
		fn, err = e.L.LoadString(code)
		if err != nil {
			return lua.LNil, fmt.Errorf("%w: %w", autoerr.ErrLuaExecution, err)
		}
	}

	ctx, cancel := e.withTimeout(ctx)
	defer cancel()
	e.bindContext(ctx)
	defer e.unbindContext()

	if err := e.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}); err != nil {
		return lua.LNil, fmt.Errorf("%w: %w", autoerr.ErrLuaExecution, err)
	}
	ret := e.L.Get(-1)
	e.L.Pop(1)
	return ret, nil
}

// Render formats v the way tostring does, honouring __tostring.
func (e *LuaEngine) Render(v lua.LValue) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	fn := e.L.NewFunction(func(L *lua.LState) int {
		L.Push(L.ToStringMeta(L.Get(1)))
		return 1
	})
	if err := e.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, v); err != nil {
		return "", err
	}
	ret := e.L.Get(-1)
	e.L.Pop(1)
	return ret.String(), nil
}

// Close releases resources associated with the engine.
func (e *LuaEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.L.Close()
	return nil
}

func (e *LuaEngine) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok || e.config.ScriptTimeoutMs <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, time.Duration(e.config.ScriptTimeoutMs)*time.Millisecond)
}

// bindContext attaches ctx to the state and publishes it as the global ctx.
func (e *LuaEngine) bindContext(ctx context.Context) {
	e.L.SetContext(ctx)

	info := e.L.NewTable()
	if deadline, ok := ctx.Deadline(); ok {
		info.RawSetString("deadline", lua.LNumber(deadline.Unix()))
	}
	e.L.SetGlobal("ctx", info)
}

func (e *LuaEngine) unbindContext() {
	e.L.RemoveContext()
	e.L.SetGlobal("ctx", lua.LNil)
}
