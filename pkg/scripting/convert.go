package scripting

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// maxConvertDepth stops conversion of self-referencing tables.
const maxConvertDepth = 32

// convertLuaToGo converts a Lua value to plain Go data. Tables with only
// positive integer keys become []interface{}, other tables become
// map[string]interface{}. Only raw fields are read, so dynamic objects
// convert to their own data and never trigger a resolver.
func convertLuaToGo(lv lua.LValue) interface{} {
	return luaToGo(lv, 0)
}

func luaToGo(lv lua.LValue, depth int) interface{} {
	switch v := lv.(type) {
	case *lua.LNilType:
		return nil
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		return float64(v)
	case lua.LString:
		return string(v)
	case *lua.LTable:
		if depth >= maxConvertDepth {
			return nil
		}
		if n := v.MaxN(); n > 0 && n == countKeys(v) {
			arr := make([]interface{}, 0, n)
			for i := 1; i <= n; i++ {
				arr = append(arr, luaToGo(v.RawGetInt(i), depth+1))
			}
			return arr
		}
		m := make(map[string]interface{})
		v.ForEach(func(key, value lua.LValue) {
			m[key.String()] = luaToGo(value, depth+1)
		})
		return m
	default:
		return lv.String()
	}
}

func countKeys(tb *lua.LTable) int {
	n := 0
	tb.ForEach(func(_, _ lua.LValue) { n++ })
	return n
}

// convertGoToLua converts Go data to a Lua value.
func convertGoToLua(L *lua.LState, value interface{}) lua.LValue {
	switch v := value.(type) {
	case nil:
		return lua.LNil
	case lua.LValue:
		return v
	case bool:
		return lua.LBool(v)
	case string:
		return lua.LString(v)
	case int:
		return lua.LNumber(v)
	case int32:
		return lua.LNumber(v)
	case int64:
		return lua.LNumber(v)
	case uint:
		return lua.LNumber(v)
	case uint32:
		return lua.LNumber(v)
	case uint64:
		return lua.LNumber(v)
	case float32:
		return lua.LNumber(v)
	case float64:
		return lua.LNumber(v)
	case []string:
		tb := L.CreateTable(len(v), 0)
		for _, item := range v {
			tb.Append(lua.LString(item))
		}
		return tb
	case []interface{}:
		tb := L.CreateTable(len(v), 0)
		for _, item := range v {
			tb.Append(convertGoToLua(L, item))
		}
		return tb
	case []map[string]interface{}:
		tb := L.CreateTable(len(v), 0)
		for _, item := range v {
			tb.Append(convertGoToLua(L, item))
		}
		return tb
	case map[string]interface{}:
		tb := L.CreateTable(0, len(v))
		for key, item := range v {
			tb.RawSetString(key, convertGoToLua(L, item))
		}
		return tb
	case map[string]string:
		tb := L.CreateTable(0, len(v))
		for key, item := range v {
			tb.RawSetString(key, lua.LString(item))
		}
		return tb
	default:
		return lua.LString(fmt.Sprintf("%v", v))
	}
}
