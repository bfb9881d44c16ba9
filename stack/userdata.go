package stack

import (
	"reflect"

	lua "github.com/yuin/gopher-lua"

	"github.com/wippyai/lua-runtime/errors"
)

// RegisterType builds a per-state type metatable under name and returns it.
// methods become the __index table, each wrapped as a callback; script-side
// method calls decode the receiver as the first argument. Values must be Go
// funcs.
//
// Registering the same name again returns the existing metatable with the
// methods merged in.
func RegisterType(s State, name string, methods map[string]any) (*Table, error) {
	l := s.RawState()
	mt := l.NewTypeMetatable(name)

	idx, ok := mt.RawGetString("__index").(*lua.LTable)
	if !ok {
		idx = l.NewTable()
		mt.RawSetString("__index", idx)
	}
	for mname, fn := range methods {
		if reflect.ValueOf(fn).Kind() != reflect.Func {
			return nil, errors.New(errors.PhasePush, errors.KindUnsupported).
				At(name + "." + mname).
				Detail("method must be a Go function, got %T", fn).Build()
		}
		gf := Func(fn)
		if gf.raw != nil {
			idx.RawSetString(mname, l.NewFunction(gf.raw))
		} else {
			idx.RawSetString(mname, l.NewFunction(gf.trampoline))
		}
	}
	return wrapTable(s, mt), nil
}

// PushUserdata boxes v as interpreter userdata. When typeName is not empty
// the metatable registered under that name is attached, so the value gains
// its methods; an unregistered name is an error.
func PushUserdata[T any](s State, v T, typeName string) (*Guard, error) {
	l := s.RawState()
	ud := l.NewUserData()
	ud.Value = v
	if typeName != "" {
		mt := l.GetTypeMetatable(typeName)
		if mt == lua.LNil {
			return nil, errors.NotFound("type metatable", typeName)
		}
		ud.Metatable = mt
	}
	l.Push(ud)
	return NewGuard(s, 1), nil
}

// ReadUserdata recovers the boxed Go value at idx. Identity is the Go type
// itself: a userdata slot holding a different Go type reads as a wrong type
// error whose actual side renders as "userdata".
func ReadUserdata[T any](s State, idx int) (T, error) {
	var zero T
	lv := s.RawState().Get(idx)
	want := goTypeName(reflect.TypeOf((*T)(nil)).Elem())
	ud, ok := lv.(*lua.LUserData)
	if !ok {
		return zero, errors.WrongType(want, luaTypeName(lv))
	}
	v, ok := ud.Value.(T)
	if !ok {
		return zero, errors.WrongType(want, "userdata")
	}
	return v, nil
}
