package stack

import (
	"fmt"
	"reflect"

	lua "github.com/yuin/gopher-lua"

	"github.com/wippyai/lua-runtime/errors"
)

// Pusher serializes a Go value onto the interpreter stack. PushLua reports
// how many slots it wrote. Implementations must be net-neutral on error: a
// failed PushLua leaves the stack exactly as it found it.
//
// Push consults Pusher before any builtin kind, so new value kinds hook into
// the bridge without modifying it.
type Pusher interface {
	PushLua(s State) (int, error)
}

// Push serializes v onto the stack of s and returns a guard covering exactly
// the slots written. On error no net slots remain and the returned guard is
// nil, so the caller may retry with another representation.
//
// Builtin kinds: nil, booleans, all integer and float widths, strings and
// byte slices, lua.LValue, AnyValue, *Table, *Function, Go funcs (wrapped as
// callbacks), slices and arrays (one table slot), maps (one table slot), and
// pointers (nil pushes nil, otherwise the pointee is pushed). Everything
// else fails with an unsupported error unless it implements Pusher.
func Push(s State, v any) (*Guard, error) {
	n, err := pushValue(s, v)
	if err != nil {
		return nil, err
	}
	return NewGuard(s, n), nil
}

// PushOne is Push for values that must occupy exactly one slot. It panics if
// the value spans any other slot count. Use it where a single replaceable
// value is required, never for tuples.
func PushOne(s State, v any) (*Guard, error) {
	g, err := Push(s, v)
	if err != nil {
		return nil, err
	}
	g.AssertOne()
	return g, nil
}

// MustPush is Push for values known to serialize. It panics on error.
func MustPush(s State, v any) *Guard {
	g, err := Push(s, v)
	if err != nil {
		panic(err)
	}
	return g
}

// PushValues serializes vs left to right and returns one guard covering the
// summed slot count. If any element fails, the slots of the elements before
// it are popped first, so a failed multi-push is net-neutral too.
func PushValues(s State, vs ...any) (*Guard, error) {
	total := 0
	for _, v := range vs {
		n, err := pushValue(s, v)
		if err != nil {
			if total > 0 {
				l := s.RawState()
				l.SetTop(l.GetTop() - total)
			}
			return nil, err
		}
		total += n
	}
	return NewGuard(s, total), nil
}

func pushValue(s State, v any) (int, error) {
	l := s.RawState()
	if v == nil {
		l.Push(lua.LNil)
		return 1, nil
	}
	if p, ok := v.(Pusher); ok {
		return p.PushLua(s)
	}
	switch x := v.(type) {
	case lua.LValue:
		l.Push(x)
	case bool:
		l.Push(lua.LBool(x))
	case int:
		l.Push(lua.LNumber(x))
	case int8:
		l.Push(lua.LNumber(x))
	case int16:
		l.Push(lua.LNumber(x))
	case int32:
		l.Push(lua.LNumber(x))
	case int64:
		l.Push(lua.LNumber(x))
	case uint:
		l.Push(lua.LNumber(x))
	case uint8:
		l.Push(lua.LNumber(x))
	case uint16:
		l.Push(lua.LNumber(x))
	case uint32:
		l.Push(lua.LNumber(x))
	case uint64:
		l.Push(lua.LNumber(x))
	case float32:
		l.Push(lua.LNumber(x))
	case float64:
		l.Push(lua.LNumber(x))
	case string:
		l.Push(lua.LString(x))
	case []byte:
		l.Push(lua.LString(x))
	case AnyValue:
		lv, err := anyLValue(s, x)
		if err != nil {
			return 0, err
		}
		l.Push(lv)
	default:
		return pushReflect(s, reflect.ValueOf(v))
	}
	return 1, nil
}

func pushReflect(s State, rv reflect.Value) (int, error) {
	l := s.RawState()
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			l.Push(lua.LNil)
			return 1, nil
		}
		return pushValue(s, rv.Elem().Interface())
	case reflect.Func:
		return Func(rv.Interface()).PushLua(s)
	case reflect.Slice, reflect.Array:
		return pushSequence(s, rv)
	case reflect.Map:
		return pushPairs(s, rv)
	}
	return 0, errors.Unsupported(errors.PhasePush, fmt.Sprintf("%T", rv.Interface()))
}

// pushSequence folds a slice or array into a fresh table with keys 1..n.
// Elements route through the regular push path, so nested slices, maps and
// Pusher values all work; an element that does not occupy exactly one slot
// is rejected.
func pushSequence(s State, rv reflect.Value) (int, error) {
	l := s.RawState()
	n := rv.Len()
	tb := l.CreateTable(n, 0)
	for i := 0; i < n; i++ {
		lv, err := lvalueOf(s, rv.Index(i).Interface())
		if err != nil {
			return 0, err
		}
		tb.RawSetInt(i+1, lv)
	}
	l.Push(tb)
	return 1, nil
}

func pushPairs(s State, rv reflect.Value) (int, error) {
	l := s.RawState()
	tb := l.CreateTable(0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k, err := lvalueOf(s, iter.Key().Interface())
		if err != nil {
			return 0, err
		}
		if k == lua.LNil {
			return 0, errors.New(errors.PhasePush, errors.KindUnsupported).
				Detail("table key must not be nil").Build()
		}
		val, err := lvalueOf(s, iter.Value().Interface())
		if err != nil {
			return 0, err
		}
		tb.RawSet(k, val)
	}
	l.Push(tb)
	return 1, nil
}

// lvalueOf serializes v through the regular push path and hands back the
// single resulting value, leaving the stack as it found it.
func lvalueOf(s State, v any) (lua.LValue, error) {
	n, err := pushValue(s, v)
	if err != nil {
		return nil, err
	}
	l := s.RawState()
	if n != 1 {
		l.SetTop(l.GetTop() - n)
		return nil, errors.New(errors.PhasePush, errors.KindUnsupported).
			Detail("value occupies %d slots, table entries need exactly one", n).Build()
	}
	lv := l.Get(-1)
	l.Pop(1)
	return lv, nil
}
