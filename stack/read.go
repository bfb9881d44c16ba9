package stack

import (
	"fmt"
	"math"
	"reflect"

	lua "github.com/yuin/gopher-lua"

	"github.com/wippyai/lua-runtime/errors"
)

// Reader deserializes the stack slot at idx into the receiver. Read consults
// it before any builtin kind, always on a pointer receiver. Implementations
// must not mutate the stack.
type Reader interface {
	ReadLua(s State, idx int) error
}

// Read decodes the slot at idx into a T. idx is absolute when positive and
// relative to the top when negative. A failed read returns the zero value
// and a wrong type error without touching the stack, so probing the same
// slot with several target types is cheap.
//
// Scalar targets are strict: booleans decode only from booleans, strings
// only from strings, and integer targets only from numbers whose value is
// integral and in range. Number-to-string coercion is deliberately absent.
// A table slot decodes into *Table as a live reference, never a copy.
func Read[T any](s State, idx int) (T, error) {
	var v T
	if err := readInto(s, idx, &v); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// ReadTop decodes the value on top of the stack.
func ReadTop[T any](s State) (T, error) {
	return Read[T](s, -1)
}

// ReadOptional decodes the slot at idx, treating index 0 as "no value at
// all". The zero index is checked before sign normalization, so it can never
// alias a real position. A nil slot also reads as absent. The second result
// reports whether a value was present.
func ReadOptional[T any](s State, idx int) (T, bool, error) {
	var zero T
	if idx == 0 {
		return zero, false, nil
	}
	if s.RawState().Get(idx) == lua.LNil {
		return zero, false, nil
	}
	v, err := Read[T](s, idx)
	if err != nil {
		return zero, false, err
	}
	return v, true, nil
}

// Absolute converts a relative index to an absolute one against the current
// top. Zero stays zero, and a negative index reaching below the stack
// collapses to zero as well: both mean "no position".
func Absolute(s State, idx int) int {
	if idx >= 0 {
		return idx
	}
	abs := s.RawState().GetTop() + idx + 1
	if abs < 1 {
		return 0
	}
	return abs
}

// Scan decodes consecutive slots starting at base into the given pointers,
// the way database rows scan into destinations. All slots decode or none do.
// On any mismatch it reports a single wrong type error rendering both sides
// as tuples: the expected side lists the destination Go types, the actual
// side the runtime types found, with missing slots shown as "no value".
func Scan(s State, base int, dests ...any) error {
	if len(dests) == 0 {
		return nil
	}
	l := s.RawState()
	start := Absolute(s, base)

	temps := make([]reflect.Value, len(dests))
	expected := make([]string, len(dests))
	actual := make([]string, len(dests))
	failed := false
	for i, d := range dests {
		rv := reflect.ValueOf(d)
		if rv.Kind() != reflect.Pointer || rv.IsNil() {
			return errors.New(errors.PhaseRead, errors.KindUnsupported).
				At(fmt.Sprintf("destination %d", i+1)).
				Detail("scan destination must be a non-nil pointer").Build()
		}
		expected[i] = goTypeName(rv.Type().Elem())

		idx := start + i
		if start == 0 || idx > l.GetTop() {
			actual[i] = "no value"
			failed = true
			continue
		}
		actual[i] = luaTypeName(l.Get(idx))

		tmp := reflect.New(rv.Type().Elem())
		if err := readInto(s, idx, tmp.Interface()); err != nil {
			failed = true
			continue
		}
		temps[i] = tmp
	}
	if failed {
		return errors.WrongType(errors.TypeNames(expected...), actual...)
	}
	for i, d := range dests {
		reflect.ValueOf(d).Elem().Set(temps[i].Elem())
	}
	return nil
}

func readInto(s State, idx int, dest any) error {
	if r, ok := dest.(Reader); ok {
		return r.ReadLua(s, idx)
	}
	return decodeValue(s, s.RawState().Get(idx), dest)
}

// decodeValue moves lv into dest without consulting the stack, which lets
// table entries and call results share one decoder.
func decodeValue(s State, lv lua.LValue, dest any) error {
	switch p := dest.(type) {
	case *bool:
		b, ok := lv.(lua.LBool)
		if !ok {
			return errors.WrongType("bool", luaTypeName(lv))
		}
		*p = bool(b)
	case *int:
		return decodeInt(lv, reflect.ValueOf(dest).Elem())
	case *int64:
		return decodeInt(lv, reflect.ValueOf(dest).Elem())
	case *float64:
		n, ok := lv.(lua.LNumber)
		if !ok {
			return errors.WrongType("float64", luaTypeName(lv))
		}
		*p = float64(n)
	case *string:
		str, ok := lv.(lua.LString)
		if !ok {
			return errors.WrongType("string", luaTypeName(lv))
		}
		*p = string(str)
	case *[]byte:
		str, ok := lv.(lua.LString)
		if !ok {
			return errors.WrongType("[]byte", luaTypeName(lv))
		}
		*p = []byte(str)
	case *lua.LValue:
		*p = lv
	case *AnyValue:
		*p = decodeAny(s, lv)
	case **Table:
		tb, ok := lv.(*lua.LTable)
		if !ok {
			return errors.WrongType("*stack.Table", luaTypeName(lv))
		}
		*p = wrapTable(s, tb)
	case **Function:
		fn, ok := lv.(*lua.LFunction)
		if !ok {
			return errors.WrongType("*stack.Function", luaTypeName(lv))
		}
		*p = &Function{s: s, fn: fn}
	case *any:
		*p = goValue(s, lv)
	default:
		return decodeReflect(s, lv, reflect.ValueOf(dest).Elem())
	}
	return nil
}

func decodeReflect(s State, lv lua.LValue, rv reflect.Value) error {
	switch rv.Kind() {
	case reflect.Bool:
		b, ok := lv.(lua.LBool)
		if !ok {
			return errors.WrongType(goTypeName(rv.Type()), luaTypeName(lv))
		}
		rv.SetBool(bool(b))
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return decodeInt(lv, rv)
	case reflect.Float32, reflect.Float64:
		n, ok := lv.(lua.LNumber)
		if !ok {
			return errors.WrongType(goTypeName(rv.Type()), luaTypeName(lv))
		}
		rv.SetFloat(float64(n))
		return nil
	case reflect.String:
		str, ok := lv.(lua.LString)
		if !ok {
			return errors.WrongType(goTypeName(rv.Type()), luaTypeName(lv))
		}
		rv.SetString(string(str))
		return nil
	case reflect.Slice:
		return decodeSlice(s, lv, rv)
	case reflect.Map:
		return decodeMap(s, lv, rv)
	case reflect.Pointer:
		// Pointer targets are the optional form: nil reads as a nil pointer.
		if lv == lua.LNil {
			rv.SetZero()
			return nil
		}
		elem := reflect.New(rv.Type().Elem())
		if err := decodeValue(s, lv, elem.Interface()); err != nil {
			return err
		}
		rv.Set(elem)
		return nil
	case reflect.Interface:
		if rv.NumMethod() == 0 {
			rv.Set(reflect.ValueOf(goValue(s, lv)))
			return nil
		}
	}
	return decodeUserdata(lv, rv)
}

// decodeUserdata is the terminal fallback: any remaining target type can
// only be satisfied by a userdata slot whose boxed Go value is assignable.
func decodeUserdata(lv lua.LValue, rv reflect.Value) error {
	ud, ok := lv.(*lua.LUserData)
	if !ok {
		return errors.WrongType(goTypeName(rv.Type()), luaTypeName(lv))
	}
	uv := reflect.ValueOf(ud.Value)
	if !uv.IsValid() || !uv.Type().AssignableTo(rv.Type()) {
		return errors.WrongType(goTypeName(rv.Type()), "userdata")
	}
	rv.Set(uv)
	return nil
}

func decodeInt(lv lua.LValue, rv reflect.Value) error {
	n, ok := lv.(lua.LNumber)
	if !ok {
		return errors.WrongType(goTypeName(rv.Type()), luaTypeName(lv))
	}
	f := float64(n)
	if math.Trunc(f) != f || math.IsInf(f, 0) || math.IsNaN(f) {
		return errors.WrongType(goTypeName(rv.Type()), luaTypeName(lv))
	}
	// Range is checked on the float64 before any conversion: converting an
	// out-of-range float to an integer type is implementation-defined, so
	// at the 64-bit widths Overflow* would see a representable garbage
	// value and pass it. 1<<63 and 1<<64 are exact as float64.
	switch rv.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if f < 0 || f >= 1<<64 || rv.OverflowUint(uint64(f)) {
			return errors.WrongType(goTypeName(rv.Type()), luaTypeName(lv))
		}
		rv.SetUint(uint64(f))
	default:
		if f < -1<<63 || f >= 1<<63 || rv.OverflowInt(int64(f)) {
			return errors.WrongType(goTypeName(rv.Type()), luaTypeName(lv))
		}
		rv.SetInt(int64(f))
	}
	return nil
}

func decodeSlice(s State, lv lua.LValue, rv reflect.Value) error {
	if str, ok := lv.(lua.LString); ok && rv.Type().Elem().Kind() == reflect.Uint8 {
		rv.SetBytes([]byte(str))
		return nil
	}
	tb, ok := lv.(*lua.LTable)
	if !ok {
		return errors.WrongType(goTypeName(rv.Type()), luaTypeName(lv))
	}
	n := tb.Len()
	out := reflect.MakeSlice(rv.Type(), n, n)
	for i := 1; i <= n; i++ {
		elem := reflect.New(rv.Type().Elem())
		if err := decodeValue(s, tb.RawGetInt(i), elem.Interface()); err != nil {
			return err
		}
		out.Index(i - 1).Set(elem.Elem())
	}
	rv.Set(out)
	return nil
}

func decodeMap(s State, lv lua.LValue, rv reflect.Value) error {
	tb, ok := lv.(*lua.LTable)
	if !ok {
		return errors.WrongType(goTypeName(rv.Type()), luaTypeName(lv))
	}
	out := reflect.MakeMap(rv.Type())
	var decodeErr error
	key := lua.LValue(lua.LNil)
	for {
		k, v := tb.Next(key)
		if k == lua.LNil {
			break
		}
		mk := reflect.New(rv.Type().Key())
		if err := decodeValue(s, k, mk.Interface()); err != nil {
			decodeErr = err
			break
		}
		mv := reflect.New(rv.Type().Elem())
		if err := decodeValue(s, v, mv.Interface()); err != nil {
			decodeErr = err
			break
		}
		out.SetMapIndex(mk.Elem(), mv.Elem())
		key = k
	}
	if decodeErr != nil {
		return decodeErr
	}
	rv.Set(out)
	return nil
}

// goValue maps an interpreter value to its natural Go shape, used for plain
// interface{} targets: nil, bool, float64, string, *Table, *Function, the
// boxed value of a userdata, or the raw lua.LValue for anything else.
func goValue(s State, lv lua.LValue) any {
	switch x := lv.(type) {
	case *lua.LNilType:
		return nil
	case lua.LBool:
		return bool(x)
	case lua.LNumber:
		return float64(x)
	case lua.LString:
		return string(x)
	case *lua.LTable:
		return wrapTable(s, x)
	case *lua.LFunction:
		return &Function{s: s, fn: x}
	case *lua.LUserData:
		return x.Value
	default:
		return lv
	}
}

func luaTypeName(lv lua.LValue) string {
	return lv.Type().String()
}

var bytesType = reflect.TypeOf([]byte(nil))

func goTypeName(t reflect.Type) string {
	if t == bytesType {
		return "[]byte"
	}
	return t.String()
}
