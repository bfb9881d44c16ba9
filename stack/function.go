package stack

import (
	"fmt"
	"reflect"

	lua "github.com/yuin/gopher-lua"

	luaruntime "github.com/wippyai/lua-runtime"
	"github.com/wippyai/lua-runtime/errors"
)

var (
	errType    = reflect.TypeOf((*error)(nil)).Elem()
	lstateType = reflect.TypeOf((*lua.LState)(nil))
)

// GoFunction wraps a Go func as an interpreter callback. It implements
// Pusher, occupying one slot.
//
// The pushed value is a trampoline that decodes arguments left to right by
// the declared parameter type, runs the wrapped func, and pushes its results
// through the push protocol. A failed argument decode raises
//
//	bad argument #i to 'name' (<go type> expected, got <runtime type>)
//
// naming the expected host type and the actual runtime type. A trailing
// error return, when non-nil, is raised as an interpreter error; that is the
// only sanctioned way host failure crosses back into scripts. Panics in the
// wrapped func are not recovered by the trampoline: after a panic the bridge
// promises nothing about interpreter state.
//
// Parameter conventions:
//   - a leading *lua.LState parameter receives the running interpreter
//     instead of decoding an argument, for callbacks that need raw access
//   - pointer parameters are optional: a missing trailing argument or an
//     explicit nil arrives as a nil pointer
//   - a variadic tail consumes all remaining arguments
//
// A func that is already a lua.LGFunction is installed as-is, bypassing the
// trampoline entirely.
type GoFunction struct {
	fn       reflect.Value
	typ      reflect.Type
	raw      lua.LGFunction
	hasState bool
	trailErr bool
}

// Func wraps fn for use as an interpreter callback. It panics if fn is not a
// Go function; use RegisterType or runtime.SetFunc for error-returning
// registration.
func Func(fn any) *GoFunction {
	switch f := fn.(type) {
	case lua.LGFunction:
		return &GoFunction{raw: f}
	case func(*lua.LState) int:
		return &GoFunction{raw: f}
	}
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		panic(fmt.Sprintf("stack: Func requires a Go function, got %T", fn))
	}
	t := v.Type()
	gf := &GoFunction{fn: v, typ: t}
	if t.NumIn() > 0 && t.In(0) == lstateType {
		gf.hasState = true
	}
	if n := t.NumOut(); n > 0 && t.Out(n-1) == errType {
		gf.trailErr = true
	}
	return gf
}

// PushLua installs the callback on the stack of s.
func (gf *GoFunction) PushLua(s State) (int, error) {
	l := s.RawState()
	if gf.raw != nil {
		l.Push(l.NewFunction(gf.raw))
		return 1, nil
	}
	l.Push(l.NewFunction(gf.trampoline))
	return 1, nil
}

func (gf *GoFunction) trampoline(l *lua.LState) int {
	s := luaruntime.Wrap(l)
	nargs := l.GetTop()

	numIn := gf.typ.NumIn()
	start := 0
	if gf.hasState {
		start = 1
	}
	fixedEnd := numIn
	if gf.typ.IsVariadic() {
		fixedEnd = numIn - 1
	}

	in := make([]reflect.Value, 0, numIn+nargs)
	if gf.hasState {
		in = append(in, reflect.ValueOf(l))
	}
	for pi := start; pi < fixedEnd; pi++ {
		pos := pi - start + 1
		in = append(in, liftArg(s, l, pos, nargs, gf.typ.In(pi)))
	}
	if gf.typ.IsVariadic() {
		elem := gf.typ.In(numIn - 1).Elem()
		for pos := fixedEnd - start + 1; pos <= nargs; pos++ {
			in = append(in, liftArg(s, l, pos, nargs, elem))
		}
	}

	out := gf.fn.Call(in)

	if gf.trailErr {
		if ev := out[len(out)-1]; !ev.IsNil() {
			l.RaiseError("%s", ev.Interface().(error).Error())
		}
		out = out[:len(out)-1]
	}

	pushed := 0
	for _, o := range out {
		n, err := pushValue(s, o.Interface())
		if err != nil {
			l.RaiseError("%s", err.Error())
		}
		pushed += n
	}
	return pushed
}

// liftArg decodes the callback argument at pos into a value of type pt. A
// position past the supplied argument count reads through the zero-index
// absent sentinel. Decode failures raise and do not return.
func liftArg(s State, l *lua.LState, pos, nargs int, pt reflect.Type) reflect.Value {
	pv := reflect.New(pt)
	idx := pos
	if pos > nargs {
		idx = 0
	}
	if idx == 0 {
		if pt.Kind() == reflect.Pointer {
			return pv.Elem()
		}
		l.ArgError(pos, fmt.Sprintf("%s expected, got no value", goTypeName(pt)))
	}
	if err := readInto(s, idx, pv.Interface()); err != nil {
		l.ArgError(pos, fmt.Sprintf("%s expected, got %s", goTypeName(pt), luaTypeName(l.Get(idx))))
	}
	return pv.Elem()
}

// Function is a live reference to an interpreter function, obtained through
// Read, table lookups, or call results. Invoking it is atomic from the
// host's perspective: either every result lands on the stack or the
// interpreter restores the pre-call top and the failure surfaces as an
// execution error, with no error slot left behind.
type Function struct {
	s  State
	fn *lua.LFunction
}

// NewFunction wraps a raw interpreter function.
func NewFunction(s State, fn *lua.LFunction) *Function {
	return &Function{s: s, fn: fn}
}

// Raw exposes the underlying interpreter function.
func (f *Function) Raw() *lua.LFunction {
	return f.fn
}

// PushLua pushes the referenced function, making *Function a Pusher.
func (f *Function) PushLua(s State) (int, error) {
	if f == nil {
		s.RawState().Push(lua.LNil)
		return 1, nil
	}
	s.RawState().Push(f.fn)
	return 1, nil
}

// invoke pushes the function and its arguments, runs the protected call, and
// returns a guard over the results plus the absolute index of the first one.
// An argument spanning several slots contributes that many call arguments.
func (f *Function) invoke(args []any) (*Guard, int, error) {
	l := f.s.RawState()
	base := l.GetTop()
	l.Push(f.fn)
	nargs := 0
	for _, a := range args {
		n, err := pushValue(f.s, a)
		if err != nil {
			l.SetTop(base)
			return nil, 0, err
		}
		nargs += n
	}
	if err := l.PCall(nargs, lua.MultRet, nil); err != nil {
		// The interpreter already restored the pre-call top.
		return nil, 0, execError(err)
	}
	return NewGuard(f.s, l.GetTop()-base), base + 1, nil
}

// Call invokes f and discards any results.
func (f *Function) Call(args ...any) error {
	g, _, err := f.invoke(args)
	if err != nil {
		return err
	}
	g.Close()
	return nil
}

// CallScan invokes f and decodes its results into dests, rendering missing
// results as "no value" in the mismatch report.
func (f *Function) CallScan(args []any, dests ...any) error {
	g, first, err := f.invoke(args)
	if err != nil {
		return err
	}
	defer g.Close()
	return Scan(f.s, first, dests...)
}

// CallValues invokes f and returns every result as a dynamic value, however
// many there are. Useful when the result arity is not known up front.
func (f *Function) CallValues(args ...any) ([]AnyValue, error) {
	g, first, err := f.invoke(args)
	if err != nil {
		return nil, err
	}
	defer g.Close()
	out := make([]AnyValue, g.Size())
	for i := range out {
		// The dynamic decode is total; the error is always nil.
		out[i], _ = Read[AnyValue](f.s, first+i)
	}
	return out, nil
}

// Call invokes f and decodes its first result into a T. Extra results are
// dropped; no result at all reads as "no value".
func Call[T any](f *Function, args ...any) (T, error) {
	var zero T
	g, first, err := f.invoke(args)
	if err != nil {
		return zero, err
	}
	defer g.Close()
	if g.Size() == 0 {
		return zero, errors.WrongType(goTypeName(reflect.TypeOf((*T)(nil)).Elem()), "no value")
	}
	return Read[T](f.s, first)
}

func execError(err error) error {
	if apiErr, ok := err.(*lua.ApiError); ok {
		return errors.Execution(apiErr.Object.String())
	}
	return errors.Execution(err.Error())
}
