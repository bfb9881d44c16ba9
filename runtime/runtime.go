package runtime

import (
	"io"
	"reflect"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/wippyai/lua-runtime/engine"
	"github.com/wippyai/lua-runtime/errors"
	"github.com/wippyai/lua-runtime/stack"
)

// chunkName labels string-loaded chunks in interpreter error messages,
// matching the interpreter's own convention for anonymous sources.
const chunkName = "<string>"

// Runtime is the top-level entry point: one interpreter instance plus the
// marshaling bridge, behind a small API for running code and exchanging
// globals. A Runtime is a stack.State, so it can be handed directly to the
// stack package for lower-level work.
//
// A Runtime is not safe for concurrent use. Confine each instance to one
// goroutine, or serialize access externally.
type Runtime struct {
	eng *engine.Engine
}

// New creates a runtime that owns a fresh interpreter. With no arguments
// the interpreter starts bare, with no standard libraries loaded; pass an
// *engine.Config to customize construction.
func New(cfg ...*engine.Config) *Runtime {
	if len(cfg) > 0 && cfg[0] != nil {
		return &Runtime{eng: engine.NewWithConfig(cfg[0])}
	}
	return &Runtime{eng: engine.New()}
}

// Attach wraps an interpreter created elsewhere. With closeOnShutdown
// false, Close leaves the foreign instance running; its creator keeps the
// closing obligation.
func Attach(l *lua.LState, closeOnShutdown bool) *Runtime {
	return &Runtime{eng: engine.Attach(l, closeOnShutdown)}
}

// Close shuts the interpreter down if this runtime owns it. Closing
// happens exactly once; later calls are no-ops.
func (rt *Runtime) Close() {
	rt.eng.Close()
}

// RawState returns the underlying interpreter for work the bridge does
// not cover.
func (rt *Runtime) RawState() *lua.LState {
	return rt.eng.RawState()
}

// Engine returns the engine managing the interpreter's lifecycle.
func (rt *Runtime) Engine() *engine.Engine {
	return rt.eng
}

// OpenLibraries loads standard libraries by name, or every standard
// library when called with no arguments. See engine.LibBase and friends
// for the accepted names.
func (rt *Runtime) OpenLibraries(names ...string) error {
	return rt.eng.OpenLibraries(names...)
}

// load compiles code into a callable function without running it.
func (rt *Runtime) load(code string) (*stack.Function, error) {
	fn, err := rt.RawState().Load(strings.NewReader(code), chunkName)
	if err != nil {
		return nil, syntaxError(err)
	}
	return stack.NewFunction(rt, fn), nil
}

// Load compiles code into a callable function without running it, for
// callers that manage invocation and result handling themselves.
func (rt *Runtime) Load(code string) (*stack.Function, error) {
	return rt.load(code)
}

// Do compiles and runs code, discarding any results.
func (rt *Runtime) Do(code string) error {
	fn, err := rt.load(code)
	if err != nil {
		return err
	}
	return fn.Call()
}

// DoReader drains r and runs the result as a chunk. Reader failures
// surface as source errors, distinct from syntax errors in the chunk
// itself.
func (rt *Runtime) DoReader(r io.Reader) error {
	code, err := readSource(r)
	if err != nil {
		return err
	}
	return rt.Do(code)
}

// Execute compiles and runs code, decoding the first value the chunk
// returns into a T. Extra results are dropped; a chunk that returns
// nothing reads as "no value".
func Execute[T any](rt *Runtime, code string) (T, error) {
	fn, err := rt.load(code)
	if err != nil {
		var zero T
		return zero, err
	}
	return stack.Call[T](fn)
}

// ExecuteReader is Execute for a chunk drained from r.
func ExecuteReader[T any](rt *Runtime, r io.Reader) (T, error) {
	code, err := readSource(r)
	if err != nil {
		var zero T
		return zero, err
	}
	return Execute[T](rt, code)
}

// ExecuteScan compiles and runs code, decoding its results into dests
// all at once. Either every destination is assigned or none is, with a
// mismatch report covering the full tuple.
func (rt *Runtime) ExecuteScan(code string, dests ...any) error {
	fn, err := rt.load(code)
	if err != nil {
		return err
	}
	return fn.CallScan(nil, dests...)
}

// Get reads the global name as a V. An absent global and one holding an
// incompatible value both report ok=false; use CheckedGet to tell them
// apart.
func Get[V any](rt *Runtime, name string) (V, bool) {
	v, err := CheckedGet[V](rt, name)
	if err != nil {
		var zero V
		return zero, false
	}
	return v, true
}

// CheckedGet reads the global name as a V, reporting an absent global as
// not found and an incompatible one as a wrong type.
func CheckedGet[V any](rt *Runtime, name string) (V, error) {
	l := rt.RawState()
	lv := l.GetGlobal(name)
	if lv == lua.LNil {
		var zero V
		return zero, errors.NotFound("global", name)
	}
	l.Push(lv)
	defer l.Pop(1)
	return stack.ReadTop[V](rt)
}

// Set binds v to the global name. A failing push means the host passed a
// value kind the bridge cannot marshal; that is a programmer error, and
// Set panics on it. Use CheckedSet to keep the failure as an error.
func (rt *Runtime) Set(name string, v any) {
	if err := rt.CheckedSet(name, v); err != nil {
		panic(err)
	}
}

// CheckedSet pushes v under the one-slot assertion and stores it through
// the globals table, so a __newindex hook on globals observes the write.
func (rt *Runtime) CheckedSet(name string, v any) error {
	g, err := stack.PushOne(rt, v)
	if err != nil {
		return err
	}
	l := rt.RawState()
	l.SetGlobal(name, l.Get(-1))
	g.Close()
	return nil
}

// SetFunc binds a Go function as the global name. Unlike stack.Func it
// rejects non-functions with an error instead of panicking, for callers
// registering callbacks from data.
func (rt *Runtime) SetFunc(name string, fn any) error {
	if reflect.ValueOf(fn).Kind() != reflect.Func {
		return errors.New(errors.PhasePush, errors.KindUnsupported).
			At(name).
			Detail("SetFunc requires a Go function, got %T", fn).
			Build()
	}
	return rt.CheckedSet(name, stack.Func(fn))
}

// EmptyArray binds a fresh empty table to the global name and returns it
// as a live reference, ready for Append. The interpreter does not
// distinguish an empty array from an empty map; the name records intent.
func (rt *Runtime) EmptyArray(name string) *stack.Table {
	t := stack.NewTable(rt)
	rt.Set(name, t)
	return t
}

// GlobalsTable returns the live globals table. Writes through it are
// visible to every chunk, and setting a metatable on it changes global
// lookup interpreter-wide.
func (rt *Runtime) GlobalsTable() *stack.Table {
	l := rt.RawState()
	return stack.WrapTable(rt, l.Get(lua.GlobalsIndex).(*lua.LTable))
}

// readSource drains r up front so transport failures classify as source
// errors before the interpreter sees any input.
func readSource(r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", errors.SourceRead(err)
	}
	return string(b), nil
}

// syntaxError converts the interpreter's load failure into the bridge
// taxonomy. Load reports both parse and compile failures as syntax.
func syntaxError(err error) error {
	if apiErr, ok := err.(*lua.ApiError); ok {
		return errors.Syntax(apiErr.Object.String())
	}
	return errors.Syntax(err.Error())
}
