package stack

import (
	stderrors "errors"
	"strings"
	"testing"

	lua "github.com/yuin/gopher-lua"

	"github.com/wippyai/lua-runtime/engine"
	"github.com/wippyai/lua-runtime/errors"
)

// setGlobalFunc installs fn as a global callback for the script side.
func setGlobalFunc(t *testing.T, s State, name string, fn any) {
	t.Helper()
	l := s.RawState()
	g, err := Push(s, Func(fn))
	if err != nil {
		t.Fatalf("push callback %s: %v", name, err)
	}
	l.SetGlobal(name, l.Get(-1))
	g.Close()
}

func TestFunc_DecodesArgumentsLeftToRight(t *testing.T) {
	s := newTestState(t)
	l := s.RawState()
	setGlobalFunc(t, s, "mul", func(a, b int) int { return a * b })

	if err := l.DoString(`return mul(6, 7)`); err != nil {
		t.Fatalf("DoString: %v", err)
	}
	defer l.Pop(1)
	if got := l.Get(-1); got != lua.LNumber(42) {
		t.Fatalf("mul(6, 7) = %v, want 42", got)
	}
}

func TestFunc_BadArgumentNamesBothTypes(t *testing.T) {
	s := newTestState(t)
	l := s.RawState()
	setGlobalFunc(t, s, "mul", func(a, b int) int { return a * b })

	err := l.DoString(`return mul(6, "x")`)
	if err == nil {
		t.Fatal("expected a raised argument error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "bad argument #2") {
		t.Errorf("missing position: %v", msg)
	}
	if !strings.Contains(msg, "int expected, got string") {
		t.Errorf("missing type pair: %v", msg)
	}
}

func TestFunc_MissingArgumentIsNoValue(t *testing.T) {
	s := newTestState(t)
	l := s.RawState()
	setGlobalFunc(t, s, "mul", func(a, b int) int { return a * b })

	err := l.DoString(`return mul(6)`)
	if err == nil {
		t.Fatal("expected a raised argument error")
	}
	if msg := err.Error(); !strings.Contains(msg, "int expected, got no value") {
		t.Fatalf("error text: %v", msg)
	}
}

func TestFunc_TrailingErrorRaises(t *testing.T) {
	s := newTestState(t)
	l := s.RawState()
	setGlobalFunc(t, s, "fragile", func(ok bool) (string, error) {
		if !ok {
			return "", stderrors.New("told to fail")
		}
		return "fine", nil
	})

	if err := l.DoString(`return fragile(true)`); err != nil {
		t.Fatalf("successful call raised: %v", err)
	}
	if got := l.Get(-1); got != lua.LString("fine") {
		t.Fatalf("result = %v, want fine", got)
	}
	l.Pop(1)

	err := l.DoString(`return fragile(false)`)
	if err == nil {
		t.Fatal("expected the host error to raise")
	}
	if !strings.Contains(err.Error(), "told to fail") {
		t.Fatalf("error text: %v", err)
	}
}

func TestFunc_OptionalPointerParameter(t *testing.T) {
	s := newTestState(t)
	l := s.RawState()
	setGlobalFunc(t, s, "incr", func(a int, step *int) int {
		if step == nil {
			return a + 1
		}
		return a + *step
	})

	if err := l.DoString(`return incr(10), incr(10, 5), incr(10, nil)`); err != nil {
		t.Fatalf("DoString: %v", err)
	}
	defer l.Pop(3)
	if got := l.Get(-3); got != lua.LNumber(11) {
		t.Errorf("incr(10) = %v, want 11", got)
	}
	if got := l.Get(-2); got != lua.LNumber(15) {
		t.Errorf("incr(10, 5) = %v, want 15", got)
	}
	if got := l.Get(-1); got != lua.LNumber(11) {
		t.Errorf("incr(10, nil) = %v, want 11", got)
	}
}

func TestFunc_Variadic(t *testing.T) {
	s := newTestState(t)
	l := s.RawState()
	setGlobalFunc(t, s, "sum", func(vs ...int) int {
		total := 0
		for _, v := range vs {
			total += v
		}
		return total
	})

	if err := l.DoString(`return sum(1, 2, 3, 4)`); err != nil {
		t.Fatalf("DoString: %v", err)
	}
	defer l.Pop(1)
	if got := l.Get(-1); got != lua.LNumber(10) {
		t.Fatalf("sum = %v, want 10", got)
	}
}

func TestFunc_LeadingStateParameter(t *testing.T) {
	s := newTestState(t)
	l := s.RawState()
	setGlobalFunc(t, s, "argc", func(st *lua.LState, first string) int {
		if st == nil {
			return -1
		}
		return st.GetTop()
	})

	if err := l.DoString(`return argc("a")`); err != nil {
		t.Fatalf("DoString: %v", err)
	}
	defer l.Pop(1)
	if got := l.Get(-1); got != lua.LNumber(1) {
		t.Fatalf("state-aware callback saw %v args, want 1", got)
	}
}

func TestFunc_RawCallbackPassthrough(t *testing.T) {
	s := newTestState(t)
	l := s.RawState()
	setGlobalFunc(t, s, "raw", func(l *lua.LState) int {
		l.Push(lua.LString("untouched"))
		return 1
	})

	if err := l.DoString(`return raw(1, 2, 3)`); err != nil {
		t.Fatalf("DoString: %v", err)
	}
	defer l.Pop(1)
	if got := l.Get(-1); got != lua.LString("untouched") {
		t.Fatalf("raw callback returned %v", got)
	}
}

func TestFunc_MultipleResults(t *testing.T) {
	s := newTestState(t)
	l := s.RawState()
	setGlobalFunc(t, s, "pair", func() (int, string) { return 7, "seven" })

	if err := l.DoString(`a, b = pair()`); err != nil {
		t.Fatalf("DoString: %v", err)
	}
	if got := l.GetGlobal("a"); got != lua.LNumber(7) {
		t.Errorf("a = %v, want 7", got)
	}
	if got := l.GetGlobal("b"); got != lua.LString("seven") {
		t.Errorf("b = %v, want seven", got)
	}
}

func TestFunc_NonFunctionPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Func accepted a non-function")
		}
	}()
	Func("not a function")
}

func readGlobalFunction(t *testing.T, s State, name string) *Function {
	t.Helper()
	l := s.RawState()
	l.Push(l.GetGlobal(name))
	f, err := ReadTop[*Function](s)
	if err != nil {
		t.Fatalf("read function %s: %v", name, err)
	}
	l.Pop(1)
	return f
}

func TestFunction_CallReturnsFirstResult(t *testing.T) {
	s := newTestState(t)
	l := s.RawState()
	if err := l.DoString(`function add(a, b) return a + b end`); err != nil {
		t.Fatalf("DoString: %v", err)
	}
	f := readGlobalFunction(t, s, "add")

	before := l.GetTop()
	got, err := Call[int](f, 19, 23)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if got != 42 {
		t.Fatalf("add(19, 23) = %d, want 42", got)
	}
	if l.GetTop() != before {
		t.Fatalf("call leaked slots: top %d, want %d", l.GetTop(), before)
	}
}

func TestFunction_CallScanMultipleResults(t *testing.T) {
	s := newTestState(t)
	l := s.RawState()
	if err := l.DoString(`function multi() return 1, "two", true end`); err != nil {
		t.Fatalf("DoString: %v", err)
	}
	f := readGlobalFunction(t, s, "multi")

	var (
		n  int
		st string
		b  bool
	)
	if err := f.CallScan(nil, &n, &st, &b); err != nil {
		t.Fatalf("CallScan: %v", err)
	}
	if n != 1 || st != "two" || !b {
		t.Fatalf("CallScan produced %d, %q, %v", n, st, b)
	}
}

func TestFunction_CallValues(t *testing.T) {
	s := newTestState(t)
	l := s.RawState()
	if err := l.DoString(`function multi() return 1, "two", true end`); err != nil {
		t.Fatalf("DoString: %v", err)
	}
	f := readGlobalFunction(t, s, "multi")

	before := l.GetTop()
	vals, err := f.CallValues()
	if err != nil {
		t.Fatalf("CallValues: %v", err)
	}
	if len(vals) != 3 {
		t.Fatalf("got %d values, want 3", len(vals))
	}
	if vals[0].Kind != AnyNumber || vals[0].Number != 1 {
		t.Errorf("first value = %+v", vals[0])
	}
	if vals[1].Kind != AnyString || vals[1].Str != "two" {
		t.Errorf("second value = %+v", vals[1])
	}
	if vals[2].Kind != AnyBool || !vals[2].Bool {
		t.Errorf("third value = %+v", vals[2])
	}
	if l.GetTop() != before {
		t.Fatalf("call leaked slots: top %d, want %d", l.GetTop(), before)
	}

	if err := l.DoString(`function nothing() end`); err != nil {
		t.Fatalf("DoString: %v", err)
	}
	vals, err = readGlobalFunction(t, s, "nothing").CallValues()
	if err != nil {
		t.Fatalf("CallValues: %v", err)
	}
	if len(vals) != 0 {
		t.Fatalf("got %d values from a void function, want 0", len(vals))
	}
}

func TestFunction_ErrorRestoresStack(t *testing.T) {
	s := newTestState(t)
	if err := s.OpenLibraries(engine.LibBase); err != nil {
		t.Fatalf("OpenLibraries: %v", err)
	}
	l := s.RawState()
	if err := l.DoString(`function boom() error("kaput") end`); err != nil {
		t.Fatalf("DoString: %v", err)
	}
	f := readGlobalFunction(t, s, "boom")

	before := l.GetTop()
	err := f.Call()
	if err == nil {
		t.Fatal("expected an execution error")
	}
	if !errors.IsExecution(err) {
		t.Fatalf("error kind: %v", err)
	}
	if !strings.Contains(err.Error(), "kaput") {
		t.Fatalf("error text: %v", err)
	}
	// the interpreter restored the pre-call top: no error slot remains
	if l.GetTop() != before {
		t.Fatalf("failed call left slots: top %d, want %d", l.GetTop(), before)
	}
}

func TestFunction_NoResultReadsAsNoValue(t *testing.T) {
	s := newTestState(t)
	l := s.RawState()
	if err := l.DoString(`function nothing() end`); err != nil {
		t.Fatalf("DoString: %v", err)
	}
	f := readGlobalFunction(t, s, "nothing")

	_, err := Call[int](f)
	if err == nil {
		t.Fatal("expected a wrong type error")
	}
	if !errors.IsWrongType(err) || !strings.Contains(err.Error(), "no value") {
		t.Fatalf("error: %v", err)
	}
}

func TestFunction_TupleArgumentSpreads(t *testing.T) {
	s := newTestState(t)
	if err := s.OpenLibraries(engine.LibBase); err != nil {
		t.Fatalf("OpenLibraries: %v", err)
	}
	l := s.RawState()
	if err := l.DoString(`function count(...) return select("#", ...) end`); err != nil {
		t.Fatalf("DoString: %v", err)
	}
	f := readGlobalFunction(t, s, "count")

	// a two-slot Pusher contributes two call arguments
	got, err := Call[int](f, twoSlots{"a", "b"}, "c")
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if got != 3 {
		t.Fatalf("argument count = %d, want 3", got)
	}
}

func TestFunction_ReentrantCallback(t *testing.T) {
	s := newTestState(t)
	l := s.RawState()

	// host -> script -> host: the inner callback runs its own balanced
	// pushes inside the callback frame
	setGlobalFunc(t, s, "double", func(n int) int {
		g := MustPush(s, n)
		v, err := ReadTop[int](s)
		g.Close()
		if err != nil {
			return -1
		}
		return v * 2
	})
	if err := l.DoString(`function viaScript(n) return double(n) + 1 end`); err != nil {
		t.Fatalf("DoString: %v", err)
	}
	f := readGlobalFunction(t, s, "viaScript")

	before := l.GetTop()
	got, err := Call[int](f, 20)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if got != 41 {
		t.Fatalf("viaScript(20) = %d, want 41", got)
	}
	if l.GetTop() != before {
		t.Fatalf("reentrant call unbalanced: top %d, want %d", l.GetTop(), before)
	}
}
