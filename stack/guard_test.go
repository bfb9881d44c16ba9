package stack

import (
	"testing"

	lua "github.com/yuin/gopher-lua"

	"github.com/wippyai/lua-runtime/engine"
)

func newTestState(t *testing.T) *engine.Engine {
	t.Helper()
	e := engine.New()
	t.Cleanup(e.Close)
	return e
}

func TestGuard_ClosePopsOnce(t *testing.T) {
	s := newTestState(t)
	l := s.RawState()

	l.Push(lua.LNumber(1))
	l.Push(lua.LNumber(2))
	l.Push(lua.LNumber(3))
	g := NewGuard(s, 3)

	if got := g.Size(); got != 3 {
		t.Fatalf("Size = %d, want 3", got)
	}
	g.Close()
	if top := l.GetTop(); top != 0 {
		t.Fatalf("top after close = %d, want 0", top)
	}

	l.Push(lua.LNumber(4))
	g.Close() // inert after the first close
	if top := l.GetTop(); top != 1 {
		t.Fatalf("second close mutated the stack, top = %d", top)
	}
}

func TestGuard_DisarmTransfersObligation(t *testing.T) {
	s := newTestState(t)
	l := s.RawState()

	l.Push(lua.LString("a"))
	l.Push(lua.LString("b"))
	g := NewGuard(s, 2)

	if owed := g.Disarm(); owed != 2 {
		t.Fatalf("first Disarm = %d, want 2", owed)
	}
	if owed := g.Disarm(); owed != 0 {
		t.Fatalf("second Disarm = %d, want 0", owed)
	}
	if got := g.Size(); got != 0 {
		t.Fatalf("Size after disarm = %d, want 0", got)
	}

	g.Close()
	if top := l.GetTop(); top != 2 {
		t.Fatalf("close after disarm popped slots, top = %d, want 2", top)
	}
}

func TestGuard_NestedDisarmDoesNotDoublePop(t *testing.T) {
	s := newTestState(t)
	l := s.RawState()

	l.Push(lua.LNumber(1))
	outer := NewGuard(s, 1)
	l.Push(lua.LNumber(2))
	inner := NewGuard(s, 1)

	inner.Disarm() // ownership moved outward
	inner.Close()
	if top := l.GetTop(); top != 2 {
		t.Fatalf("disarmed inner guard popped, top = %d, want 2", top)
	}

	l.Pop(1) // the slot the caller now owes
	outer.Close()
	if top := l.GetTop(); top != 0 {
		t.Fatalf("top = %d, want 0", top)
	}
}

func TestGuard_IntoInner(t *testing.T) {
	s := newTestState(t)
	l := s.RawState()

	l.Push(lua.LTrue)
	g := NewGuard(s, 1)
	inner := g.IntoInner()

	if top := l.GetTop(); top != 0 {
		t.Fatalf("IntoInner left %d slots", top)
	}
	if inner.RawState() != l {
		t.Fatal("IntoInner returned a different handle")
	}
}

func TestGuard_ZeroSlots(t *testing.T) {
	s := newTestState(t)
	g := NewGuard(s, 0)
	g.Close()
	if top := s.RawState().GetTop(); top != 0 {
		t.Fatalf("zero guard mutated the stack, top = %d", top)
	}
}

func TestGuard_AssertOne(t *testing.T) {
	s := newTestState(t)
	l := s.RawState()

	l.Push(lua.LNumber(1))
	NewGuard(s, 1).AssertOne() // must not panic

	l.Push(lua.LNumber(2))
	defer func() {
		if recover() == nil {
			t.Fatal("AssertOne on a two-slot guard did not panic")
		}
	}()
	NewGuard(s, 2).AssertOne()
}

func TestNewGuard_NegativePanics(t *testing.T) {
	s := newTestState(t)
	defer func() {
		if recover() == nil {
			t.Fatal("negative guard size did not panic")
		}
	}()
	NewGuard(s, -1)
}

func TestGuard_IsAState(t *testing.T) {
	s := newTestState(t)
	g := NewGuard(s, 0)
	var _ State = g
	if g.RawState() != s.RawState() {
		t.Fatal("guard does not forward the raw state")
	}
}
