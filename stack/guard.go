package stack

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	luaruntime "github.com/wippyai/lua-runtime"
)

// State is the capability every bridge operation needs: access to the raw
// interpreter handle. Engines, runtimes, borrowed wrappers and guards all
// provide it, so bridge calls compose across wrapper kinds.
type State = luaruntime.State

// Guard tracks a pending pop obligation on the interpreter stack.
//
// Every successful push hands back a Guard covering exactly the slots it
// wrote. Closing the guard pops them; disarming transfers the obligation to
// the caller. The canonical shape is
//
//	g, err := stack.Push(s, v)
//	if err != nil {
//		return err
//	}
//	defer g.Close()
//
// Guards nest. An inner guard disarms when ownership of its slots moves
// outward, and a disarmed guard is inert no matter how often it is closed
// afterwards, so dropping an outer guard never pops through an inner one
// that already handed its slots off.
type Guard struct {
	s     State
	size  int
	armed bool
}

// NewGuard records that n slots were just pushed on s. It does not touch the
// stack itself. Negative n is a programmer error and panics.
func NewGuard(s State, n int) *Guard {
	if n < 0 {
		panic(fmt.Sprintf("stack: guard size must not be negative, got %d", n))
	}
	return &Guard{s: s, size: n, armed: true}
}

// Size reports how many slots the guard still owns. A disarmed or closed
// guard owns none.
func (g *Guard) Size() int {
	if !g.armed {
		return 0
	}
	return g.size
}

// Disarm cancels the automatic pop and returns the slot count the caller now
// owes. Second and later calls return 0 and pop nothing.
func (g *Guard) Disarm() int {
	if !g.armed {
		return 0
	}
	g.armed = false
	return g.size
}

// Close pops the guarded slots in a single top adjustment, then disarms.
// Safe to call any number of times.
func (g *Guard) Close() {
	if !g.armed {
		return
	}
	g.armed = false
	if g.size == 0 {
		return
	}
	l := g.s.RawState()
	top := l.GetTop() - g.size
	if top < 0 {
		top = 0
	}
	l.SetTop(top)
}

// IntoInner pops any remaining slots and returns the wrapped handle.
func (g *Guard) IntoInner() State {
	g.Close()
	return g.s
}

// AssertOne panics unless the guard covers exactly one slot. Call sites that
// need a single replaceable value use it to enforce the one-slot contract at
// runtime.
func (g *Guard) AssertOne() {
	if g.Size() != 1 {
		panic(fmt.Sprintf("stack: value occupies %d slots, want exactly 1", g.Size()))
	}
}

// RawState forwards the interpreter handle, letting a guard stand in
// anywhere a State is wanted.
func (g *Guard) RawState() *lua.LState {
	return g.s.RawState()
}
