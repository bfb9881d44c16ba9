package luaruntime

import (
	lua "github.com/yuin/gopher-lua"
)

// State is the capability to reach a live interpreter instance.
// Everything that can currently touch the shared operand stack implements
// it: the owning context, a borrowed wrapper over a raw *lua.LState, and
// push guards tracking pending pops. Bridge code accepts State, never a
// bare *lua.LState, so the wrapper kinds compose.
type State interface {
	// RawState returns the underlying interpreter. Never nil while the
	// owning wrapper is open.
	RawState() *lua.LState
}

// Borrowed is a non-owning State over an existing interpreter. Closing or
// not closing the interpreter remains the creator's concern.
type Borrowed struct {
	l *lua.LState
}

// Wrap borrows an existing interpreter state without taking ownership.
// Used at boundaries where the interpreter hands the host a bare state,
// such as inside callback invocations.
func Wrap(l *lua.LState) Borrowed {
	return Borrowed{l: l}
}

// RawState implements State.
func (b Borrowed) RawState() *lua.LState {
	return b.l
}
