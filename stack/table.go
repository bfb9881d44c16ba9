package stack

import (
	"math"

	lua "github.com/yuin/gopher-lua"

	"github.com/wippyai/lua-runtime/errors"
)

// Table is a live reference to an interpreter table, never a copy: mutations
// through it are immediately visible to running scripts and vice versa. The
// reference stays valid for the lifetime of the interpreter regardless of
// stack movement.
//
// Get and Set honor metamethods; an access hook that raises propagates as a
// panic, which is the interpreter's behavior for unprotected access. The Raw
// variants never invoke hooks.
type Table struct {
	s  State
	tb *lua.LTable
}

// NewTable creates a fresh empty table. It is not pushed anywhere; push it
// explicitly or hand it to Set.
func NewTable(s State) *Table {
	return wrapTable(s, s.RawState().NewTable())
}

// WrapTable adopts an existing interpreter table as a live reference.
func WrapTable(s State, tb *lua.LTable) *Table {
	return wrapTable(s, tb)
}

func wrapTable(s State, tb *lua.LTable) *Table {
	return &Table{s: s, tb: tb}
}

// Raw exposes the underlying interpreter table.
func (t *Table) Raw() *lua.LTable {
	return t.tb
}

// PushLua pushes the referenced table, making *Table a Pusher.
func (t *Table) PushLua(s State) (int, error) {
	if t == nil {
		s.RawState().Push(lua.LNil)
		return 1, nil
	}
	s.RawState().Push(t.tb)
	return 1, nil
}

// Get reads t[key] honoring __index hooks.
func (t *Table) Get(key any) (AnyValue, error) {
	lk, err := lvalueOf(t.s, key)
	if err != nil {
		return AnyValue{}, err
	}
	return decodeAny(t.s, t.s.RawState().GetTable(t.tb, lk)), nil
}

// Set writes t[key] = value honoring __newindex hooks.
func (t *Table) Set(key, value any) error {
	lk, lv, err := t.entry(key, value)
	if err != nil {
		return err
	}
	t.s.RawState().SetTable(t.tb, lk, lv)
	return nil
}

// RawGet reads t[key] without consulting metamethods.
func (t *Table) RawGet(key any) (AnyValue, error) {
	lk, err := lvalueOf(t.s, key)
	if err != nil {
		return AnyValue{}, err
	}
	return decodeAny(t.s, t.tb.RawGet(lk)), nil
}

// RawSet writes t[key] = value without consulting metamethods.
func (t *Table) RawSet(key, value any) error {
	lk, lv, err := t.entry(key, value)
	if err != nil {
		return err
	}
	t.tb.RawSet(lk, lv)
	return nil
}

func (t *Table) entry(key, value any) (lua.LValue, lua.LValue, error) {
	lk, err := lvalueOf(t.s, key)
	if err != nil {
		return nil, nil, err
	}
	if lk == lua.LNil {
		return nil, nil, errors.New(errors.PhasePush, errors.KindUnsupported).
			Detail("table key must not be nil").Build()
	}
	if n, ok := lk.(lua.LNumber); ok && math.IsNaN(float64(n)) {
		return nil, nil, errors.New(errors.PhasePush, errors.KindUnsupported).
			Detail("table key must not be NaN").Build()
	}
	lv, err := lvalueOf(t.s, value)
	if err != nil {
		return nil, nil, err
	}
	return lk, lv, nil
}

// GetAs reads t[key] honoring __index hooks and decodes it into a T.
func GetAs[T any](t *Table, key any) (T, error) {
	var zero T
	lk, err := lvalueOf(t.s, key)
	if err != nil {
		return zero, err
	}
	var v T
	if err := decodeValue(t.s, t.s.RawState().GetTable(t.tb, lk), &v); err != nil {
		return zero, err
	}
	return v, nil
}

// Len reports the raw sequence length, the count of consecutive entries
// from index 1.
func (t *Table) Len() int {
	return t.tb.Len()
}

// Append inserts v at index Len()+1.
func (t *Table) Append(v any) error {
	lv, err := lvalueOf(t.s, v)
	if err != nil {
		return err
	}
	t.tb.Append(lv)
	return nil
}

// ForEach visits every entry in raw iteration order. The walk stops at the
// first error and returns it.
func (t *Table) ForEach(fn func(key, value AnyValue) error) error {
	key := lua.LValue(lua.LNil)
	for {
		k, v := t.tb.Next(key)
		if k == lua.LNil {
			return nil
		}
		if err := fn(decodeAny(t.s, k), decodeAny(t.s, v)); err != nil {
			return err
		}
		key = k
	}
}

// SetMetatable installs mt as the metatable, or clears it when mt is nil.
// Setting hooks on the globals table is how computed globals are built.
func (t *Table) SetMetatable(mt *Table) {
	if mt == nil {
		t.s.RawState().SetMetatable(t.tb, lua.LNil)
		return
	}
	t.s.RawState().SetMetatable(t.tb, mt.tb)
}

// Metatable returns the current metatable, or nil when none is set.
func (t *Table) Metatable() *Table {
	mt, ok := t.s.RawState().GetMetatable(t.tb).(*lua.LTable)
	if !ok {
		return nil
	}
	return wrapTable(t.s, mt)
}
