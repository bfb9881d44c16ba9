package uuid

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/wippyai/lua-runtime/runtime"
	"github.com/wippyai/lua-runtime/stack"
)

// TypeName is the metatable name identifiers carry inside the interpreter.
const TypeName = "uuid"

// PushLua boxes u as typed userdata, so identifiers cross into scripts
// with their methods attached. Install must have run on the state first;
// pushing into a state that never saw Install fails with a not-found
// error.
func (u UUID) PushLua(s stack.State) (int, error) {
	g, err := stack.PushUserdata(s, u, TypeName)
	if err != nil {
		return 0, err
	}
	return g.Disarm(), nil
}

// ReadLua recovers an identifier from the userdata at idx.
func (u *UUID) ReadLua(s stack.State, idx int) error {
	v, err := stack.ReadUserdata[UUID](s, idx)
	if err != nil {
		return err
	}
	*u = v
	return nil
}

// Install registers the userdata type on rt and defines the global uuid
// library:
//
//	uuid.new()        random identifier
//	uuid.fromstr(s)   parse a hexadecimal string form
//	uuid.frombin(b)   build from 16 big-endian bytes
//	uuid.str(u)       canonical hyphenated string
//	uuid.is_uuid(v)   whether v is an identifier
//
// Values answer u:str(), u:bin(), and u:isnil(), and render through
// tostring. Registration is per state; run Install on every runtime that
// should exchange identifiers. Running it again merges harmlessly.
func Install(rt *runtime.Runtime) error {
	mt, err := stack.RegisterType(rt, TypeName, map[string]any{
		"str":   UUID.String,
		"bin":   UUID.Bytes,
		"isnil": UUID.IsNil,
	})
	if err != nil {
		return err
	}
	if err := mt.RawSet("__tostring", stack.Func(UUID.String)); err != nil {
		return err
	}

	lib := stack.NewTable(rt)
	entries := map[string]any{
		"new":     New,
		"fromstr": Parse,
		"frombin": FromBytes,
		"str":     UUID.String,
		"is_uuid": isUUID,
	}
	for name, fn := range entries {
		if err := lib.Set(name, stack.Func(fn)); err != nil {
			return err
		}
	}
	return rt.CheckedSet("uuid", lib)
}

// isUUID backs uuid.is_uuid. The optional pointer makes a missing or nil
// argument answer false instead of raising.
func isUUID(v *stack.AnyValue) bool {
	if v == nil || v.Kind != stack.AnyOther {
		return false
	}
	ud, ok := v.Raw.(*lua.LUserData)
	if !ok {
		return false
	}
	_, ok = ud.Value.(UUID)
	return ok
}
