package uuid

import (
	"strings"
	"testing"

	"github.com/wippyai/lua-runtime/engine"
	"github.com/wippyai/lua-runtime/errors"
	"github.com/wippyai/lua-runtime/runtime"
)

func newRuntime(t *testing.T) *runtime.Runtime {
	t.Helper()
	rt := runtime.New()
	t.Cleanup(rt.Close)
	if err := Install(rt); err != nil {
		t.Fatalf("Install: %v", err)
	}
	return rt
}

func TestInstall_StringRoundTripInScript(t *testing.T) {
	rt := newRuntime(t)
	rt.Set("s", vector)

	ok, err := runtime.Execute[bool](rt, `return uuid.str(uuid.fromstr(s)) == s`)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !ok {
		t.Error("fromstr/str must round-trip the canonical form")
	}
}

func TestInstall_IsUUID(t *testing.T) {
	rt := newRuntime(t)

	cases := []struct {
		name string
		code string
		want bool
	}{
		{"fresh identifier", `return uuid.is_uuid(uuid.new())`, true},
		{"number", `return uuid.is_uuid(42)`, false},
		{"nil", `return uuid.is_uuid(nil)`, false},
		{"no argument", `return uuid.is_uuid()`, false},
		{"table", `return uuid.is_uuid({})`, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := runtime.Execute[bool](rt, tc.code)
			if err != nil {
				t.Fatalf("Execute: %v", err)
			}
			if got != tc.want {
				t.Errorf("= %v, want %v", got, tc.want)
			}
		})
	}
}

func TestUUID_SetGetRoundTrip(t *testing.T) {
	rt := newRuntime(t)
	u := New()

	rt.Set("id", u)
	got, err := runtime.CheckedGet[UUID](rt, "id")
	if err != nil {
		t.Fatalf("CheckedGet: %v", err)
	}
	if got != u {
		t.Errorf("round trip = %s, want %s", got, u)
	}
}

func TestUUID_MethodsFromScript(t *testing.T) {
	rt := newRuntime(t)
	rt.Set("id", mustParse(t, vector))

	str, err := runtime.Execute[string](rt, `return id:str()`)
	if err != nil {
		t.Fatalf("id:str(): %v", err)
	}
	if str != vector {
		t.Errorf("id:str() = %q, want %q", str, vector)
	}

	n, err := runtime.Execute[int](rt, `local b = id:bin() return #b`)
	if err != nil {
		t.Fatalf("id:bin(): %v", err)
	}
	if n != Size {
		t.Errorf("#id:bin() = %d, want %d", n, Size)
	}

	isnil, err := runtime.Execute[bool](rt, `return id:isnil()`)
	if err != nil {
		t.Fatalf("id:isnil(): %v", err)
	}
	if isnil {
		t.Error("id:isnil() = true for a non-nil identifier")
	}

	ok, err := runtime.Execute[bool](rt, `return uuid.str(uuid.frombin(id:bin())) == id:str()`)
	if err != nil {
		t.Fatalf("frombin round trip: %v", err)
	}
	if !ok {
		t.Error("frombin(bin()) must reproduce the identifier")
	}
}

func TestUUID_ToString(t *testing.T) {
	rt := newRuntime(t)
	if err := rt.OpenLibraries(engine.LibBase); err != nil {
		t.Fatalf("OpenLibraries: %v", err)
	}
	rt.Set("id", mustParse(t, vector))

	got, err := runtime.Execute[string](rt, `return tostring(id)`)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got != vector {
		t.Errorf("tostring(id) = %q, want %q", got, vector)
	}
}

func TestUUID_WrongTypeRead(t *testing.T) {
	rt := newRuntime(t)
	rt.Set("n", 5)

	_, err := runtime.CheckedGet[UUID](rt, "n")
	if !errors.IsWrongType(err) {
		t.Fatalf("err = %v, want wrong type", err)
	}
	if !strings.Contains(err.Error(), "expected uuid.UUID, got number") {
		t.Errorf("err = %q, want both types named", err)
	}
}

func TestPush_WithoutInstallIsNotFound(t *testing.T) {
	rt := runtime.New()
	t.Cleanup(rt.Close)

	err := rt.CheckedSet("id", New())
	if !errors.IsNotFound(err) {
		t.Fatalf("err = %v, want not found", err)
	}
	if top := rt.RawState().GetTop(); top != 0 {
		t.Errorf("stack top = %d after failed push, want 0", top)
	}
}

func TestInstall_Twice(t *testing.T) {
	rt := newRuntime(t)

	if err := Install(rt); err != nil {
		t.Fatalf("second Install: %v", err)
	}
	ok, err := runtime.Execute[bool](rt, `return uuid.is_uuid(uuid.new())`)
	if err != nil || !ok {
		t.Fatalf("library broken after reinstall: %v, %v", ok, err)
	}
}

func TestFromstr_BadInputRaises(t *testing.T) {
	rt := newRuntime(t)

	err := rt.Do(`return uuid.fromstr("garbage")`)
	if !errors.IsExecution(err) {
		t.Fatalf("err = %v, want execution", err)
	}
}
