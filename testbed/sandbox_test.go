package testbed

import (
	stderrors "errors"
	"testing"

	"github.com/wippyai/lua-runtime/engine"
	"github.com/wippyai/lua-runtime/errors"
	"github.com/wippyai/lua-runtime/runtime"
	"github.com/wippyai/lua-runtime/stack"
)

// Opening a subset of the standard libraries is the sandbox posture: what
// was not opened is simply absent from the global environment.
func TestScenario_LibraryGating(t *testing.T) {
	rt := runtime.New()
	defer rt.Close()
	if err := rt.OpenLibraries(engine.LibBase, engine.LibString); err != nil {
		t.Fatalf("open libraries: %v", err)
	}

	ok, err := runtime.Execute[bool](rt, `return string.upper("go") == "GO"`)
	if err != nil {
		t.Fatalf("string library: %v", err)
	}
	if !ok {
		t.Error("string.upper misbehaved")
	}

	if err := rt.Do(`io.open("/etc/passwd")`); !errors.IsExecution(err) {
		t.Errorf("io access error = %v, want execution fault", err)
	}
	if _, err := runtime.CheckedGet[*stack.Table](rt, "os"); !errors.IsNotFound(err) {
		t.Errorf("os global = %v, want not found", err)
	}
}

func TestScenario_BareRuntimeHasNoPrint(t *testing.T) {
	rt := runtime.New()
	defer rt.Close()

	if err := rt.Do(`print("hello")`); !errors.IsExecution(err) {
		t.Errorf("print on a bare runtime: %v", err)
	}
}

func TestScenario_UnknownLibraryName(t *testing.T) {
	rt := runtime.New()
	defer rt.Close()

	err := rt.OpenLibraries("sockets")
	var bridgeErr *errors.Error
	if !stderrors.As(err, &bridgeErr) || bridgeErr.Kind != errors.KindNotFound {
		t.Errorf("unknown library error = %v, want not_found kind", err)
	}
}
