package engine

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/wippyai/lua-runtime/errors"
)

// Engine owns one interpreter instance and its teardown.
type Engine struct {
	l      *lua.LState
	owns   bool
	closed bool
}

// Config holds configuration for interpreter creation
type Config struct {
	// OpenAllLibraries loads the full standard library set at creation.
	// The zero value creates a bare state; open libraries selectively
	// with OpenLibraries afterwards.
	OpenAllLibraries bool

	// CallStackSize sets the interpreter call stack depth.
	// 0 means the interpreter default (256 frames).
	CallStackSize int

	// RegistrySize sets the initial operand stack registry size.
	// 0 means the interpreter default (256*20 slots).
	RegistrySize int

	// IncludeGoStackTrace includes the Go stack trace in raised errors.
	IncludeGoStackTrace bool
}

// User-facing standard library names accepted by OpenLibraries.
const (
	LibBase      = "base"
	LibPackage   = "package"
	LibTable     = "table"
	LibIO        = "io"
	LibOS        = "os"
	LibString    = "string"
	LibMath      = "math"
	LibDebug     = "debug"
	LibChannel   = "channel"
	LibCoroutine = "coroutine"
)

// stdLibraries maps user-facing names to the interpreter's registration
// name and opener. Ordered: package must open first so later libraries
// land in package.loaded.
var stdLibraries = []struct {
	name     string
	internal string
	open     lua.LGFunction
}{
	{LibPackage, lua.LoadLibName, lua.OpenPackage},
	{LibBase, lua.BaseLibName, lua.OpenBase},
	{LibTable, lua.TabLibName, lua.OpenTable},
	{LibIO, lua.IoLibName, lua.OpenIo},
	{LibOS, lua.OsLibName, lua.OpenOs},
	{LibString, lua.StringLibName, lua.OpenString},
	{LibMath, lua.MathLibName, lua.OpenMath},
	{LibDebug, lua.DebugLibName, lua.OpenDebug},
	{LibChannel, lua.ChannelLibName, lua.OpenChannel},
	{LibCoroutine, lua.CoroutineLibName, lua.OpenCoroutine},
}

// New creates a bare interpreter with no standard libraries loaded.
// Creation cannot fail recoverably: state construction is pure-Go
// allocation, and allocation failure aborts the process, matching the
// interpreter's own fatal-OOM convention.
func New() *Engine {
	return NewWithConfig(nil)
}

// NewWithConfig creates an interpreter with custom configuration.
func NewWithConfig(cfg *Config) *Engine {
	opts := lua.Options{SkipOpenLibs: true}
	if cfg != nil {
		opts.SkipOpenLibs = !cfg.OpenAllLibraries
		if cfg.CallStackSize > 0 {
			opts.CallStackSize = cfg.CallStackSize
		}
		if cfg.RegistrySize > 0 {
			opts.RegistrySize = cfg.RegistrySize
		}
		opts.IncludeGoStackTrace = cfg.IncludeGoStackTrace
	}

	l := lua.NewState(opts)
	debugf("engine: new state (bare=%v)", opts.SkipOpenLibs)
	return &Engine{l: l, owns: true}
}

// Attach wraps an interpreter created elsewhere. With closeOnShutdown
// false, Close tears down this wrapper but leaves the foreign instance
// running; its creator keeps the closing obligation.
func Attach(l *lua.LState, closeOnShutdown bool) *Engine {
	return &Engine{l: l, owns: closeOnShutdown}
}

// RawState returns the underlying interpreter.
func (e *Engine) RawState() *lua.LState {
	return e.l
}

// Close shuts the interpreter down. Closing happens exactly once and only
// if this engine owns the instance; later calls are no-ops.
func (e *Engine) Close() {
	if e.closed {
		return
	}
	e.closed = true
	if e.owns {
		debugf("engine: closing state")
		e.l.Close()
	}
}

// OpenLibraries loads standard libraries by name, or every standard
// library when called with no arguments. Libraries open through the
// interpreter's protected call mechanism; a library that fails to
// initialize surfaces as an execution error.
//
// When selecting individually, open "package" before libraries that
// should register in package.loaded.
func (e *Engine) OpenLibraries(names ...string) error {
	if len(names) == 0 {
		for _, lib := range stdLibraries {
			if err := e.openLibrary(lib.internal, lib.open); err != nil {
				return err
			}
		}
		return nil
	}

	for _, name := range names {
		found := false
		for _, lib := range stdLibraries {
			if lib.name == name {
				if err := e.openLibrary(lib.internal, lib.open); err != nil {
					return err
				}
				found = true
				break
			}
		}
		if !found {
			return errors.New(errors.PhaseCall, errors.KindNotFound).
				At(name).
				Detail("unknown standard library").
				Build()
		}
	}
	return nil
}

func (e *Engine) openLibrary(internal string, open lua.LGFunction) error {
	err := e.l.CallByParam(lua.P{
		Fn:      e.l.NewFunction(open),
		NRet:    0,
		Protect: true,
	}, lua.LString(internal))
	if err != nil {
		if apiErr, ok := err.(*lua.ApiError); ok {
			return errors.Execution(apiErr.Object.String())
		}
		return errors.Execution(err.Error())
	}
	debugf("engine: opened library %q", internal)
	return nil
}
