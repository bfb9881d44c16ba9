// Package engine provides the low-level interpreter lifecycle.
//
// This package wraps gopher-lua state creation, standard library loading,
// and teardown. It is the only place the bridge constructs or destroys a
// *lua.LState; everything above it works through the State capability.
//
// # Lifecycle
//
//	e := engine.New()          // bare state: no standard libraries
//	defer e.Close()
//
//	err := e.OpenLibraries()                        // everything
//	err := e.OpenLibraries(engine.LibBase, engine.LibString) // selected
//
// A state created elsewhere can be wrapped without transferring the
// closing obligation:
//
//	e := engine.Attach(l, false) // Close() leaves l running
//
// # Creation Failure Policy
//
// New never returns an error. State construction is pure-Go allocation;
// the only way it fails is a process-level out-of-memory abort, which is
// the same fatal policy the embedded interpreter applies to itself. Code
// that cannot obtain an interpreter cannot usefully continue.
//
// # Library Opening
//
// Standard libraries open individually through the interpreter's protected
// call mechanism, so a library that fails to initialize reports an
// execution error instead of panicking. The package library should open
// before any library expected to register in package.loaded; OpenLibraries
// with no arguments uses that order automatically.
//
// # Logging
//
// The package hosts the bridge-wide zap logger (Logger/SetLogger). It
// defaults to a no-op logger; debug traces are additionally gated behind
// SetDebug so hot paths stay silent unless explicitly enabled.
//
// Most hosts are better served by the runtime package; this one is for
// embedders that need direct control over interpreter construction.
package engine
