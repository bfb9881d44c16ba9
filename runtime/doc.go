// Package runtime provides the high-level API for embedding the Lua
// interpreter.
//
// # Quick Start
//
//	rt := runtime.New()
//	defer rt.Close()
//
//	if err := rt.OpenLibraries(); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Run a chunk and decode its result
//	n, err := runtime.Execute[int](rt, `return 6 * 7`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(n) // 42
//
// # Executing Code
//
// Three execution shapes cover most embeddings:
//
//	Do(code)                    - run, discard results
//	Execute[T](rt, code)        - run, decode the first result
//	ExecuteScan(code, &a, &b)   - run, decode every result all-or-nothing
//
// DoReader and ExecuteReader accept an io.Reader instead of a string.
// Failures classify by phase: a chunk the interpreter rejects is a syntax
// error, a raise during the run is an execution error, and a reader that
// fails mid-drain is a source error.
//
// Load compiles without running, returning a stack.Function the caller
// invokes itself. That is the shape for callers that do not know the
// result arity up front, paired with CallValues.
//
// # Globals
//
// Get and Set exchange values with the global environment:
//
//	rt.Set("threshold", 0.75)
//	v, ok := runtime.Get[float64](rt, "threshold")
//
// Get collapses "absent" and "wrong type" into ok=false. When the
// distinction matters, CheckedGet reports them as separate errors:
//
//	v, err := runtime.CheckedGet[float64](rt, "threshold")
//
// Tables cross as live references, never as copies. EmptyArray seeds a
// global with a fresh table and hands it back for population, and
// GlobalsTable exposes the global environment itself, including its
// metatable.
//
// # Host Functions
//
// SetFunc installs a Go function as a global. Arguments decode by the
// declared parameter types, and results push back automatically:
//
//	rt.SetFunc("clamp", func(v, lo, hi float64) float64 {
//	    return math.Max(lo, math.Min(hi, v))
//	})
//
// A script calling clamp with the wrong argument type gets the standard
// "bad argument" error naming both types. A trailing error return, when
// non-nil, raises inside the interpreter. See the stack package for the
// full callback conventions.
//
// # Standard Libraries
//
// A fresh runtime starts bare: no print, no string, no math. Open what
// the embedding should expose:
//
//	rt.OpenLibraries()                                  // everything
//	rt.OpenLibraries(engine.LibBase, engine.LibString)  // selected
//
// Keeping io and os closed is the usual posture for sandboxed script
// execution.
//
// # Thread Safety
//
// Runtime is NOT safe for concurrent use. The interpreter is a
// single-threaded register machine; give each goroutine its own Runtime,
// or synchronize access externally.
//
// # Resource Management
//
// Close a Runtime when done. A runtime attached to a foreign interpreter
// with closeOnShutdown=false leaves teardown to the interpreter's
// creator.
package runtime
