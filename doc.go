// Package luaruntime provides a stack-discipline bridge for embedding Lua in Go.
//
// This library lets Go code drive an embedded Lua virtual machine (gopher-lua)
// and exchange typed values with it over the interpreter's shared operand
// stack, with deterministic stack balance under ordinary control flow, errors,
// and nested callback reentry. The VM itself is an external, unmodified
// dependency consumed only through its public entry points.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	luaruntime/          Root package with the State capability interface
//	├── runtime/         Top-level context: execute chunks, get/set globals
//	├── engine/          Interpreter lifecycle: creation, libraries, teardown
//	├── stack/           The bridge core: guards, Push/Read protocols,
//	│                    dynamic values, tables, functions, typed userdata
//	├── uuid/            128-bit identifier adapter with a msgpack ext codec
//	└── errors/          Structured error taxonomy for every bridge failure
//
// # Quick Start
//
// Create a runtime, run a chunk, read a global back:
//
//	rt := runtime.New()
//	defer rt.Close()
//
//	if err := rt.OpenLibraries(); err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := rt.Do(`answer = 6 * 7`); err != nil {
//	    log.Fatal(err)
//	}
//
//	answer, ok := runtime.Get[int](rt, "answer")
//	fmt.Println(answer, ok) // 42 true
//
// # Stack Discipline
//
// Every value placed on the interpreter stack is covered by a stack.Guard
// holding the exact number of slots to remove. Guards pop their slots on
// Close, compose when nested, and can be disarmed to hand the popping
// obligation to the caller. Generic bridge code operates on the State
// capability, so owning contexts, borrowed states, and guards are
// interchangeable.
//
// # Host Functions
//
// Wrap a Go closure and hand it to Lua:
//
//	rt.Set("mul", stack.Func(func(a, b int) int { return a * b }))
//
//	product, err := runtime.Execute[int](rt, `return mul(6, 7)`)
//
// Argument decoding failures surface inside Lua as raised errors naming the
// expected Go type and the actual runtime type. A non-nil trailing error
// return raises inside the interpreter; that is the only sanctioned way host
// failure crosses the call boundary.
//
// # Thread Safety
//
// One interpreter instance is single-threaded: synchronous and reentrant but
// never concurrent. Nothing in this library locks. Use one Runtime per
// goroutine, or synchronize externally.
//
// # Failure Model
//
// Every failure the bridge reports is an *errors.Error classified by phase
// and kind: compile failures are syntax errors, runtime failures execution
// errors, source I/O failures source-read errors, decode mismatches wrong
// type errors. The errors package carries the taxonomy, constructors, and
// predicates (errors.IsSyntax and friends). Panics are not part of the
// contract: a panic escaping a stack operation forfeits further correctness
// guarantees for that instance.
package luaruntime
