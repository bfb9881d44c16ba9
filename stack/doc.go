// Package stack implements the value bridge between Go and the interpreter:
// pushing host values onto the shared operand stack, reading them back, and
// crossing function calls in both directions, all under scoped guards that
// keep the stack balanced.
//
// # Guards
//
// Every push returns a *Guard covering exactly the slots written. Close pops
// them; Disarm transfers the obligation to the caller:
//
//	g, err := stack.Push(s, "hello")
//	if err != nil {
//	    return err
//	}
//	defer g.Close()
//
// Guards are idempotent and compose: once disarmed or closed, a guard is
// inert, so nested guard lifetimes cannot double-pop.
//
// # Type Mapping
//
//	Go Type              Interpreter Type
//	─────────────────────────────────────
//	nil                  nil
//	bool                 boolean
//	int.../uint...       number
//	float32/float64      number
//	string, []byte       string
//	[]T, [n]T            table with keys 1..n
//	map[K]V              table
//	func(...)            function (trampolined)
//	*T                   option: nil maps to nil
//	AnyValue             any of the above
//	*Table, *Function    live references
//
// Reads are strict in the other direction: a string target never accepts a
// number, an int target only accepts an integral in-range number, and a
// failed read reports the expected Go type against the found runtime type
// without touching the stack. AnyValue is the total escape hatch: reading
// one never fails.
//
// # Tuples
//
// Multiple values push with PushValues and read with Scan, which decodes
// consecutive slots into pointers the way database rows scan into
// destinations. Tuple mismatches render both sides in (t1, t2, ...) form,
// with missing slots shown as "no value".
//
// # Callbacks
//
// Go funcs become script-callable values through Func:
//
//	mul := stack.Func(func(a, b int) int { return a * b })
//	g, err := stack.Push(s, mul)
//
// Arguments decode by declared parameter type; mismatches raise the
// interpreter's canonical "bad argument" error naming the expected Go type.
// A trailing error return raises on the script side. Panics are not caught.
//
// Script functions read back as *Function and are invoked with Call,
// CallScan, or CallValues under a protected call, so script failures come
// back as execution errors rather than panics.
//
// # Extension Points
//
// New value kinds implement Pusher or Reader; both are consulted before the
// builtin kinds. Typed userdata with methods registers through RegisterType
// and moves with PushUserdata and ReadUserdata.
//
// # Thread Safety
//
// A State and everything bridged through it is single-threaded, matching the
// interpreter itself. Synchronize externally or give each goroutine its own
// state.
package stack
