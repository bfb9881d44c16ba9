// Package errors provides structured error types for the lua-runtime library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). Four shapes cover every bridge failure: Syntax (chunk failed to
// compile), Execution (chunk or function raised while running), SourceRead
// (I/O failed before compilation), and WrongType (a value decoded fine at the
// interpreter level but does not match the requested host type).
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseRead, errors.KindWrongType).
//		At("arg#2").
//		Expected("int").
//		Actual("boolean").
//		Build()
//
// Or the constructors for the common shapes:
//
//	err := errors.WrongType("int", "boolean")
//	err := errors.Execution(apiErr.Object.String())
//
// When more than one stack slot is inspected at once, the actual side renders
// as a tuple: errors.WrongType("(int, string)", "number", "boolean") produces
// "expected (int, string), got (number, boolean)".
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
