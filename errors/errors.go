package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates where in the bridge the error occurred
type Phase string

const (
	PhaseCompile Phase = "compile" // chunk compilation
	PhaseCall    Phase = "call"    // protected call execution
	PhaseLoad    Phase = "load"    // reading chunk source
	PhasePush    Phase = "push"    // host value onto the stack
	PhaseRead    Phase = "read"    // stack slot into a host value
	PhaseDecode  Phase = "decode"  // wire format decoding (adapters)
)

// Kind names the failure class, orthogonal to Phase
type Kind string

const (
	KindSyntax      Kind = "syntax"        // interpreter rejected the chunk
	KindRuntime     Kind = "runtime_fault" // interpreter raised during execution
	KindIO          Kind = "io"            // source reading failed
	KindWrongType   Kind = "wrong_type"    // runtime type does not match the requested host type
	KindUnsupported Kind = "unsupported"   // no marshaling rule for the value kind
	KindNotFound    Kind = "not_found"     // named value absent
	KindBadTag      Kind = "bad_tag"       // extension payload carries the wrong type tag
	KindBadLength   Kind = "bad_length"    // extension payload has the wrong size
)

// Error is the structured error type used throughout the bridge
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	Expected string // requested host type, rendered
	Actual   string // runtime type(s) found, rendered
	Detail   string
	At       string // global name, argument position, table key
}

// Error renders the populated fields in a fixed order, so messages stay
// grep-able: "[phase] kind at X: expected E, got A - detail (caused by: c)".
func (e *Error) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s", e.Phase, e.Kind)
	if e.At != "" {
		sb.WriteString(" at ")
		sb.WriteString(e.At)
	}

	detailSep := ": "
	switch {
	case e.Expected != "" && e.Actual != "":
		fmt.Fprintf(&sb, ": expected %s, got %s", e.Expected, e.Actual)
		detailSep = " - "
	case e.Expected != "":
		fmt.Fprintf(&sb, ": expected %s", e.Expected)
		detailSep = " - "
	case e.Actual != "":
		fmt.Fprintf(&sb, ": got %s", e.Actual)
		detailSep = " - "
	}

	if e.Detail != "" {
		sb.WriteString(detailSep)
		sb.WriteString(e.Detail)
	}
	if e.Cause != nil {
		fmt.Fprintf(&sb, " (caused by: %s)", e.Cause.Error())
	}
	return sb.String()
}

// Unwrap exposes Cause to the errors.Is and errors.As chains.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches two bridge errors on phase and kind, so errors.Is can compare
// against a probe value without regard to the message fields.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder assembles an Error field by field
type Builder struct {
	err Error
}

// New starts a builder from the two required coordinates
func New(phase Phase, kind Kind) *Builder {
	return &Builder{err: Error{Phase: phase, Kind: kind}}
}

// At sets where the error occurred (global name, argument position, key)
func (b *Builder) At(where string) *Builder {
	b.err.At = where
	return b
}

// Expected sets the requested host type rendering
func (b *Builder) Expected(t string) *Builder {
	b.err.Expected = t
	return b
}

// Actual sets the runtime type rendering
func (b *Builder) Actual(types ...string) *Builder {
	b.err.Actual = TypeNames(types...)
	return b
}

// Value attaches the value the failure is about
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause records the error underneath this one
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the free-form message; args, when given, format through Sprintf
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) == 0 {
		b.err.Detail = msg
		return b
	}
	b.err.Detail = fmt.Sprintf(msg, args...)
	return b
}

// Build finishes the error
func (b *Builder) Build() *Error {
	return &b.err
}

// TypeNames renders one or more runtime type names. A single type renders
// bare; several render as "(t1, t2, ...)", the form used when more than one
// stack slot is inspected at once.
func TypeNames(types ...string) string {
	switch len(types) {
	case 0:
		return ""
	case 1:
		return types[0]
	default:
		return "(" + strings.Join(types, ", ") + ")"
	}
}

// Taxonomy constructors. Every failure the bridge can report is one of
// these four shapes, plus the adapter kinds below.

// Syntax creates a compile failure carrying the interpreter's message text
func Syntax(msg string) *Error {
	return &Error{
		Phase:  PhaseCompile,
		Kind:   KindSyntax,
		Detail: msg,
	}
}

// Execution creates a runtime failure carrying the interpreter's message text
func Execution(msg string) *Error {
	return &Error{
		Phase:  PhaseCall,
		Kind:   KindRuntime,
		Detail: msg,
	}
}

// SourceRead wraps an I/O failure that occurred before compilation could begin
func SourceRead(cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindIO,
		Detail: "read chunk source",
		Cause:  cause,
	}
}

// WrongType reports a value whose runtime type does not match the requested
// host type. expected is the host type rendering; actual is one runtime type
// name per inspected slot.
func WrongType(expected string, actual ...string) *Error {
	return &Error{
		Phase:    PhaseRead,
		Kind:     KindWrongType,
		Expected: expected,
		Actual:   TypeNames(actual...),
	}
}

// Unsupported reports a value kind with no marshaling rule
func Unsupported(phase Phase, goType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: fmt.Sprintf("no marshaling rule for Go type %s", goType),
	}
}

// NotFound reports an absent named value
func NotFound(what, name string) *Error {
	return &Error{
		Phase:  PhaseRead,
		Kind:   KindNotFound,
		At:     name,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// Adapter constructors for extension-type wire codecs.

// BadTag reports an extension payload declaring the wrong type tag
func BadTag(what string, expected, found int8) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindBadTag,
		Detail: fmt.Sprintf("expected %s, found msgpack ext #%d (want #%d)", what, found, expected),
	}
}

// BadLength reports an extension payload of the wrong size
func BadLength(what string, expected, got int) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindBadLength,
		Detail: fmt.Sprintf("not enough bytes for %s: expected %d, got %d", what, expected, got),
	}
}

// Predicates for call sites that do not want to build probe values.

// IsSyntax reports whether err is a compile failure
func IsSyntax(err error) bool {
	return is(err, PhaseCompile, KindSyntax)
}

// IsExecution reports whether err is a runtime failure
func IsExecution(err error) bool {
	return is(err, PhaseCall, KindRuntime)
}

// IsSourceRead reports whether err is a source I/O failure
func IsSourceRead(err error) bool {
	return is(err, PhaseLoad, KindIO)
}

// IsWrongType reports whether err is a type mismatch
func IsWrongType(err error) bool {
	return is(err, PhaseRead, KindWrongType)
}

// IsNotFound reports whether err is an absence report
func IsNotFound(err error) bool {
	return is(err, PhaseRead, KindNotFound)
}

func is(err error, phase Phase, kind Kind) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Phase == phase && e.Kind == kind
	}
	return false
}
