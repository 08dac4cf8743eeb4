package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in the bridge the error occurred.
type Phase string

const (
	PhaseEncode Phase = "encode" // Go value -> IPL value
	PhaseDecode Phase = "decode" // IPL value -> Go value
	PhaseFree   Phase = "free"   // releasing allocations/callbacks after a call
	PhaseCall   Phase = "call"   // invoking a guest export or host callback
	PhaseHost   Phase = "host"   // the js.log / js.call host imports
	PhaseLoad   Phase = "load"   // compiling or instantiating a guest module
)

// Kind categorizes the error. The first six are the error kinds named
// verbatim in spec.md §7; the rest are general-purpose categories used by
// the bridge's loading and instantiation paths.
type Kind string

const (
	KindUnsupportedType  Kind = "unsupported_type"   // inferred tag is not representable
	KindUnknownVariant   Kind = "unknown_variant"    // decoded tag outside 0..9
	KindWrongOrigin      Kind = "wrong_origin"       // function IPL origin mismatch
	KindMemoryFault      Kind = "memory_fault"       // (ptr,len) outside linear memory
	KindAllocationFailed Kind = "allocation_failure" // alloc returned 0
	KindJSONFailure      Kind = "json_failure"       // JSON marshal/unmarshal failed

	KindInvalidData   Kind = "invalid_data"
	KindOverflow      Kind = "overflow"
	KindNotFound      Kind = "not_found"
	KindInvalidInput  Kind = "invalid_input"
	KindInstantiation Kind = "instantiation"
)

// Error is the structured error type used throughout the bridge.
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	GoType string
	Detail string
	Path   []string
}

func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.GoType != "" {
		b.WriteString(": Go type ")
		b.WriteString(e.GoType)
	}

	if e.Detail != "" {
		if e.GoType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by Phase and Kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction.
type Builder struct {
	err Error
}

// New creates a new error builder.
func New(phase Phase, kind Kind) *Builder {
	return &Builder{err: Error{Phase: phase, Kind: kind}}
}

func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for the fixed error kinds named in spec.md §7.

// UnsupportedType reports that a host value's inferred tag has no IPL
// representation (e.g. an opaque identity/symbol).
func UnsupportedType(phase Phase, path []string, goType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupportedType,
		Path:   path,
		GoType: goType,
		Detail: "value has no representable IPL tag",
	}
}

// UnknownVariant reports a decoded tag outside the closed 0..9 range.
func UnknownVariant(phase Phase, tag uint64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnknownVariant,
		Detail: fmt.Sprintf("tag %d is outside the 0..9 variant range", tag),
		Value:  tag,
	}
}

// WrongOrigin reports that a function IPL value was routed to the wrong
// side of the bridge (e.g. js.call received a guest-origin function).
func WrongOrigin(phase Phase, wantOrigin, gotOrigin uint64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindWrongOrigin,
		Detail: fmt.Sprintf("expected origin %d, got %d", wantOrigin, gotOrigin),
		Value:  gotOrigin,
	}
}

// MemoryFault reports a (ptr,len) pair that does not lie within current
// linear-memory bounds.
func MemoryFault(phase Phase, ptr, length, memSize uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindMemoryFault,
		Detail: fmt.Sprintf("[%d, %d) outside memory of size %d", ptr, uint64(ptr)+uint64(length), memSize),
		Value:  ptr,
	}
}

// AllocationFailed reports that alloc returned a null/zero pointer.
func AllocationFailed(phase Phase, length uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAllocationFailed,
		Detail: fmt.Sprintf("alloc(%d) returned a null pointer", length),
	}
}

// JSONFailure wraps a json.Marshal/Unmarshal error.
func JSONFailure(phase Phase, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindJSONFailure,
		Detail: "canonical JSON encode/decode failed",
		Cause:  cause,
	}
}

// InvalidData creates a generic invalid-data error.
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{Phase: phase, Kind: KindInvalidData, Path: path, Detail: detail}
}

// Overflow reports a value that does not fit its target width.
func Overflow(phase Phase, value any, targetBits int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Detail: fmt.Sprintf("value %v overflows %d bits", value, targetBits),
		Value:  value,
	}
}

// NotFound creates a not-found error.
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid-input error.
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{Phase: phase, Kind: KindInvalidInput, Detail: detail}
}

// Instantiation wraps an engine instantiation failure.
func Instantiation(cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInstantiation,
		Detail: "instantiate module",
		Cause:  cause,
	}
}

// Load wraps a module-loading failure.
func Load(detail string, cause error) *Error {
	return &Error{Phase: PhaseLoad, Kind: KindInvalidData, Detail: detail, Cause: cause}
}

// Wrap wraps an existing error with additional phase/kind/detail context.
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{Phase: phase, Kind: kind, Detail: detail, Cause: cause}
}
