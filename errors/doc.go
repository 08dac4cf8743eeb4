// Package errors provides the structured error type used throughout the
// interplay bridge.
//
// Errors are categorized by Phase (where in the bridge the error occurred)
// and Kind (the spec.md §7 error kind). The Error type carries enough
// context — field path, Go type name, offending value, and cause chain —
// to diagnose a failed encode/decode/call without re-running it.
//
// Use the Builder for structured construction:
//
//	err := errors.New(errors.PhaseEncode, errors.KindUnsupportedType).
//		Path("args", "2").
//		GoType("chan int").
//		Detail("no IPL tag can represent this value").
//		Build()
//
// Or one of the convenience constructors for the fixed error kinds named in
// spec.md §7:
//
//	err := errors.UnknownVariant(errors.PhaseDecode, tag)
//	err := errors.WrongOrigin(errors.PhaseHost, want, got)
//
// All errors implement the standard error interface and support
// errors.Is/As.
package errors
