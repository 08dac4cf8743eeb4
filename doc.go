// Package interplay is a bidirectional value-interchange bridge between a
// Go host and a guest WebAssembly module, built on wazero.
//
// Guest-exported functions are invoked from the host — and host callbacks
// are invoked from the guest — using ordinary high-level values (bools,
// numbers, strings, byte buffers, JSON-shaped data, arrays, and callable
// references) instead of hand-rolled linear-memory pointers, lengths, and
// ABI conventions per call.
//
// # Architecture Overview
//
//	interplay/        Root package: Memory and Allocator interfaces
//	├── ipl/          The 128-bit tagged interchange value and its bit layout
//	├── codec/         Value encode/decode/free and the array marshaller
//	├── funcref/      Host callback registry and the function-reference protocol
//	├── bridge/        wazero wiring: module load, call wrapper, js.log/js.call
//	├── errors/        Structured error types
//	├── wat/           WAT text format to WASM binary compiler (test fixtures)
//	└── cmd/bridge/    Flag-based CLI: load a module, list exports, call one
//
// # Quick Start
//
//	engine := bridge.NewEngine()
//	inst, err := bridge.FromBytes(ctx, engine, wasmBytes)
//	if err != nil { log.Fatal(err) }
//	defer inst.Close(ctx)
//
//	result, err := inst.Call(ctx, "greet", "World")
//	fmt.Println(result) // "Hello World!"
//
// # The interchange value
//
// Every value crossing the boundary is a 128-bit tagged union (an "IPL
// value"): a 4-bit tag selecting one of ten variants, and a 124-bit detail
// payload whose layout is variant-specific. It crosses the wasm call
// boundary as two 64-bit halves, in (low, high) order — each logical IPL
// argument or return therefore consumes exactly two i64 slots. See package
// ipl for the bit layout and package codec for the encode/decode/free
// protocol.
//
// # Thread Safety
//
// Engine is safe for concurrent use; it only holds compile-time
// configuration. Instance is NOT thread-safe: guest execution is
// synchronous with respect to its invoking call, and access to one
// Instance must be confined to a single goroutine or externally
// synchronized. Each Instance owns a private wazero runtime, so distinct
// Instances never contend with each other.
//
// # Memory Model
//
// Linear memory is 32-bit addressed and shared between host and guest, but
// mutated only by whichever side holds control flow at the time — no
// locking is required under that single-threaded assumption. Allocations
// made while encoding arguments are owned by the host call wrapper and
// freed once the call returns; allocations made by the guest to build a
// return value are owned by the host after decode and freed once the
// decoded value has been materialized.
package interplay
