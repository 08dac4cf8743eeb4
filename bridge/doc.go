// Package bridge is the host-side half of the value-interchange bridge: it
// compiles and instantiates a guest WebAssembly module on wazero, installs
// the js.log/js.call host imports, wraps linear memory and the alloc/free
// exports, and exposes every other export as a callable instance method
// per the call wrapper protocol.
//
// An Engine is reusable across many Instances; an Instance owns one guest
// module instantiation, its callback registry, and the allocations made on
// its behalf. Instance is not safe for concurrent use — the underlying
// wasm execution model is single-threaded cooperative (spec.md §5) — but
// distinct Instances created from the same Engine may run concurrently.
package bridge
