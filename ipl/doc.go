// Package ipl defines the 128-bit tagged interchange value ("IPL value")
// that crosses the host/guest boundary, its bit layout, and the
// bit-section codec used to pack and unpack it.
//
// An IPL value is a 4-bit tag selecting one of ten closed variants plus a
// 124-bit variant-specific detail payload. It is represented in Go as a
// Value and travels across a wasm call boundary as two uint64 halves, in
// (low, high) order — Halves and FromHalves convert between the two forms.
//
// This package knows nothing about linear memory, allocation, or the Go
// types a detail payload might ultimately decode to; see package codec for
// that. It only knows how to pack and unpack bits.
package ipl
