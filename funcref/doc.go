// Package funcref implements the function-reference protocol: routing a
// function IPL value to either a guest function pointer or a host callback
// slot, and the host-side registry that assigns those slots.
//
// A host callback registered during argument encoding is identified by a
// monotonically assigned key, stable for the registration's lifetime. Keys
// are never reused after release — unlike the slot-map-with-free-list shape
// this registry borrows its layout from, registry keys here trade slot reuse
// for collision safety, since a reused key could be confused with a newer,
// still-live registration.
package funcref
