// Package codec implements the value codec, array marshaller, and freer:
// the encode/decode protocol that maps host values into a guest's linear
// memory as IPL values, and back.
//
// Encoding and decoding are symmetric with respect to allocation ownership.
// Encode allocates (bytes-like payloads, array bodies, recursively within
// arrays); Free walks an already-encoded Value and reclaims exactly what
// Encode allocated for it, without needing a side list of allocations — the
// encoded Value's own (ptr,len) fields carry enough information to retrace
// what must be freed.
package codec
