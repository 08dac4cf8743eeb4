package interplay

// Memory represents the guest's linear memory as seen by the host.
// Implementations must bounds-check every offset/length pair against the
// current memory size and report MemoryFault rather than panic.
type Memory interface {
	Read(offset uint32, length uint32) ([]byte, error)
	Write(offset uint32, data []byte) error
	ReadU32(offset uint32) (uint32, error)
	ReadU64(offset uint32) (uint64, error)
	WriteU32(offset uint32, value uint32) error
	WriteU64(offset uint32, value uint64) error
	Size() uint32
}

// Allocator is the pair of guest-exported symbols the bridge uses to manage
// linear-memory allocations made while encoding and freeing IPL values.
// The guest module is expected to export exactly these two functions.
type Allocator interface {
	// Alloc reserves length bytes in linear memory and returns their offset.
	// A zero return is AllocationFailure.
	Alloc(length uint32) (uint32, error)
	// Free releases a region previously returned by Alloc. length must
	// match the length originally allocated.
	Free(ptr, length uint32) error
}
