package bridge

import (
	"context"

	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/interplay/errors"
)

// guestMemory adapts a wazero api.Memory to interplay.Memory, bounds-
// checking every access and reporting MemoryFault rather than panicking —
// wazero's own accessors return an ok bool on out-of-bounds access instead
// of the reference behaviour's silence (spec.md §9 flags the reference as
// not checking this explicitly; this bridge always does).
type guestMemory struct {
	mem api.Memory
}

func wrapMemory(mem api.Memory) *guestMemory {
	return &guestMemory{mem: mem}
}

func (m *guestMemory) Size() uint32 {
	return m.mem.Size()
}

func (m *guestMemory) Read(offset, length uint32) ([]byte, error) {
	data, ok := m.mem.Read(offset, length)
	if !ok {
		return nil, errors.MemoryFault(errors.PhaseDecode, offset, length, m.mem.Size())
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (m *guestMemory) Write(offset uint32, data []byte) error {
	if !m.mem.Write(offset, data) {
		return errors.MemoryFault(errors.PhaseEncode, offset, uint32(len(data)), m.mem.Size())
	}
	return nil
}

func (m *guestMemory) ReadU32(offset uint32) (uint32, error) {
	v, ok := m.mem.ReadUint32Le(offset)
	if !ok {
		return 0, errors.MemoryFault(errors.PhaseDecode, offset, 4, m.mem.Size())
	}
	return v, nil
}

func (m *guestMemory) ReadU64(offset uint32) (uint64, error) {
	v, ok := m.mem.ReadUint64Le(offset)
	if !ok {
		return 0, errors.MemoryFault(errors.PhaseDecode, offset, 8, m.mem.Size())
	}
	return v, nil
}

func (m *guestMemory) WriteU32(offset uint32, value uint32) error {
	if !m.mem.WriteUint32Le(offset, value) {
		return errors.MemoryFault(errors.PhaseEncode, offset, 4, m.mem.Size())
	}
	return nil
}

func (m *guestMemory) WriteU64(offset uint32, value uint64) error {
	if !m.mem.WriteUint64Le(offset, value) {
		return errors.MemoryFault(errors.PhaseEncode, offset, 8, m.mem.Size())
	}
	return nil
}

// guestAllocator adapts the guest's exported alloc/free functions to
// interplay.Allocator.
type guestAllocator struct {
	ctx   context.Context
	alloc api.Function
	free  api.Function
}

func wrapAllocator(ctx context.Context, alloc, free api.Function) *guestAllocator {
	return &guestAllocator{ctx: ctx, alloc: alloc, free: free}
}

func (a *guestAllocator) Alloc(length uint32) (uint32, error) {
	results, err := a.alloc.Call(a.ctx, uint64(length))
	if err != nil {
		return 0, errors.Wrap(errors.PhaseEncode, errors.KindAllocationFailed, err, "call guest alloc export")
	}
	ptr := uint32(results[0])
	if ptr == 0 && length > 0 {
		return 0, errors.AllocationFailed(errors.PhaseEncode, length)
	}
	return ptr, nil
}

func (a *guestAllocator) Free(ptr, length uint32) error {
	if ptr == 0 {
		return nil
	}
	_, err := a.free.Call(a.ctx, uint64(ptr), uint64(length))
	if err != nil {
		return errors.Wrap(errors.PhaseFree, errors.KindInvalidData, err, "call guest free export")
	}
	return nil
}
