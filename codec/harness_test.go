package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// fakeMemory is a flat byte-slice-backed Memory for tests.
type fakeMemory struct {
	data []byte
}

func newFakeMemory(size int) *fakeMemory {
	return &fakeMemory{data: make([]byte, size)}
}

func (m *fakeMemory) Size() uint32 { return uint32(len(m.data)) }

func (m *fakeMemory) bounds(offset, length uint32) error {
	if uint64(offset)+uint64(length) > uint64(len(m.data)) {
		return fmt.Errorf("out of bounds: [%d,%d) over %d", offset, uint64(offset)+uint64(length), len(m.data))
	}
	return nil
}

func (m *fakeMemory) Read(offset, length uint32) ([]byte, error) {
	if err := m.bounds(offset, length); err != nil {
		return nil, err
	}
	out := make([]byte, length)
	copy(out, m.data[offset:offset+length])
	return out, nil
}

func (m *fakeMemory) Write(offset uint32, data []byte) error {
	if err := m.bounds(offset, uint32(len(data))); err != nil {
		return err
	}
	copy(m.data[offset:], data)
	return nil
}

func (m *fakeMemory) ReadU32(offset uint32) (uint32, error) {
	if err := m.bounds(offset, 4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(m.data[offset:]), nil
}

func (m *fakeMemory) ReadU64(offset uint32) (uint64, error) {
	if err := m.bounds(offset, 8); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(m.data[offset:]), nil
}

func (m *fakeMemory) WriteU32(offset uint32, value uint32) error {
	if err := m.bounds(offset, 4); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(m.data[offset:], value)
	return nil
}

func (m *fakeMemory) WriteU64(offset uint32, value uint64) error {
	if err := m.bounds(offset, 8); err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(m.data[offset:], value)
	return nil
}

// fakeAllocator is a simple bump allocator over a fakeMemory, starting at a
// non-zero offset so zero is never mistaken for a valid pointer.
type fakeAllocator struct {
	mem    *fakeMemory
	offset uint32
	freed  map[uint32]uint32
}

func newFakeAllocator(mem *fakeMemory) *fakeAllocator {
	return &fakeAllocator{mem: mem, offset: 64, freed: make(map[uint32]uint32)}
}

func (a *fakeAllocator) Alloc(length uint32) (uint32, error) {
	ptr := a.offset
	a.offset += length
	if a.offset > a.mem.Size() {
		return 0, errors.New("out of memory")
	}
	return ptr, nil
}

func (a *fakeAllocator) Free(ptr, length uint32) error {
	a.freed[ptr] = length
	return nil
}
