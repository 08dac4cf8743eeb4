package codec

import (
	"reflect"

	"github.com/wippyai/interplay/errors"
	"github.com/wippyai/interplay/ipl"
)

// elementSize is the width in bytes of one IPL value laid out in linear
// memory: two little-endian 64-bit halves.
const elementSize = 16

func (e *Encoder) encodeArray(value any) (ipl.Value, error) {
	rv := reflect.ValueOf(value)
	n := rv.Len()
	if n == 0 {
		return ipl.NewArrayDetail(0, 0), nil
	}

	ptr, err := e.Allocator.Alloc(uint32(n * elementSize))
	if err != nil {
		return ipl.Value{}, errors.AllocationFailed(errors.PhaseEncode, uint32(n*elementSize))
	}

	for i := 0; i < n; i++ {
		elem := rv.Index(i).Interface()
		encoded, err := e.Encode(elem)
		if err != nil {
			e.freePartialArray(ptr, i)
			_ = e.Allocator.Free(ptr, uint32(n*elementSize))
			return ipl.Value{}, err
		}
		if err := e.writeElement(ptr, i, encoded); err != nil {
			e.freePartialArray(ptr, i+1)
			_ = e.Allocator.Free(ptr, uint32(n*elementSize))
			return ipl.Value{}, err
		}
	}

	return ipl.NewArrayDetail(ptr, uint32(n)), nil
}

func (e *Encoder) writeElement(base uint32, index int, v ipl.Value) error {
	lo, hi := v.Halves()
	offset := base + uint32(index*elementSize)
	if err := e.Memory.WriteU64(offset, lo); err != nil {
		return err
	}
	return e.Memory.WriteU64(offset+8, hi)
}

// freePartialArray frees the count elements already written at base before
// an array encode aborts partway through, so an error never leaks the
// elements successfully encoded before it.
func (e *Encoder) freePartialArray(base uint32, count int) {
	for i := 0; i < count; i++ {
		offset := base + uint32(i*elementSize)
		lo, errLo := e.Memory.ReadU64(offset)
		hi, errHi := e.Memory.ReadU64(offset + 8)
		if errLo != nil || errHi != nil {
			continue
		}
		if v, err := ipl.FromHalves(lo, hi); err == nil {
			_ = Free(e.Memory, e.Allocator, e.Registry, v)
		}
	}
}

func (d *Decoder) decodeArray(v ipl.Value) ([]any, error) {
	ptr, length, err := v.PtrLen()
	if err != nil {
		return nil, err
	}
	if length == 0 {
		return []any{}, nil
	}

	out := make([]any, length)
	for i := uint32(0); i < length; i++ {
		offset := ptr + i*elementSize
		lo, err := d.Memory.ReadU64(offset)
		if err != nil {
			return nil, err
		}
		hi, err := d.Memory.ReadU64(offset + 8)
		if err != nil {
			return nil, err
		}
		elem, err := ipl.FromHalves(lo, hi)
		if err != nil {
			return nil, err
		}
		decoded, err := d.Decode(elem)
		if err != nil {
			return nil, err
		}
		out[i] = decoded
	}
	return out, nil
}
