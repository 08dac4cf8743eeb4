package codec

import (
	"github.com/wippyai/interplay"
	"github.com/wippyai/interplay/funcref"
	"github.com/wippyai/interplay/ipl"
)

// Free recursively reclaims whatever Encode allocated to produce v, per
// spec.md §4.7. It never interprets payload contents beyond what the tag
// prescribes, and is safe to call even over a value whose guest call
// failed, provided the halves are those the encoder emitted.
func Free(mem interplay.Memory, alloc interplay.Allocator, registry *funcref.Registry, v ipl.Value) error {
	switch v.Tag {
	case ipl.TagVoid, ipl.TagBool, ipl.TagInt, ipl.TagUint, ipl.TagFloat:
		return nil

	case ipl.TagBytes, ipl.TagString, ipl.TagJSON:
		ptr, length, err := v.PtrLen()
		if err != nil {
			return err
		}
		return alloc.Free(ptr, length)

	case ipl.TagFunction:
		ptr, origin := v.Function()
		if origin == ipl.OriginHost && registry != nil {
			registry.Release(ptr)
		}
		return nil

	case ipl.TagArray:
		ptr, length, err := v.PtrLen()
		if err != nil {
			return err
		}
		if length == 0 {
			return nil
		}
		for i := uint32(0); i < length; i++ {
			offset := ptr + i*elementSize
			lo, err := mem.ReadU64(offset)
			if err != nil {
				continue
			}
			hi, err := mem.ReadU64(offset + 8)
			if err != nil {
				continue
			}
			elem, err := ipl.FromHalves(lo, hi)
			if err != nil {
				continue
			}
			_ = Free(mem, alloc, registry, elem)
		}
		return alloc.Free(ptr, length*elementSize)

	default:
		return nil
	}
}
