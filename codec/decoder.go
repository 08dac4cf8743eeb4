package codec

import (
	"github.com/wippyai/interplay"
	"github.com/wippyai/interplay/errors"
	"github.com/wippyai/interplay/funcref"
	"github.com/wippyai/interplay/ipl"
)

// Decoder reconstructs host values from IPL values, copying bytes-like
// payloads out of a guest's linear memory.
type Decoder struct {
	Memory   interplay.Memory
	Registry *funcref.Registry
	Caller   funcref.GuestCaller
}

// NewDecoder returns a Decoder bound to a guest instance's memory, callback
// registry, and guest-call dispatcher.
func NewDecoder(mem interplay.Memory, registry *funcref.Registry, caller funcref.GuestCaller) *Decoder {
	return &Decoder{Memory: mem, Registry: registry, Caller: caller}
}

// Decode dispatches on v.Tag per spec.md §4.4.
func (d *Decoder) Decode(v ipl.Value) (any, error) {
	switch v.Tag {
	case ipl.TagVoid:
		return nil, nil
	case ipl.TagBool:
		return v.Bool(), nil
	case ipl.TagInt:
		return v.Int(), nil
	case ipl.TagUint:
		return v.Uint(), nil
	case ipl.TagFloat:
		return v.Float(), nil
	case ipl.TagBytes:
		return d.decodeBytesLike(v)
	case ipl.TagString:
		data, err := d.decodeBytesLike(v)
		if err != nil {
			return nil, err
		}
		return string(data), nil
	case ipl.TagJSON:
		data, err := d.decodeBytesLike(v)
		if err != nil {
			return nil, err
		}
		return DecodeJSON(data)
	case ipl.TagFunction:
		ptr, origin := v.Function()
		return funcref.Callable{Origin: origin, Ptr: ptr, Registry: d.Registry, Caller: d.Caller}, nil
	case ipl.TagArray:
		return d.decodeArray(v)
	default:
		// ipl.FromHalves already rejects an out-of-range tag for every
		// wire-originated Value, so this guards only a Value built
		// directly from a Tag/Detail struct literal rather than decoded
		// off the wire.
		return nil, errors.UnknownVariant(errors.PhaseDecode, uint64(v.Tag))
	}
}

func (d *Decoder) decodeBytesLike(v ipl.Value) ([]byte, error) {
	ptr, length, err := v.PtrLen()
	if err != nil {
		return nil, err
	}
	if length == 0 {
		return []byte{}, nil
	}
	data, err := d.Memory.Read(ptr, length)
	if err != nil {
		return nil, err
	}
	// Always return a copy: the backing allocation may be freed once the
	// call that produced it completes (spec.md §3).
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}
