package codec

import (
	"math"
	"math/big"
	"reflect"
	"unicode/utf8"

	"github.com/wippyai/interplay"
	"github.com/wippyai/interplay/errors"
	"github.com/wippyai/interplay/funcref"
	"github.com/wippyai/interplay/ipl"
)

// Encoder produces IPL values from host values, allocating into a guest's
// linear memory as each variant requires.
type Encoder struct {
	Memory    interplay.Memory
	Allocator interplay.Allocator
	Registry  *funcref.Registry
}

// New returns an Encoder bound to a guest instance's memory, allocator, and
// host callback registry.
func New(mem interplay.Memory, alloc interplay.Allocator, registry *funcref.Registry) *Encoder {
	return &Encoder{Memory: mem, Allocator: alloc, Registry: registry}
}

// Encode infers value's tag and encodes it.
func (e *Encoder) Encode(value any) (ipl.Value, error) {
	tag, err := InferTag(value)
	if err != nil {
		return ipl.Value{}, err
	}
	return e.EncodeTag(tag, value)
}

// EncodeAll encodes a positional argument list, left to right, matching the
// call wrapper's ordering guarantee. On failure it frees everything encoded
// so far before returning, so a partially-encoded argument list never
// leaks allocations.
func (e *Encoder) EncodeAll(values []any) ([]ipl.Value, error) {
	out := make([]ipl.Value, 0, len(values))
	for _, v := range values {
		encoded, err := e.Encode(v)
		if err != nil {
			for _, done := range out {
				_ = Free(e.Memory, e.Allocator, e.Registry, done)
			}
			return nil, err
		}
		out = append(out, encoded)
	}
	return out, nil
}

// EncodeTag encodes value under an explicitly supplied tag, bypassing
// inference.
func (e *Encoder) EncodeTag(tag ipl.Tag, value any) (ipl.Value, error) {
	switch tag {
	case ipl.TagVoid:
		return ipl.NewVoid(), nil
	case ipl.TagBool:
		b, ok := value.(bool)
		if !ok {
			return ipl.Value{}, errors.UnsupportedType(errors.PhaseEncode, nil, reflect.TypeOf(value).String())
		}
		return ipl.NewBool(b), nil
	case ipl.TagInt:
		i, err := toBigInt(value)
		if err != nil {
			return ipl.Value{}, err
		}
		return ipl.NewIntDetail(i)
	case ipl.TagUint:
		u, err := toBigInt(value)
		if err != nil {
			return ipl.Value{}, err
		}
		return ipl.NewUintDetail(u)
	case ipl.TagFloat:
		f, err := toFloat64(value)
		if err != nil {
			return ipl.Value{}, err
		}
		return ipl.NewFloatDetail(f), nil
	case ipl.TagBytes:
		data, err := toBytes(value)
		if err != nil {
			return ipl.Value{}, err
		}
		return e.encodeBytesLike(ipl.TagBytes, data)
	case ipl.TagString:
		s, ok := value.(string)
		if !ok {
			return ipl.Value{}, errors.UnsupportedType(errors.PhaseEncode, nil, reflect.TypeOf(value).String())
		}
		if !utf8.ValidString(s) {
			return ipl.Value{}, errors.InvalidInput(errors.PhaseEncode, "string is not valid UTF-8")
		}
		return e.encodeBytesLike(ipl.TagString, []byte(s))
	case ipl.TagJSON:
		data, err := EncodeJSON(value)
		if err != nil {
			return ipl.Value{}, err
		}
		return e.encodeBytesLike(ipl.TagJSON, data)
	case ipl.TagFunction:
		return e.encodeFunction(value)
	case ipl.TagArray:
		return e.encodeArray(value)
	default:
		return ipl.Value{}, errors.UnsupportedType(errors.PhaseEncode, nil, tag.String())
	}
}

func (e *Encoder) encodeBytesLike(tag ipl.Tag, data []byte) (ipl.Value, error) {
	ptr, err := e.Allocator.Alloc(uint32(len(data)))
	if err != nil {
		return ipl.Value{}, errors.AllocationFailed(errors.PhaseEncode, uint32(len(data)))
	}
	if len(data) > 0 {
		if err := e.Memory.Write(ptr, data); err != nil {
			_ = e.Allocator.Free(ptr, uint32(len(data)))
			return ipl.Value{}, err
		}
	}
	return ipl.NewBytesLikeDetail(tag, ptr, uint32(len(data)))
}

func (e *Encoder) encodeFunction(value any) (ipl.Value, error) {
	if c, ok := value.(funcref.Callable); ok {
		return ipl.NewFunctionDetail(c.Ptr, c.Origin), nil
	}
	if e.Registry == nil {
		return ipl.Value{}, errors.InvalidInput(errors.PhaseEncode, "encoder has no callback registry")
	}
	hf, err := funcref.Wrap(value)
	if err != nil {
		return ipl.Value{}, err
	}
	key := e.Registry.Register(hf)
	return ipl.NewFunctionDetail(key, ipl.OriginHost), nil
}

func toBytes(value any) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
		out := make([]byte, rv.Len())
		reflect.Copy(reflect.ValueOf(out), rv)
		return out, nil
	}
	return nil, errors.UnsupportedType(errors.PhaseEncode, nil, reflect.TypeOf(value).String())
}

func toBigInt(value any) (*big.Int, error) {
	switch v := value.(type) {
	case *big.Int:
		return v, nil
	case int:
		return big.NewInt(int64(v)), nil
	case int8:
		return big.NewInt(int64(v)), nil
	case int16:
		return big.NewInt(int64(v)), nil
	case int32:
		return big.NewInt(int64(v)), nil
	case int64:
		return big.NewInt(v), nil
	case uint:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	}
	return nil, errors.UnsupportedType(errors.PhaseEncode, nil, reflect.TypeOf(value).String())
}

func toFloat64(value any) (float64, error) {
	switch v := value.(type) {
	case float32:
		return float64(v), nil
	case float64:
		return v, nil
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Float32 || rv.Kind() == reflect.Float64 {
		return rv.Float(), nil
	}
	return math.NaN(), errors.UnsupportedType(errors.PhaseEncode, nil, reflect.TypeOf(value).String())
}
