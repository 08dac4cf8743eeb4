package ipl

import (
	"fmt"
	"math"
	"math/big"

	"github.com/wippyai/interplay/errors"
)

const (
	tagWidth    = 4
	detailWidth = 124

	// DetailBits is the width of the two's-complement / unsigned range a
	// int/uint detail payload occupies: [-2^123, 2^123) or [0, 2^124).
	DetailBits = detailWidth
)

var (
	detailMask  = maskFor(detailWidth) // 2^124 - 1
	signBit     = new(big.Int).Lsh(one, detailWidth-1)
	twosModulus = new(big.Int).Lsh(one, detailWidth) // 2^124
)

var ptrLenSections = []Section{{Name: "ptr", Width: 32}, {Name: "len", Width: 32}}

const functionOriginBit = 32 // bit offset of the origin flag within a function detail

// Value is the in-memory form of an IPL value: a tag plus its 124-bit
// unsigned detail payload. Detail is always held unsigned, in [0, 2^124);
// signed interpretation (for TagInt) happens at the accessor boundary.
type Value struct {
	Tag    Tag
	Detail *big.Int
}

// Halves packs v into the two 64-bit halves used to cross a wasm call
// boundary, in (low, high) order.
func (v Value) Halves() (lo, hi uint64) {
	detail := v.Detail
	if detail == nil {
		detail = new(big.Int)
	}
	packed, _ := Pack([]PackField{
		{Name: "tag", Width: tagWidth, Value: big.NewInt(int64(v.Tag))},
		{Name: "detail", Width: detailWidth, Value: detail},
	})

	loMask := new(big.Int).SetUint64(math.MaxUint64)
	loBig := new(big.Int).And(packed, loMask)
	hiBig := new(big.Int).Rsh(packed, 64)
	return loBig.Uint64(), hiBig.Uint64()
}

// FromHalves reassembles an IPL value from its two wire halves and
// validates the tag. It does not interpret the detail payload beyond
// extracting it — callers decode per-variant via the accessors below.
//
// An out-of-range tag fails with the spec.md §7 UnknownVariant error kind
// here, at the single point every wire-originated Value passes through,
// so every caller downstream (codec.Decoder, the bridge call wrapper, the
// js.log/js.call host imports) observes the same structured Kind rather
// than each needing its own tag-domain check.
func FromHalves(lo, hi uint64) (Value, error) {
	packed := new(big.Int).Lsh(new(big.Int).SetUint64(hi), 64)
	packed.Or(packed, new(big.Int).SetUint64(lo))

	fields, err := Extract(packed, []Section{{Name: "tag", Width: tagWidth}, {Name: "detail", Width: detailWidth}})
	if err != nil {
		return Value{}, err
	}

	tag := Tag(fields["tag"].Uint64())
	if !tag.Valid() {
		return Value{}, errors.UnknownVariant(errors.PhaseDecode, fields["tag"].Uint64())
	}
	return Value{Tag: tag, Detail: fields["detail"]}, nil
}

// NewVoid returns the zero-allocation void value.
func NewVoid() Value {
	return Value{Tag: TagVoid, Detail: new(big.Int)}
}

// NewBool packs a boolean into bit 0 of detail.
func NewBool(b bool) Value {
	d := new(big.Int)
	if b {
		d.SetUint64(1)
	}
	return Value{Tag: TagBool, Detail: d}
}

// Bool reads bit 0 of detail.
func (v Value) Bool() bool {
	return v.Detail != nil && v.Detail.Bit(0) == 1
}

// NewIntDetail two's-complement-encodes a signed value into a 124-bit
// field. It errors if i falls outside [-2^123, 2^123).
func NewIntDetail(i *big.Int) (Value, error) {
	limit := new(big.Int).Rsh(detailMask, 1) // 2^123 - 1
	negLimit := new(big.Int).Neg(new(big.Int).Add(limit, one))
	if i.Cmp(negLimit) < 0 || i.Cmp(limit) > 0 {
		return Value{}, fmt.Errorf("ipl: int %s outside [%s, %s]", i, negLimit, limit)
	}

	d := new(big.Int).Set(i)
	if d.Sign() < 0 {
		d.Add(d, twosModulus)
	}
	return Value{Tag: TagInt, Detail: d}, nil
}

// Int sign-extends the low 124 bits of detail as a signed value.
func (v Value) Int() *big.Int {
	d := v.Detail
	if d == nil {
		d = new(big.Int)
	}
	if d.Cmp(signBit) >= 0 {
		return new(big.Int).Sub(d, twosModulus)
	}
	return new(big.Int).Set(d)
}

// NewUintDetail stores an unsigned value in [0, 2^124) directly.
func NewUintDetail(u *big.Int) (Value, error) {
	if u.Sign() < 0 || u.Cmp(detailMask) > 0 {
		return Value{}, fmt.Errorf("ipl: uint %s outside [0, 2^124)", u)
	}
	return Value{Tag: TagUint, Detail: new(big.Int).Set(u)}, nil
}

// Uint returns the low 124 bits of detail as unsigned.
func (v Value) Uint() *big.Int {
	if v.Detail == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(v.Detail)
}

// NewFloatDetail places the binary64 bit pattern of f in the low 64 bits.
func NewFloatDetail(f float64) Value {
	return Value{Tag: TagFloat, Detail: new(big.Int).SetUint64(math.Float64bits(f))}
}

// Float reinterprets the low 64 bits of detail as binary64.
func (v Value) Float() float64 {
	if v.Detail == nil {
		return 0
	}
	low64 := new(big.Int).And(v.Detail, new(big.Int).SetUint64(math.MaxUint64))
	return math.Float64frombits(low64.Uint64())
}

// NewBytesLikeDetail packs a (ptr,len) pair for bytes, string, or json.
func NewBytesLikeDetail(tag Tag, ptr, length uint32) (Value, error) {
	if !tag.BytesLike() {
		return Value{}, fmt.Errorf("ipl: tag %s is not bytes-like", tag)
	}
	d, err := Pack([]PackField{
		{Name: "ptr", Width: 32, Value: new(big.Int).SetUint64(uint64(ptr))},
		{Name: "len", Width: 32, Value: new(big.Int).SetUint64(uint64(length))},
	})
	if err != nil {
		return Value{}, err
	}
	return Value{Tag: tag, Detail: d}, nil
}

// PtrLen extracts the (ptr,len) pair shared by bytes, string, json, and
// array details.
func (v Value) PtrLen() (ptr, length uint32, err error) {
	d := v.Detail
	if d == nil {
		d = new(big.Int)
	}
	fields, err := Extract(d, ptrLenSections)
	if err != nil {
		return 0, 0, err
	}
	return uint32(fields["ptr"].Uint64()), uint32(fields["len"].Uint64()), nil
}

// NewFunctionDetail packs a guest pointer or host callback key plus its
// origin flag.
func NewFunctionDetail(ptr uint32, origin Origin) Value {
	d := new(big.Int).SetUint64(uint64(ptr))
	if origin == OriginHost {
		d.SetBit(d, functionOriginBit, 1)
	}
	return Value{Tag: TagFunction, Detail: d}
}

// Function extracts the (ptr, origin) pair of a function detail.
func (v Value) Function() (ptr uint32, origin Origin) {
	d := v.Detail
	if d == nil {
		d = new(big.Int)
	}
	ptrMask := new(big.Int).SetUint64(0xFFFFFFFF)
	ptr = uint32(new(big.Int).And(d, ptrMask).Uint64())
	if d.Bit(functionOriginBit) == 1 {
		origin = OriginHost
	}
	return ptr, origin
}

// NewArrayDetail packs an array's (ptr,len) pair. An empty array (len==0)
// is always detail=0 — no allocation is made for it (spec.md §3, §9).
func NewArrayDetail(ptr uint32, length uint32) Value {
	if length == 0 {
		return Value{Tag: TagArray, Detail: new(big.Int)}
	}
	d, _ := Pack([]PackField{
		{Name: "ptr", Width: 32, Value: new(big.Int).SetUint64(uint64(ptr))},
		{Name: "len", Width: 32, Value: new(big.Int).SetUint64(uint64(length))},
	})
	return Value{Tag: TagArray, Detail: d}
}
