package ipl

import (
	"fmt"
	"math/big"
)

// Section names one ordered, contiguous unsigned bit field consumed from
// (or packed into) a multi-field integer. Width is the field's width in
// bits. Sections are always read/written low-bits-first: the first section
// occupies the lowest bits of the integer, the next begins after a right
// shift by that width, and so on.
type Section struct {
	Name  string
	Width uint
}

// PackField pairs a Section with the value to pack into it. Values that
// exceed their declared width are truncated to it — this is documented
// caller error, not a reported failure, matching spec.md §4.1.
type PackField struct {
	Name  string
	Width uint
	Value *big.Int
}

func errSectionsTooWide(width uint) error {
	return fmt.Errorf("ipl: bit sections total %d bits, exceeds 128", width)
}

var one = big.NewInt(1)

// maskFor returns (1<<width)-1, the mask of a width-bit unsigned field.
func maskFor(width uint) *big.Int {
	m := new(big.Int).Lsh(one, width)
	return m.Sub(m, one)
}

// Extract consumes value low-bits-first according to sections, returning a
// map from section name to its unsigned field value. It fails if the
// declared widths sum to more than 128 bits, matching the bound the IPL
// value itself is packed into.
func Extract(value *big.Int, sections []Section) (map[string]*big.Int, error) {
	var totalWidth uint
	for _, s := range sections {
		totalWidth += s.Width
	}
	if totalWidth > 128 {
		return nil, errSectionsTooWide(totalWidth)
	}

	remaining := new(big.Int).Set(value)
	out := make(map[string]*big.Int, len(sections))
	for _, s := range sections {
		mask := maskFor(s.Width)
		field := new(big.Int).And(remaining, mask)
		out[s.Name] = field
		remaining = new(big.Int).Rsh(remaining, s.Width)
	}
	return out, nil
}

// Pack assembles fields low-bits-first into a single unsigned integer: each
// value is masked to its declared width and OR'd in at the running bit
// offset.
func Pack(fields []PackField) (*big.Int, error) {
	var totalWidth uint
	for _, f := range fields {
		totalWidth += f.Width
	}
	if totalWidth > 128 {
		return nil, errSectionsTooWide(totalWidth)
	}

	result := new(big.Int)
	var offset uint
	for _, f := range fields {
		v := f.Value
		if v == nil {
			v = new(big.Int)
		}
		masked := new(big.Int).And(v, maskFor(f.Width))
		masked.Lsh(masked, offset)
		result.Or(result, masked)
		offset += f.Width
	}
	return result, nil
}
