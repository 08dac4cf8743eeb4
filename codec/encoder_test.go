package codec

import (
	"math"
	"math/big"
	"testing"

	"github.com/wippyai/interplay/funcref"
)

func newHarness() (*fakeMemory, *fakeAllocator, *funcref.Registry) {
	mem := newFakeMemory(65536)
	alloc := newFakeAllocator(mem)
	registry := funcref.NewRegistry()
	return mem, alloc, registry
}

func TestEncodeDecode_Scalars_RoundTrip(t *testing.T) {
	mem, alloc, registry := newHarness()
	enc := New(mem, alloc, registry)
	dec := NewDecoder(mem, registry, nil)

	tests := []struct {
		name  string
		value any
	}{
		{"bool true", true},
		{"bool false", false},
		{"negative int", -12345},
		{"zero", 0},
		{"positive as uint", 999999},
		{"float", 1.2345},
		{"negative float", -1.2345},
		{"float inf", math.Inf(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := enc.Encode(tt.value)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			decoded, err := dec.Decode(encoded)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			assertScalarEqual(t, tt.value, decoded)
		})
	}
}

func assertScalarEqual(t *testing.T, want, got any) {
	t.Helper()
	switch w := want.(type) {
	case int:
		bi, ok := got.(*big.Int)
		if !ok || bi.Int64() != int64(w) {
			t.Errorf("got %v, want %d", got, w)
		}
	case float64:
		gf, ok := got.(float64)
		if !ok || math.Float64bits(gf) != math.Float64bits(w) {
			t.Errorf("got %v, want %v", got, w)
		}
	default:
		if got != want {
			t.Errorf("got %v, want %v", got, want)
		}
	}
}

func TestEncodeDecode_String_RoundTrip(t *testing.T) {
	mem, alloc, registry := newHarness()
	enc := New(mem, alloc, registry)
	dec := NewDecoder(mem, registry, nil)

	for _, s := range []string{"", "hello", "héllo wörld", "é漢\U0001F600"} {
		encoded, err := enc.Encode(s)
		if err != nil {
			t.Fatalf("Encode(%q): %v", s, err)
		}
		decoded, err := dec.Decode(encoded)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if decoded != s {
			t.Errorf("round-trip %q got %q", s, decoded)
		}
	}
}

func TestEncodeDecode_Bytes_RoundTrip(t *testing.T) {
	mem, alloc, registry := newHarness()
	enc := New(mem, alloc, registry)
	dec := NewDecoder(mem, registry, nil)

	for _, n := range []int{0, 1, 255, 4096} {
		data := make([]byte, n)
		for i := range data {
			data[i] = byte(i)
		}
		encoded, err := enc.Encode(data)
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		decoded, err := dec.Decode(encoded)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		gotBytes, ok := decoded.([]byte)
		if !ok || len(gotBytes) != len(data) {
			t.Fatalf("decoded = %v, want %d bytes", decoded, len(data))
		}
		for i := range data {
			if gotBytes[i] != data[i] {
				t.Fatalf("byte %d mismatch", i)
			}
		}
	}
}

func TestDecodeBytes_DoesNotAliasMemory(t *testing.T) {
	mem, alloc, registry := newHarness()
	enc := New(mem, alloc, registry)
	dec := NewDecoder(mem, registry, nil)

	encoded, err := enc.Encode([]byte{1, 2, 3})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := dec.Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got := decoded.([]byte)
	got[0] = 99

	redecoded, err := dec.Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if redecoded.([]byte)[0] == 99 {
		t.Error("mutating decoded buffer mutated linear memory")
	}
}

func TestEncode_UnsupportedType(t *testing.T) {
	mem, alloc, registry := newHarness()
	enc := New(mem, alloc, registry)
	ch := make(chan int)
	if _, err := enc.Encode(ch); err == nil {
		t.Error("Encode(chan) should fail")
	}
}
