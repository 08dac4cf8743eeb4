package codec

import (
	"testing"

	"github.com/wippyai/interplay/ipl"
)

func TestArray_EmptyIsZeroAllocation(t *testing.T) {
	mem, alloc, registry := newHarness()
	enc := New(mem, alloc, registry)

	encoded, err := enc.Encode([]any{})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if encoded.Tag != ipl.TagArray {
		t.Fatalf("Tag = %v, want array", encoded.Tag)
	}
	if encoded.Detail.Sign() != 0 {
		t.Errorf("Detail = %v, want 0", encoded.Detail)
	}
	if alloc.offset != 64 {
		t.Errorf("allocator offset moved to %d, want unchanged 64", alloc.offset)
	}
}

func TestArray_HeterogeneousRoundTrip(t *testing.T) {
	mem, alloc, registry := newHarness()
	enc := New(mem, alloc, registry)
	dec := NewDecoder(mem, registry, nil)

	values := []any{true, "hello", []byte{1, 2, 3}, 42}
	encoded, err := enc.Encode(values)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if encoded.Tag != ipl.TagArray {
		t.Fatalf("Tag = %v, want array", encoded.Tag)
	}

	decoded, err := dec.Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got, ok := decoded.([]any)
	if !ok || len(got) != len(values) {
		t.Fatalf("decoded = %v, want %d elements", decoded, len(values))
	}
	if got[0] != true {
		t.Errorf("element 0 = %v, want true", got[0])
	}
	if got[1] != "hello" {
		t.Errorf("element 1 = %v, want hello", got[1])
	}
	gotBytes, ok := got[2].([]byte)
	if !ok || len(gotBytes) != 3 {
		t.Errorf("element 2 = %v, want 3 bytes", got[2])
	}
}

func TestArray_NestedRoundTrip(t *testing.T) {
	mem, alloc, registry := newHarness()
	enc := New(mem, alloc, registry)
	dec := NewDecoder(mem, registry, nil)

	values := []any{[]any{1, 2}, []any{}, "x"}
	encoded, err := enc.Encode(values)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := dec.Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got := decoded.([]any)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	inner, ok := got[0].([]any)
	if !ok || len(inner) != 2 {
		t.Fatalf("inner = %v, want 2 elements", got[0])
	}
}

func TestArray_ElementEncodeErrorFreesPartial(t *testing.T) {
	mem, alloc, registry := newHarness()
	enc := New(mem, alloc, registry)

	ch := make(chan int)
	_, err := enc.Encode([]any{"ok", ch})
	if err == nil {
		t.Fatal("Encode should fail on unsupported element")
	}
	if len(alloc.freed) == 0 {
		t.Error("partial array encode should free the already-encoded element and array buffer")
	}
}
