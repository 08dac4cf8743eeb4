package codec

import (
	"reflect"
	"testing"

	"github.com/wippyai/interplay/ipl"
)

func TestJSON_RoundTrip(t *testing.T) {
	mem, alloc, registry := newHarness()
	enc := New(mem, alloc, registry)
	dec := NewDecoder(mem, registry, nil)

	value := map[string]any{"message": "Greetings"}
	encoded, err := enc.EncodeTag(ipl.TagJSON, value)
	if err != nil {
		t.Fatalf("EncodeTag: %v", err)
	}
	decoded, err := dec.Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got, ok := decoded.(map[string]any)
	if !ok {
		t.Fatalf("decoded = %T, want map[string]any", decoded)
	}
	if got["message"] != "Greetings" {
		t.Errorf("message = %v, want Greetings", got["message"])
	}
}

func TestJSON_NestedStructures(t *testing.T) {
	value := map[string]any{
		"name":   "test",
		"count":  float64(3),
		"active": true,
		"tags":   []any{"a", "b"},
		"nested": map[string]any{"x": float64(1)},
	}
	data, err := EncodeJSON(value)
	if err != nil {
		t.Fatalf("EncodeJSON: %v", err)
	}
	got, err := DecodeJSON(data)
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if !reflect.DeepEqual(got, value) {
		t.Errorf("round-trip mismatch:\ngot  %#v\nwant %#v", got, value)
	}
}

func TestJSON_Null(t *testing.T) {
	data, err := EncodeJSON(nil)
	if err != nil {
		t.Fatalf("EncodeJSON: %v", err)
	}
	got, err := DecodeJSON(data)
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if got != nil {
		t.Errorf("got %v, want nil", got)
	}
}
