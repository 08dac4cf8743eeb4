package bridge

import (
	"context"
	"math/big"
	"testing"

	"github.com/wippyai/interplay/errors"
	"github.com/wippyai/interplay/wat"
)

// newFixtureInstance compiles guestFixtureWAT through the real wat
// compiler and instantiates it through a real wazero runtime, exercising
// the complete host<->guest call wrapper (spec.md §4.5) end to end rather
// than against fakes.
func newFixtureInstance(t *testing.T) (context.Context, *Instance) {
	t.Helper()
	bin, err := wat.Compile(guestFixtureWAT)
	if err != nil {
		t.Fatalf("wat.Compile: %v", err)
	}
	ctx := context.Background()
	inst, err := FromBytes(ctx, NewEngine(), bin)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	t.Cleanup(func() { _ = inst.Close(ctx) })
	return ctx, inst
}

func TestInstance_Exports(t *testing.T) {
	_, inst := newFixtureInstance(t)
	want := []string{
		"echo", "echoBytes", "echoString", "echoJSON", "echoArray",
		"greet", "testFloat", "testJSON", "testFunction", "testFunctionWithArgs",
	}
	got := map[string]bool{}
	for _, name := range inst.Exports() {
		got[name] = true
	}
	for _, name := range want {
		if !got[name] {
			t.Errorf("missing export %q", name)
		}
	}
	for _, reserved := range []string{"alloc", "free", "memory", "call"} {
		if got[reserved] {
			t.Errorf("reserved export %q leaked into Exports()", reserved)
		}
	}
}

func TestInstance_Call_UnknownExport(t *testing.T) {
	ctx, inst := newFixtureInstance(t)
	if _, err := inst.Call(ctx, "nope"); err == nil {
		t.Fatal("expected error calling unknown export")
	}
}

func TestInstance_EchoScalars(t *testing.T) {
	ctx, inst := newFixtureInstance(t)

	t.Run("bool", func(t *testing.T) {
		got, err := inst.Call(ctx, "echo", true)
		if err != nil {
			t.Fatalf("Call: %v", err)
		}
		if got != true {
			t.Errorf("got %v, want true", got)
		}
	})

	t.Run("uint", func(t *testing.T) {
		got, err := inst.Call(ctx, "echo", uint64(42))
		if err != nil {
			t.Fatalf("Call: %v", err)
		}
		b, ok := got.(*big.Int)
		if !ok || b.Cmp(big.NewInt(42)) != 0 {
			t.Errorf("got %v, want 42", got)
		}
	})

	t.Run("negative int", func(t *testing.T) {
		got, err := inst.Call(ctx, "echo", int64(-7))
		if err != nil {
			t.Fatalf("Call: %v", err)
		}
		b, ok := got.(*big.Int)
		if !ok || b.Cmp(big.NewInt(-7)) != 0 {
			t.Errorf("got %v, want -7", got)
		}
	})

	t.Run("zero routes to uint", func(t *testing.T) {
		got, err := inst.Call(ctx, "echo", 0)
		if err != nil {
			t.Fatalf("Call: %v", err)
		}
		b, ok := got.(*big.Int)
		if !ok || b.Sign() != 0 {
			t.Errorf("got %v, want 0", got)
		}
	})

	t.Run("float", func(t *testing.T) {
		got, err := inst.Call(ctx, "echo", 1.5)
		if err != nil {
			t.Fatalf("Call: %v", err)
		}
		if got != 1.5 {
			t.Errorf("got %v, want 1.5", got)
		}
	})

	t.Run("void", func(t *testing.T) {
		got, err := inst.Call(ctx, "echo", nil)
		if err != nil {
			t.Fatalf("Call: %v", err)
		}
		if got != nil {
			t.Errorf("got %v, want nil", got)
		}
	})
}

func TestInstance_EchoBytes(t *testing.T) {
	ctx, inst := newFixtureInstance(t)
	want := []byte{0x01, 0x02, 0xFF, 0x00, 0x10}
	got, err := inst.Call(ctx, "echoBytes", want)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	gotBytes, ok := got.([]byte)
	if !ok || string(gotBytes) != string(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestInstance_EchoBytes_Empty(t *testing.T) {
	ctx, inst := newFixtureInstance(t)
	got, err := inst.Call(ctx, "echoBytes", []byte{})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	gotBytes, ok := got.([]byte)
	if !ok || len(gotBytes) != 0 {
		t.Errorf("got %v, want empty bytes", got)
	}
}

func TestInstance_EchoString(t *testing.T) {
	ctx, inst := newFixtureInstance(t)
	for _, s := range []string{"", "hello world", "héllo wörld é", "日本語"} {
		got, err := inst.Call(ctx, "echoString", s)
		if err != nil {
			t.Fatalf("Call(%q): %v", s, err)
		}
		if got != s {
			t.Errorf("got %q, want %q", got, s)
		}
	}
}

func TestInstance_EchoJSON(t *testing.T) {
	ctx, inst := newFixtureInstance(t)
	in := map[string]any{"a": float64(1), "b": []any{"x", "y"}, "c": true}
	got, err := inst.Call(ctx, "echoJSON", in)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	m, ok := got.(map[string]any)
	if !ok {
		t.Fatalf("got %T, want map[string]any", got)
	}
	if m["a"] != float64(1) || m["c"] != true {
		t.Errorf("got %v", m)
	}
	arr, ok := m["b"].([]any)
	if !ok || len(arr) != 2 || arr[0] != "x" || arr[1] != "y" {
		t.Errorf("got b=%v", m["b"])
	}
}

func TestInstance_EchoArray(t *testing.T) {
	ctx, inst := newFixtureInstance(t)

	t.Run("scalars", func(t *testing.T) {
		got, err := inst.Call(ctx, "echoArray", []any{uint64(1), true, 2.5})
		if err != nil {
			t.Fatalf("Call: %v", err)
		}
		arr, ok := got.([]any)
		if !ok || len(arr) != 3 {
			t.Fatalf("got %v", got)
		}
		n, ok := arr[0].(*big.Int)
		if !ok || n.Cmp(big.NewInt(1)) != 0 {
			t.Errorf("arr[0] = %v, want 1", arr[0])
		}
		if arr[1] != true {
			t.Errorf("arr[1] = %v, want true", arr[1])
		}
		if arr[2] != 2.5 {
			t.Errorf("arr[2] = %v, want 2.5", arr[2])
		}
	})

	t.Run("empty", func(t *testing.T) {
		got, err := inst.Call(ctx, "echoArray", []any{})
		if err != nil {
			t.Fatalf("Call: %v", err)
		}
		arr, ok := got.([]any)
		if !ok || len(arr) != 0 {
			t.Errorf("got %v, want empty array", got)
		}
	})
}

// TestInstance_Greet exercises spec.md §8 scenario 1: a guest export that
// builds a string out of a host-supplied argument and static guest data.
func TestInstance_Greet(t *testing.T) {
	ctx, inst := newFixtureInstance(t)
	got, err := inst.Call(ctx, "greet", "Daniel")
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if got != "Hello Daniel!" {
		t.Errorf("got %q, want %q", got, "Hello Daniel!")
	}
}

// TestInstance_TestFloat exercises spec.md §8 scenario 3: a guest export
// returning a fixed float64 bit pattern with no arguments.
func TestInstance_TestFloat(t *testing.T) {
	ctx, inst := newFixtureInstance(t)
	got, err := inst.Call(ctx, "testFloat")
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if got != 1.2345 {
		t.Errorf("got %v, want 1.2345", got)
	}
}

// TestInstance_TestJSON exercises spec.md §8 scenario 4: a guest export
// returning a JSON-tagged value decoded into a Go map.
func TestInstance_TestJSON(t *testing.T) {
	ctx, inst := newFixtureInstance(t)
	got, err := inst.Call(ctx, "testJSON")
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	m, ok := got.(map[string]any)
	if !ok {
		t.Fatalf("got %T, want map[string]any", got)
	}
	if m["message"] != "Greetings" {
		t.Errorf("got %v, want message=Greetings", m)
	}
}

// TestInstance_TestFunction exercises spec.md §8 scenario 5: the guest
// builds its own ["Hello", "World"] array and invokes a host Go callback
// through js.call, expecting the concatenation back.
func TestInstance_TestFunction(t *testing.T) {
	ctx, inst := newFixtureInstance(t)
	called := false
	concat := func(a, b string) string {
		called = true
		return a + b
	}
	got, err := inst.Call(ctx, "testFunction", concat)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if !called {
		t.Fatal("host callback was never invoked")
	}
	if got != "HelloWorld" {
		t.Errorf("got %q, want %q", got, "HelloWorld")
	}
}

// TestInstance_TestFunctionWithArgs exercises spec.md §8 scenario 6: the
// host drives the call with both the callback and its argument array, and
// the callback observes each argument under its inferred IPL type.
func TestInstance_TestFunctionWithArgs(t *testing.T) {
	ctx, inst := newFixtureInstance(t)
	var gotN *big.Int
	var gotB bool
	var gotS string
	check := func(n *big.Int, b bool, s string) bool {
		gotN, gotB, gotS = n, b, s
		return n.Cmp(big.NewInt(1)) == 0 && b && s == "x"
	}
	got, err := inst.Call(ctx, "testFunctionWithArgs", check, []any{uint64(1), true, "x"})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if got != true {
		t.Errorf("got %v, want true", got)
	}
	if gotN == nil || gotN.Cmp(big.NewInt(1)) != 0 {
		t.Errorf("callback saw n=%v, want 1", gotN)
	}
	if !gotB {
		t.Errorf("callback saw b=%v, want true", gotB)
	}
	if gotS != "x" {
		t.Errorf("callback saw s=%q, want %q", gotS, "x")
	}
}

func TestInstance_MultipleCallsShareRegistry(t *testing.T) {
	ctx, inst := newFixtureInstance(t)
	calls := 0
	cb := func(a, b string) string {
		calls++
		return a + b
	}
	for i := 0; i < 3; i++ {
		got, err := inst.Call(ctx, "testFunction", cb)
		if err != nil {
			t.Fatalf("Call %d: %v", i, err)
		}
		if got != "HelloWorld" {
			t.Errorf("call %d: got %q", i, got)
		}
	}
	if calls != 3 {
		t.Errorf("callback invoked %d times, want 3", calls)
	}
}

// TestInstance_BadTag exercises spec.md §8's tag-domain property against a
// real guest return value: "badTag" returns a tag outside 0..9, and
// Instance.Call must fail with UnknownVariant rather than decoding garbage.
func TestInstance_BadTag(t *testing.T) {
	ctx, inst := newFixtureInstance(t)
	_, err := inst.Call(ctx, "badTag")
	if err == nil {
		t.Fatal("expected UnknownVariant error, got nil")
	}
	iplErr, ok := err.(*errors.Error)
	if !ok {
		t.Fatalf("got %T, want *errors.Error", err)
	}
	if iplErr.Kind != errors.KindUnknownVariant {
		t.Errorf("Kind = %q, want %q", iplErr.Kind, errors.KindUnknownVariant)
	}
}

// TestInstance_WrongOrigin exercises spec.md §8's origin-check property at
// the Instance boundary: "callGuestOriginFn" invokes js.call with a
// guest-origin function, which the host import must reject.
func TestInstance_WrongOrigin(t *testing.T) {
	ctx, inst := newFixtureInstance(t)
	_, err := inst.Call(ctx, "callGuestOriginFn")
	if err == nil {
		t.Fatal("expected WrongOrigin error, got nil")
	}
	iplErr, ok := err.(*errors.Error)
	if !ok {
		t.Fatalf("got %T, want *errors.Error", err)
	}
	if iplErr.Kind != errors.KindWrongOrigin {
		t.Errorf("Kind = %q, want %q", iplErr.Kind, errors.KindWrongOrigin)
	}
}
