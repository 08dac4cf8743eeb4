package errors

import (
	"errors"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseEncode,
				Kind:   KindUnsupportedType,
				Path:   []string{"args", "2"},
				GoType: "chan int",
				Detail: "cannot convert",
			},
			contains: []string{"[encode]", "unsupported_type", "args.2", "chan int", "cannot convert"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseDecode,
				Kind:  KindUnknownVariant,
			},
			contains: []string{"[decode]", "unknown_variant"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseLoad,
				Kind:   KindAllocationFailed,
				Detail: "memory full",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[load]", "allocation_failure", "memory full", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !containsSubstring(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseEncode,
		Kind:  KindInvalidData,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseEncode,
		Kind:  KindUnsupportedType,
		Path:  []string{"foo"},
	}

	if !err.Is(&Error{Phase: PhaseEncode, Kind: KindUnsupportedType}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseDecode, Kind: KindUnsupportedType}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseEncode, Kind: KindUnknownVariant}) {
		t.Error("Is should not match different kind")
	}

	target := &Error{Phase: PhaseEncode, Kind: KindUnsupportedType}
	if !errors.Is(err, target) {
		t.Error("errors.Is should match")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseEncode, KindUnsupportedType).
		Path("args", "0").
		GoType("complex128").
		Value(42).
		Cause(cause).
		Detail("expected %s, got %s", "IPL tag", "complex128").
		Build()

	if err.Phase != PhaseEncode {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseEncode)
	}
	if err.Kind != KindUnsupportedType {
		t.Errorf("Kind = %v, want %v", err.Kind, KindUnsupportedType)
	}
	if len(err.Path) != 2 || err.Path[0] != "args" || err.Path[1] != "0" {
		t.Errorf("Path = %v, want [args 0]", err.Path)
	}
	if err.GoType != "complex128" {
		t.Errorf("GoType = %v, want 'complex128'", err.GoType)
	}
	if err.Value != 42 {
		t.Errorf("Value = %v, want 42", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "expected IPL tag, got complex128" {
		t.Errorf("Detail = %v, want 'expected IPL tag, got complex128'", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("UnsupportedType", func(t *testing.T) {
		err := UnsupportedType(PhaseEncode, []string{"field"}, "chan int")
		if err.Kind != KindUnsupportedType {
			t.Errorf("Kind = %v, want %v", err.Kind, KindUnsupportedType)
		}
		if err.GoType != "chan int" {
			t.Errorf("GoType=%v", err.GoType)
		}
	})

	t.Run("UnknownVariant", func(t *testing.T) {
		err := UnknownVariant(PhaseDecode, 12)
		if err.Kind != KindUnknownVariant {
			t.Errorf("Kind = %v, want %v", err.Kind, KindUnknownVariant)
		}
		if !containsSubstring(err.Detail, "12") {
			t.Errorf("Detail = %v, should contain tag", err.Detail)
		}
	})

	t.Run("WrongOrigin", func(t *testing.T) {
		err := WrongOrigin(PhaseHost, 1, 0)
		if err.Kind != KindWrongOrigin {
			t.Errorf("Kind = %v, want %v", err.Kind, KindWrongOrigin)
		}
	})

	t.Run("MemoryFault", func(t *testing.T) {
		err := MemoryFault(PhaseDecode, 100, 50, 120)
		if err.Kind != KindMemoryFault {
			t.Errorf("Kind = %v, want %v", err.Kind, KindMemoryFault)
		}
		if !containsSubstring(err.Detail, "120") {
			t.Errorf("Detail = %v, should contain mem size", err.Detail)
		}
	})

	t.Run("AllocationFailed", func(t *testing.T) {
		err := AllocationFailed(PhaseEncode, 1024)
		if err.Kind != KindAllocationFailed {
			t.Errorf("Kind = %v, want %v", err.Kind, KindAllocationFailed)
		}
		if !containsSubstring(err.Detail, "1024") {
			t.Errorf("Detail = %v, should contain size", err.Detail)
		}
	})

	t.Run("JSONFailure", func(t *testing.T) {
		err := JSONFailure(PhaseEncode, errors.New("bad json"))
		if err.Kind != KindJSONFailure {
			t.Errorf("Kind = %v, want %v", err.Kind, KindJSONFailure)
		}
	})

	t.Run("Overflow", func(t *testing.T) {
		err := Overflow(PhaseEncode, float64(1<<130), 124)
		if err.Kind != KindOverflow {
			t.Errorf("Kind = %v, want %v", err.Kind, KindOverflow)
		}
	})
}

func containsSubstring(s, substr string) bool {
	if substr == "" {
		return true
	}
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
