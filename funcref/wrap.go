package funcref

import (
	"reflect"

	"github.com/wippyai/interplay/errors"
)

var errType = reflect.TypeFor[error]()

// Wrap adapts an ordinary Go function into a HostFunc via reflection, so
// that host code can register `func(a, b string) string` directly instead
// of hand-writing a ([]any) (any, error) shim. The wrapped function's
// trailing error return, if present, is surfaced as the HostFunc error;
// otherwise its single (or first, if it returns several) result is
// returned as the host value.
func Wrap(fn any) (HostFunc, error) {
	if hf, ok := fn.(HostFunc); ok {
		return hf, nil
	}
	if hf, ok := fn.(func([]any) (any, error)); ok {
		return hf, nil
	}

	rv := reflect.ValueOf(fn)
	rt := rv.Type()
	if rt.Kind() != reflect.Func {
		return nil, errors.UnsupportedType(errors.PhaseEncode, nil, rt.String())
	}

	return func(args []any) (any, error) {
		in, err := coerceArgs(rt, args)
		if err != nil {
			return nil, err
		}
		out := rv.Call(in)
		return splitResults(rt, out)
	}, nil
}

func coerceArgs(rt reflect.Type, args []any) ([]reflect.Value, error) {
	numIn := rt.NumIn()
	if rt.IsVariadic() {
		if len(args) < numIn-1 {
			return nil, errors.InvalidInput(errors.PhaseCall, "too few arguments for variadic callback")
		}
	} else if len(args) != numIn {
		return nil, errors.InvalidInput(errors.PhaseCall, "argument count mismatch for callback")
	}

	in := make([]reflect.Value, len(args))
	for i, a := range args {
		var want reflect.Type
		if rt.IsVariadic() && i >= numIn-1 {
			want = rt.In(numIn - 1).Elem()
		} else {
			want = rt.In(i)
		}
		in[i] = coerceArg(a, want)
	}
	return in, nil
}

func coerceArg(a any, want reflect.Type) reflect.Value {
	if a == nil {
		return reflect.Zero(want)
	}
	av := reflect.ValueOf(a)
	if av.Type().ConvertibleTo(want) {
		return av.Convert(want)
	}
	return av
}

func splitResults(rt reflect.Type, out []reflect.Value) (any, error) {
	if len(out) == 0 {
		return nil, nil
	}
	last := out[len(out)-1]
	if rt.Out(len(out)-1) == errType {
		var err error
		if !last.IsNil() {
			err = last.Interface().(error)
		}
		if len(out) == 1 {
			return nil, err
		}
		return out[0].Interface(), err
	}
	return out[0].Interface(), nil
}
