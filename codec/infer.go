package codec

import (
	"math/big"
	"reflect"

	"github.com/wippyai/interplay/errors"
	"github.com/wippyai/interplay/funcref"
	"github.com/wippyai/interplay/ipl"
)

// InferTag derives a host value's IPL tag per spec.md §4.2. Integers use
// sign only to disambiguate int vs uint, so zero routes to uint and
// negative-zero floats stay float rather than becoming an integer — both
// intentional per the spec's flagged design notes.
func InferTag(value any) (ipl.Tag, error) {
	if value == nil {
		return ipl.TagVoid, nil
	}

	switch v := value.(type) {
	case bool:
		return ipl.TagBool, nil
	case []byte:
		return ipl.TagBytes, nil
	case string:
		return ipl.TagString, nil
	case *big.Int:
		if v.Sign() < 0 {
			return ipl.TagInt, nil
		}
		return ipl.TagUint, nil
	case funcref.Callable, funcref.HostFunc:
		return ipl.TagFunction, nil
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if rv.Int() < 0 {
			return ipl.TagInt, nil
		}
		return ipl.TagUint, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return ipl.TagUint, nil
	case reflect.Float32, reflect.Float64:
		return ipl.TagFloat, nil
	case reflect.Slice, reflect.Array:
		return ipl.TagArray, nil
	case reflect.Func:
		return ipl.TagFunction, nil
	case reflect.Map, reflect.Struct:
		return ipl.TagJSON, nil
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return ipl.TagVoid, nil
		}
		return InferTag(rv.Elem().Interface())
	default:
		return 0, errors.UnsupportedType(errors.PhaseEncode, nil, rv.Kind().String())
	}
}
