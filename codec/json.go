package codec

import (
	"bytes"
	"encoding/json"

	"github.com/wippyai/interplay/errors"
)

// EncodeJSON serialises value to canonical UTF-8 JSON: map keys sorted
// (encoding/json already does this), no HTML escaping, no indentation.
func EncodeJSON(value any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(value); err != nil {
		return nil, errors.JSONFailure(errors.PhaseEncode, err)
	}
	// json.Encoder.Encode always appends a trailing newline; trim it so the
	// byte length matches what callers expect to round-trip.
	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
}

// DecodeJSON parses data into Go's natural dynamic representation: nil,
// bool, float64, string, []any, or map[string]any.
func DecodeJSON(data []byte) (any, error) {
	var value any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&value); err != nil {
		return nil, errors.JSONFailure(errors.PhaseDecode, err)
	}
	return normalizeJSONNumbers(value), nil
}

// normalizeJSONNumbers converts json.Number leaves to float64, matching the
// "finite numbers" testable property (structural equality against plain
// Go float64/bool/string/[]any/map[string]any values).
func normalizeJSONNumbers(value any) any {
	switch v := value.(type) {
	case map[string]any:
		for k, item := range v {
			v[k] = normalizeJSONNumbers(item)
		}
		return v
	case []any:
		for i, item := range v {
			v[i] = normalizeJSONNumbers(item)
		}
		return v
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v
	default:
		return v
	}
}
