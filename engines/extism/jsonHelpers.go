package extism

import (
	"bytes"
	"encoding/json"
)

// fixJSONNumberTypes replaces json.Number values with int64 when they are integral and float64
// otherwise, recursing into maps and slices.
func fixJSONNumberTypes(data any) any {
	switch v := data.(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	case map[string]any:
		for k, val := range v {
			v[k] = fixJSONNumberTypes(val)
		}
		return v
	case []any:
		for i, item := range v {
			v[i] = fixJSONNumberTypes(item)
		}
		return v
	default:
		return data
	}
}

// marshalInputData encodes the bindings as the plugin input. No bindings means no input.
func marshalInputData(inputData map[string]any) ([]byte, error) {
	if len(inputData) == 0 {
		return nil, nil
	}
	return json.Marshal(inputData)
}

// decodeOutput parses plugin output as JSON, falling back to the raw text.
func decodeOutput(output []byte) any {
	if len(output) == 0 {
		return nil
	}

	var result any
	d := json.NewDecoder(bytes.NewReader(output))
	d.UseNumber()
	if err := d.Decode(&result); err != nil || d.More() {
		return string(output)
	}
	return fixJSONNumberTypes(result)
}
