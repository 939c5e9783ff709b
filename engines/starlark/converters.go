package starlark

import (
	"errors"
	"fmt"
	"net/url"

	starlarkLib "go.starlark.net/starlark"
)

// toGo converts a Starlark value to a Go value. Ints become int64 (or *big.Int when they do
// not fit), tuples and lists become []any, dicts become map[string]any and sets become []any.
func toGo(v starlarkLib.Value) (any, error) {
	if v == nil {
		return nil, nil
	}

	switch v := v.(type) {
	case starlarkLib.NoneType:
		return nil, nil
	case starlarkLib.Bool:
		return bool(v), nil
	case starlarkLib.Int:
		if i, ok := v.Int64(); ok {
			return i, nil
		}
		return v.BigInt(), nil
	case starlarkLib.Float:
		return float64(v), nil
	case starlarkLib.String:
		return string(v), nil
	case starlarkLib.Bytes:
		return []byte(v), nil
	case *starlarkLib.List:
		return iterableToSlice(v, v.Len())
	case starlarkLib.Tuple:
		return iterableToSlice(v, v.Len())
	case *starlarkLib.Set:
		return iterableToSlice(v, v.Len())
	case *starlarkLib.Dict:
		dict := make(map[string]any, v.Len())
		for _, item := range v.Items() {
			key, val := item[0], item[1]

			// non-string keys are rendered with their Starlark repr
			kStr, ok := key.(starlarkLib.String)
			if !ok {
				kStr = starlarkLib.String(key.String())
			}

			vv, err := toGo(val)
			if err != nil {
				return nil, fmt.Errorf("failed to convert dict value for key %s: %w", key, err)
			}
			dict[string(kStr)] = vv
		}
		return dict, nil
	default:
		return nil, fmt.Errorf("unsupported Starlark type %s", v.Type())
	}
}

func iterableToSlice(it starlarkLib.Iterable, size int) ([]any, error) {
	out := make([]any, 0, size)
	iter := it.Iterate()
	defer iter.Done()

	var elem starlarkLib.Value
	for iter.Next(&elem) {
		gv, err := toGo(elem)
		if err != nil {
			return nil, fmt.Errorf("failed to convert element %d: %w", len(out), err)
		}
		out = append(out, gv)
	}
	return out, nil
}

// toStringDict converts the bindings into predeclared Starlark globals. Values that fail to
// convert are left out of the dict and all conversion errors are returned together.
func toStringDict(vars map[string]any) (starlarkLib.StringDict, error) {
	sDict := make(starlarkLib.StringDict, len(vars))

	var errz []error
	for k, v := range vars {
		sv, err := toStarlark(v)
		if err != nil {
			errz = append(errz, fmt.Errorf("failed to convert binding %q: %w", k, err))
			continue
		}
		sDict[k] = sv
	}

	return sDict, errors.Join(errz...)
}

func toStarlark(v any) (starlarkLib.Value, error) {
	if v == nil {
		return starlarkLib.None, nil
	}

	switch val := v.(type) {
	case starlarkLib.Value:
		return val, nil
	case bool:
		return starlarkLib.Bool(val), nil
	case int:
		return starlarkLib.MakeInt(val), nil
	case int32:
		return starlarkLib.MakeInt64(int64(val)), nil
	case int64:
		return starlarkLib.MakeInt64(val), nil
	case uint64:
		return starlarkLib.MakeUint64(val), nil
	case float32:
		return starlarkLib.Float(val), nil
	case float64:
		return starlarkLib.Float(val), nil
	case string:
		return starlarkLib.String(val), nil
	case []byte:
		return starlarkLib.Bytes(val), nil
	case *url.URL:
		return starlarkLib.String(val.String()), nil
	case []string:
		elements := make([]starlarkLib.Value, len(val))
		for i, s := range val {
			elements[i] = starlarkLib.String(s)
		}
		return starlarkLib.NewList(elements), nil
	case []any:
		elements := make([]starlarkLib.Value, len(val))
		for i, elem := range val {
			var err error
			elements[i], err = toStarlark(elem)
			if err != nil {
				return nil, fmt.Errorf("failed to convert list element: %w", err)
			}
		}
		return starlarkLib.NewList(elements), nil
	case map[string]struct{}:
		// golang doesn't have a Set, but often a map[string]struct{} is used instead
		elements := starlarkLib.NewSet(len(val))
		for k := range val {
			if err := elements.Insert(starlarkLib.String(k)); err != nil {
				return nil, fmt.Errorf("failed to insert set element: %w", err)
			}
		}
		return elements, nil
	case map[string][]string:
		dict := starlarkLib.NewDict(len(val))
		for k, values := range val {
			elements := make([]starlarkLib.Value, len(values))
			for i, s := range values {
				elements[i] = starlarkLib.String(s)
			}
			if err := dict.SetKey(starlarkLib.String(k), starlarkLib.NewList(elements)); err != nil {
				return nil, fmt.Errorf("failed to set dict key: %w", err)
			}
		}
		return dict, nil
	case map[string]any:
		dict := starlarkLib.NewDict(len(val))
		for k, elem := range val {
			sv, err := toStarlark(elem)
			if err != nil {
				return nil, fmt.Errorf("failed to convert dict value: %w", err)
			}
			if err := dict.SetKey(starlarkLib.String(k), sv); err != nil {
				return nil, fmt.Errorf("failed to set dict key: %w", err)
			}
		}
		return dict, nil
	default:
		return nil, fmt.Errorf("unsupported type %T", v)
	}
}
