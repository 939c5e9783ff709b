package risor

import (
	"errors"
	"fmt"
	"slices"

	"github.com/risor-io/risor/object"
)

// toGlobals converts the bindings to Risor objects. Values Risor cannot represent are left out
// and reported in err, one entry per binding, so a script that never references them still runs.
func toGlobals(vars map[string]any) (globals map[string]any, skipped []string, err error) {
	globals = make(map[string]any, len(vars))
	var errz []error
	for name, v := range vars {
		obj, convErr := toObject(v)
		if convErr != nil {
			skipped = append(skipped, name)
			errz = append(errz, fmt.Errorf("failed to convert binding %q: %w", name, convErr))
			continue
		}
		globals[name] = obj
	}
	slices.Sort(skipped)
	return globals, skipped, errors.Join(errz...)
}

// toObject tries the direct conversions first and falls back to Risor's reflection based type
// converters, which cover structs, typed maps and slices.
func toObject(v any) (object.Object, error) {
	if obj, ok := v.(object.Object); ok {
		return obj, nil
	}

	obj := object.FromGoType(v)
	if !object.IsError(obj) {
		return obj, nil
	}

	converted, err := object.AsObjects(map[string]any{"v": v})
	if err != nil {
		return nil, err
	}
	return converted["v"], nil
}
