package hcl

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// toCtyValue converts a Go value to cty through its JSON form, so any value encoding/json
// accepts can be bound.
func toCtyValue(v any) (cty.Value, error) {
	buf, err := json.Marshal(v)
	if err != nil {
		return cty.NilVal, err
	}
	ty, err := ctyjson.ImpliedType(buf)
	if err != nil {
		return cty.NilVal, err
	}
	return ctyjson.Unmarshal(buf, ty)
}

// toVariables converts the bindings to HCL variables. Names that are not valid HCL identifiers
// cannot be referenced and are returned in skipped. Values that fail to convert are left out and
// reported in err.
func toVariables(vars map[string]any) (variables map[string]cty.Value, skipped []string, err error) {
	variables = make(map[string]cty.Value, len(vars))
	var errs []error
	for name, v := range vars {
		if !hclsyntax.ValidIdentifier(name) {
			skipped = append(skipped, name)
			continue
		}
		val, err := toCtyValue(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to convert binding %q: %w", name, err))
			continue
		}
		variables[name] = val
	}
	return variables, skipped, errors.Join(errs...)
}

// toGo converts a cty value to plain Go values. Whole numbers that fit become int64 and other
// numbers become float64.
func toGo(v cty.Value) (any, error) {
	if v.IsNull() {
		return nil, nil
	}
	if !v.IsWhollyKnown() {
		return nil, fmt.Errorf("value is not known")
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil
	case ty == cty.Bool:
		return v.True(), nil
	case ty == cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			if i, acc := bf.Int64(); acc == big.Exact {
				return i, nil
			}
		}
		f, _ := bf.Float64()
		return f, nil
	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		out := make([]any, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			goVal, err := toGo(elem)
			if err != nil {
				return nil, err
			}
			out = append(out, goVal)
		}
		return out, nil
	case ty.IsMapType() || ty.IsObjectType():
		out := make(map[string]any, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			key, elem := it.Element()
			goVal, err := toGo(elem)
			if err != nil {
				return nil, fmt.Errorf("in attribute %q: %w", key.AsString(), err)
			}
			out[key.AsString()] = goVal
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported HCL type %s", ty.FriendlyName())
	}
}
