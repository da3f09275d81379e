package value

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// AsNumber extracts a float64 from a number value.
func AsNumber(v cty.Value) (float64, error) {
	if KindOf(v) != KindNumber {
		return 0, fmt.Errorf("value is %s, not number", TypeName(v))
	}
	f, _ := v.AsBigFloat().Float64()
	return f, nil
}

// AsBool extracts a Go bool from a boolean value.
func AsBool(v cty.Value) (bool, error) {
	if KindOf(v) != KindBool {
		return false, fmt.Errorf("value is %s, not bool", TypeName(v))
	}
	return v.True(), nil
}

// AsText extracts a Go string from a text value.
func AsText(v cty.Value) (string, error) {
	if KindOf(v) != KindText {
		return "", fmt.Errorf("value is %s, not text", TypeName(v))
	}
	return v.AsString(), nil
}

// ColorComponents extracts the four channels of a color value.
func ColorComponents(v cty.Value) (r, g, b, a float64, err error) {
	if KindOf(v) != KindColor {
		return 0, 0, 0, 0, fmt.Errorf("value is %s, not color", TypeName(v))
	}
	r, _ = v.GetAttr("r").AsBigFloat().Float64()
	g, _ = v.GetAttr("g").AsBigFloat().Float64()
	b, _ = v.GetAttr("b").AsBigFloat().Float64()
	a, _ = v.GetAttr("a").AsBigFloat().Float64()
	return r, g, b, a, nil
}

// VectorComponents extracts the three components of a vector value.
func VectorComponents(v cty.Value) (x, y, z float64, err error) {
	if KindOf(v) != KindVector {
		return 0, 0, 0, fmt.Errorf("value is %s, not vector", TypeName(v))
	}
	x, _ = v.GetAttr("x").AsBigFloat().Float64()
	y, _ = v.GetAttr("y").AsBigFloat().Float64()
	z, _ = v.GetAttr("z").AsBigFloat().Float64()
	return x, y, z, nil
}

// Elements returns the elements of a list value.
func Elements(v cty.Value) ([]cty.Value, error) {
	if KindOf(v) != KindList {
		return nil, fmt.Errorf("value is %s, not list", TypeName(v))
	}
	var out []cty.Value
	for it := v.ElementIterator(); it.Next(); {
		_, ev := it.Element()
		out = append(out, ev)
	}
	return out, nil
}

// FromGo converts a plain Go representation, as produced by JSON decoding,
// back into a value. Maps with exactly the color or vector attribute sets
// become color and vector values; other maps are rejected, since scope
// entries are flat and nested objects have no address.
func FromGo(raw any) (cty.Value, error) {
	switch v := raw.(type) {
	case nil:
		return Empty(), nil
	case bool:
		return Bool(v), nil
	case float64:
		return Number(v), nil
	case int:
		return Number(float64(v)), nil
	case string:
		return Text(v), nil
	case []any:
		elems := make([]cty.Value, 0, len(v))
		for _, e := range v {
			ev, err := FromGo(e)
			if err != nil {
				return cty.NilVal, err
			}
			elems = append(elems, ev)
		}
		return List(elems...), nil
	case map[string]any:
		return objectFromGo(v)
	default:
		return cty.NilVal, fmt.Errorf("unsupported value of type %T", raw)
	}
}

func objectFromGo(m map[string]any) (cty.Value, error) {
	attrs := make(map[string]float64, len(m))
	for k, raw := range m {
		f, ok := raw.(float64)
		if !ok {
			return cty.NilVal, fmt.Errorf("object attribute %q is not a number", k)
		}
		attrs[k] = f
	}
	if len(attrs) == 4 {
		r, okR := attrs["r"]
		g, okG := attrs["g"]
		b, okB := attrs["b"]
		a, okA := attrs["a"]
		if okR && okG && okB && okA {
			return Color(r, g, b, a), nil
		}
	}
	if len(attrs) == 3 {
		x, okX := attrs["x"]
		y, okY := attrs["y"]
		z, okZ := attrs["z"]
		if okX && okY && okZ {
			return Vector(x, y, z), nil
		}
	}
	return cty.NilVal, fmt.Errorf("object is neither a color {r,g,b,a} nor a vector {x,y,z}")
}

// ToGo converts a value to a plain Go representation for logging and the
// inspector wire format.
func ToGo(v cty.Value) (any, error) {
	if v == cty.NilVal || v.IsNull() {
		return nil, nil
	}
	if !v.IsKnown() {
		return nil, fmt.Errorf("cannot convert unknown value")
	}
	if v.Type().IsPrimitiveType() {
		switch v.Type() {
		case cty.String:
			return v.AsString(), nil
		case cty.Number:
			f, _ := v.AsBigFloat().Float64()
			return f, nil
		case cty.Bool:
			return v.True(), nil
		default:
			return nil, fmt.Errorf("unsupported primitive type: %s", v.Type().FriendlyName())
		}
	}
	if v.Type().IsObjectType() || v.Type().IsMapType() {
		out := make(map[string]any)
		for it := v.ElementIterator(); it.Next(); {
			k, ev := it.Element()
			converted, err := ToGo(ev)
			if err != nil {
				return nil, err
			}
			out[k.AsString()] = converted
		}
		return out, nil
	}
	if v.Type().IsTupleType() || v.Type().IsListType() {
		var out []any
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			converted, err := ToGo(ev)
			if err != nil {
				return nil, err
			}
			out = append(out, converted)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported type for conversion: %s", v.Type().FriendlyName())
}
