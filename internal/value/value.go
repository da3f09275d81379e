// Package value defines the closed set of value kinds that flow through the
// graph and live in the scope registry. Values are represented as cty.Value
// so that structural equality, type introspection, and HCL expression
// evaluation all come for free.
package value

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// Kind identifies one of the closed set of value kinds.
type Kind int

const (
	// KindEmpty is the absence of a value. It is the sentinel produced by
	// nodes that have never evaluated successfully.
	KindEmpty Kind = iota
	// KindNumber is a floating-point number.
	KindNumber
	// KindBool is a boolean.
	KindBool
	// KindText is a UTF-8 string.
	KindText
	// KindColor is a 4-channel color (r, g, b, a).
	KindColor
	// KindVector is a 3-component vector (x, y, z).
	KindVector
	// KindList is an ordered list of values.
	KindList
)

// String returns the stable, user-visible name of the kind.
func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindText:
		return "text"
	case KindColor:
		return "color"
	case KindVector:
		return "vector"
	case KindList:
		return "list"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// KindFromName parses a kind name as used in kind manifests.
func KindFromName(name string) (Kind, error) {
	switch name {
	case "empty":
		return KindEmpty, nil
	case "number":
		return KindNumber, nil
	case "bool":
		return KindBool, nil
	case "text":
		return KindText, nil
	case "color":
		return KindColor, nil
	case "vector":
		return KindVector, nil
	case "list":
		return KindList, nil
	default:
		return KindEmpty, fmt.Errorf("unknown value kind name %q", name)
	}
}

// colorType is the object type backing KindColor values.
var colorType = cty.Object(map[string]cty.Type{
	"r": cty.Number,
	"g": cty.Number,
	"b": cty.Number,
	"a": cty.Number,
})

// vectorType is the object type backing KindVector values.
var vectorType = cty.Object(map[string]cty.Type{
	"x": cty.Number,
	"y": cty.Number,
	"z": cty.Number,
})

// Number constructs a number value.
func Number(f float64) cty.Value {
	return cty.NumberFloatVal(f)
}

// Bool constructs a boolean value.
func Bool(b bool) cty.Value {
	return cty.BoolVal(b)
}

// Text constructs a text value.
func Text(s string) cty.Value {
	return cty.StringVal(s)
}

// Color constructs a 4-channel color value. Channels are not clamped; the
// presentation layer decides how to interpret out-of-range channels.
func Color(r, g, b, a float64) cty.Value {
	return cty.ObjectVal(map[string]cty.Value{
		"r": cty.NumberFloatVal(r),
		"g": cty.NumberFloatVal(g),
		"b": cty.NumberFloatVal(b),
		"a": cty.NumberFloatVal(a),
	})
}

// Vector constructs a 3-component vector value.
func Vector(x, y, z float64) cty.Value {
	return cty.ObjectVal(map[string]cty.Value{
		"x": cty.NumberFloatVal(x),
		"y": cty.NumberFloatVal(y),
		"z": cty.NumberFloatVal(z),
	})
}

// List constructs an ordered list value. Elements may be of mixed kinds.
func List(elems ...cty.Value) cty.Value {
	if len(elems) == 0 {
		return cty.EmptyTupleVal
	}
	return cty.TupleVal(elems)
}

// Empty returns the empty value.
func Empty() cty.Value {
	return cty.NullVal(cty.DynamicPseudoType)
}

// KindOf classifies a value into one of the closed kinds. Null values of any
// type classify as KindEmpty. Values constructed outside this package that
// do not match any kind also classify as KindEmpty.
func KindOf(v cty.Value) Kind {
	if v == cty.NilVal || v.IsNull() {
		return KindEmpty
	}
	t := v.Type()
	switch {
	case t == cty.Number:
		return KindNumber
	case t == cty.Bool:
		return KindBool
	case t == cty.String:
		return KindText
	case t.Equals(colorType):
		return KindColor
	case t.Equals(vectorType):
		return KindVector
	case t.IsTupleType() || t.IsListType():
		return KindList
	default:
		return KindEmpty
	}
}

// TypeName returns the stable type name of a value, for UI display and
// change logs.
func TypeName(v cty.Value) string {
	return KindOf(v).String()
}

// Equal reports structural equality between two values. It is the equality
// used for change detection in the runtime.
func Equal(a, b cty.Value) bool {
	if a == cty.NilVal || b == cty.NilVal {
		return a == b
	}
	if a.IsNull() && b.IsNull() {
		return true
	}
	return a.RawEquals(b)
}

// IsEmpty reports whether v is the empty value.
func IsEmpty(v cty.Value) bool {
	return KindOf(v) == KindEmpty
}
