// Package pin defines the named input/output surface of a node kind: pin
// specifications for the graph editor to validate connections against, and
// the name-to-value maps passed through evaluation.
package pin

import (
	"fmt"
	"sort"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/flowgrid/internal/value"
)

// Type constrains the values a pin accepts or produces. It is the closed
// value-kind set plus TypeAny for pass-through pins.
type Type int

const (
	TypeAny Type = iota
	TypeNumber
	TypeBool
	TypeText
	TypeColor
	TypeVector
	TypeList
)

// String returns the manifest name of the type.
func (t Type) String() string {
	switch t {
	case TypeAny:
		return "any"
	case TypeNumber:
		return "number"
	case TypeBool:
		return "bool"
	case TypeText:
		return "text"
	case TypeColor:
		return "color"
	case TypeVector:
		return "vector"
	case TypeList:
		return "list"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}

// ParseType parses a manifest type name.
func ParseType(name string) (Type, error) {
	switch name {
	case "any":
		return TypeAny, nil
	case "number":
		return TypeNumber, nil
	case "bool":
		return TypeBool, nil
	case "text":
		return TypeText, nil
	case "color":
		return TypeColor, nil
	case "vector":
		return TypeVector, nil
	case "list":
		return TypeList, nil
	default:
		return TypeAny, fmt.Errorf("unknown pin type %q", name)
	}
}

// Accepts reports whether a value of the given kind may flow through a pin
// of this type. The empty kind is accepted everywhere: it is the sentinel
// carried downstream from nodes that have not produced output yet.
func (t Type) Accepts(k value.Kind) bool {
	if t == TypeAny || k == value.KindEmpty {
		return true
	}
	switch t {
	case TypeNumber:
		return k == value.KindNumber
	case TypeBool:
		return k == value.KindBool
	case TypeText:
		return k == value.KindText
	case TypeColor:
		return k == value.KindColor
	case TypeVector:
		return k == value.KindVector
	case TypeList:
		return k == value.KindList
	default:
		return false
	}
}

// Spec declares a single named pin on a node kind.
type Spec struct {
	// Name is the pin's unique name within its direction (input or output).
	Name string
	// Type constrains the values the pin carries.
	Type Type
	// Description is surfaced by the UI collaborator next to the pin.
	Description string
	// Default, when non-nil, is the value the kind substitutes for a
	// missing optional input. A nil Default makes the input required.
	Default *cty.Value
}

// FindSpec returns the spec with the given name, if present.
func FindSpec(specs []Spec, name string) (Spec, bool) {
	for _, s := range specs {
		if s.Name == name {
			return s, true
		}
	}
	return Spec{}, false
}

// InputMap carries resolved input values into an evaluation, keyed by pin
// name. Order is irrelevant; keys are unique by construction.
type InputMap map[string]cty.Value

// Value returns the value wired to the named pin, if any.
func (m InputMap) Value(name string) (cty.Value, bool) {
	v, ok := m[name]
	return v, ok
}

// OutputMap carries produced output values out of an evaluation, keyed by
// pin name.
type OutputMap map[string]cty.Value

// Clone returns a shallow copy of the map. Values are immutable, so a
// shallow copy is enough to decouple a cache from later mutation.
func (m OutputMap) Clone() OutputMap {
	if m == nil {
		return nil
	}
	out := make(OutputMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Names returns the sorted pin names present in the map.
func (m OutputMap) Names() []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
