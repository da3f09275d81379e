package kind

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/flowgrid/internal/pin"
	"github.com/vk/flowgrid/internal/value"
)

// Input helpers for kind implementations. Missing a required input is an
// EvalError, never a silent default; kinds model optional inputs explicitly
// with the *Or variants.

// Number extracts a required number input.
func Number(in pin.InputMap, name string) (float64, error) {
	v, ok := in.Value(name)
	if !ok {
		return 0, MissingInput(name)
	}
	f, err := value.AsNumber(v)
	if err != nil {
		return 0, CoercionFailed(name, "number", value.KindOf(v))
	}
	return f, nil
}

// NumberOr extracts an optional number input, substituting def when the pin
// has no value wired.
func NumberOr(in pin.InputMap, name string, def float64) (float64, error) {
	if _, ok := in.Value(name); !ok {
		return def, nil
	}
	return Number(in, name)
}

// Bool extracts a required boolean input.
func Bool(in pin.InputMap, name string) (bool, error) {
	v, ok := in.Value(name)
	if !ok {
		return false, MissingInput(name)
	}
	b, err := value.AsBool(v)
	if err != nil {
		return false, CoercionFailed(name, "bool", value.KindOf(v))
	}
	return b, nil
}

// Text extracts a required text input.
func Text(in pin.InputMap, name string) (string, error) {
	v, ok := in.Value(name)
	if !ok {
		return "", MissingInput(name)
	}
	s, err := value.AsText(v)
	if err != nil {
		return "", CoercionFailed(name, "text", value.KindOf(v))
	}
	return s, nil
}

// TextOr extracts an optional text input.
func TextOr(in pin.InputMap, name string, def string) (string, error) {
	if _, ok := in.Value(name); !ok {
		return def, nil
	}
	return Text(in, name)
}

// Any extracts a required input of any kind.
func Any(in pin.InputMap, name string) (cty.Value, error) {
	v, ok := in.Value(name)
	if !ok {
		return cty.NilVal, MissingInput(name)
	}
	return v, nil
}
