// Package colorvec provides node kinds for composing, splitting and
// interpolating color and vector values.
package colorvec

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/flowgrid/internal/catalog"
	"github.com/vk/flowgrid/internal/kind"
	"github.com/vk/flowgrid/internal/pin"
	"github.com/vk/flowgrid/internal/value"
)

// Module implements the catalog.Module interface for this package.
type Module struct{}

// Register registers the color and vector kinds with the catalog.
func (m Module) Register(c *catalog.Catalog) {
	c.Register(colorKind{})
	c.Register(colorSplitKind{})
	c.Register(vectorKind{})
	c.Register(vectorSplitKind{})
	c.Register(lerpKind{})
}

// colorKind composes a color from four numeric channels. Unwired channels
// default to zero, except alpha which defaults to fully opaque.
type colorKind struct{}

func (colorKind) Name() string {
	return "color"
}

func (colorKind) Inputs() []pin.Spec {
	zero := value.Number(0)
	one := value.Number(1)
	return []pin.Spec{
		{Name: "r", Type: pin.TypeNumber, Description: "Red channel, 0 to 1.", Default: &zero},
		{Name: "g", Type: pin.TypeNumber, Description: "Green channel, 0 to 1.", Default: &zero},
		{Name: "b", Type: pin.TypeNumber, Description: "Blue channel, 0 to 1.", Default: &zero},
		{Name: "a", Type: pin.TypeNumber, Description: "Alpha channel, 0 to 1.", Default: &one},
	}
}

func (colorKind) Outputs() []pin.Spec {
	return []pin.Spec{
		{Name: "color", Type: pin.TypeColor, Description: "The composed color."},
	}
}

func (colorKind) Evaluate(ec *kind.Context, in pin.InputMap) (pin.OutputMap, error) {
	r, err := kind.NumberOr(in, "r", 0)
	if err != nil {
		return nil, err
	}
	g, err := kind.NumberOr(in, "g", 0)
	if err != nil {
		return nil, err
	}
	b, err := kind.NumberOr(in, "b", 0)
	if err != nil {
		return nil, err
	}
	a, err := kind.NumberOr(in, "a", 1)
	if err != nil {
		return nil, err
	}
	return pin.OutputMap{"color": value.Color(r, g, b, a)}, nil
}

// colorSplitKind splits a color into its four channels.
type colorSplitKind struct{}

func (colorSplitKind) Name() string {
	return "color_split"
}

func (colorSplitKind) Inputs() []pin.Spec {
	return []pin.Spec{
		{Name: "color", Type: pin.TypeColor, Description: "Color to split."},
	}
}

func (colorSplitKind) Outputs() []pin.Spec {
	return []pin.Spec{
		{Name: "r", Type: pin.TypeNumber, Description: "Red channel."},
		{Name: "g", Type: pin.TypeNumber, Description: "Green channel."},
		{Name: "b", Type: pin.TypeNumber, Description: "Blue channel."},
		{Name: "a", Type: pin.TypeNumber, Description: "Alpha channel."},
	}
}

func (colorSplitKind) Evaluate(ec *kind.Context, in pin.InputMap) (pin.OutputMap, error) {
	v, err := kind.Any(in, "color")
	if err != nil {
		return nil, err
	}
	r, g, b, a, err := value.ColorComponents(v)
	if err != nil {
		return nil, kind.CoercionFailed("color", "color", value.KindOf(v))
	}
	return pin.OutputMap{
		"r": value.Number(r),
		"g": value.Number(g),
		"b": value.Number(b),
		"a": value.Number(a),
	}, nil
}

// vectorKind composes a vector from three numeric components.
type vectorKind struct{}

func (vectorKind) Name() string {
	return "vector"
}

func (vectorKind) Inputs() []pin.Spec {
	zero := value.Number(0)
	return []pin.Spec{
		{Name: "x", Type: pin.TypeNumber, Description: "X component.", Default: &zero},
		{Name: "y", Type: pin.TypeNumber, Description: "Y component.", Default: &zero},
		{Name: "z", Type: pin.TypeNumber, Description: "Z component.", Default: &zero},
	}
}

func (vectorKind) Outputs() []pin.Spec {
	return []pin.Spec{
		{Name: "vector", Type: pin.TypeVector, Description: "The composed vector."},
	}
}

func (vectorKind) Evaluate(ec *kind.Context, in pin.InputMap) (pin.OutputMap, error) {
	x, err := kind.NumberOr(in, "x", 0)
	if err != nil {
		return nil, err
	}
	y, err := kind.NumberOr(in, "y", 0)
	if err != nil {
		return nil, err
	}
	z, err := kind.NumberOr(in, "z", 0)
	if err != nil {
		return nil, err
	}
	return pin.OutputMap{"vector": value.Vector(x, y, z)}, nil
}

// vectorSplitKind splits a vector into its three components.
type vectorSplitKind struct{}

func (vectorSplitKind) Name() string {
	return "vector_split"
}

func (vectorSplitKind) Inputs() []pin.Spec {
	return []pin.Spec{
		{Name: "vector", Type: pin.TypeVector, Description: "Vector to split."},
	}
}

func (vectorSplitKind) Outputs() []pin.Spec {
	return []pin.Spec{
		{Name: "x", Type: pin.TypeNumber, Description: "X component."},
		{Name: "y", Type: pin.TypeNumber, Description: "Y component."},
		{Name: "z", Type: pin.TypeNumber, Description: "Z component."},
	}
}

func (vectorSplitKind) Evaluate(ec *kind.Context, in pin.InputMap) (pin.OutputMap, error) {
	v, err := kind.Any(in, "vector")
	if err != nil {
		return nil, err
	}
	x, y, z, err := value.VectorComponents(v)
	if err != nil {
		return nil, kind.CoercionFailed("vector", "vector", value.KindOf(v))
	}
	return pin.OutputMap{
		"x": value.Number(x),
		"y": value.Number(y),
		"z": value.Number(z),
	}, nil
}

// lerpKind linearly interpolates between two values of the same kind.
// Numbers, colors and vectors are supported; the blend factor is clamped
// to [0, 1].
type lerpKind struct{}

func (lerpKind) Name() string {
	return "lerp"
}

func (lerpKind) Inputs() []pin.Spec {
	zero := value.Number(0)
	return []pin.Spec{
		{Name: "from", Type: pin.TypeAny, Description: "Value at t = 0."},
		{Name: "to", Type: pin.TypeAny, Description: "Value at t = 1."},
		{Name: "t", Type: pin.TypeNumber, Description: "Blend factor, clamped to [0, 1].", Default: &zero},
	}
}

func (lerpKind) Outputs() []pin.Spec {
	return []pin.Spec{
		{Name: "result", Type: pin.TypeAny, Description: "The interpolated value."},
	}
}

func (lerpKind) Evaluate(ec *kind.Context, in pin.InputMap) (pin.OutputMap, error) {
	from, err := kind.Any(in, "from")
	if err != nil {
		return nil, err
	}
	to, err := kind.Any(in, "to")
	if err != nil {
		return nil, err
	}
	t, err := kind.NumberOr(in, "t", 0)
	if err != nil {
		return nil, err
	}
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	fk, tk := value.KindOf(from), value.KindOf(to)
	if fk != tk {
		return nil, kind.Customf("cannot interpolate %s with %s", fk, tk)
	}

	var out cty.Value
	switch fk {
	case value.KindNumber:
		a, _ := value.AsNumber(from)
		b, _ := value.AsNumber(to)
		out = value.Number(mix(a, b, t))
	case value.KindColor:
		fr, fg, fb, fa, _ := value.ColorComponents(from)
		tr, tg, tb, ta, _ := value.ColorComponents(to)
		out = value.Color(mix(fr, tr, t), mix(fg, tg, t), mix(fb, tb, t), mix(fa, ta, t))
	case value.KindVector:
		fx, fy, fz, _ := value.VectorComponents(from)
		tx, ty, tz, _ := value.VectorComponents(to)
		out = value.Vector(mix(fx, tx, t), mix(fy, ty, t), mix(fz, tz, t))
	default:
		return nil, kind.Customf("cannot interpolate %s values", fk)
	}
	return pin.OutputMap{"result": out}, nil
}

func mix(a, b, t float64) float64 {
	return a + (b-a)*t
}
