// Package logic provides comparison and conditional node kinds.
package logic

import (
	"github.com/vk/flowgrid/internal/catalog"
	"github.com/vk/flowgrid/internal/kind"
	"github.com/vk/flowgrid/internal/pin"
	"github.com/vk/flowgrid/internal/value"
)

// Module implements the catalog.Module interface for this package.
type Module struct{}

// Register registers the logic kinds with the catalog.
func (m Module) Register(c *catalog.Catalog) {
	c.Register(compareKind{})
	c.Register(selectKind{})
	c.Register(notKind{})
}

// compareKind compares two numbers with an operator chosen by the "op"
// input: eq, ne, lt, le, gt, or ge. The default is eq.
type compareKind struct{}

func (compareKind) Name() string {
	return "compare"
}

func (compareKind) Inputs() []pin.Spec {
	defaultOp := value.Text("eq")
	return []pin.Spec{
		{Name: "a", Type: pin.TypeNumber, Description: "Left operand."},
		{Name: "b", Type: pin.TypeNumber, Description: "Right operand."},
		{Name: "op", Type: pin.TypeText, Description: "Comparison operator: eq, ne, lt, le, gt, ge.", Default: &defaultOp},
	}
}

func (compareKind) Outputs() []pin.Spec {
	return []pin.Spec{
		{Name: "result", Type: pin.TypeBool, Description: "Whether the comparison holds."},
	}
}

func (compareKind) Evaluate(ec *kind.Context, in pin.InputMap) (pin.OutputMap, error) {
	a, err := kind.Number(in, "a")
	if err != nil {
		return nil, err
	}
	b, err := kind.Number(in, "b")
	if err != nil {
		return nil, err
	}
	op, err := kind.TextOr(in, "op", "eq")
	if err != nil {
		return nil, err
	}

	var result bool
	switch op {
	case "eq":
		result = a == b
	case "ne":
		result = a != b
	case "lt":
		result = a < b
	case "le":
		result = a <= b
	case "gt":
		result = a > b
	case "ge":
		result = a >= b
	default:
		return nil, kind.Customf("unknown comparison operator %q", op)
	}
	return pin.OutputMap{"result": value.Bool(result)}, nil
}

// selectKind passes one of two values through based on a boolean condition.
type selectKind struct{}

func (selectKind) Name() string {
	return "select"
}

func (selectKind) Inputs() []pin.Spec {
	return []pin.Spec{
		{Name: "condition", Type: pin.TypeBool, Description: "Chooses which input passes through."},
		{Name: "then", Type: pin.TypeAny, Description: "Value produced when the condition is true."},
		{Name: "else", Type: pin.TypeAny, Description: "Value produced when the condition is false."},
	}
}

func (selectKind) Outputs() []pin.Spec {
	return []pin.Spec{
		{Name: "result", Type: pin.TypeAny, Description: "The selected value."},
	}
}

func (selectKind) Evaluate(ec *kind.Context, in pin.InputMap) (pin.OutputMap, error) {
	cond, err := kind.Bool(in, "condition")
	if err != nil {
		return nil, err
	}
	name := "else"
	if cond {
		name = "then"
	}
	v, err := kind.Any(in, name)
	if err != nil {
		return nil, err
	}
	return pin.OutputMap{"result": v}, nil
}

// notKind negates a boolean.
type notKind struct{}

func (notKind) Name() string {
	return "not"
}

func (notKind) Inputs() []pin.Spec {
	return []pin.Spec{
		{Name: "value", Type: pin.TypeBool, Description: "Value to negate."},
	}
}

func (notKind) Outputs() []pin.Spec {
	return []pin.Spec{
		{Name: "result", Type: pin.TypeBool, Description: "The negated value."},
	}
}

func (notKind) Evaluate(ec *kind.Context, in pin.InputMap) (pin.OutputMap, error) {
	b, err := kind.Bool(in, "value")
	if err != nil {
		return nil, err
	}
	return pin.OutputMap{"result": value.Bool(!b)}, nil
}
