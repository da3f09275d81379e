// Package arithmetic provides the basic binary math node kinds: add,
// subtract, multiply, and divide.
package arithmetic

import (
	"github.com/vk/flowgrid/internal/catalog"
	"github.com/vk/flowgrid/internal/kind"
	"github.com/vk/flowgrid/internal/pin"
	"github.com/vk/flowgrid/internal/value"
)

// Module implements the catalog.Module interface for this package.
type Module struct{}

// Register registers the arithmetic kinds with the catalog.
func (m Module) Register(c *catalog.Catalog) {
	c.Register(binaryKind{name: "add", op: func(a, b float64) (float64, error) { return a + b, nil }})
	c.Register(binaryKind{name: "subtract", op: func(a, b float64) (float64, error) { return a - b, nil }})
	c.Register(binaryKind{name: "multiply", op: func(a, b float64) (float64, error) { return a * b, nil }})
	c.Register(binaryKind{name: "divide", op: divide})
}

func divide(a, b float64) (float64, error) {
	if b == 0 {
		return 0, kind.Customf("division by zero")
	}
	return a / b, nil
}

// binaryKind is a number op over two required inputs.
type binaryKind struct {
	name string
	op   func(a, b float64) (float64, error)
}

func (k binaryKind) Name() string {
	return k.name
}

func (k binaryKind) Inputs() []pin.Spec {
	return []pin.Spec{
		{Name: "a", Type: pin.TypeNumber, Description: "Left operand."},
		{Name: "b", Type: pin.TypeNumber, Description: "Right operand."},
	}
}

func (k binaryKind) Outputs() []pin.Spec {
	return []pin.Spec{
		{Name: "result", Type: pin.TypeNumber, Description: "Result of the operation."},
	}
}

func (k binaryKind) Evaluate(ec *kind.Context, in pin.InputMap) (pin.OutputMap, error) {
	a, err := kind.Number(in, "a")
	if err != nil {
		return nil, err
	}
	b, err := kind.Number(in, "b")
	if err != nil {
		return nil, err
	}
	result, err := k.op(a, b)
	if err != nil {
		return nil, err
	}
	return pin.OutputMap{"result": value.Number(result)}, nil
}
