// Package constant provides the constant source node kind. The node's
// value is not wired through a pin: the UI writes it into the node's own
// scope (a SetValue interaction targeting path "value"), and the node
// republishes it as an output each time it is dirtied.
package constant

import (
	"errors"

	"github.com/vk/flowgrid/internal/catalog"
	"github.com/vk/flowgrid/internal/kind"
	"github.com/vk/flowgrid/internal/path"
	"github.com/vk/flowgrid/internal/pin"
	"github.com/vk/flowgrid/internal/scope"
	"github.com/vk/flowgrid/internal/value"
)

// Module implements the catalog.Module interface for this package.
type Module struct{}

// Register registers the constant kind with the catalog.
func (m Module) Register(c *catalog.Catalog) {
	c.Register(constantKind{})
}

// sourcePath is where the UI stores the node's configured value.
var sourcePath = path.MustParse("value")

type constantKind struct{}

func (constantKind) Name() string {
	return "constant"
}

func (constantKind) Inputs() []pin.Spec {
	return nil
}

func (constantKind) Outputs() []pin.Spec {
	return []pin.Spec{
		{Name: "value", Type: pin.TypeAny, Description: "The configured constant value."},
	}
}

func (constantKind) Evaluate(ec *kind.Context, _ pin.InputMap) (pin.OutputMap, error) {
	v, err := ec.Resolve(sourcePath)
	if err != nil {
		// An unconfigured constant is empty, not an error; the UI may add
		// the node before assigning a value.
		if errors.Is(err, scope.ErrPathNotFound) {
			return pin.OutputMap{"value": value.Empty()}, nil
		}
		return nil, kind.Customf("resolving configured value: %v", err)
	}
	return pin.OutputMap{"value": v}, nil
}
