// Package timing provides clock-driven node kinds. These kinds are
// volatile: the runtime dirties them on every tick so downstream nodes
// see fresh time values without any explicit invalidation.
package timing

import (
	"github.com/vk/flowgrid/internal/catalog"
	"github.com/vk/flowgrid/internal/kind"
	"github.com/vk/flowgrid/internal/pin"
	"github.com/vk/flowgrid/internal/value"
)

// Module implements the catalog.Module interface for this package.
type Module struct{}

// Register registers the timing kinds with the catalog.
func (m Module) Register(c *catalog.Catalog) {
	c.Register(timeKind{})
	c.Register(tickKind{})
}

// timeKind publishes elapsed runtime seconds and the last tick's delta.
type timeKind struct{}

func (timeKind) Name() string {
	return "time"
}

func (timeKind) Volatile() bool {
	return true
}

func (timeKind) Inputs() []pin.Spec {
	return nil
}

func (timeKind) Outputs() []pin.Spec {
	return []pin.Spec{
		{Name: "elapsed", Type: pin.TypeNumber, Description: "Seconds since the runtime started."},
		{Name: "delta", Type: pin.TypeNumber, Description: "Seconds covered by the last tick."},
	}
}

func (timeKind) Evaluate(ec *kind.Context, _ pin.InputMap) (pin.OutputMap, error) {
	return pin.OutputMap{
		"elapsed": value.Number(ec.Elapsed.Seconds()),
		"delta":   value.Number(ec.Dt.Seconds()),
	}, nil
}

// tickKind publishes the tick sequence number. Useful as a frame counter
// or as a cheap change source for testing downstream invalidation.
type tickKind struct{}

func (tickKind) Name() string {
	return "tick"
}

func (tickKind) Volatile() bool {
	return true
}

func (tickKind) Inputs() []pin.Spec {
	return nil
}

func (tickKind) Outputs() []pin.Spec {
	return []pin.Spec{
		{Name: "count", Type: pin.TypeNumber, Description: "Sequence number of the current tick."},
	}
}

func (tickKind) Evaluate(ec *kind.Context, _ pin.InputMap) (pin.OutputMap, error) {
	return pin.OutputMap{"count": value.Number(float64(ec.Seq))}, nil
}
