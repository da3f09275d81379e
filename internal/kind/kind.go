// Package kind defines the node capability contract: a named evaluate
// operation with declared pin signatures, plus the context object a node
// uses to reach the scope registry and the tick clock.
package kind

import (
	"context"
	"time"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/flowgrid/internal/path"
	"github.com/vk/flowgrid/internal/pin"
	"github.com/vk/flowgrid/internal/scope"
)

// Kind is the capability contract every node kind implements. For fixed
// inputs and fixed context state the output must be reproducible; shared
// state is touched only through the context's explicit registry accessors.
type Kind interface {
	// Name is the unique kind name used by the catalog and the UI.
	Name() string
	// Inputs declares the kind's input pins, for connection validation.
	Inputs() []pin.Spec
	// Outputs declares the kind's output pins.
	Outputs() []pin.Spec
	// Evaluate computes output pin values from input pin values and the
	// evaluation context. Errors are reported as *EvalError.
	Evaluate(ec *Context, in pin.InputMap) (pin.OutputMap, error)
}

// Volatile is implemented by kinds whose output depends on the clock rather
// than only on inputs. The runtime marks volatile nodes dirty every tick.
type Volatile interface {
	Volatile() bool
}

// Context bundles everything a node may reach during evaluation: the
// registry, the node's own scope, and the current simulated time. It is
// valid only for the duration of a single Evaluate call.
type Context struct {
	// Ctx carries cancellation and the tick's logger.
	Ctx context.Context
	// Registry is the shared scope registry.
	Registry *scope.Registry
	// Scope is the scope the evaluating node belongs to. Path resolution
	// starts here and falls back through ancestors.
	Scope scope.ID
	// Elapsed is the total simulated time since the runtime started.
	Elapsed time.Duration
	// Dt is the externally supplied delta time for the current tick.
	Dt time.Duration
	// Seq is the current tick sequence number.
	Seq uint64
}

// Resolve looks up a path relative to the evaluating node's scope, with
// normal ancestor fallback and shadowing.
func (ec *Context) Resolve(p path.Path) (cty.Value, error) {
	return ec.Registry.Get(ec.Scope, p)
}

// SetLocal writes a value into the evaluating node's own scope. This is the
// only write a node may perform on shared state.
func (ec *Context) SetLocal(p path.Path, v cty.Value) error {
	return ec.Registry.Set(ec.Scope, p, v)
}
