// Package events defines the interaction events external collaborators
// (the UI, the inspector) feed into the runtime, and the ordered queue that
// defers them to the start of the next tick. External bindings never touch
// the graph or registry directly; they enqueue and the runtime applies.
package events

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/flowgrid/internal/graph"
	"github.com/vk/flowgrid/internal/path"
)

// Target addresses a scope symbolically: a node's own scope by node ID, or
// the root scope when Node is empty. Symbolic addressing keeps scope IDs
// out of the wire protocol and lets the runtime resolve at apply time.
type Target struct {
	Node string
}

// Root targets the root scope.
func Root() Target {
	return Target{}
}

// NodeScope targets the named node's own scope.
func NodeScope(id string) Target {
	return Target{Node: id}
}

// IsRoot reports whether the target is the root scope.
func (t Target) IsRoot() bool {
	return t.Node == ""
}

// Event is one queued interaction: a graph edit or a value write. The set
// is closed; the runtime switches over all variants.
type Event interface {
	isEvent()
}

// SetValue writes a value at a path in the targeted scope, e.g. a slider
// binding pushing into a constant node's scope.
type SetValue struct {
	Target Target
	Path   path.Path
	Value  cty.Value
}

// RemoveValue deletes an entry from the targeted scope.
type RemoveValue struct {
	Target Target
	Path   path.Path
}

// AddNode creates a node of the named kind.
type AddNode struct {
	ID   string
	Kind string
}

// RemoveNode deletes a node, cascading its edges and tearing down its scope.
type RemoveNode struct {
	ID string
}

// Connect wires an edge.
type Connect struct {
	Edge graph.Edge
}

// Disconnect removes the edge wired into an input pin.
type Disconnect struct {
	Node string
	Pin  string
}

func (SetValue) isEvent()    {}
func (RemoveValue) isEvent() {}
func (AddNode) isEvent()     {}
func (RemoveNode) isEvent()  {}
func (Connect) isEvent()     {}
func (Disconnect) isEvent()  {}
