package graph

import (
	"github.com/vk/flowgrid/internal/kind"
	"github.com/vk/flowgrid/internal/pin"
	"github.com/vk/flowgrid/internal/scope"
)

// Node is a single vertex in the expression graph: a kind instance with its
// own scope, a cached output pin map, and a dirty flag.
type Node struct {
	// id is the unique identifier for the node, assigned by the editor.
	id string
	// kind is the capability the node evaluates with.
	kind kind.Kind
	// scope is the node's own scope in the registry. Outputs are mirrored
	// here for UI property binding, and the node resolves paths relative
	// to it.
	scope scope.ID

	// cache holds the outputs of the last successful evaluation. It is nil
	// until the node has evaluated successfully at least once.
	cache pin.OutputMap
	// version counts successful evaluations that changed the output.
	version uint64
	// dirty marks the node for re-evaluation on the next tick.
	dirty bool
	// evalErr is the error from the most recent evaluation attempt, nil
	// after a success.
	evalErr error
}

// ID returns the node's unique identifier.
func (n *Node) ID() string {
	return n.id
}

// Kind returns the node's capability.
func (n *Node) Kind() kind.Kind {
	return n.kind
}

// Scope returns the node's own scope.
func (n *Node) Scope() scope.ID {
	return n.scope
}

// Dirty reports whether the node needs re-evaluation.
func (n *Node) Dirty() bool {
	return n.dirty
}

// Cache returns the node's cached outputs. The second return is false when
// the node has never evaluated successfully.
func (n *Node) Cache() (pin.OutputMap, bool) {
	if n.cache == nil {
		return nil, false
	}
	return n.cache, true
}

// Version returns the output version counter. It increments only when a
// successful evaluation produces outputs that differ structurally from the
// previous cache.
func (n *Node) Version() uint64 {
	return n.version
}

// Err returns the error recorded by the most recent evaluation attempt.
func (n *Node) Err() error {
	return n.evalErr
}

// CommitOutput records a successful evaluation and clears the dirty flag.
// It returns true when the output changed structurally from the previous
// cache.
func (n *Node) CommitOutput(out pin.OutputMap) bool {
	n.evalErr = nil
	n.dirty = false
	changed := !n.outputEqual(out)
	n.cache = out.Clone()
	if changed {
		n.version++
	}
	return changed
}

// CommitError records a failed evaluation. The previous cache is left in
// place so downstream nodes observe the stale value.
func (n *Node) CommitError(err error) {
	n.evalErr = err
	n.dirty = false
}

func (n *Node) outputEqual(out pin.OutputMap) bool {
	if n.cache == nil || len(n.cache) != len(out) {
		return false
	}
	for name, v := range out {
		prev, ok := n.cache[name]
		if !ok || !prev.RawEquals(v) {
			return false
		}
	}
	return true
}
