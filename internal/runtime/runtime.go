// Package runtime owns the expression graph and the scope registry and
// drives evaluation once per externally supplied time tick. It is the only
// component that mutates either; external collaborators reach it through
// direct edit operations between ticks or through the deferred interaction
// event queue.
package runtime

import (
	"fmt"
	"time"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/flowgrid/internal/catalog"
	"github.com/vk/flowgrid/internal/events"
	"github.com/vk/flowgrid/internal/graph"
	"github.com/vk/flowgrid/internal/path"
	"github.com/vk/flowgrid/internal/scope"
	"github.com/vk/flowgrid/internal/value"
)

// Runtime bundles the graph, the registry, the kind catalog, and the
// interaction event queue. All methods except Queue() must be called from
// the single thread that drives Tick.
type Runtime struct {
	graph   *graph.Graph
	scopes  *scope.Registry
	catalog *catalog.Catalog
	queue   *events.Queue

	seq     uint64
	elapsed time.Duration
}

// New creates a runtime with an empty graph, a fresh registry, and the
// given kind catalog.
func New(cat *catalog.Catalog) *Runtime {
	return &Runtime{
		graph:   graph.New(),
		scopes:  scope.NewRegistry(),
		catalog: cat,
		queue:   events.NewQueue(),
	}
}

// Registry exposes the scope registry for property-binding reads. Callers
// must only read between ticks; writes go through the event queue.
func (rt *Runtime) Registry() *scope.Registry {
	return rt.scopes
}

// Graph exposes the graph for read-only inspection between ticks.
func (rt *Runtime) Graph() *graph.Graph {
	return rt.graph
}

// Catalog returns the kind catalog the runtime resolves AddNode against.
func (rt *Runtime) Catalog() *catalog.Catalog {
	return rt.catalog
}

// Queue returns the interaction event queue. Push is safe from any
// goroutine; events apply at the start of the next tick.
func (rt *Runtime) Queue() *events.Queue {
	return rt.queue
}

// Seq returns the sequence number of the most recent tick.
func (rt *Runtime) Seq() uint64 {
	return rt.seq
}

// AddNode creates a node of the named kind together with its own scope, a
// child of the root scope.
func (rt *Runtime) AddNode(id, kindName string) error {
	k, ok := rt.catalog.Lookup(kindName)
	if !ok {
		return fmt.Errorf("unknown node kind %q", kindName)
	}
	sc, err := rt.scopes.CreateChild(rt.scopes.Root())
	if err != nil {
		return err
	}
	if _, err := rt.graph.AddNode(id, k, sc); err != nil {
		// Roll back the scope so a rejected edit leaves no trace.
		_ = rt.scopes.Destroy(sc)
		return err
	}
	return nil
}

// RemoveNode deletes a node, cascading its edges, and tears down its scope
// with all entries.
func (rt *Runtime) RemoveNode(id string) error {
	n, ok := rt.graph.Node(id)
	if !ok {
		return fmt.Errorf("%w: %q", graph.ErrNodeNotFound, id)
	}
	sc := n.Scope()
	if err := rt.graph.RemoveNode(id); err != nil {
		return err
	}
	return rt.scopes.Destroy(sc)
}

// Connect wires an edge, subject to the graph's structural validation.
func (rt *Runtime) Connect(e graph.Edge) error {
	return rt.graph.Connect(e)
}

// Disconnect removes the edge wired into the given input pin.
func (rt *Runtime) Disconnect(nodeID, pinName string) error {
	return rt.graph.Disconnect(nodeID, pinName)
}

// SetValue writes a value into the targeted scope and marks the nodes that
// can observe the write dirty: every node whose scope chain passes through
// the written scope.
func (rt *Runtime) SetValue(target events.Target, p path.Path, v cty.Value) error {
	sc, err := rt.resolveTarget(target)
	if err != nil {
		return err
	}
	if err := rt.scopes.Set(sc, p, v); err != nil {
		return err
	}
	rt.dirtyObservers(sc)
	return nil
}

// RemoveValue deletes an entry from the targeted scope and dirties the
// nodes that could observe it.
func (rt *Runtime) RemoveValue(target events.Target, p path.Path) error {
	sc, err := rt.resolveTarget(target)
	if err != nil {
		return err
	}
	if err := rt.scopes.Remove(sc, p); err != nil {
		return err
	}
	rt.dirtyObservers(sc)
	return nil
}

// resolveTarget maps a symbolic scope target to a live scope ID.
func (rt *Runtime) resolveTarget(target events.Target) (scope.ID, error) {
	if target.IsRoot() {
		return rt.scopes.Root(), nil
	}
	n, ok := rt.graph.Node(target.Node)
	if !ok {
		return scope.ID{}, fmt.Errorf("%w: %q", graph.ErrNodeNotFound, target.Node)
	}
	return n.Scope(), nil
}

// dirtyObservers marks every node whose scope chain can see writes made in
// the given scope. A write into a node's own scope dirties that node; a
// write into the root dirties everything, since every node's lookups fall
// back to the root.
func (rt *Runtime) dirtyObservers(written scope.ID) {
	for _, id := range rt.graph.NodeIDs() {
		n, _ := rt.graph.Node(id)
		seen, err := rt.scopes.IsDescendant(n.Scope(), written)
		if err != nil || !seen {
			continue
		}
		rt.graph.MarkDirty(id)
	}
}

// Values snapshots the registry for the UI: the root scope's entries under
// the empty key and each node scope's entries under the node ID, converted
// to plain Go values. Must be called between ticks.
func (rt *Runtime) Values() map[string]map[string]any {
	out := make(map[string]map[string]any)

	appendScope := func(key string, sc scope.ID) {
		entries, err := rt.scopes.Entries(sc)
		if err != nil {
			return
		}
		converted := make(map[string]any, len(entries))
		for entryPath, v := range entries {
			gv, err := value.ToGo(v)
			if err != nil {
				gv = fmt.Sprintf("[unrepresentable %s]", value.TypeName(v))
			}
			converted[entryPath] = gv
		}
		out[key] = converted
	}

	appendScope("", rt.scopes.Root())
	for _, id := range rt.graph.NodeIDs() {
		n, _ := rt.graph.Node(id)
		appendScope(id, n.Scope())
	}
	return out
}
