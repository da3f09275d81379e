// Package graph owns the node set and directed edges of the expression
// graph. Structural invariants are enforced at mutation time: every input
// pin accepts at most one incoming edge, endpoints must name declared pins
// on live nodes, and an edge that would close a cycle is rejected before it
// is committed — so the graph is a valid DAG between ticks and evaluation
// never needs cycle detection.
package graph

import (
	"errors"
	"fmt"
	"sort"

	"github.com/vk/flowgrid/internal/kind"
	"github.com/vk/flowgrid/internal/pin"
	"github.com/vk/flowgrid/internal/scope"
)

var (
	// ErrCycleDetected is returned by Connect when the edge would make the
	// destination reachable from itself.
	ErrCycleDetected = errors.New("cycle detected")
	// ErrDanglingEdge is returned when an edge endpoint names an unknown
	// node or an undeclared pin.
	ErrDanglingEdge = errors.New("dangling edge")
	// ErrDuplicateEdge is returned when the destination input pin already
	// has an incoming edge.
	ErrDuplicateEdge = errors.New("duplicate edge")
	// ErrNodeNotFound is returned when an operation names an unknown node.
	ErrNodeNotFound = errors.New("node not found")
	// ErrDuplicateNode is returned by AddNode for an already-used ID.
	ErrDuplicateNode = errors.New("node already exists")
)

// Edge is a single connection from one node's output pin to another node's
// input pin.
type Edge struct {
	From    string
	FromPin string
	To      string
	ToPin   string
}

// String returns a diagnostic representation of the edge.
func (e Edge) String() string {
	return fmt.Sprintf("%s.%s -> %s.%s", e.From, e.FromPin, e.To, e.ToPin)
}

// Graph is the full set of nodes and edges. It is not safe for concurrent
// use; the runtime owns it exclusively.
type Graph struct {
	nodes map[string]*Node
	// inbound maps destination node -> input pin -> the single edge wired
	// into that pin.
	inbound map[string]map[string]Edge
	// outbound maps source node -> destination node -> number of edges, a
	// refcounted adjacency for traversal.
	outbound map[string]map[string]int
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[string]*Node),
		inbound:  make(map[string]map[string]Edge),
		outbound: make(map[string]map[string]int),
	}
}

// AddNode adds a node with the given ID, kind, and scope. The new node has
// no cache and is marked dirty so it evaluates on the next tick.
func (g *Graph) AddNode(id string, k kind.Kind, sc scope.ID) (*Node, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty id", ErrNodeNotFound)
	}
	if _, exists := g.nodes[id]; exists {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateNode, id)
	}
	n := &Node{id: id, kind: k, scope: sc, dirty: true}
	g.nodes[id] = n
	return n, nil
}

// RemoveNode deletes a node and every edge touching it. Dependents of the
// removed node are marked dirty.
func (g *Graph) RemoveNode(id string) error {
	if _, ok := g.nodes[id]; !ok {
		return fmt.Errorf("%w: %q", ErrNodeNotFound, id)
	}

	// Drop edges into the removed node.
	for _, e := range g.inbound[id] {
		g.releaseOutbound(e.From, id)
	}
	delete(g.inbound, id)

	// Drop edges out of the removed node and dirty their destinations.
	for to := range g.outbound[id] {
		pins := g.inbound[to]
		for pinName, e := range pins {
			if e.From == id {
				delete(pins, pinName)
			}
		}
		g.MarkDirty(to)
	}
	delete(g.outbound, id)

	delete(g.nodes, id)
	return nil
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// NodeIDs returns all node IDs in sorted order.
func (g *Graph) NodeIDs() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Edges returns all edges, ordered by destination then input pin.
func (g *Graph) Edges() []Edge {
	var out []Edge
	for _, pins := range g.inbound {
		for _, e := range pins {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].To != out[j].To {
			return out[i].To < out[j].To
		}
		return out[i].ToPin < out[j].ToPin
	})
	return out
}

// Inbound returns the edges wired into the given node, keyed by input pin.
func (g *Graph) Inbound(id string) map[string]Edge {
	pins := g.inbound[id]
	out := make(map[string]Edge, len(pins))
	for name, e := range pins {
		out[name] = e
	}
	return out
}

// Connect wires a source output pin to a destination input pin. The edge is
// validated completely before it is committed, so a rejected Connect leaves
// the graph unchanged.
func (g *Graph) Connect(e Edge) error {
	from, ok := g.nodes[e.From]
	if !ok {
		return fmt.Errorf("%w: source node %q", ErrDanglingEdge, e.From)
	}
	to, ok := g.nodes[e.To]
	if !ok {
		return fmt.Errorf("%w: destination node %q", ErrDanglingEdge, e.To)
	}
	srcSpec, ok := pin.FindSpec(from.kind.Outputs(), e.FromPin)
	if !ok {
		return fmt.Errorf("%w: %q has no output pin %q", ErrDanglingEdge, e.From, e.FromPin)
	}
	dstSpec, ok := pin.FindSpec(to.kind.Inputs(), e.ToPin)
	if !ok {
		return fmt.Errorf("%w: %q has no input pin %q", ErrDanglingEdge, e.To, e.ToPin)
	}
	if dstSpec.Type != pin.TypeAny && srcSpec.Type != pin.TypeAny && dstSpec.Type != srcSpec.Type {
		return fmt.Errorf("%w: output %q (%s) is incompatible with input %q (%s)",
			ErrDanglingEdge, e.FromPin, srcSpec.Type, e.ToPin, dstSpec.Type)
	}
	if _, occupied := g.inbound[e.To][e.ToPin]; occupied {
		return fmt.Errorf("%w: input pin %s.%s already connected", ErrDuplicateEdge, e.To, e.ToPin)
	}
	if e.From == e.To || g.reaches(e.To, e.From) {
		return fmt.Errorf("%w: %s", ErrCycleDetected, e)
	}

	if g.inbound[e.To] == nil {
		g.inbound[e.To] = make(map[string]Edge)
	}
	g.inbound[e.To][e.ToPin] = e
	if g.outbound[e.From] == nil {
		g.outbound[e.From] = make(map[string]int)
	}
	g.outbound[e.From][e.To]++

	g.MarkDirty(e.To)
	return nil
}

// Disconnect removes the edge wired into the given input pin and marks the
// destination dirty.
func (g *Graph) Disconnect(to, toPin string) error {
	if _, ok := g.nodes[to]; !ok {
		return fmt.Errorf("%w: %q", ErrNodeNotFound, to)
	}
	e, ok := g.inbound[to][toPin]
	if !ok {
		return fmt.Errorf("%w: no edge into %s.%s", ErrDanglingEdge, to, toPin)
	}
	delete(g.inbound[to], toPin)
	g.releaseOutbound(e.From, to)
	g.MarkDirty(to)
	return nil
}

// releaseOutbound decrements the edge refcount between two nodes.
func (g *Graph) releaseOutbound(from, to string) {
	if m := g.outbound[from]; m != nil {
		if m[to]--; m[to] <= 0 {
			delete(m, to)
		}
	}
}

// reaches reports whether `to` is reachable from `from` following edge
// direction. Used for cycle rejection before committing an edge.
func (g *Graph) reaches(from, to string) bool {
	visited := make(map[string]bool)
	var visit func(id string) bool
	visit = func(id string) bool {
		if id == to {
			return true
		}
		visited[id] = true
		for next := range g.outbound[id] {
			if !visited[next] && visit(next) {
				return true
			}
		}
		return false
	}
	return visit(from)
}

// MarkDirty marks a node and all of its transitive dependents dirty via a
// forward traversal over edges. Unknown IDs are ignored.
func (g *Graph) MarkDirty(id string) {
	n, ok := g.nodes[id]
	if !ok {
		return
	}
	n.dirty = true

	visited := map[string]bool{id: true}
	queue := []string{id}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for next := range g.outbound[current] {
			if visited[next] {
				continue
			}
			visited[next] = true
			if dep, ok := g.nodes[next]; ok {
				dep.dirty = true
			}
			queue = append(queue, next)
		}
	}
}

// MarkAllDirty marks every node dirty.
func (g *Graph) MarkAllDirty() {
	for _, n := range g.nodes {
		n.dirty = true
	}
}
