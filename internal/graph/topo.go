package graph

import (
	"fmt"
	"sort"
)

// TopoOrder returns all node IDs in topological order: every node appears
// after all of its dependencies. Ties are broken lexicographically so the
// order is deterministic. Kahn's algorithm, seeded from source nodes.
func (g *Graph) TopoOrder() []string {
	indegree := make(map[string]int, len(g.nodes))
	for id := range g.nodes {
		indegree[id] = 0
	}
	for to, pins := range g.inbound {
		seen := make(map[string]bool, len(pins))
		for _, e := range pins {
			// Multiple pins fed by the same source count once.
			if !seen[e.From] {
				seen[e.From] = true
				indegree[to]++
			}
		}
	}

	ready := make([]string, 0, len(g.nodes))
	for id, deg := range indegree {
		if deg == 0 {
			ready = append(ready, id)
		}
	}
	sort.Strings(ready)

	order := make([]string, 0, len(g.nodes))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)

		var unlocked []string
		for next := range g.outbound[id] {
			if indegree[next]--; indegree[next] == 0 {
				unlocked = append(unlocked, next)
			}
		}
		if len(unlocked) > 0 {
			sort.Strings(unlocked)
			ready = append(ready, unlocked...)
			sort.Strings(ready)
		}
	}
	return order
}

// Validate checks the whole edge relation for cycles with a depth-first
// search. Connect already rejects cycle-closing edges, so this is a
// consistency check for tests and debugging rather than a runtime guard.
func (g *Graph) Validate() error {
	visiting := make(map[string]bool)
	visited := make(map[string]bool)

	var visit func(id string) error
	visit = func(id string) error {
		visiting[id] = true
		for next := range g.outbound[id] {
			if visiting[next] {
				return fmt.Errorf("%w: involving %q", ErrCycleDetected, next)
			}
			if !visited[next] {
				if err := visit(next); err != nil {
					return err
				}
			}
		}
		delete(visiting, id)
		visited[id] = true
		return nil
	}

	for id := range g.nodes {
		if !visited[id] {
			if err := visit(id); err != nil {
				return err
			}
		}
	}
	return nil
}
