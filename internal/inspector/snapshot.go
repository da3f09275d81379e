package inspector

import (
	"fmt"

	"github.com/vk/flowgrid/internal/runtime"
	"github.com/vk/flowgrid/internal/value"
)

// Snapshot is the full state of the runtime at the end of a tick, encoded
// with msgpack on the wire. The host builds one between ticks so snapshot
// requests never race the evaluation loop.
type Snapshot struct {
	Seq    uint64                    `msgpack:"seq"`
	Nodes  []NodeSnapshot            `msgpack:"nodes"`
	Edges  []EdgeSnapshot            `msgpack:"edges"`
	Scopes map[string]map[string]any `msgpack:"scopes"`
}

// NodeSnapshot describes one node: its identity, cache state, and the
// outputs of its last successful evaluation.
type NodeSnapshot struct {
	ID      string         `msgpack:"id"`
	Kind    string         `msgpack:"kind"`
	Dirty   bool           `msgpack:"dirty"`
	Version uint64         `msgpack:"version"`
	Error   string         `msgpack:"error,omitempty"`
	Outputs map[string]any `msgpack:"outputs,omitempty"`
}

// EdgeSnapshot describes one wired connection.
type EdgeSnapshot struct {
	From    string `msgpack:"from"`
	FromPin string `msgpack:"from_pin"`
	To      string `msgpack:"to"`
	ToPin   string `msgpack:"to_pin"`
}

// BuildSnapshot captures the runtime's current state. It must be called
// from the tick thread, between ticks.
func BuildSnapshot(rt *runtime.Runtime) Snapshot {
	snap := Snapshot{
		Seq:    rt.Seq(),
		Scopes: rt.Values(),
	}

	g := rt.Graph()
	for _, id := range g.NodeIDs() {
		n, ok := g.Node(id)
		if !ok {
			continue
		}
		ns := NodeSnapshot{
			ID:      n.ID(),
			Kind:    n.Kind().Name(),
			Dirty:   n.Dirty(),
			Version: n.Version(),
		}
		if err := n.Err(); err != nil {
			ns.Error = err.Error()
		}
		if cache, ok := n.Cache(); ok {
			ns.Outputs = make(map[string]any, len(cache))
			for _, name := range cache.Names() {
				gv, err := value.ToGo(cache[name])
				if err != nil {
					gv = fmt.Sprintf("[unrepresentable %s]", value.TypeName(cache[name]))
				}
				ns.Outputs[name] = gv
			}
		}
		snap.Nodes = append(snap.Nodes, ns)
	}

	for _, e := range g.Edges() {
		snap.Edges = append(snap.Edges, EdgeSnapshot{
			From:    e.From,
			FromPin: e.FromPin,
			To:      e.To,
			ToPin:   e.ToPin,
		})
	}
	return snap
}
