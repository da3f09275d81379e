package runtime

import (
	"context"
	"fmt"
	"time"

	"github.com/vk/flowgrid/internal/ctxlog"
	"github.com/vk/flowgrid/internal/events"
	"github.com/vk/flowgrid/internal/kind"
	"github.com/vk/flowgrid/internal/path"
	"github.com/vk/flowgrid/internal/pin"
	"github.com/vk/flowgrid/internal/value"
)

// Report summarizes one tick for the UI and the inspector.
type Report struct {
	// Seq is the tick's sequence number, starting at 1.
	Seq uint64
	// Dt is the externally supplied delta time for this tick.
	Dt time.Duration
	// Evaluated lists the nodes evaluated this tick, in evaluation order.
	Evaluated []string
	// Skipped counts nodes whose cache was reused.
	Skipped int
	// Errors holds per-node evaluation errors recorded this tick.
	Errors map[string]error
	// EventErrors holds failures from applying queued interaction events,
	// in queue order.
	EventErrors []error
}

// Tick runs one evaluation pass: queued interaction events are applied
// first, so evaluation always sees an edit-consistent graph, then every
// dirty node is evaluated in topological order. The call is a transaction
// boundary; no external reader may observe the graph or registry while it
// runs.
func (rt *Runtime) Tick(ctx context.Context, dt time.Duration) Report {
	logger := ctxlog.FromContext(ctx)
	rt.seq++
	rt.elapsed += dt

	report := Report{
		Seq:    rt.seq,
		Dt:     dt,
		Errors: make(map[string]error),
	}

	rt.applyEvents(ctx, &report)
	rt.markVolatile()

	order := rt.graph.TopoOrder()
	logger.Debug("Tick evaluation starting.", "seq", rt.seq, "dt", dt, "nodes", len(order))

	for _, id := range order {
		n, ok := rt.graph.Node(id)
		if !ok {
			continue
		}
		if _, cached := n.Cache(); cached && !n.Dirty() {
			report.Skipped++
			continue
		}

		in := rt.gatherInputs(id)
		ec := &kind.Context{
			Ctx:      ctx,
			Registry: rt.scopes,
			Scope:    n.Scope(),
			Elapsed:  rt.elapsed,
			Dt:       dt,
			Seq:      rt.seq,
		}

		out, err := n.Kind().Evaluate(ec, in)
		if err != nil {
			// Failure is isolated to this node: the previous cache stays
			// in place and the rest of the order still runs.
			logger.Warn("Node evaluation failed.", "node", id, "kind", n.Kind().Name(), "error", err)
			n.CommitError(err)
			report.Errors[id] = err
			report.Evaluated = append(report.Evaluated, id)
			continue
		}

		changed := n.CommitOutput(out)
		report.Evaluated = append(report.Evaluated, id)
		if changed {
			rt.publishOutputs(ctx, n.ID(), out)
		}
	}

	logger.Debug("Tick evaluation finished.",
		"seq", rt.seq, "evaluated", len(report.Evaluated), "skipped", report.Skipped, "errors", len(report.Errors))
	return report
}

// applyEvents drains the interaction queue and applies each event in
// arrival order. A failing event is recorded and skipped; it does not block
// later events or the evaluation pass.
func (rt *Runtime) applyEvents(ctx context.Context, report *Report) {
	logger := ctxlog.FromContext(ctx)
	for _, ev := range rt.queue.Drain() {
		var err error
		switch e := ev.(type) {
		case events.SetValue:
			err = rt.SetValue(e.Target, e.Path, e.Value)
		case events.RemoveValue:
			err = rt.RemoveValue(e.Target, e.Path)
		case events.AddNode:
			err = rt.AddNode(e.ID, e.Kind)
		case events.RemoveNode:
			err = rt.RemoveNode(e.ID)
		case events.Connect:
			err = rt.Connect(e.Edge)
		case events.Disconnect:
			err = rt.Disconnect(e.Node, e.Pin)
		default:
			err = fmt.Errorf("unknown interaction event %T", ev)
		}
		if err != nil {
			logger.Warn("Interaction event rejected.", "event", fmt.Sprintf("%T", ev), "error", err)
			report.EventErrors = append(report.EventErrors, err)
		}
	}
}

// markVolatile dirties clock-dependent nodes so they re-evaluate every tick.
func (rt *Runtime) markVolatile() {
	for _, id := range rt.graph.NodeIDs() {
		n, _ := rt.graph.Node(id)
		if v, ok := n.Kind().(kind.Volatile); ok && v.Volatile() {
			rt.graph.MarkDirty(id)
		}
	}
}

// gatherInputs resolves a node's input pin map from its inbound edges.
// Upstream nodes run earlier in the topological order, so their caches hold
// this tick's values. An upstream node that has never evaluated
// successfully contributes the empty value as a sentinel; downstream kinds
// guard against it in their own logic.
func (rt *Runtime) gatherInputs(id string) pin.InputMap {
	in := make(pin.InputMap)
	for pinName, e := range rt.graph.Inbound(id) {
		src, ok := rt.graph.Node(e.From)
		if !ok {
			continue
		}
		cache, cached := src.Cache()
		if !cached {
			in[pinName] = value.Empty()
			continue
		}
		v, ok := cache[e.FromPin]
		if !ok {
			in[pinName] = value.Empty()
			continue
		}
		in[pinName] = v
	}
	return in
}

// publishOutputs mirrors a node's changed outputs into its own scope under
// the pin names, where UI property bindings read them.
func (rt *Runtime) publishOutputs(ctx context.Context, id string, out pin.OutputMap) {
	logger := ctxlog.FromContext(ctx)
	n, ok := rt.graph.Node(id)
	if !ok {
		return
	}
	for _, name := range out.Names() {
		p, err := path.Parse(name)
		if err != nil {
			logger.Warn("Output pin name is not a valid path; not mirrored.", "node", id, "pin", name)
			continue
		}
		if err := rt.scopes.Set(n.Scope(), p, out[name]); err != nil {
			logger.Warn("Failed to mirror output into node scope.", "node", id, "pin", name, "error", err)
		}
	}
}
