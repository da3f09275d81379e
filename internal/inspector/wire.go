package inspector

import (
	"fmt"

	"github.com/vk/flowgrid/internal/events"
	"github.com/vk/flowgrid/internal/graph"
	"github.com/vk/flowgrid/internal/path"
	"github.com/vk/flowgrid/internal/pin"
	"github.com/vk/flowgrid/internal/runtime"
	"github.com/vk/flowgrid/internal/value"
)

// TickMessage is the JSON form of a tick report, streamed to SSE clients.
type TickMessage struct {
	Seq         uint64            `json:"seq"`
	DtMillis    float64           `json:"dt_ms"`
	Evaluated   []string          `json:"evaluated,omitempty"`
	Skipped     int               `json:"skipped"`
	Errors      map[string]string `json:"errors,omitempty"`
	EventErrors []string          `json:"event_errors,omitempty"`
}

// messageFromReport flattens a tick report into its wire form.
func messageFromReport(rep runtime.Report) TickMessage {
	msg := TickMessage{
		Seq:       rep.Seq,
		DtMillis:  float64(rep.Dt.Microseconds()) / 1000,
		Evaluated: rep.Evaluated,
		Skipped:   rep.Skipped,
	}
	if len(rep.Errors) > 0 {
		msg.Errors = make(map[string]string, len(rep.Errors))
		for id, err := range rep.Errors {
			msg.Errors[id] = err.Error()
		}
	}
	for _, err := range rep.EventErrors {
		msg.EventErrors = append(msg.EventErrors, err.Error())
	}
	return msg
}

// wireEvent is the JSON form of one interaction event posted to /events.
// Type selects the variant; the remaining fields are variant-specific.
type wireEvent struct {
	Type string `json:"type"`

	// set_value, remove_value. Node empty means the root scope.
	Node  string `json:"node,omitempty"`
	Path  string `json:"path,omitempty"`
	Value any    `json:"value,omitempty"`

	// add_node, remove_node, disconnect.
	ID   string `json:"id,omitempty"`
	Kind string `json:"kind,omitempty"`
	Pin  string `json:"pin,omitempty"`

	// connect.
	From    string `json:"from,omitempty"`
	FromPin string `json:"from_pin,omitempty"`
	To      string `json:"to,omitempty"`
	ToPin   string `json:"to_pin,omitempty"`
}

// decodeEvent maps a wire event onto its runtime counterpart.
func decodeEvent(w wireEvent) (events.Event, error) {
	switch w.Type {
	case "set_value":
		p, err := path.Parse(w.Path)
		if err != nil {
			return nil, fmt.Errorf("set_value: %w", err)
		}
		v, err := value.FromGo(w.Value)
		if err != nil {
			return nil, fmt.Errorf("set_value: %w", err)
		}
		return events.SetValue{Target: events.Target{Node: w.Node}, Path: p, Value: v}, nil
	case "remove_value":
		p, err := path.Parse(w.Path)
		if err != nil {
			return nil, fmt.Errorf("remove_value: %w", err)
		}
		return events.RemoveValue{Target: events.Target{Node: w.Node}, Path: p}, nil
	case "add_node":
		if w.ID == "" || w.Kind == "" {
			return nil, fmt.Errorf("add_node: id and kind are required")
		}
		return events.AddNode{ID: w.ID, Kind: w.Kind}, nil
	case "remove_node":
		if w.ID == "" {
			return nil, fmt.Errorf("remove_node: id is required")
		}
		return events.RemoveNode{ID: w.ID}, nil
	case "connect":
		if w.From == "" || w.FromPin == "" || w.To == "" || w.ToPin == "" {
			return nil, fmt.Errorf("connect: from, from_pin, to and to_pin are required")
		}
		return events.Connect{Edge: graph.Edge{From: w.From, FromPin: w.FromPin, To: w.To, ToPin: w.ToPin}}, nil
	case "disconnect":
		if w.ID == "" || w.Pin == "" {
			return nil, fmt.Errorf("disconnect: id and pin are required")
		}
		return events.Disconnect{Node: w.ID, Pin: w.Pin}, nil
	default:
		return nil, fmt.Errorf("unknown event type %q", w.Type)
	}
}

// kindInfo is the JSON form of one catalog entry served at /kinds.
type kindInfo struct {
	Name    string    `json:"name"`
	Inputs  []pinInfo `json:"inputs,omitempty"`
	Outputs []pinInfo `json:"outputs,omitempty"`
}

type pinInfo struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Default     any    `json:"default,omitempty"`
}

func pinInfoFromSpec(spec pin.Spec) pinInfo {
	info := pinInfo{
		Name:        spec.Name,
		Type:        spec.Type.String(),
		Description: spec.Description,
	}
	if spec.Default != nil {
		if gv, err := value.ToGo(*spec.Default); err == nil {
			info.Default = gv
		}
	}
	return info
}
