package inspector

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/vk/flowgrid/internal/catalog"
	"github.com/vk/flowgrid/internal/events"
	"github.com/vk/flowgrid/internal/graph"
	"github.com/vk/flowgrid/internal/kind"
	"github.com/vk/flowgrid/internal/path"
	"github.com/vk/flowgrid/internal/pin"
	"github.com/vk/flowgrid/internal/runtime"
	"github.com/vk/flowgrid/internal/value"
)

// gainKind is a registration stub for catalog-surface tests.
type gainKind struct{}

func (gainKind) Name() string { return "gain" }
func (gainKind) Inputs() []pin.Spec {
	return []pin.Spec{{Name: "in", Type: pin.TypeNumber, Description: "Signal in."}}
}
func (gainKind) Outputs() []pin.Spec {
	return []pin.Spec{{Name: "out", Type: pin.TypeNumber}}
}
func (gainKind) Evaluate(_ *kind.Context, in pin.InputMap) (pin.OutputMap, error) {
	f, err := kind.Number(in, "in")
	if err != nil {
		return nil, err
	}
	return pin.OutputMap{"out": value.Number(f * 2)}, nil
}

func testServer() (*Server, *events.Queue) {
	c := catalog.New()
	c.Register(gainKind{})
	q := events.NewQueue()
	return NewServer(q, c), q
}

func TestDecodeEvent(t *testing.T) {
	testCases := []struct {
		name     string
		wire     wireEvent
		expected events.Event
		wantErr  bool
	}{
		{
			name:     "set_value on node scope",
			wire:     wireEvent{Type: "set_value", Node: "osc1", Path: "freq", Value: 440.0},
			expected: events.SetValue{Target: events.NodeScope("osc1"), Path: path.MustParse("freq"), Value: value.Number(440)},
		},
		{
			name:     "set_value on root",
			wire:     wireEvent{Type: "set_value", Path: "ambient", Value: true},
			expected: events.SetValue{Target: events.Root(), Path: path.MustParse("ambient"), Value: value.Bool(true)},
		},
		{
			name:     "remove_value",
			wire:     wireEvent{Type: "remove_value", Node: "osc1", Path: "freq"},
			expected: events.RemoveValue{Target: events.NodeScope("osc1"), Path: path.MustParse("freq")},
		},
		{
			name:     "add_node",
			wire:     wireEvent{Type: "add_node", ID: "osc1", Kind: "gain"},
			expected: events.AddNode{ID: "osc1", Kind: "gain"},
		},
		{
			name:     "remove_node",
			wire:     wireEvent{Type: "remove_node", ID: "osc1"},
			expected: events.RemoveNode{ID: "osc1"},
		},
		{
			name:     "connect",
			wire:     wireEvent{Type: "connect", From: "a", FromPin: "out", To: "b", ToPin: "in"},
			expected: events.Connect{Edge: graph.Edge{From: "a", FromPin: "out", To: "b", ToPin: "in"}},
		},
		{
			name:     "disconnect",
			wire:     wireEvent{Type: "disconnect", ID: "b", Pin: "in"},
			expected: events.Disconnect{Node: "b", Pin: "in"},
		},
		{name: "unknown type", wire: wireEvent{Type: "explode"}, wantErr: true},
		{name: "set_value bad path", wire: wireEvent{Type: "set_value", Path: "..", Value: 1.0}, wantErr: true},
		{name: "add_node missing kind", wire: wireEvent{Type: "add_node", ID: "x"}, wantErr: true},
		{name: "connect missing endpoint", wire: wireEvent{Type: "connect", From: "a"}, wantErr: true},
		{name: "disconnect missing pin", wire: wireEvent{Type: "disconnect", ID: "b"}, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ev, err := decodeEvent(tc.wire)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, ev)
		})
	}
}

func TestMessageFromReport(t *testing.T) {
	rep := runtime.Report{
		Seq:       3,
		Dt:        16 * time.Millisecond,
		Evaluated: []string{"a", "b"},
		Skipped:   1,
		Errors:    map[string]error{"b": assert.AnError},
	}

	msg := messageFromReport(rep)
	assert.Equal(t, uint64(3), msg.Seq)
	assert.Equal(t, 16.0, msg.DtMillis)
	assert.Equal(t, []string{"a", "b"}, msg.Evaluated)
	assert.Equal(t, 1, msg.Skipped)
	assert.Equal(t, assert.AnError.Error(), msg.Errors["b"])
	assert.Empty(t, msg.EventErrors)
}

func TestHandleEvents(t *testing.T) {
	s, q := testServer()

	body, _ := json.Marshal(wireEvent{Type: "add_node", ID: "g1", Kind: "gain"})
	req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	require.Equal(t, 1, q.Len())
	assert.Equal(t, events.AddNode{ID: "g1", Kind: "gain"}, q.Drain()[0])

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewReader([]byte("{")))
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, 0, q.Len())
	})

	t.Run("invalid event", func(t *testing.T) {
		body, _ := json.Marshal(wireEvent{Type: "add_node"})
		req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleKinds(t *testing.T) {
	s, _ := testServer()

	req := httptest.NewRequest(http.MethodGet, "/kinds", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var infos []kindInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &infos))
	require.Len(t, infos, 1)
	assert.Equal(t, "gain", infos[0].Name)
	require.Len(t, infos[0].Inputs, 1)
	assert.Equal(t, "number", infos[0].Inputs[0].Type)
}

func TestHandleSnapshot(t *testing.T) {
	s, _ := testServer()

	c := catalog.New()
	c.Register(gainKind{})
	rt := runtime.New(c)
	require.NoError(t, rt.AddNode("g1", "gain"))
	rt.Tick(context.Background(), 16*time.Millisecond)
	s.Publish(runtime.Report{Seq: 1}, BuildSnapshot(rt))

	req := httptest.NewRequest(http.MethodGet, "/snapshot", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/msgpack", rec.Header().Get("Content-Type"))

	var snap Snapshot
	require.NoError(t, msgpack.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, uint64(1), snap.Seq)
	require.Len(t, snap.Nodes, 1)
	assert.Equal(t, "g1", snap.Nodes[0].ID)
	assert.Equal(t, "gain", snap.Nodes[0].Kind)
}

func TestHandleHealth(t *testing.T) {
	s, _ := testServer()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","clients":0}`, rec.Body.String())
}
