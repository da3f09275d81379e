// Package inspector exposes the running graph over HTTP: a server-sent
// event stream of tick reports, a msgpack state snapshot, the kind catalog,
// and an endpoint that accepts interaction events for the runtime's queue.
//
// Connect from a browser:
//
//	const src = new EventSource("http://localhost:8475/stream");
//	src.onmessage = (e) => console.log(JSON.parse(e.data));
package inspector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/vk/flowgrid/internal/catalog"
	"github.com/vk/flowgrid/internal/ctxlog"
	"github.com/vk/flowgrid/internal/events"
	"github.com/vk/flowgrid/internal/runtime"
)

// Server broadcasts tick reports to SSE clients and bridges HTTP requests
// into the runtime's interaction queue. It never touches the runtime
// directly; the host publishes state into it between ticks.
type Server struct {
	queue   *events.Queue
	catalog *catalog.Catalog

	mu       sync.RWMutex
	clients  map[chan TickMessage]struct{}
	snapshot Snapshot
}

// NewServer creates a server bridging the given queue and catalog.
func NewServer(queue *events.Queue, cat *catalog.Catalog) *Server {
	return &Server{
		queue:   queue,
		catalog: cat,
		clients: make(map[chan TickMessage]struct{}),
	}
}

// Publish stores the post-tick snapshot and broadcasts the tick report to
// all connected stream clients. Called by the host after every tick.
func (s *Server) Publish(rep runtime.Report, snap Snapshot) {
	msg := messageFromReport(rep)

	s.mu.Lock()
	s.snapshot = snap
	for client := range s.clients {
		select {
		case client <- msg:
		default:
			// Slow client; drop the message rather than stall the tick loop.
		}
	}
	s.mu.Unlock()
}

// ClientCount returns the number of connected stream clients.
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Handler returns the HTTP routing for the inspector endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /stream", s.handleStream)
	mux.HandleFunc("GET /snapshot", s.handleSnapshot)
	mux.HandleFunc("GET /kinds", s.handleKinds)
	mux.HandleFunc("POST /events", s.handleEvents)
	mux.HandleFunc("GET /health", s.handleHealth)
	return mux
}

// ListenAndServe runs the inspector's HTTP server until the context is
// canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	logger := ctxlog.FromContext(ctx)
	srv := &http.Server{Addr: addr, Handler: s.Handler()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("Inspector listening.", "address", fmt.Sprintf("http://localhost%s", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	client := make(chan TickMessage, 64)
	s.mu.Lock()
	s.clients[client] = struct{}{}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.clients, client)
		s.mu.Unlock()
	}()

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\"}\n\n")
	flusher.Flush()

	for {
		select {
		case msg := <-client:
			data, err := json.Marshal(msg)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	snap := s.snapshot
	s.mu.RUnlock()

	data, err := msgpack.Marshal(snap)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/msgpack")
	_, _ = w.Write(data)
}

func (s *Server) handleKinds(w http.ResponseWriter, r *http.Request) {
	infos := make([]kindInfo, 0, s.catalog.Len())
	for _, name := range s.catalog.Names() {
		k, ok := s.catalog.Lookup(name)
		if !ok {
			continue
		}
		info := kindInfo{Name: name}
		for _, spec := range k.Inputs() {
			info.Inputs = append(info.Inputs, pinInfoFromSpec(spec))
		}
		for _, spec := range k.Outputs() {
			info.Outputs = append(info.Outputs, pinInfoFromSpec(spec))
		}
		infos = append(infos, info)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(infos)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	var wire wireEvent
	if err := json.NewDecoder(r.Body).Decode(&wire); err != nil {
		http.Error(w, fmt.Sprintf("decoding event: %v", err), http.StatusBadRequest)
		return
	}
	ev, err := decodeEvent(wire)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.queue.Push(ev)
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status":"ok","clients":%d}`, s.ClientCount())
}
