package hub

import (
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Conn is the subset of *websocket.Conn the hub writes to
type Conn interface {
	WriteMessage(messageType int, data []byte) error
}

// Publisher fans a message out to one delivery target
type Publisher interface {
	Publish(message []byte)
}

// Hub tracks live WebSocket subscribers and fans messages out to them.
// Subscribers are keyed by connection identity, so re-subscribing the same
// connection does not cause duplicate delivery.
type Hub struct {
	mu    sync.Mutex
	conns map[Conn]*sync.Mutex // per-connection write lock
}

// New creates an empty hub
func New() *Hub {
	return &Hub{conns: make(map[Conn]*sync.Mutex)}
}

// Subscribe registers a live connection
func (h *Hub) Subscribe(c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.conns[c]; !ok {
		h.conns[c] = &sync.Mutex{}
	}
}

// Unsubscribe removes a connection; no-op if it isn't registered
func (h *Hub) Unsubscribe(c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, c)
}

// Count returns the number of live subscribers
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// Publish delivers a text message to every subscriber. Delivery is
// best-effort: connections that fail to accept the write are dropped from
// the hub and the failure is not surfaced to the caller.
func (h *Hub) Publish(message []byte) {
	type target struct {
		conn Conn
		mux  *sync.Mutex
	}

	h.mu.Lock()
	targets := make([]target, 0, len(h.conns))
	for c, mux := range h.conns {
		targets = append(targets, target{conn: c, mux: mux})
	}
	h.mu.Unlock()

	var dead []Conn
	for _, t := range targets {
		t.mux.Lock()
		err := t.conn.WriteMessage(websocket.TextMessage, message)
		t.mux.Unlock()
		if err != nil {
			dead = append(dead, t.conn)
		}
	}

	// Never remove while iterating the live set
	for _, c := range dead {
		h.Unsubscribe(c)
	}
	if len(dead) > 0 {
		log.Printf("HUB: Dropped %d dead subscriber(s)", len(dead))
	}
}

// Send delivers a message to a single subscriber, dropping it on failure
func (h *Hub) Send(c Conn, message []byte) {
	h.mu.Lock()
	mux, ok := h.conns[c]
	h.mu.Unlock()
	if !ok {
		return
	}

	mux.Lock()
	err := c.WriteMessage(websocket.TextMessage, message)
	mux.Unlock()
	if err != nil {
		h.Unsubscribe(c)
	}
}

// Fanout publishes a message to several targets, e.g. the hub plus an MQTT mirror
type Fanout []Publisher

// Publish delivers the message to every target
func (f Fanout) Publish(message []byte) {
	for _, p := range f {
		p.Publish(message)
	}
}
