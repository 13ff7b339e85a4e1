package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zusistats/zusistats/server/internal/api"
	"github.com/zusistats/zusistats/server/internal/store"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// CORS is applied at the reverse proxy.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Message is the JSON envelope sent to clients.
type Message struct {
	Event string              `json:"event"`
	Data  api.SummaryResponse `json:"data"`
}

// Hub pushes the run summary to connected WebSocket clients.
//
// A summary goes out to a client when it connects, to everyone after each
// Notify, and as a refresh once an interval has passed without any push.
type Hub struct {
	store    *store.Store
	interval time.Duration
	notify   chan struct{}

	mu      sync.RWMutex
	clients map[*client]struct{}
}

// New creates a Hub that reads from st and refreshes clients at least every
// interval.
func New(st *store.Store, interval time.Duration) *Hub {
	return &Hub{
		store:    st,
		interval: interval,
		notify:   make(chan struct{}, 1),
		clients:  make(map[*client]struct{}),
	}
}

// Run pushes summaries until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	refresh := time.NewTicker(h.interval)
	defer refresh.Stop()

	notified := false // a Notify push went out since the last tick
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case <-h.notify:
			h.push()
			notified = true
		case <-refresh.C:
			if !notified {
				h.push()
			}
			notified = false
		}
	}
}

// Notify schedules a push of the current summary, e.g. after a result file
// was reloaded. Notifications arriving while one is pending are merged.
func (h *Hub) Notify() {
	select {
	case h.notify <- struct{}{}:
	default:
	}
}

// ServeHTTP upgrades the request to WebSocket, sends the current summary
// and keeps the client subscribed until the connection closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader has already written the error response.
		return
	}

	c := newClient(conn)
	if msg, err := h.encode(); err == nil {
		c.enqueue(msg)
	}
	h.register(c)
	defer h.unregister(c)

	go c.writePump()
	c.readPump()
}

// Count returns the number of currently connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// push encodes the summary once and queues it for every client. Clients
// whose queue is full are dropped.
func (h *Hub) push() {
	msg, err := h.encode()
	if err != nil {
		slog.Error("ws: encode summary", "err", err)
		return
	}

	h.mu.RLock()
	var slow []*client
	for c := range h.clients {
		if !c.enqueue(msg) {
			slow = append(slow, c)
		}
	}
	n := len(h.clients)
	h.mu.RUnlock()

	for _, c := range slow {
		slog.Warn("ws: dropping slow client", "remote", c.conn.RemoteAddr().String())
		h.unregister(c)
	}
	slog.Debug("ws: summary pushed", "clients", n-len(slow))
}

func (h *Hub) encode() ([]byte, error) {
	return json.Marshal(Message{
		Event: "summary",
		Data:  api.BuildSummary(h.store),
	})
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
}
