package main

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Event is one message pushed to interactive clients.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// client is one subscribed connection. The websocket library allows only a
// single concurrent writer per connection, and broadcasts arrive from the
// reveal timer, hydration goroutines and HTTP handlers at once, so every
// write goes through the per-client mutex.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub fans reveal and hydration events out to connected websocket clients.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]bool
	logger  func(string)

	upgrader websocket.Upgrader
}

// NewHub creates an empty hub.
func NewHub(logger func(string)) *Hub {
	return &Hub{
		clients: make(map[*client]bool),
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The interactive client is served from this same process.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *Hub) log(msg string) {
	if h.logger != nil {
		h.logger(msg)
	}
}

// HandleWS upgrades an HTTP request into a hub subscription. The connection
// is read-drained so close frames are processed; clients only listen.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log("websocket upgrade failed: " + err.Error())
		return
	}
	c := &client{conn: conn}

	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()

	go func() {
		defer h.remove(c)
		for {
			if _, _, err := c.conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	c.conn.Close()
}

// Broadcast sends an event to every connected client. Write failures drop
// the client.
func (h *Hub) Broadcast(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.log("failed to marshal event: " + err.Error())
		return
	}

	h.mu.Lock()
	conns := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		if err := c.send(data); err != nil {
			h.remove(c)
		}
	}
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
