package network

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/luca-patrignani/sabacc/domain/sabacc"
)

const sendBuffer = 256

// Hub fans hand events out to spectators.
type Hub struct {
	clients    map[*client]bool
	register   chan *client
	unregister chan *client
	broadcast  chan []byte
	done       chan struct{}
	clientMu   sync.RWMutex

	lastMu   sync.RWMutex
	last     *sabacc.Snapshot
	lastJSON []byte

	log *slog.Logger
}

// NewHub returns a hub. Call Run before serving clients.
func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		clients:    make(map[*client]bool),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, sendBuffer),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run dispatches registrations and events until ctx is done, then closes
// every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case c := <-h.register:
			h.clientMu.Lock()
			h.clients[c] = true
			h.clientMu.Unlock()
			h.log.Info("spectator connected", "client", c.id, "addr", c.conn.RemoteAddr())
			if msg := h.lastMessage(); msg != nil {
				c.send <- msg
			}

		case c := <-h.unregister:
			h.drop(c)

		case msg := <-h.broadcast:
			h.clientMu.RLock()
			var slow []*client
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					slow = append(slow, c)
				}
			}
			h.clientMu.RUnlock()
			for _, c := range slow {
				h.log.Warn("spectator too slow, disconnecting", "client", c.id)
				h.drop(c)
			}

		case <-ctx.Done():
			close(h.done)
			h.clientMu.Lock()
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			h.clientMu.Unlock()
			return
		}
	}
}

// join registers c. It reports false once the hub has stopped.
func (h *Hub) join(c *client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) drop(c *client) {
	h.clientMu.Lock()
	defer h.clientMu.Unlock()
	if h.clients[c] {
		delete(h.clients, c)
		close(c.send)
		h.log.Info("spectator disconnected", "client", c.id)
	}
}

// Clients returns the number of connected spectators.
func (h *Hub) Clients() int {
	h.clientMu.RLock()
	defer h.clientMu.RUnlock()
	return len(h.clients)
}

// Observe records the event's snapshot and queues the event for every
// spectator. It never blocks the hand: events are dropped when the queue is
// full.
func (h *Hub) Observe(e sabacc.Event) {
	msg, err := json.Marshal(e)
	if err != nil {
		h.log.Error("event not encoded", "seq", e.Seq, "err", err)
		return
	}
	snap := e.Snapshot
	h.lastMu.Lock()
	h.last = &snap
	h.lastJSON = msg
	h.lastMu.Unlock()

	select {
	case h.broadcast <- msg:
	default:
		h.log.Warn("spectator queue full, event dropped", "hand", e.HandID, "seq", e.Seq)
	}
}

// Snapshot returns the public snapshot after the latest event.
func (h *Hub) Snapshot() (sabacc.Snapshot, bool) {
	h.lastMu.RLock()
	defer h.lastMu.RUnlock()
	if h.last == nil {
		return sabacc.Snapshot{}, false
	}
	return *h.last, true
}

func (h *Hub) lastMessage() []byte {
	h.lastMu.RLock()
	defer h.lastMu.RUnlock()
	return h.lastJSON
}

// client is one WebSocket connection.
type client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

func newClient(h *Hub, conn *websocket.Conn) *client {
	return &client{id: uuid.NewString(), hub: h, conn: conn, send: make(chan []byte, sendBuffer)}
}

// readPump discards what spectators send and notices when they leave.
func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Warn("spectator read failed", "client", c.id, "err", err)
			}
			return
		}
	}
}

func (c *client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			c.hub.log.Warn("spectator write failed", "client", c.id, "err", err)
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
