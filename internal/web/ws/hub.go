package ws

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/boardbox/yahtzee/internal/model"
)

// Hub fans out session events to every connected client. One hub exists
// per process, matching the single game session.
type Hub struct {
	clients map[*Client]bool
	mu      sync.RWMutex
	logger  *slog.Logger

	// Channels for managing clients
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
	closeOnce  sync.Once
}

// NewHub creates a new Hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		logger:     logger.With(slog.String("component", "ws")),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	h.logger.Info("ws hub started")
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			clientCount := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("ws client registered",
				slog.String("connection_id", string(client.connID)),
				slog.Int("total_clients", clientCount))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				clientCount := len(h.clients)
				h.mu.Unlock()
				h.logger.Info("ws client unregistered",
					slog.String("connection_id", string(client.connID)),
					slog.Duration("connection_duration", time.Since(client.connectedAt)),
					slog.Int("total_clients", clientCount))
			} else {
				h.mu.Unlock()
			}

		case message := <-h.broadcast:
			h.mu.RLock()
			dropped := 0
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					dropped++
				}
			}
			h.mu.RUnlock()
			if dropped > 0 {
				h.logger.Warn("ws broadcast dropped for slow clients",
					slog.Int("dropped", dropped))
			}

		case <-h.done:
			h.mu.Lock()
			clientCount := len(h.clients)
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			h.logger.Info("ws hub stopped", slog.Int("disconnected_clients", clientCount))
			return
		}
	}
}

// Register adds a client to the hub. After shutdown it is a no-op, so
// a connection landing in the close window does not strand its
// goroutine.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

// Unregister removes a client from the hub. No-op after shutdown.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast sends a message to all clients
func (h *Hub) Broadcast(message []byte) {
	select {
	case h.broadcast <- message:
	default:
		h.logger.Warn("ws broadcast dropped - hub buffer full")
	}
}

// Close shuts down the hub. Safe to call more than once.
func (h *Hub) Close() {
	h.closeOnce.Do(func() {
		close(h.done)
	})
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Envelope is the wire format for every server-to-client message
type Envelope struct {
	Type     string         `json:"type"`
	PlayerID model.PlayerID `json:"playerId,omitempty"`
	Data     any            `json:"data,omitempty"`
}

// Publish implements the session controller's Publisher contract: each
// named event goes out, followed by a state_changed push carrying the
// full snapshot. The snapshot is the load-bearing contract; clients may
// ignore the named events entirely.
func (h *Hub) Publish(events []model.Event, snap *model.Snapshot) {
	for _, ev := range events {
		h.send(Envelope{
			Type:     string(ev.Type),
			PlayerID: ev.PlayerID,
			Data:     ev.Payload,
		})
	}
	h.send(Envelope{
		Type: string(model.EventStateChanged),
		Data: snap,
	})
}

func (h *Hub) send(env Envelope) {
	msg, err := json.Marshal(env)
	if err != nil {
		h.logger.Error("ws marshal failed", slog.String("error", err.Error()))
		return
	}
	h.Broadcast(msg)
}
