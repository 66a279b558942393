// Package activity streams committed audit entries to websocket subscribers.
package activity

import (
	"context"
	"encoding/json"
	"sync"

	filingapp "github.com/docfiling/backend/internal/application/filing"
	"github.com/docfiling/backend/internal/domain/audit"
	"go.uber.org/zap"
)

var _ filingapp.Notifier = (*Hub)(nil)

// EventTypeAudit is the only event type the feed currently carries
const EventTypeAudit = "audit"

// Event is one message written to subscribers
type Event struct {
	Type string                       `json:"type"`
	Data filingapp.AuditEntryResponse `json:"data"`
}

// Hub fans audit entries out to connected clients.
// Run owns the client set; every client has its own writer goroutine and a bounded
// send buffer, and a client whose buffer is full is disconnected.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}

	mu      sync.RWMutex
	clients map[*Client]struct{}

	sendBuffer int
	logger     *zap.Logger
}

// HubOption configures a Hub
type HubOption func(*Hub)

// WithSendBuffer sets how many messages may queue per client before it is dropped
func WithSendBuffer(n int) HubOption {
	return func(h *Hub) {
		if n > 0 {
			h.sendBuffer = n
		}
	}
}

// WithLogger sets the hub logger
func WithLogger(logger *zap.Logger) HubOption {
	return func(h *Hub) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewHub creates a Hub. Call Run before serving clients.
func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
		clients:    make(map[*Client]struct{}),
		sendBuffer: 16,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run processes registrations and broadcasts until ctx is cancelled, then closes
// every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			h.mu.Unlock()
			h.logger.Debug("Activity subscriber connected", zap.String("user_id", c.userID))

		case c := <-h.unregister:
			h.remove(c)

		case msg := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					delete(h.clients, c)
					close(c.send)
					h.logger.Warn("Dropping slow activity subscriber", zap.String("user_id", c.userID))
				}
			}
			h.mu.Unlock()
		}
	}
}

// join registers c; it reports false once the hub has stopped
func (h *Hub) join(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// leave unregisters c; it is a no-op once the hub has stopped
func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
		h.logger.Debug("Activity subscriber disconnected", zap.String("user_id", c.userID))
	}
}

// Notify queues entry for every subscriber. It never blocks the caller: when the
// broadcast queue is full the entry is dropped from the live feed.
func (h *Hub) Notify(_ context.Context, entry audit.Entry) {
	msg, err := json.Marshal(Event{Type: EventTypeAudit, Data: filingapp.ToAuditEntryResponse(entry)})
	if err != nil {
		h.logger.Error("Failed to encode activity event", zap.Error(err))
		return
	}

	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("Activity feed backlog full, dropping entry", zap.Uint("audit_id", entry.ID))
	}
}

// ClientCount returns the number of connected subscribers
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
