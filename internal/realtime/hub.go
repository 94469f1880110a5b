package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/gravadigital/fring-api/internal/logger"
)

// Event types pushed to clients
const (
	EventMessageNew     = "message.new"
	EventMessageRead    = "message.read"
	EventFriendRequest  = "friend.request"
	EventFriendAccepted = "friend.accepted"
)

// Event is the envelope written to a websocket
type Event struct {
	Type      string    `json:"type"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Hub tracks the open connections of each user
type Hub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]map[*Client]struct{}
	closed  bool
	log     *log.Logger
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{
		clients: make(map[uuid.UUID]map[*Client]struct{}),
		log:     logger.Realtime(),
	}
}

// Attach registers conn for userID and starts its pumps. It returns the client.
func (h *Hub) Attach(conn *websocket.Conn, userID uuid.UUID) *Client {
	c := &Client{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		done:   make(chan struct{}),
		UserID: userID,
	}
	if !h.register(c) {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
		_ = conn.Close()
		close(c.done)
		return c
	}
	go c.writePump()
	go c.readPump()
	return c
}

func (h *Hub) register(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	if h.clients[c.UserID] == nil {
		h.clients[c.UserID] = make(map[*Client]struct{})
	}
	h.clients[c.UserID][c] = struct{}{}
	h.log.Debug("Client connected", "user_id", c.UserID, "connections", len(h.clients[c.UserID]))
	return true
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients, ok := h.clients[c.UserID]
	if !ok {
		return
	}
	if _, ok := clients[c]; !ok {
		return
	}
	delete(clients, c)
	close(c.send)
	if len(clients) == 0 {
		delete(h.clients, c.UserID)
	}
	h.log.Debug("Client disconnected", "user_id", c.UserID)
}

// SendToUser queues an event on every connection of userID and returns
// how many connections received it. Slow connections are dropped.
func (h *Hub) SendToUser(userID uuid.UUID, eventType string, data any) int {
	payload, err := json.Marshal(Event{Type: eventType, Data: data, Timestamp: time.Now()})
	if err != nil {
		h.log.Error("Failed to encode event", "type", eventType, "error", err)
		return 0
	}

	h.mu.RLock()
	var slow []*Client
	delivered := 0
	for c := range h.clients[userID] {
		select {
		case c.send <- payload:
			delivered++
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.log.Warn("Dropping slow client", "user_id", userID)
		h.unregister(c)
	}
	return delivered
}

// Connections returns the number of open connections for userID
func (h *Hub) Connections(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Close disconnects every client and rejects new ones
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for userID, clients := range h.clients {
		for c := range clients {
			close(c.send)
		}
		delete(h.clients, userID)
	}
	h.log.Info("Realtime hub closed")
}
