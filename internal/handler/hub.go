package handler

import (
	"encoding/json"
	"sync"

	"teleterm/internal/domain"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const historyLimit = 100

// ServerEvent is a message pushed to browser sessions.
type ServerEvent struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// AuthStatus is the payload of an auth_status event.
type AuthStatus struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Hub tracks connected WebSocket sessions and broadcasts server events to
// all of them. It keeps the recent message history for replay to newly
// connected sessions and implements service.MessageConsumer so the
// listener can feed it directly.
type Hub struct {
	logger *zap.Logger

	mu      sync.Mutex
	conns   map[string]*websocket.Conn
	status  AuthStatus
	history []domain.Message
}

// NewHub creates an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		logger: logger,
		conns:  make(map[string]*websocket.Conn),
		status: AuthStatus{Status: "not_started"},
	}
}

// Consume records the message in the history ring and broadcasts it.
func (h *Hub) Consume(msg domain.Message) {
	h.mu.Lock()
	h.history = append(h.history, msg)
	if len(h.history) > historyLimit {
		h.history = h.history[len(h.history)-historyLimit:]
	}
	h.mu.Unlock()

	h.Broadcast(ServerEvent{Type: "message", Data: msg})
}

// Preload seeds the history from the archive. Used once at startup,
// before any message arrives.
func (h *Hub) Preload(msgs []domain.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.history) > 0 {
		return
	}
	if len(msgs) > historyLimit {
		msgs = msgs[len(msgs)-historyLimit:]
	}
	h.history = append(h.history, msgs...)
}

// SetAuthStatus records and broadcasts the authentication status.
func (h *Hub) SetAuthStatus(status, message string) {
	h.mu.Lock()
	h.status = AuthStatus{Status: status, Message: message}
	h.mu.Unlock()

	h.Broadcast(ServerEvent{Type: "auth_status", Data: AuthStatus{Status: status, Message: message}})
}

// Broadcast sends an event to every connected session, dropping sessions
// whose connection is dead.
func (h *Hub) Broadcast(event ServerEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("Failed to marshal server event", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for id, conn := range h.conns {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.logger.Warn("Dropping dead websocket session",
				zap.String("conn_id", id),
				zap.Error(err),
			)
			conn.Close()
			delete(h.conns, id)
		}
	}
}

// add registers a connection and replays the current status plus recent
// history to it. Returns the connection id for removal.
func (h *Hub) add(conn *websocket.Conn, replay int) string {
	id := uuid.NewString()

	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[id] = conn

	h.writeLocked(conn, ServerEvent{Type: "auth_status", Data: h.status})
	history := h.history
	if len(history) > replay {
		history = history[len(history)-replay:]
	}
	for _, msg := range history {
		h.writeLocked(conn, ServerEvent{Type: "message", Data: msg})
	}

	return id
}

// remove unregisters a connection.
func (h *Hub) remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, id)
}

// send writes an event to a single connection. Writes are serialized
// through the hub mutex because gorilla connections allow one writer at a
// time.
func (h *Hub) send(conn *websocket.Conn, event ServerEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.writeLocked(conn, event)
}

func (h *Hub) writeLocked(conn *websocket.Conn, event ServerEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("Failed to marshal server event", zap.Error(err))
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		h.logger.Warn("Failed to write to websocket session", zap.Error(err))
	}
}

// ConnectionCount reports the number of live sessions.
func (h *Hub) ConnectionCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}
