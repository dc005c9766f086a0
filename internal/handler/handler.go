package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const historyReplay = 20

// Session starts the engine session and submits outbound messages. The
// web console owns neither; it only forwards browser commands.
type Session interface {
	Start(ctx context.Context, apiID int64, apiHash, phone string) error
	Send(ctx context.Context, dest, text string) (int64, error)
}

// ClientCommand is a message received from a browser session.
type ClientCommand struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type authRequest struct {
	APIID   int64  `json:"api_id"`
	APIHash string `json:"api_hash"`
	Phone   string `json:"phone"`
}

type sendRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

// SendResult is the payload of a send_result event.
type SendResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

type errorData struct {
	Message string `json:"message"`
}

// Handler serves the web console: the terminal-style page and the
// WebSocket endpoint behind it.
type Handler struct {
	hub      *Hub
	session  Session
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// NewHandler creates a new handler instance.
func NewHandler(hub *Hub, session Session, logger *zap.Logger) *Handler {
	return &Handler{
		hub:     hub,
		session: session,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes registers all console routes on the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/", h.handleIndex)
	mux.HandleFunc("/ws", h.handleWS)
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, indexHTML)
}

func (h *Handler) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("Failed to upgrade websocket", zap.Error(err))
		return
	}
	defer conn.Close()

	id := h.hub.add(conn, historyReplay)
	defer h.hub.remove(id)

	h.logger.Info("Websocket session connected", zap.String("conn_id", id))

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			h.logger.Info("Websocket session disconnected",
				zap.String("conn_id", id),
				zap.Error(err),
			)
			return
		}

		var cmd ClientCommand
		if err := json.Unmarshal(data, &cmd); err != nil {
			h.hub.send(conn, ServerEvent{Type: "error", Data: errorData{Message: "Invalid JSON format"}})
			continue
		}

		switch cmd.Type {
		case "authenticate":
			h.handleAuthenticate(conn, cmd.Data)
		case "send_message":
			h.handleSendMessage(r.Context(), conn, cmd.Data)
		default:
			h.hub.send(conn, ServerEvent{
				Type: "error",
				Data: errorData{Message: fmt.Sprintf("Unknown command type %q", cmd.Type)},
			})
		}
	}
}

func (h *Handler) handleAuthenticate(conn *websocket.Conn, data json.RawMessage) {
	var req authRequest
	if err := json.Unmarshal(data, &req); err != nil {
		h.hub.send(conn, ServerEvent{Type: "error", Data: errorData{Message: "Invalid authenticate payload"}})
		return
	}

	h.hub.SetAuthStatus("authenticating", "Starting authentication...")

	// Login can block on server-side prompts, so it runs detached from
	// the socket's read loop.
	go func() {
		if err := h.session.Start(context.Background(), req.APIID, req.APIHash, req.Phone); err != nil {
			h.hub.SetAuthStatus("error", fmt.Sprintf("Authentication failed: %v", err))
			return
		}
		h.hub.SetAuthStatus("authenticated", "Successfully authenticated!")
	}()
}

func (h *Handler) handleSendMessage(ctx context.Context, conn *websocket.Conn, data json.RawMessage) {
	var req sendRequest
	if err := json.Unmarshal(data, &req); err != nil {
		h.hub.send(conn, ServerEvent{Type: "error", Data: errorData{Message: "Invalid send_message payload"}})
		return
	}

	result := SendResult{Success: true, Message: "Message sent successfully"}
	if _, err := h.session.Send(ctx, req.ChatID, req.Text); err != nil {
		result = SendResult{Success: false, Error: err.Error()}
	}
	h.hub.send(conn, ServerEvent{Type: "send_result", Data: result})
}
