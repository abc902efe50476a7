package websocket

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tmoreau-sec/wifiscout/internal/core/domain"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")

		// Same-origin requests carry no Origin header.
		if origin == "" {
			return true
		}

		allowedOrigins := []string{
			"http://localhost:8080",
			"http://127.0.0.1:8080",
			"http://[::1]:8080",
		}
		for _, allowed := range allowedOrigins {
			if origin == allowed {
				return true
			}
		}

		slog.Warn("websocket origin rejected", "origin", origin)
		return false
	},
}

type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Hub fans scan lifecycle events out to connected dashboard clients.
// It implements ports.ScanEvents, so the orchestrator stays unaware of
// the transport.
type Hub struct {
	clients map[*websocket.Conn]struct{}
	mu      sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// HandleWebSocket upgrades the connection and keeps it registered until
// the peer goes away. Auth happens upstream in the middleware chain.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()

	slog.Info("websocket connected", "remote", conn.RemoteAddr())

	go func() {
		defer conn.Close()
		defer func() {
			h.mu.Lock()
			delete(h.clients, conn)
			h.mu.Unlock()
			slog.Info("websocket disconnected", "remote", conn.RemoteAddr())
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

// ScanStarted implements ports.ScanEvents.
func (h *Hub) ScanStarted(iface string) {
	h.broadcast(Message{
		Type:    "scan_started",
		Payload: map[string]string{"interface": iface},
	})
}

// ScanCompleted implements ports.ScanEvents.
func (h *Hub) ScanCompleted(session *domain.ScanSession) {
	h.broadcast(Message{
		Type: "scan_completed",
		Payload: map[string]interface{}{
			"session_id":    session.ID,
			"interface":     session.Interface,
			"network_count": session.RecordCount,
			"result_kind":   session.Kind,
		},
	})
}

// ScanFailed implements ports.ScanEvents.
func (h *Hub) ScanFailed(iface string, reason string) {
	h.broadcast(Message{
		Type: "scan_failed",
		Payload: map[string]string{
			"interface": iface,
			"reason":    reason,
		},
	})
}

func (h *Hub) broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("websocket marshal failed", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			conn.Close()
			delete(h.clients, conn)
		}
	}
}
