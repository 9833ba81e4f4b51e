// Package notify pushes update-completed events to connected dashboard
// clients over WebSocket, so the frontend can refresh without polling.
package notify

import (
	"log"
	"net/http"
	"sync"
	"time"

	"econdash_backend/services/aggregator"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Connection limits and timeouts
const (
	MaxClients   = 100
	writeTimeout = 10 * time.Second
	pongTimeout  = 60 * time.Second
	pingInterval = 30 * time.Second
)

// Message is the envelope broadcast to clients
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Dashboard origins are enforced by the CORS layer; the socket accepts
	// any origin that got this far.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub tracks connected WebSocket clients and broadcasts run results to them
type Hub struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]chan Message
}

// NewHub creates an empty client hub
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]chan Message),
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// NotifyRun broadcasts a completed update run to all clients. Clients whose
// send buffer is full are skipped rather than blocking the update path.
func (h *Hub) NotifyRun(result *aggregator.UpdateResult) {
	h.broadcast(Message{Type: "data_updated", Payload: result})
}

func (h *Hub) broadcast(msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for conn, send := range h.clients {
		select {
		case send <- msg:
		default:
			log.Printf("WebSocket client %s too slow, dropping message", conn.RemoteAddr())
		}
	}
}

// HandleConnection upgrades an HTTP request and serves the client until it
// disconnects.
func (h *Hub) HandleConnection(c *gin.Context) {
	h.mu.RLock()
	count := len(h.clients)
	h.mu.RUnlock()
	if count >= MaxClients {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "too many connected clients"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	send := make(chan Message, 8)
	h.mu.Lock()
	h.clients[conn] = send
	h.mu.Unlock()
	log.Printf("WebSocket client connected: %s", conn.RemoteAddr())

	go h.writePump(conn, send)
	h.readPump(conn)
}

// readPump consumes and discards client frames, keeping the pong deadline
// fresh, and cleans up on disconnect.
func (h *Hub) readPump(conn *websocket.Conn) {
	defer h.removeClient(conn)

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongTimeout))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump delivers queued messages and pings on an interval
func (h *Hub) writePump(conn *websocket.Conn, send chan Message) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-send:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) removeClient(conn *websocket.Conn) {
	h.mu.Lock()
	if send, ok := h.clients[conn]; ok {
		close(send)
		delete(h.clients, conn)
	}
	h.mu.Unlock()

	conn.Close()
	log.Printf("WebSocket client disconnected: %s", conn.RemoteAddr())
}
