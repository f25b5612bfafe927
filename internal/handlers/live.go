package handlers

import (
	"log"
	"net/http"
	"sync"
	"time"

	"news-trust/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const writeTimeout = 10 * time.Second

// LiveHandler pushes a short notification to connected dashboards whenever
// a new snapshot is installed. Clients re-fetch through the REST API; the
// socket only carries the "something changed" signal.
type LiveHandler struct {
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

// NewLiveHandler creates a new live update handler.
func NewLiveHandler() *LiveHandler {
	return &LiveHandler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The REST API is open to any origin; the socket follows suit.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		conns: make(map[*websocket.Conn]struct{}),
	}
}

// Serve handles GET /ws
func (h *LiveHandler) Serve(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ WebSocket upgrade failed: %v", err)
		return
	}

	h.mu.Lock()
	h.conns[conn] = struct{}{}
	count := len(h.conns)
	h.mu.Unlock()
	log.Printf("📡 Dashboard connected (%d live)", count)

	// Drain reads so pings and close frames are processed; drop the
	// connection on the first read error.
	go func() {
		defer h.remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// NotifySnapshot implements worker.Notifier. It broadcasts the new
// snapshot's headline numbers to every connected client.
func (h *LiveHandler) NotifySnapshot(snap *store.Snapshot) {
	payload := map[string]interface{}{
		"event":      "snapshot",
		"total":      snap.Overall.TotalNews,
		"updated_at": snap.UpdatedAt,
	}

	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for conn := range h.conns {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(payload); err != nil {
			log.Printf("⚠️ Dropping slow dashboard connection: %v", err)
			h.remove(conn)
		}
	}
}

// Close disconnects every client. Called on shutdown.
func (h *LiveHandler) Close() {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for conn := range h.conns {
		conns = append(conns, conn)
	}
	h.conns = make(map[*websocket.Conn]struct{})
	h.mu.Unlock()

	for _, conn := range conns {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
			time.Now().Add(writeTimeout))
		conn.Close()
	}
}

func (h *LiveHandler) remove(conn *websocket.Conn) {
	h.mu.Lock()
	if _, ok := h.conns[conn]; ok {
		delete(h.conns, conn)
		conn.Close()
	}
	h.mu.Unlock()
}
