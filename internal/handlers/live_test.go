package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"news-trust/internal/ingest"
	"news-trust/internal/models"
	"news-trust/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialTestSocket(t *testing.T, h *LiveHandler) *websocket.Conn {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/ws", h.Serve)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestNotifySnapshotBroadcasts(t *testing.T) {
	h := NewLiveHandler()
	conn := dialTestSocket(t, h)

	snap := store.Build(ingest.Result{
		Articles: []models.Article{
			{Title: "A", Scored: true},
			{Title: "B", Scored: true},
		},
		Feeds:       []ingest.FeedOutcome{{Articles: 2}},
		CompletedAt: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	})
	h.NotifySnapshot(snap)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var payload map[string]interface{}
	require.NoError(t, conn.ReadJSON(&payload))

	assert.Equal(t, "snapshot", payload["event"])
	assert.Equal(t, float64(2), payload["total"])
	assert.NotEmpty(t, payload["updated_at"])
}

func TestNotifySnapshotWithNoClients(t *testing.T) {
	h := NewLiveHandler()

	// Must not panic or block with an empty connection set.
	h.NotifySnapshot(store.Build(ingest.Result{Feeds: []ingest.FeedOutcome{{}}}))
}

func TestCloseDisconnectsClients(t *testing.T) {
	h := NewLiveHandler()
	conn := dialTestSocket(t, h)

	h.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err, "server closed the connection")
}
