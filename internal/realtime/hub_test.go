package realtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialHub(t *testing.T, hub *Hub, userID uuid.UUID) *websocket.Conn {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Attach(conn, userID)
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.Eventually(t, func() bool { return hub.Connections(userID) > 0 }, time.Second, 5*time.Millisecond)
	return conn
}

func TestSendToUserDeliversEvent(t *testing.T) {
	hub := NewHub()
	defer hub.Close()
	userID := uuid.New()
	conn := dialHub(t, hub, userID)

	delivered := hub.SendToUser(userID, EventMessageNew, map[string]string{"body": "salut"})
	require.Equal(t, 1, delivered)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var event struct {
		Type string            `json:"type"`
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &event))
	assert.Equal(t, EventMessageNew, event.Type)
	assert.Equal(t, "salut", event.Data["body"])
}

func TestSendToUserWithoutConnections(t *testing.T) {
	hub := NewHub()
	assert.Zero(t, hub.SendToUser(uuid.New(), EventMessageNew, nil))
}

func TestClientUnregistersOnClose(t *testing.T) {
	hub := NewHub()
	defer hub.Close()
	userID := uuid.New()
	conn := dialHub(t, hub, userID)

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	_ = conn.Close()

	assert.Eventually(t, func() bool { return hub.Connections(userID) == 0 }, time.Second, 5*time.Millisecond)
}

func TestCloseDisconnectsClients(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()
	conn := dialHub(t, hub, userID)

	hub.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
	assert.Zero(t, hub.Connections(userID))
}
