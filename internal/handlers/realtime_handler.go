package handlers

import (
	"net/http"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/gravadigital/fring-api/internal/logger"
	"github.com/gravadigital/fring-api/internal/middleware/auth"
	"github.com/gravadigital/fring-api/internal/middleware/metrics"
	"github.com/gravadigital/fring-api/internal/realtime"
)

type RealtimeHandler struct {
	hub      *realtime.Hub
	upgrader websocket.Upgrader
	log      *log.Logger
}

// NewRealtimeHandler accepts websocket upgrades from the given origins.
// Requests without an Origin header (native clients) are accepted.
func NewRealtimeHandler(hub *realtime.Hub, allowedOrigins []string) *RealtimeHandler {
	return &RealtimeHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || slices.Contains(allowedOrigins, origin)
			},
		},
		log: logger.Handler("realtime_handler"),
	}
}

// Connect handles GET /api/ws
func (h *RealtimeHandler) Connect(c *gin.Context) {
	userID := auth.UserID(c)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error
		h.log.Warn("WebSocket upgrade failed", "user_id", userID, "error", err)
		return
	}

	client := h.hub.Attach(conn, userID)
	metrics.WebSocketConnections.Inc()
	go func() {
		<-client.Done()
		metrics.WebSocketConnections.Dec()
	}()
	h.log.Debug("WebSocket connected", "user_id", userID, "connections", h.hub.Connections(userID))
}
