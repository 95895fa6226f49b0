// Package ws implements the streaming ingress: websocket connections through
// which clients join a group and push live location and sharing updates.
package ws

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"location-presence-service/internal/metrics"
	"location-presence-service/internal/registry"
)

// Handler upgrades HTTP requests into streaming presence connections.
type Handler struct {
	reg      *registry.Registry
	upgrader websocket.Upgrader
}

// NewHandler creates a websocket handler bound to the registry.
func NewHandler(reg *registry.Registry) *Handler {
	return &Handler{
		reg: reg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// No authentication in this service; clients connect from
			// arbitrary origins (mobile webviews, LAN browsers).
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Serve handles GET /ws.
func (h *Handler) Serve(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	client := newClient(conn, h.reg)
	metrics.ConnectionsActive.Inc()
	slog.Info("connection opened", "channel", client.id, "remote", conn.RemoteAddr().String())

	go client.writePump()
	go client.readPump()
}
