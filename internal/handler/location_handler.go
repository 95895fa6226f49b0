// Package handler implements the stateless HTTP ingress and the read-only
// status endpoint.
package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"location-presence-service/internal/metrics"
	"location-presence-service/internal/registry"
)

// LocationHandler handles the stateless location ingress. It must be safe to
// call with no streaming connection for the user at all: background
// processes push here, and unknown users and groups are auto-registered
// rather than rejected.
type LocationHandler struct {
	reg PresenceRegistry
}

// NewLocationHandler creates a new stateless ingress handler.
func NewLocationHandler(reg PresenceRegistry) *LocationHandler {
	return &LocationHandler{reg: reg}
}

// UpdateLocation handles POST /api/update-location. The response is sent
// right after the mutation; fan-out delivery is not awaited.
func (h *LocationHandler) UpdateLocation(c *gin.Context) {
	var req UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "userId, groupName, lat and lng are required")
		return
	}

	err := h.reg.UpdateLocation(req.GroupName, req.UserID, *req.Lat, *req.Lng, req.Speed, req.Heading, registry.SourceStateless)
	if err != nil {
		slog.Error("stateless update failed", "group", req.GroupName, "user", req.UserID, "error", err)
		InternalError(c, err.Error())
		return
	}

	metrics.StatelessUpdatesTotal.Inc()
	OK(c)
}
