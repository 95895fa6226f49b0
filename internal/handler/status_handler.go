package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatusHandler serves the read-only registry snapshot.
type StatusHandler struct {
	reg PresenceRegistry
}

// NewStatusHandler creates a new status handler.
func NewStatusHandler(reg PresenceRegistry) *StatusHandler {
	return &StatusHandler{reg: reg}
}

// GetStatus handles GET /api/status.
func (h *StatusHandler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, StatusResponse{
		Status: "ok",
		Groups: h.reg.Snapshot(),
	})
}
