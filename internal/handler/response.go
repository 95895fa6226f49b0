package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"location-presence-service/internal/registry"
)

// AckResponse is returned by the stateless update endpoint.
type AckResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// StatusResponse is returned by GET /api/status.
type StatusResponse struct {
	Status string                          `json:"status"`
	Groups map[string]registry.GroupStatus `json:"groups"`
}

// OK sends a 200 acknowledgment.
func OK(c *gin.Context) {
	c.JSON(http.StatusOK, AckResponse{OK: true})
}

// BadRequest sends a 400 with the given message.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, AckResponse{OK: false, Error: message})
}

// InternalError sends a 500 with the given message.
func InternalError(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, AckResponse{OK: false, Error: message})
}
