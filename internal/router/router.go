package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"location-presence-service/internal/handler"
	"location-presence-service/internal/ws"
)

// SetupRoutes configures all API routes.
func SetupRoutes(
	locationHandler *handler.LocationHandler,
	statusHandler *handler.StatusHandler,
	wsHandler *ws.Handler,
	allowedOrigins []string,
) *gin.Engine {
	r := gin.Default()

	corsCfg := cors.DefaultConfig()
	if len(allowedOrigins) == 1 && allowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = allowedOrigins
	}
	r.Use(cors.New(corsCfg))

	// Stateless ingress
	r.POST("/api/update-location", locationHandler.UpdateLocation)

	// Status snapshot
	r.GET("/api/status", statusHandler.GetStatus)

	// Streaming ingress
	r.GET("/ws", wsHandler.Serve)

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}
