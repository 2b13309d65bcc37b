// Package api wires the broadcast hub's gin.Engine: the WebSocket upgrade
// endpoint, the read-only room/chat endpoints, and the operational surface
// (/health, /metrics).
package api

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/RoseWrightdev/broadcast-hub/internal/v1/config"
	"github.com/RoseWrightdev/broadcast-hub/internal/v1/hub"
	"github.com/RoseWrightdev/broadcast-hub/internal/v1/middleware"
)

// NewRouter builds the gin.Engine serving this process, grounded on the
// teacher's cmd/v1/session/main.go router assembly.
func NewRouter(h *hub.Hub, d *hub.Dispatcher, cfg *config.Config) *gin.Engine {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CorrelationID())

	corsCfg := cors.DefaultConfig()
	if cfg.AllowedOrigins == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = splitOrigins(cfg.AllowedOrigins)
	}
	corsCfg.AllowCredentials = false
	r.Use(cors.New(corsCfg))

	handlers := &Handlers{hub: h, dispatcher: d, allowedOrigins: cfg.AllowedOrigins}

	r.GET("/health", handlers.Health)
	r.GET("/rooms", handlers.ListRooms)
	r.GET("/rooms/:room_id/messages", handlers.RoomMessages)
	r.GET("/ws", handlers.ServeWs)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func splitOrigins(csv string) []string {
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
