package api

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/RoseWrightdev/broadcast-hub/internal/v1/hub"
	"github.com/RoseWrightdev/broadcast-hub/internal/v1/logging"
)

const defaultMessageLimit = 50

// Handlers groups the gin.HandlerFuncs backing the broadcast hub's REST and
// WebSocket surface. Grounded on the teacher's health.Handler and
// session.Hub.ServeWs.
type Handlers struct {
	hub        *hub.Hub
	dispatcher *hub.Dispatcher

	allowedOrigins string
}

// Health answers §6.1's liveness probe.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListRooms answers GET /rooms with every currently open room.
func (h *Handlers) ListRooms(c *gin.Context) {
	c.JSON(http.StatusOK, h.hub.ListRooms())
}

// RoomMessages answers GET /rooms/{room_id}/messages?limit=N. Absent rooms
// return an empty array, never a 404 — §6.1.
func (h *Handlers) RoomMessages(c *gin.Context) {
	roomID := hub.RoomID(c.Param("room_id"))
	limit := defaultMessageLimit
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	c.JSON(http.StatusOK, h.hub.RoomMessages(roomID, limit))
}

// ServeWs upgrades the request to a WebSocket and hands the connection to
// the Dispatcher. The room a client joins is named in its JOIN_ROOM
// envelope, not this route — see SPEC_FULL's §6.2 redesign note.
func (h *Handlers) ServeWs(c *gin.Context) {
	upgrader := websocket.Upgrader{CheckOrigin: h.checkOrigin}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logging.Error(c.Request.Context(), "failed to upgrade connection", zap.Error(err))
		return
	}
	session := hub.NewSession(conn)
	h.dispatcher.Serve(session)
}

// checkOrigin mirrors the teacher's origin-allowlist check
// (transport/hub_helpers.go validateOrigin), generalized to the single
// ALLOWED_ORIGINS config value: "*" accepts everything, otherwise
// scheme+host must match one of the comma-separated entries.
func (h *Handlers) checkOrigin(r *http.Request) bool {
	if h.allowedOrigins == "*" {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	originURL, err := url.Parse(origin)
	if err != nil {
		logging.Warn(r.Context(), "invalid origin URL", zap.String("origin", origin), zap.Error(err))
		return false
	}
	allowed := splitOrigins(h.allowedOrigins)
	for _, candidate := range allowed {
		allowedURL, err := url.Parse(candidate)
		if err != nil {
			continue
		}
		if originURL.Scheme == allowedURL.Scheme && originURL.Host == allowedURL.Host {
			return true
		}
	}
	logging.Warn(r.Context(), "origin not in allowed list", zap.String("origin", origin), zap.Strings("allowedOrigins", allowed))
	return false
}
