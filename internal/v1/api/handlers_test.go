package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RoseWrightdev/broadcast-hub/internal/v1/config"
	"github.com/RoseWrightdev/broadcast-hub/internal/v1/hub"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter() *gin.Engine {
	h := hub.NewHub(100)
	d := hub.NewDispatcher(h)
	cfg := &config.Config{Port: 3000, AllowedOrigins: "*", LogLevel: "info", GoEnv: "production", ChatRetain: 100}
	return NewRouter(h, d, cfg)
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestListRoomsEmpty(t *testing.T) {
	router := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/rooms", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestRoomMessagesForAbsentRoomIsEmptyArray(t *testing.T) {
	router := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/rooms/does-not-exist/messages", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestRoomMessagesHonorsLimitQueryParam(t *testing.T) {
	h := hub.NewHub(100)
	d := hub.NewDispatcher(h)
	cfg := &config.Config{AllowedOrigins: "*"}
	router := NewRouter(h, d, cfg)

	s := hub.NewSession(nil)
	_, err := h.Join(s, "r", "Alice", hub.RoleBroadcaster)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, ok := h.AppendChat(s, "hi", hub.ChatPublic, "")
		require.True(t, ok)
	}

	req := httptest.NewRequest(http.MethodGet, "/rooms/r/messages?limit=2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"content":"hi"`)
	var msgs []hub.ChatEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msgs))
	assert.Len(t, msgs, 2)
}

func TestCheckOriginAllowsWildcard(t *testing.T) {
	h := &Handlers{allowedOrigins: "*"}
	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	assert.True(t, h.checkOrigin(req))
}

func TestCheckOriginAllowsNoOriginHeader(t *testing.T) {
	h := &Handlers{allowedOrigins: "https://app.example.com"}
	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	assert.True(t, h.checkOrigin(req))
}

func TestCheckOriginMatchesAllowlist(t *testing.T) {
	h := &Handlers{allowedOrigins: "https://app.example.com, https://admin.example.com"}

	allowed := httptest.NewRequest(http.MethodGet, "/ws", nil)
	allowed.Header.Set("Origin", "https://admin.example.com")
	assert.True(t, h.checkOrigin(allowed))

	denied := httptest.NewRequest(http.MethodGet, "/ws", nil)
	denied.Header.Set("Origin", "https://evil.example.com")
	assert.False(t, h.checkOrigin(denied))
}
