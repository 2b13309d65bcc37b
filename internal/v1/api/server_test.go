package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitOriginsTrimsAndDropsEmpty(t *testing.T) {
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, splitOrigins("https://a.example.com, https://b.example.com"))
	assert.Equal(t, []string{"https://a.example.com"}, splitOrigins(" https://a.example.com ,"))
	assert.Equal(t, []string{}, splitOrigins(""))
}

func TestNewRouterRegistersExpectedRoutes(t *testing.T) {
	router := newTestRouter()
	paths := make(map[string]bool)
	for _, r := range router.Routes() {
		paths[r.Path] = true
	}

	for _, want := range []string{"/health", "/rooms", "/rooms/:room_id/messages", "/ws", "/metrics"} {
		assert.True(t, paths[want], "expected route %s to be registered", want)
	}
}
