package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeriveWebSocketURL(t *testing.T) {
	assert.Equal(t, "wss://api.example.com", DeriveWebSocketURL("https://api.example.com"))
	assert.Equal(t, "ws://localhost:8001", DeriveWebSocketURL("http://localhost:8001/"))
	assert.Equal(t, "wss://example.com/backend", DeriveWebSocketURL("https://example.com/backend"))
	assert.Equal(t, "", DeriveWebSocketURL("not a url"))
}

func TestLoadReadsLegacyBackendVariable(t *testing.T) {
	t.Setenv("BACKEND_URL", "")
	t.Setenv("REACT_APP_BACKEND_URL", "https://legacy.example.com/")
	t.Setenv("WS_URL", "")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "15")
	t.Setenv("ADVANCE_ON_ERROR", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")

	cfg := Load()

	assert.Equal(t, "https://legacy.example.com", cfg.Backend.BaseURL)
	assert.Equal(t, "wss://legacy.example.com", cfg.Backend.WebSocketURL)
	assert.Equal(t, 15*time.Second, cfg.Backend.HTTPTimeout)
	assert.False(t, cfg.Discovery.AdvanceOnError)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.App.CorsAllowedOrigins)
}

func TestLoadPrefersBackendURL(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://primary.test")
	t.Setenv("REACT_APP_BACKEND_URL", "http://legacy.test")
	t.Setenv("WS_URL", "ws://socket.test/")

	cfg := Load()

	assert.Equal(t, "http://primary.test", cfg.Backend.BaseURL)
	assert.Equal(t, "ws://socket.test", cfg.Backend.WebSocketURL)
	assert.True(t, cfg.Discovery.AdvanceOnError)
}
