package config

import (
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Backend   BackendConfig
	Discovery DiscoveryConfig
}

type AppConfig struct {
	Environment        string
	LogFilePath        string
	BridgePort         string
	CorsAllowedOrigins []string
}

type BackendConfig struct {
	BaseURL      string
	WebSocketURL string
	HTTPTimeout  time.Duration // zero means no client side timeout
}

type DiscoveryConfig struct {
	ShowActiveOnly bool
	AdvanceOnError bool
}

// IsProduction reports whether GO_ENV selects production logging.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	// REACT_APP_BACKEND_URL is what the browser build was configured with
	baseURL := strings.TrimRight(getEnv("BACKEND_URL", getEnv("REACT_APP_BACKEND_URL", "http://localhost:8001")), "/")

	return &Config{
		App: AppConfig{
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "tradermatch-client.log"),
			BridgePort:         getEnv("BRIDGE_PORT", "4747"),
			CorsAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		Backend: BackendConfig{
			BaseURL:      baseURL,
			WebSocketURL: strings.TrimRight(getEnv("WS_URL", DeriveWebSocketURL(baseURL)), "/"),
			HTTPTimeout:  time.Duration(getEnvAsInt("HTTP_TIMEOUT_SECONDS", 0)) * time.Second,
		},
		Discovery: DiscoveryConfig{
			ShowActiveOnly: getEnvAsBool("SHOW_ACTIVE_ONLY", false),
			AdvanceOnError: getEnvAsBool("ADVANCE_ON_ERROR", true),
		},
	}
}

// DeriveWebSocketURL maps http(s)://host to ws(s)://host, keeping any path prefix.
func DeriveWebSocketURL(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return ""
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	return strings.TrimRight(u.String(), "/")
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsList(key string, fallback []string) []string {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(strValue, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
