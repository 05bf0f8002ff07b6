// ABOUTME: Configuration loader for the Strava MCP server
// ABOUTME: Loads an optional dotenv file, then settings from environment variables with defaults

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// DefaultEnvFile is read when no env file is named explicitly.
	DefaultEnvFile = ".env"

	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

type Config struct {
	// Strava credentials. Absence is not fatal; the first tool call fails.
	StravaClientID     string
	StravaClientSecret string
	StravaRefreshToken string

	// Strava endpoints
	StravaAPIURL      string
	StravaTokenURL    string
	StravaHTTPTimeout int    // seconds (default 30)
	StravaAllProxy    string // optional ssh+socks5://user@host:port?private-key=/path

	// Tool surface
	MaxActivityLimit int // upper clamp for list/search limits (default 200)

	// Transport
	Transport          string   // stdio or http (default: stdio)
	Port               string   // http mode only
	AuthToken          string   // optional bearer token for http mode
	CORSAllowedOrigins []string // allowed CORS origins (empty = block all cross-origin)

	// Rate Limiting (http mode)
	RateLimitEnabled bool // Enable rate limiting (default: true)
	RateLimitDefault int  // Requests per minute per client (default: 60)
}

// CredentialsConfigured returns true if all three Strava credentials are set
func (c *Config) CredentialsConfigured() bool {
	return c.StravaClientID != "" && c.StravaClientSecret != "" && c.StravaRefreshToken != ""
}

// HTTPTimeout returns the Strava request timeout as a duration.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.StravaHTTPTimeout) * time.Second
}

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment.
// Variables that are already set win. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		path = getEnv("STRAVA_MCP_ENV_FILE", DefaultEnvFile)
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("No env file found", "path", path)
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	slog.Debug("Loaded env file", "path", path)
	return nil
}

func Load() (*Config, error) {
	cfg := &Config{
		StravaClientID:     strings.TrimSpace(os.Getenv("STRAVA_CLIENT_ID")),
		StravaClientSecret: os.Getenv("STRAVA_CLIENT_SECRET"),
		StravaRefreshToken: os.Getenv("STRAVA_REFRESH_TOKEN"),

		StravaAPIURL:      ensureScheme(getEnv("STRAVA_API_URL", "https://www.strava.com/api/v3")),
		StravaTokenURL:    ensureScheme(getEnv("STRAVA_TOKEN_URL", "https://www.strava.com/oauth/token")),
		StravaHTTPTimeout: getEnvInt("STRAVA_HTTP_TIMEOUT", 30),
		StravaAllProxy:    os.Getenv("STRAVA_ALL_PROXY"),

		MaxActivityLimit: getEnvInt("MAX_ACTIVITY_LIMIT", 200),

		Transport:          strings.ToLower(getEnv("MCP_TRANSPORT", TransportStdio)),
		Port:               getEnv("PORT", "8080"),
		AuthToken:          os.Getenv("MCP_AUTH_TOKEN"),
		CORSAllowedOrigins: getEnvStringList("CORS_ALLOWED_ORIGINS"),

		RateLimitEnabled: getEnvBool("RATE_LIMIT_ENABLED", true),
		RateLimitDefault: getEnvInt("RATE_LIMIT_DEFAULT", 60),
	}

	if cfg.Transport != TransportStdio && cfg.Transport != TransportHTTP {
		return nil, fmt.Errorf("MCP_TRANSPORT must be %q or %q, got %q", TransportStdio, TransportHTTP, cfg.Transport)
	}

	// Validate numeric ranges
	for _, rl := range []struct {
		name     string
		value    int
		min, max int
	}{
		{"STRAVA_HTTP_TIMEOUT", cfg.StravaHTTPTimeout, 1, 600},
		{"MAX_ACTIVITY_LIMIT", cfg.MaxActivityLimit, 1, 1000},
		{"RATE_LIMIT_DEFAULT", cfg.RateLimitDefault, 1, 10000},
	} {
		if rl.value < rl.min || rl.value > rl.max {
			return nil, fmt.Errorf("%s must be between %d and %d, got %d", rl.name, rl.min, rl.max, rl.value)
		}
	}

	if !cfg.CredentialsConfigured() {
		slog.Warn("Strava credentials incomplete; tool calls will fail until they are set",
			"client_id_set", cfg.StravaClientID != "",
			"client_secret_set", cfg.StravaClientSecret != "",
			"refresh_token_set", cfg.StravaRefreshToken != "",
		)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvStringList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// ensureScheme adds https:// prefix if the URL has no scheme
func ensureScheme(url string) string {
	if url == "" {
		return url
	}
	if !strings.Contains(url, "://") {
		return "https://" + url
	}
	return url
}
