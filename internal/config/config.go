package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Session backends.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port               string
	GraphQLEndpoint    string
	ContextSecret      string
	ContextIssuer      string
	ContextTTL         time.Duration
	WorkspaceIdleTTL   time.Duration
	CookieSecure       bool
	CORSOrigins        []string
	SessionBackend     string
	DatabaseURL        string
	RedisURL           string
	HTTPTimeout        time.Duration
	DashboardFanOut    int
	LoginRatePerMinute int
	LogLevel           string
}

// Load reads configuration from the environment and performs minimal validation.
func Load() (Config, error) {
	cfg := Config{
		Port:               fallback(os.Getenv("PORT"), "8080"),
		GraphQLEndpoint:    strings.TrimSpace(os.Getenv("GRAPHQL_ENDPOINT")),
		ContextSecret:      strings.TrimSpace(os.Getenv("CONTEXT_SECRET")),
		ContextIssuer:      fallback(os.Getenv("CONTEXT_ISSUER"), "bank-portal"),
		ContextTTL:         time.Duration(positiveInt(os.Getenv("CONTEXT_TTL_MINUTES"), 7*24*60)) * time.Minute,
		WorkspaceIdleTTL:   time.Duration(positiveInt(os.Getenv("WORKSPACE_IDLE_MINUTES"), 30)) * time.Minute,
		CookieSecure:       parseBool(os.Getenv("CONTEXT_COOKIE_SECURE")),
		CORSOrigins:        parseCSV(fallback(os.Getenv("CORS_ALLOWED_ORIGINS"), "*")),
		SessionBackend:     strings.ToLower(fallback(os.Getenv("SESSION_BACKEND"), BackendMemory)),
		DatabaseURL:        strings.TrimSpace(os.Getenv("DATABASE_URL")),
		RedisURL:           strings.TrimSpace(os.Getenv("REDIS_URL")),
		HTTPTimeout:        time.Duration(positiveInt(os.Getenv("HTTP_TIMEOUT_SECONDS"), 15)) * time.Second,
		DashboardFanOut:    positiveInt(os.Getenv("DASHBOARD_FANOUT"), 8),
		LoginRatePerMinute: positiveInt(os.Getenv("LOGIN_RATE_PER_MINUTE"), 10),
		LogLevel:           fallback(os.Getenv("LOG_LEVEL"), "info"),
	}

	if cfg.GraphQLEndpoint == "" {
		return Config{}, errors.New("GRAPHQL_ENDPOINT is required")
	}
	if cfg.ContextSecret == "" {
		return Config{}, errors.New("CONTEXT_SECRET is required")
	}
	switch cfg.SessionBackend {
	case BackendMemory:
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, errors.New("DATABASE_URL is required for the postgres session backend")
		}
	case BackendRedis:
		if cfg.RedisURL == "" {
			return Config{}, errors.New("REDIS_URL is required for the redis session backend")
		}
	default:
		return Config{}, fmt.Errorf("unknown SESSION_BACKEND %q", cfg.SessionBackend)
	}

	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func positiveInt(value string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func parseBool(value string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	return err == nil && b
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
