package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("GRAPHQL_ENDPOINT", "http://bank.local/graphql")
	t.Setenv("CONTEXT_SECRET", "s3cret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	for _, key := range []string{"PORT", "CONTEXT_TTL_MINUTES", "WORKSPACE_IDLE_MINUTES", "SESSION_BACKEND", "DASHBOARD_FANOUT", "CORS_ALLOWED_ORIGINS", "HTTP_TIMEOUT_SECONDS"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddress() != ":8080" {
		t.Fatalf("unexpected address %q", cfg.HTTPAddress())
	}
	if cfg.SessionBackend != BackendMemory {
		t.Fatalf("unexpected backend %q", cfg.SessionBackend)
	}
	if cfg.ContextTTL != 7*24*time.Hour {
		t.Fatalf("unexpected ttl %v", cfg.ContextTTL)
	}
	if cfg.WorkspaceIdleTTL != 30*time.Minute {
		t.Fatalf("unexpected idle ttl %v", cfg.WorkspaceIdleTTL)
	}
	if cfg.DashboardFanOut != 8 || cfg.HTTPTimeout != 15*time.Second {
		t.Fatalf("unexpected tuning %d %v", cfg.DashboardFanOut, cfg.HTTPTimeout)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Fatalf("unexpected origins %v", cfg.CORSOrigins)
	}
}

func TestLoadRequiresEndpointAndSecret(t *testing.T) {
	t.Setenv("GRAPHQL_ENDPOINT", "")
	t.Setenv("CONTEXT_SECRET", "x")
	if _, err := Load(); err == nil {
		t.Fatal("expected error without GRAPHQL_ENDPOINT")
	}

	t.Setenv("GRAPHQL_ENDPOINT", "http://bank.local/graphql")
	t.Setenv("CONTEXT_SECRET", " ")
	if _, err := Load(); err == nil {
		t.Fatal("expected error without CONTEXT_SECRET")
	}
}

func TestLoadBackendRequirements(t *testing.T) {
	setRequired(t)
	t.Setenv("SESSION_BACKEND", "postgres")
	t.Setenv("DATABASE_URL", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error without DATABASE_URL")
	}

	t.Setenv("SESSION_BACKEND", "Redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SessionBackend != BackendRedis {
		t.Fatalf("unexpected backend %q", cfg.SessionBackend)
	}

	t.Setenv("SESSION_BACKEND", "etcd")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestParseCSV(t *testing.T) {
	got := parseCSV(" https://a.example , ,https://b.example")
	if len(got) != 2 || got[1] != "https://b.example" {
		t.Fatalf("unexpected %v", got)
	}
	if got := parseCSV(" , "); len(got) != 1 || got[0] != "*" {
		t.Fatalf("unexpected %v", got)
	}
}
