package config

import (
	"testing"
	"time"
)

func TestLoadDoesNotInjectAuthSecret(t *testing.T) {
	t.Setenv("AUTH_SECRET", "")

	cfg := Load()
	if cfg.AuthSecret != "" {
		t.Fatalf("expected empty AUTH_SECRET when unset, got %q", cfg.AuthSecret)
	}
	if cfg.AuthEnabled() {
		t.Fatalf("expected auth to be disabled without a secret")
	}
}

func TestLoadFallsBackOnInvalidNumbers(t *testing.T) {
	t.Setenv("TICKET_CACHE_TTL_SECONDS", "-4")
	t.Setenv("ACCESS_TOKEN_TTL_MINUTES", "soon")

	cfg := Load()
	if cfg.TicketCacheTTLSeconds != 60 {
		t.Fatalf("expected cache ttl fallback 60, got %d", cfg.TicketCacheTTLSeconds)
	}
	if cfg.AccessTokenTTLMinutes != 480 {
		t.Fatalf("expected token ttl fallback 480, got %d", cfg.AccessTokenTTLMinutes)
	}
}

func TestLoadClientDefaultsToHostedBackend(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	t.Setenv("API_TIMEOUT_SECONDS", "")
	t.Setenv("TICKET_LOOKUP", "")

	cfg := LoadClient()
	if cfg.BaseURL != DefaultAPIBaseURL {
		t.Fatalf("expected default base url, got %q", cfg.BaseURL)
	}
	if cfg.Timeout != 0 {
		t.Fatalf("expected no timeout by default, got %s", cfg.Timeout)
	}
	if cfg.Lookup != LookupAuto {
		t.Fatalf("expected auto lookup, got %q", cfg.Lookup)
	}
}

func TestLoadClientHonoursOverrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://127.0.0.1:8080/")
	t.Setenv("API_TIMEOUT_SECONDS", "15")
	t.Setenv("TICKET_LOOKUP", "SCAN")

	cfg := LoadClient()
	if cfg.BaseURL != "http://127.0.0.1:8080" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.BaseURL)
	}
	if cfg.Timeout != 15*time.Second {
		t.Fatalf("expected 15s timeout, got %s", cfg.Timeout)
	}
	if cfg.Lookup != LookupScan {
		t.Fatalf("expected scan lookup, got %q", cfg.Lookup)
	}
}
