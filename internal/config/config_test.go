package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "DATABASE_URL", "JWT_SECRET", "FRONTEND_BASE_URL",
		"MEDIA_ENDPOINT", "MEDIA_ACCESS_KEY", "MEDIA_SECRET_KEY",
		"MEDIA_BUCKET", "MEDIA_BASE_URL",
		"TOKEN_TTL", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/foodgram")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "9000")
	t.Setenv("TOKEN_TTL", "2h")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "9000" {
		t.Errorf("expected port 9000, got %q", cfg.Port)
	}
	if cfg.TokenTTL != 2*time.Hour {
		t.Errorf("expected TTL 2h, got %v", cfg.TokenTTL)
	}
	if cfg.FrontendBaseURL == "" {
		t.Errorf("expected default frontend URL")
	}
	if cfg.RateLimitRPS != defaultRateLimitRPS || cfg.RateLimitBurst != defaultRateLimitBurst {
		t.Errorf("expected default rate limit, got %v/%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
}

func TestLoadRequiresDatabaseAndSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "test-secret")

	if _, err := Load(""); err == nil {
		t.Fatalf("expected error without DATABASE_URL")
	}

	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/foodgram")

	if _, err := Load(""); err == nil {
		t.Fatalf("expected error without JWT_SECRET")
	}
}

func TestEnvOverridesYAML(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
port: "8100"
database_url: postgres://yaml-host/foodgram
jwt_secret: yaml-secret
rate_limit_rps: 5
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("PORT", "8200")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8200" {
		t.Errorf("env must beat yaml, got port %q", cfg.Port)
	}
	if cfg.DatabaseURL != "postgres://yaml-host/foodgram" {
		t.Errorf("yaml value lost, got %q", cfg.DatabaseURL)
	}
	if cfg.RateLimitRPS != 5 {
		t.Errorf("expected yaml rate limit 5, got %v", cfg.RateLimitRPS)
	}
}

func TestMediaConfigured(t *testing.T) {
	cfg := Config{}
	if cfg.MediaConfigured() {
		t.Fatalf("empty config must not report media as configured")
	}

	cfg = Config{
		MediaEndpoint:  "https://storage.example",
		MediaAccessKey: "key",
		MediaSecretKey: "secret",
		MediaBucket:    "media",
	}
	if !cfg.MediaConfigured() {
		t.Fatalf("full credentials must report media as configured")
	}
}
