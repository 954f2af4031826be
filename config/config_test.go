package config

import (
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"JWT_SECRET", "DATABASE_PATH", "SERVER_PORT",
		"ACCESS_TOKEN_TTL", "REFRESH_TOKEN_TTL", "TIMEZONE", "RESET_TIME",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadRequiresSecret(t *testing.T) {
	clearEnv(t)
	if _, err := Load(); err == nil {
		t.Error("expected error without JWT_SECRET")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort: got %s", cfg.ServerPort)
	}
	if cfg.AccessTokenTTL != time.Hour {
		t.Errorf("AccessTokenTTL: got %s", cfg.AccessTokenTTL)
	}
	if cfg.RefreshTokenTTL != 7*24*time.Hour {
		t.Errorf("RefreshTokenTTL: got %s", cfg.RefreshTokenTTL)
	}
	if cfg.ResetTime != "00:00" {
		t.Errorf("ResetTime: got %s", cfg.ResetTime)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("ACCESS_TOKEN_TTL", "15m")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("RESET_TIME", "03:30")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ServerPort != "9090" || cfg.AccessTokenTTL != 15*time.Minute || cfg.ResetTime != "03:30" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Timezone != time.UTC {
		t.Errorf("Timezone: got %v", cfg.Timezone)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "s3cret")

	t.Setenv("ACCESS_TOKEN_TTL", "soon")
	if _, err := Load(); err == nil {
		t.Error("expected error for bad ACCESS_TOKEN_TTL")
	}
	t.Setenv("ACCESS_TOKEN_TTL", "")

	t.Setenv("RESET_TIME", "midnight")
	if _, err := Load(); err == nil {
		t.Error("expected error for bad RESET_TIME")
	}
}
