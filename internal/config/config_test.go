package config

import (
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("PORT", "")
		t.Setenv("JWT_EXPIRES_IN", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Port != "8080" {
			t.Errorf("expected default port 8080, got %s", cfg.Port)
		}
		if cfg.JWTExpirationDur != 8*time.Hour {
			t.Errorf("expected default expiry 8h, got %s", cfg.JWTExpirationDur)
		}
	})

	t.Run("from_environment", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		t.Setenv("JWT_EXPIRES_IN", "30m")
		t.Setenv("JWT_ISSUER", "lgu-test")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Port != "9090" || cfg.JWTExpirationDur != 30*time.Minute || cfg.JWTIssuer != "lgu-test" {
			t.Errorf("unexpected config %+v", cfg)
		}
		if Get() != cfg {
			t.Error("expected Get to return the loaded config")
		}
	})

	t.Run("invalid_expiry_falls_back", func(t *testing.T) {
		t.Setenv("JWT_EXPIRES_IN", "forever")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.JWTExpirationDur != 8*time.Hour {
			t.Errorf("expected fallback expiry 8h, got %s", cfg.JWTExpirationDur)
		}
	})
}
