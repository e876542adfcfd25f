package core

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsAndEnv(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("SECRET_KEY", "env-secret")
	t.Setenv("SESSION_TTL", "120")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("ALLOWED_ORIGINS", "http://a.example.com, http://b.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Port != "3000" {
		t.Fatalf("expected default port 3000, got %q", cfg.Port)
	}
	if cfg.SecretKey != "env-secret" || cfg.SessionTTL != 120 || !cfg.CookieSecure {
		t.Fatalf("env values not applied: %+v", cfg)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "http://b.example.com" {
		t.Fatalf("unexpected origins: %v", cfg.AllowedOrigins)
	}
}

func TestLoadRequiresSecretKey(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("SECRET_KEY", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when secret key is unset")
	}
}

func TestLoadRejectsNonPositiveTTL(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("SECRET_KEY", "k")
	t.Setenv("SESSION_TTL", "-5")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-positive session_ttl")
	}
}

func TestLoadConfigFileWithEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "secret_key: file-secret\nsession_ttl: 900\nport: \"8080\"\nallowed_origins:\n  - http://file.example.com\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("SECRET_KEY", "")
	t.Setenv("SESSION_TTL", "")
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.SecretKey != "file-secret" || cfg.SessionTTL != 900 {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Port != "9090" {
		t.Fatalf("env must override file, got port %q", cfg.Port)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "http://file.example.com" {
		t.Fatalf("unexpected origins: %v", cfg.AllowedOrigins)
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("SECRET_KEY", "k")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
