package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_minimal(t *testing.T) {
	path := writeConfig(t, `
backend:
  base_url: http://catalog.internal:9000
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Backend.BaseURL != "http://catalog.internal:9000" {
		t.Errorf("base_url = %q", cfg.Backend.BaseURL)
	}
	// Defaults survive partial files.
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want default 8080", cfg.Server.Port)
	}
	if cfg.Session.CookieName != "console_session" {
		t.Errorf("cookie name = %q", cfg.Session.CookieName)
	}
	if cfg.Session.TTL != 12*time.Hour {
		t.Errorf("session ttl = %v", cfg.Session.TTL)
	}
	if cfg.Backend.Timeout != 0 {
		t.Errorf("backend timeout = %v, want 0 (none)", cfg.Backend.Timeout)
	}
}

func TestLoad_missingBaseURL(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9999
`)
	if _, err := Load(path); err == nil {
		t.Error("expected validation error for missing backend.base_url")
	}
}

func TestLoad_trailingSlashRejected(t *testing.T) {
	path := writeConfig(t, `
backend:
  base_url: http://catalog.internal:9000/
`)
	if _, err := Load(path); err == nil {
		t.Error("expected validation error for trailing slash")
	}
}

func TestLoad_envOverrides(t *testing.T) {
	path := writeConfig(t, `
backend:
  base_url: http://catalog.internal:9000
`)
	t.Setenv("CONSOLE_SERVER_PORT", "3000")
	t.Setenv("CONSOLE_BACKEND_BASE_URL", "http://other:9001")
	t.Setenv("CONSOLE_SESSION_STORE_DRIVER", "redis")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("port = %d, want 3000", cfg.Server.Port)
	}
	if cfg.Backend.BaseURL != "http://other:9001" {
		t.Errorf("base_url = %q", cfg.Backend.BaseURL)
	}
	if cfg.Session.Store.Driver != "redis" {
		t.Errorf("driver = %q", cfg.Session.Store.Driver)
	}
}

func TestValidate_badStoreDriver(t *testing.T) {
	cfg := Defaults()
	cfg.Backend.BaseURL = "http://catalog:9000"
	cfg.Session.Store.Driver = "etcd"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unsupported store driver")
	}
}

func TestLoad_fileMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
