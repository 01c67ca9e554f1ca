package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Cache.Backend != BackendFile {
		t.Errorf("backend = %q, want %q", cfg.Cache.Backend, BackendFile)
	}
	if cfg.Timeline.DefaultWindowDays != 365 {
		t.Errorf("default window = %d, want 365", cfg.Timeline.DefaultWindowDays)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
[cache]
backend = "redis"

[cache.redis]
addr = "redis.internal:6380"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Cache.Backend != BackendRedis {
		t.Errorf("backend = %q", cfg.Cache.Backend)
	}
	if cfg.Cache.Redis.Addr != "redis.internal:6380" {
		t.Errorf("redis addr = %q", cfg.Cache.Redis.Addr)
	}
	// Omitted fields keep their defaults.
	if cfg.Cache.TTLHours != 1 {
		t.Errorf("ttl = %d, want 1", cfg.Cache.TTLHours)
	}
	if cfg.Timeline.DefaultWindowDays != 365 {
		t.Errorf("default window = %d, want 365", cfg.Timeline.DefaultWindowDays)
	}
}

func TestLoad_APIBaseURL(t *testing.T) {
	path := writeConfig(t, `
[api]
base_url = "https://github.corp.example.com/api/v3"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != "https://github.corp.example.com/api/v3" {
		t.Errorf("base url = %q", cfg.API.BaseURL)
	}
	// Default is empty, meaning the public API.
	if Default().API.BaseURL != "" {
		t.Errorf("default base url = %q, want empty", Default().API.BaseURL)
	}
}

func TestLoad_RejectsUnknownBackend(t *testing.T) {
	path := writeConfig(t, `
[cache]
backend = "memcached"
`)
	if _, err := Load(path); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestLoad_RejectsNonPositiveWindow(t *testing.T) {
	path := writeConfig(t, `
[timeline]
default_window_days = 0
`)
	if _, err := Load(path); err == nil {
		t.Error("expected error for non-positive window")
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := writeConfig(t, `cache = [broken`)
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}
