// Package config loads the relhist configuration file.
//
// Configuration lives at ~/.config/relhist/config.toml. Every field has a
// default, so a missing file is not an error.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Backend names accepted for cache.backend.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the full application configuration.
type Config struct {
	API      APIConfig      `toml:"api"`
	Cache    CacheConfig    `toml:"cache"`
	Timeline TimelineConfig `toml:"timeline"`
}

// APIConfig points the client at a GitHub API endpoint. An empty base URL
// means the public api.github.com; set it for GitHub Enterprise installs.
type APIConfig struct {
	BaseURL string `toml:"base_url"`
}

// CacheConfig selects and tunes the HTTP response cache backend.
type CacheConfig struct {
	Backend  string      `toml:"backend"`
	TTLHours int         `toml:"ttl_hours"`
	Redis    RedisConfig `toml:"redis"`
}

// RedisConfig holds connection settings for the redis cache backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	Database int    `toml:"database"`
}

// TimelineConfig tunes timeline defaults.
type TimelineConfig struct {
	// DefaultWindowDays is the size of the date window used when no
	// --from/--to flags are given.
	DefaultWindowDays int `toml:"default_window_days"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Cache: CacheConfig{
			Backend:  BackendFile,
			TTLHours: 1,
			Redis:    RedisConfig{Addr: "localhost:6379"},
		},
		Timeline: TimelineConfig{DefaultWindowDays: 365},
	}
}

// Load reads the configuration from path, applying defaults for any field
// the file omits. A missing file yields the defaults with no error.
func Load(path string) (Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	switch cfg.Cache.Backend {
	case BackendFile, BackendRedis, BackendNone:
	default:
		return cfg, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
	if cfg.Timeline.DefaultWindowDays <= 0 {
		return cfg, fmt.Errorf("default_window_days must be positive, got %d", cfg.Timeline.DefaultWindowDays)
	}
	return cfg, nil
}

// DefaultPath returns the standard config file location
// (~/.config/relhist/config.toml), honoring XDG_CONFIG_HOME.
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "relhist", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "relhist", "config.toml"), nil
}
