// Package cli implements the relhist command-line interface.
//
// relhist aggregates GitHub release metadata from multiple repositories into
// one chronologically unified, color-coded timeline. Commands:
//
//   - auth: store, validate, and remove the GitHub token
//   - repo: add, remove, and list tracked repositories
//   - timeline: build and render the unified release timeline
//   - cache: manage the HTTP response cache
//
// All commands support --verbose (-v) for debug-level logging. Session state
// (token, tracked repositories) persists under ~/.config/relhist/ between
// invocations.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/relhist/relhist/internal/config"
	"github.com/relhist/relhist/pkg/buildinfo"
	"github.com/relhist/relhist/pkg/cache"
	"github.com/relhist/relhist/pkg/github"
	"github.com/relhist/relhist/pkg/registry"
	"github.com/relhist/relhist/pkg/session"
)

// appName is the application name used for directories and display.
const appName = "relhist"

// registryFile is the session registry snapshot inside the config dir.
const registryFile = "registry.json"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "relhist unifies release timelines across GitHub repositories",
		Long:         `relhist fetches release metadata from multiple GitHub repositories and merges it into one chronologically unified, color-coded, date-filterable timeline.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.authCommand())
	root.AddCommand(c.repoCommand())
	root.AddCommand(c.timelineCommand())
	root.AddCommand(c.cacheCommand())

	return root
}

// =============================================================================
// Configuration & Paths
// =============================================================================

// loadConfig reads the config file from its standard location.
func (c *CLI) loadConfig() (config.Config, error) {
	path, err := config.DefaultPath()
	if err != nil {
		return config.Default(), nil
	}
	return config.Load(path)
}

// configDir returns the config directory (~/.config/relhist/), honoring
// XDG_CONFIG_HOME. It holds the session and the registry snapshot.
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// cacheDir returns the cache directory using XDG standard (~/.cache/relhist/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// newCache builds the cache backend selected by the configuration. Failures
// degrade to a null cache rather than blocking the command.
func (c *CLI) newCache(cfg config.Config) cache.Cache {
	switch cfg.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache()
	case config.BackendRedis:
		store, err := cache.NewRedisCache(cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Username: cfg.Cache.Redis.Username,
			Password: cfg.Cache.Redis.Password,
			Database: cfg.Cache.Redis.Database,
		})
		if err != nil {
			c.Logger.Warn("redis cache unavailable, continuing without caching", "err", err)
			return cache.NewNullCache()
		}
		return store
	default:
		dir, err := cacheDir()
		if err != nil {
			return cache.NewNullCache()
		}
		store, err := cache.NewFileCache(dir)
		if err != nil {
			c.Logger.Warn("file cache unavailable, continuing without caching", "err", err)
			return cache.NewNullCache()
		}
		return store
	}
}

// =============================================================================
// Session & Client
// =============================================================================

// sessionStore opens the session store in the config directory.
func sessionStore() (*session.FileStore, error) {
	dir, err := configDir()
	if err != nil {
		return nil, fmt.Errorf("locate config dir: %w", err)
	}
	return session.NewFileStore(dir)
}

// resolveToken returns the GitHub token: the GITHUB_TOKEN environment
// variable wins, falling back to the stored session.
func resolveToken(ctx context.Context) (string, error) {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token, nil
	}

	store, err := sessionStore()
	if err != nil {
		return "", err
	}
	sess, err := store.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("load session: %w", err)
	}
	if sess == nil {
		return "", fmt.Errorf("not logged in (run 'relhist auth login' first, or set GITHUB_TOKEN)")
	}
	return sess.AccessToken, nil
}

// newAPIClient builds a client for an explicit token with the configured
// cache and API endpoint.
func (c *CLI) newAPIClient(cfg config.Config, token string, ttl time.Duration) *github.Client {
	client := github.NewClient(token, c.newCache(cfg), ttl, c.Logger)
	if cfg.API.BaseURL != "" {
		client.SetBaseURL(cfg.API.BaseURL)
	}
	return client
}

// newGitHubClient builds an authenticated client from the resolved token.
func (c *CLI) newGitHubClient(ctx context.Context, cfg config.Config) (*github.Client, error) {
	token, err := resolveToken(ctx)
	if err != nil {
		return nil, err
	}
	ttl := time.Duration(cfg.Cache.TTLHours) * time.Hour
	return c.newAPIClient(cfg, token, ttl), nil
}

// =============================================================================
// Registry Persistence
// =============================================================================

// registryPath returns the snapshot location inside the config dir.
func registryPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, registryFile), nil
}

// loadRegistry restores the tracked repositories from the last invocation.
func loadRegistry() (*registry.Registry, error) {
	path, err := registryPath()
	if err != nil {
		return nil, err
	}
	return registry.LoadFile(path)
}

// saveRegistry persists the registry for later invocations.
func saveRegistry(reg *registry.Registry) error {
	path, err := registryPath()
	if err != nil {
		return err
	}
	return reg.SaveFile(path)
}
