package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/relhist/relhist/pkg/cache"
)

// cacheCommand creates the cache command with subcommands.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the HTTP response cache",
	}

	cmd.AddCommand(c.cacheInfoCommand())
	cmd.AddCommand(c.cacheClearCommand())

	return cmd
}

// cacheInfoCommand creates the info subcommand.
func (c *CLI) cacheInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show cache configuration and location",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			printKeyValue("Backend", cfg.Cache.Backend)
			printKeyValue("TTL", fmt.Sprintf("%dh", cfg.Cache.TTLHours))
			switch cfg.Cache.Backend {
			case "redis":
				printKeyValue("Redis", cfg.Cache.Redis.Addr)
			case "file":
				if dir, err := cacheDir(); err == nil {
					printKeyValue("Directory", dir)
				}
			}
			return nil
		},
	}
}

// cacheClearCommand creates the clear subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached API responses",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return err
			}
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo("Cache is already empty")
				return nil
			}

			store, err := cache.NewFileCache(dir)
			if err != nil {
				return err
			}
			if err := store.(*cache.FileCache).Clear(); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			printSuccess("Cache cleared")
			return nil
		},
	}
}
