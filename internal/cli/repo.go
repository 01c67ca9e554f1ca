package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/relhist/relhist/pkg/github"
	"github.com/relhist/relhist/pkg/registry"
)

// repoCommand creates the repo command with subcommands.
func (c *CLI) repoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repo",
		Short: "Manage tracked repositories",
		Long: `Add, remove, and list the repositories whose releases feed the timeline.

Each repository is identified by its canonical owner/name key and keeps the
display color assigned when it was added.`,
	}

	cmd.AddCommand(c.repoAddCommand())
	cmd.AddCommand(c.repoRemoveCommand())
	cmd.AddCommand(c.repoListCommand())

	return cmd
}

// repoAddCommand creates the add subcommand.
func (c *CLI) repoAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <url>",
		Short: "Add a repository by its GitHub URL",
		Long: `Parse a GitHub repository URL, fetch its releases, and register it.

The repository receives the next color from the palette. Adding a key that
is already tracked is a no-op.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			owner, name, ok := github.ParseRepoURL(args[0])
			if !ok {
				printError("Invalid GitHub URL format")
				printDetail("Expected https://github.com/owner/repo")
				return fmt.Errorf("invalid repository URL %q", args[0])
			}
			key := github.RepoKey(owner, name)

			reg, err := loadRegistry()
			if err != nil {
				return err
			}
			if reg.Contains(key) {
				printWarning("%s is already added", key)
				return nil
			}

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			client, err := c.newGitHubClient(ctx, cfg)
			if err != nil {
				return err
			}

			spinner := newSpinner(ctx, fmt.Sprintf("Fetching releases for %s...", key))
			spinner.Start()
			releases, errMsg := client.FetchReleases(ctx, owner, name)
			spinner.Stop()

			if len(releases) == 0 {
				switch {
				case errMsg == github.MsgNoReleases:
					// Accessible but empty: informational, not a failure.
					printInfo("%s for %s", errMsg, key)
				case errMsg != "":
					printError("%s for %s", errMsg, key)
				default:
					printInfo("No releases found for %s", key)
				}
				return nil
			}

			if err := reg.Add(key, releases, reg.NextColorIndex()); err != nil {
				return err
			}
			if err := saveRegistry(reg); err != nil {
				return fmt.Errorf("save registry: %w", err)
			}

			printSuccess("Added %s (%d releases)", key, len(releases))
			return nil
		},
	}
}

// repoRemoveCommand creates the remove subcommand.
func (c *CLI) repoRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <owner/name>",
		Short: "Remove a tracked repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]

			reg, err := loadRegistry()
			if err != nil {
				return err
			}
			if !reg.Contains(key) {
				printWarning("%s is not tracked", key)
				return nil
			}

			reg.Remove(key)
			if err := saveRegistry(reg); err != nil {
				return fmt.Errorf("save registry: %w", err)
			}
			printSuccess("Removed %s", key)
			return nil
		},
	}
}

// repoListCommand creates the list subcommand.
func (c *CLI) repoListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tracked repositories in the order they were added",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := loadRegistry()
			if err != nil {
				return err
			}
			if reg.Len() == 0 {
				printInfo("No repositories tracked yet")
				printDetail("Run 'relhist repo add <url>' to add one")
				return nil
			}

			for _, line := range repoListLines(reg) {
				fmt.Println(line)
			}
			return nil
		},
	}
}

// repoListLines renders one line per entry: color dot, key, release count.
func repoListLines(reg *registry.Registry) []string {
	lines := make([]string, 0, reg.Len())
	for _, entry := range reg.Entries() {
		lines = append(lines, fmt.Sprintf("%s %s %s",
			repoDot(entry.Color),
			StyleValue.Render(entry.Key),
			StyleDim.Render(fmt.Sprintf("(%d releases)", len(entry.Releases)))))
	}
	return lines
}
