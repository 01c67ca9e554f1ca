package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/relhist/relhist/pkg/session"
)

// authCommand creates the auth command with subcommands.
func (c *CLI) authCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage GitHub authentication",
		Long: `Store and validate a GitHub personal access token.

The token is verified against the GitHub identity endpoint and saved in
~/.config/relhist/ for future commands. GITHUB_TOKEN in the environment
always takes precedence over the stored session.`,
	}

	cmd.AddCommand(c.authLoginCommand())
	cmd.AddCommand(c.authLogoutCommand())
	cmd.AddCommand(c.authStatusCommand())

	return cmd
}

// authLoginCommand creates the login subcommand.
func (c *CLI) authLoginCommand() *cobra.Command {
	var tokenFlag string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Validate and store a GitHub personal access token",
		Long: `Validate a GitHub personal access token and store it for future commands.

The token is taken from --token, falling back to the GITHUB_TOKEN
environment variable. Generate one at https://github.com/settings/tokens
with the repo scope (or public_repo for public repositories only).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			token := tokenFlag
			if token == "" {
				token = os.Getenv("GITHUB_TOKEN")
			}
			if token == "" {
				printError("No token provided")
				printDetail("Pass --token or set GITHUB_TOKEN")
				return fmt.Errorf("missing token")
			}

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			client := c.newAPIClient(cfg, token, 0)

			spinner := newSpinner(ctx, "Verifying token...")
			spinner.Start()

			if !client.Authenticate(ctx) {
				spinner.StopWithError("Authentication failed. Please check your token.")
				return fmt.Errorf("authentication failed")
			}

			user, err := client.FetchUser(ctx)
			spinner.Stop()
			if err != nil {
				return fmt.Errorf("fetch user: %w", err)
			}

			store, err := sessionStore()
			if err != nil {
				return err
			}
			sess, err := session.New(token, user, session.DefaultTTL)
			if err != nil {
				return fmt.Errorf("create session: %w", err)
			}
			if err := store.Save(ctx, sess); err != nil {
				return fmt.Errorf("save session: %w", err)
			}

			printSuccess("Logged in as @%s", user.Login)
			return nil
		},
	}

	cmd.Flags().StringVar(&tokenFlag, "token", "", "GitHub personal access token")
	return cmd
}

// authLogoutCommand creates the logout subcommand.
func (c *CLI) authLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored GitHub credential",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := sessionStore()
			if err != nil {
				return err
			}
			if err := store.Delete(cmd.Context()); err != nil {
				return fmt.Errorf("delete session: %w", err)
			}
			printSuccess("Logged out")
			return nil
		},
	}
}

// authStatusCommand creates the status subcommand.
func (c *CLI) authStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the currently authenticated GitHub user",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := sessionStore()
			if err != nil {
				return err
			}
			sess, err := store.Get(ctx)
			if err != nil {
				return fmt.Errorf("load session: %w", err)
			}
			if sess == nil {
				printInfo("Not logged in")
				printDetail("Run 'relhist auth login' to authenticate")
				return nil
			}

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			client := c.newAPIClient(cfg, sess.AccessToken, 0)

			spinner := newSpinner(ctx, "Verifying session...")
			spinner.Start()
			ok := client.Authenticate(ctx)
			spinner.Stop()

			if !ok {
				printWarning("Stored token is no longer valid")
				printDetail("Run 'relhist auth login' to re-authenticate")
				return nil
			}

			printSuccess("Authenticated")
			if sess.User != nil {
				printKeyValue("Username", "@"+sess.User.Login)
				if sess.User.Name != "" {
					printKeyValue("Name", sess.User.Name)
				}
			}
			printKeyValue("Logged in", sess.CreatedAt.Format("Jan 2, 2006"))
			printKeyValue("Expires", sess.ExpiresAt.Format("Jan 2, 2006"))
			return nil
		},
	}
}
