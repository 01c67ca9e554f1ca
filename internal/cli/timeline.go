package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/relhist/relhist/pkg/timeline"
)

// dateLayout is the format accepted by --from/--to.
const dateLayout = "2006-01-02"

// itemDateLayout is the human-readable timestamp shown per timeline item.
const itemDateLayout = "January 2, 2006 at 3:04 PM"

// timelineCommand creates the timeline command.
func (c *CLI) timelineCommand() *cobra.Command {
	var (
		fromFlag    string
		toFlag      string
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Show the unified release timeline",
		Long: `Merge the releases of every tracked repository into one timeline,
newest first, filtered to an inclusive date window.

Without --from/--to the window covers the configured default period
(one year unless changed in the config file). Dates use YYYY-MM-DD.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			reg, err := loadRegistry()
			if err != nil {
				return err
			}
			if reg.Len() == 0 {
				printInfo("Add some repositories to see their release timeline")
				printDetail("Run 'relhist repo add <url>' to get started")
				return nil
			}

			window, err := parseWindow(fromFlag, toFlag, cfg.Timeline.DefaultWindowDays)
			if err != nil {
				printError("%v", err)
				return err
			}

			result, err := timeline.Build(reg, window, c.Logger)
			if err != nil {
				if err == timeline.ErrInvalidWindow {
					printError("Start date must be before end date")
				}
				return err
			}

			if interactive {
				return viewTimeline(window, result)
			}

			printTimeline(window, result)
			return nil
		},
	}

	cmd.Flags().StringVar(&fromFlag, "from", "", "window start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toFlag, "to", "", "window end date (YYYY-MM-DD)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "open the scrollable timeline viewer")
	return cmd
}

// parseWindow builds the date window from the flags, defaulting any missing
// bound so that the window covers the past defaultDays up to today.
func parseWindow(from, to string, defaultDays int) (timeline.Window, error) {
	window := timeline.LastDays(defaultDays)

	if from != "" {
		start, err := time.Parse(dateLayout, from)
		if err != nil {
			return timeline.Window{}, fmt.Errorf("invalid --from date %q (want YYYY-MM-DD)", from)
		}
		window.Start = start
	}
	if to != "" {
		end, err := time.Parse(dateLayout, to)
		if err != nil {
			return timeline.Window{}, fmt.Errorf("invalid --to date %q (want YYYY-MM-DD)", to)
		}
		window.End = end
	}
	return window, nil
}

// printTimeline renders the summary line and every timeline item.
func printTimeline(window timeline.Window, result *timeline.Result) {
	printStats(window, result.Stats)

	if len(result.Items) == 0 {
		printInfo("No releases found in the selected date range")
		return
	}

	printNewline()
	fmt.Println(StyleTitle.Render("Release Timeline"))
	fmt.Println(StyleDim.Render(fmt.Sprintf("%d releases from %d repositories",
		len(result.Items), contributingRepos(result.Items))))
	printNewline()

	for _, item := range result.Items {
		for _, line := range renderItem(item) {
			fmt.Println(line)
		}
		printNewline()
	}
}

// printStats renders the summary counts derived from the raw registry state.
func printStats(window timeline.Window, stats timeline.Stats) {
	fmt.Println(StyleDim.Render(fmt.Sprintf("%s — %s",
		window.Start.Format(dateLayout), window.End.Format(dateLayout))))
	fmt.Printf("%s %s  %s %s  %s %s\n",
		StyleDim.Render("repositories"), StyleNumber.Render(fmt.Sprintf("%d", stats.Repositories)),
		StyleDim.Render("releases"), StyleNumber.Render(fmt.Sprintf("%d", stats.TotalReleases)),
		StyleDim.Render("in range"), StyleNumber.Render(fmt.Sprintf("%d", stats.InWindow)))
}

// renderItem formats one timeline entry as indented lines under its badge.
func renderItem(item timeline.Item) []string {
	lines := []string{
		repoBadge(item.Repo, item.Color) + "  " + StyleValue.Render(item.Tag),
		"  " + StyleDim.Render(item.Time.Format(itemDateLayout)),
	}
	if item.Name != item.Tag {
		lines = append(lines, "  "+StyleDim.Render(item.Name))
	}
	if item.Body != "" {
		lines = append(lines, "  "+item.Body)
	}
	lines = append(lines, "  "+StyleLink.Render(item.URL))
	return lines
}

// contributingRepos counts the distinct repositories present in the items.
func contributingRepos(items []timeline.Item) int {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		seen[item.Repo] = struct{}{}
	}
	return len(seen)
}
