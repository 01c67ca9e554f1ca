// Package timeline merges releases across every registered repository into a
// single chronologically ordered, date-filtered view.
package timeline

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/relhist/relhist/pkg/registry"
)

const (
	// bodyLimit is the maximum number of characters kept from a release body.
	bodyLimit = 200

	ellipsis = "..."
)

// ErrInvalidWindow is returned when a window's start date is after its end
// date. The aggregator refuses to build rather than swapping the bounds.
var ErrInvalidWindow = errors.New("start date must not be after end date")

// Window is an inclusive [Start, End] pair of calendar dates. Only the date
// component of each bound is significant.
type Window struct {
	Start time.Time
	End   time.Time
}

// LastDays returns a window covering the past n days up to today.
func LastDays(n int) Window {
	now := time.Now()
	return Window{Start: now.AddDate(0, 0, -n), End: now}
}

// Item is a read-only projection of one release onto the unified timeline:
// the release plus its owning repository key and display color, with the
// body truncated to a bounded length.
type Item struct {
	Repo  string
	Tag   string
	Name  string
	Time  time.Time
	Color string
	URL   string
	Body  string
}

// Stats summarizes a build, derived from the raw registry state on every
// call: registered repositories, total releases across all of them
// (unfiltered), and how many fall inside the active window.
type Stats struct {
	Repositories  int
	TotalReleases int
	InWindow      int
}

// Result holds the ordered timeline items and the accompanying summary.
// An empty Items slice is a valid "no results" outcome, not an error.
type Result struct {
	Items []Item
	Stats Stats
}

// Build merges the releases of every registry entry into one timeline,
// keeping only published releases whose date falls inside window, sorted by
// publish time descending. Individual releases with missing required fields
// or unparseable timestamps are skipped with a warning; they never abort the
// build. Returns ErrInvalidWindow when window.Start is after window.End.
func Build(reg *registry.Registry, window Window, logger *log.Logger) (*Result, error) {
	if logger == nil {
		logger = log.Default()
	}
	start, end := dateOnly(window.Start), dateOnly(window.End)
	if start.After(end) {
		return nil, ErrInvalidWindow
	}

	result := &Result{
		Stats: Stats{Repositories: reg.Len()},
	}

	for _, entry := range reg.Entries() {
		result.Stats.TotalReleases += len(entry.Releases)

		for _, rel := range entry.Releases {
			if rel.PublishedAt == "" {
				continue // draft or unpublished
			}
			published, err := parseWhen(rel.PublishedAt)
			if err != nil {
				logger.Warn("skipping release with invalid timestamp",
					"repo", entry.Key, "published_at", rel.PublishedAt, "err", err)
				continue
			}
			if rel.TagName == "" || rel.HTMLURL == "" {
				logger.Warn("skipping release with missing fields", "repo", entry.Key)
				continue
			}

			day := dateOnly(published)
			if day.Before(start) || day.After(end) {
				continue
			}
			result.Stats.InWindow++

			name := rel.Name
			if name == "" {
				name = rel.TagName
			}
			result.Items = append(result.Items, Item{
				Repo:  entry.Key,
				Tag:   rel.TagName,
				Name:  name,
				Time:  published,
				Color: entry.Color,
				URL:   rel.HTMLURL,
				Body:  truncate(rel.Body),
			})
		}
	}

	// Newest first; stable so ties keep registry-then-release encounter order.
	sort.SliceStable(result.Items, func(i, j int) bool {
		return result.Items[i].Time.After(result.Items[j].Time)
	})

	return result, nil
}

// parseWhen parses an ISO 8601 timestamp, normalizing a trailing Z marker to
// an explicit UTC offset so all timestamps compare in one timezone-aware
// ordering.
func parseWhen(raw string) (time.Time, error) {
	if strings.HasSuffix(raw, "Z") {
		raw = strings.TrimSuffix(raw, "Z") + "+00:00"
	}
	return time.Parse(time.RFC3339, raw)
}

// dateOnly strips the time-of-day component, keeping the calendar date in
// the timestamp's own offset.
func dateOnly(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// truncate trims the body and bounds it to bodyLimit characters, appending
// an ellipsis marker only when something was cut. An empty body stays empty.
func truncate(body string) string {
	body = strings.TrimSpace(body)
	runes := []rune(body)
	if len(runes) <= bodyLimit {
		return body
	}
	return string(runes[:bodyLimit]) + ellipsis
}
