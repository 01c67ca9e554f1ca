package timeline

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/relhist/relhist/pkg/github"
	"github.com/relhist/relhist/pkg/registry"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func published(tag, when string) github.Release {
	return github.Release{
		TagName:     tag,
		HTMLURL:     "https://github.com/acme/widget/releases/tag/" + tag,
		PublishedAt: when,
	}
}

func TestBuild_FiltersAndOrders(t *testing.T) {
	reg := registry.New()
	_ = reg.Add("acme/widget", []github.Release{
		published("v1.0.0", "2023-01-01T09:00:00Z"),
		published("v1.1.0", "2023-06-15T09:00:00Z"),
		published("v2.0.0", "2024-01-01T09:00:00Z"),
	}, reg.NextColorIndex())

	window := Window{Start: date(2023, 1, 1), End: date(2023, 12, 31)}
	result, err := Build(reg, window, testLogger())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items in window, got %d", len(result.Items))
	}
	if result.Items[0].Tag != "v1.1.0" || result.Items[1].Tag != "v1.0.0" {
		t.Errorf("wrong order: %s, %s (want v1.1.0 then v1.0.0)",
			result.Items[0].Tag, result.Items[1].Tag)
	}
}

func TestBuild_InvalidWindow(t *testing.T) {
	reg := registry.New()
	_ = reg.Add("acme/widget", []github.Release{published("v1", "2023-06-15T09:00:00Z")}, 0)

	window := Window{Start: date(2024, 1, 1), End: date(2023, 1, 1)}
	result, err := Build(reg, window, testLogger())
	if !errors.Is(err, ErrInvalidWindow) {
		t.Fatalf("expected ErrInvalidWindow, got %v", err)
	}
	if result != nil {
		t.Error("no result should be produced for an invalid window")
	}
}

func TestBuild_SkipsUnpublished(t *testing.T) {
	reg := registry.New()
	_ = reg.Add("acme/widget", []github.Release{
		published("v1", "2023-06-15T09:00:00Z"),
		{TagName: "v2-draft", HTMLURL: "https://example.com", Draft: true}, // no published_at
	}, 0)

	result, err := Build(reg, Window{Start: date(2000, 1, 1), End: date(2100, 1, 1)}, testLogger())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(result.Items) != 1 {
		t.Fatalf("expected draft to be excluded, got %d items", len(result.Items))
	}
	if result.Stats.TotalReleases != 2 {
		t.Errorf("TotalReleases = %d, want 2 (drafts count toward total)", result.Stats.TotalReleases)
	}
	if result.Stats.InWindow != 1 {
		t.Errorf("InWindow = %d, want 1", result.Stats.InWindow)
	}
}

func TestBuild_SkipsMalformedWithoutAborting(t *testing.T) {
	reg := registry.New()
	_ = reg.Add("acme/widget", []github.Release{
		published("v1", "not-a-timestamp"),
		{PublishedAt: "2023-06-15T09:00:00Z", HTMLURL: "https://example.com"}, // missing tag
		{TagName: "v3", PublishedAt: "2023-06-16T09:00:00Z"},                  // missing url
		published("v4", "2023-06-17T09:00:00Z"),
	}, 0)

	result, err := Build(reg, Window{Start: date(2023, 1, 1), End: date(2023, 12, 31)}, testLogger())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(result.Items) != 1 {
		t.Fatalf("expected only the valid release, got %d items", len(result.Items))
	}
	if result.Items[0].Tag != "v4" {
		t.Errorf("surviving item = %s, want v4", result.Items[0].Tag)
	}
}

func TestBuild_WindowBoundsInclusive(t *testing.T) {
	reg := registry.New()
	_ = reg.Add("acme/widget", []github.Release{
		published("start-day", "2023-01-01T23:59:59Z"),
		published("end-day", "2023-12-31T00:00:01Z"),
		published("before", "2022-12-31T23:59:59Z"),
		published("after", "2024-01-01T00:00:00Z"),
	}, 0)

	result, err := Build(reg, Window{Start: date(2023, 1, 1), End: date(2023, 12, 31)}, testLogger())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected both boundary days included, got %d items", len(result.Items))
	}
	for _, item := range result.Items {
		if item.Tag == "before" || item.Tag == "after" {
			t.Errorf("out-of-window release %s included", item.Tag)
		}
	}
}

func TestBuild_MergesAcrossRepositories(t *testing.T) {
	reg := registry.New()
	_ = reg.Add("acme/widget", []github.Release{
		published("w-v1", "2023-03-01T09:00:00Z"),
	}, reg.NextColorIndex())
	_ = reg.Add("acme/gadget", []github.Release{
		{TagName: "g-v1", HTMLURL: "https://example.com/g1", PublishedAt: "2023-05-01T09:00:00Z"},
	}, reg.NextColorIndex())

	result, err := Build(reg, Window{Start: date(2023, 1, 1), End: date(2023, 12, 31)}, testLogger())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(result.Items))
	}
	if result.Items[0].Repo != "acme/gadget" {
		t.Errorf("newest item repo = %s, want acme/gadget", result.Items[0].Repo)
	}
	if result.Items[0].Color != registry.Palette[1] || result.Items[1].Color != registry.Palette[0] {
		t.Error("items should carry their repository's assigned color")
	}
}

func TestBuild_TieKeepsEncounterOrder(t *testing.T) {
	// Identical timestamps: the stable sort keeps registry insertion order.
	reg := registry.New()
	_ = reg.Add("first/repo", []github.Release{
		{TagName: "a", HTMLURL: "https://example.com/a", PublishedAt: "2023-06-15T09:00:00Z"},
	}, reg.NextColorIndex())
	_ = reg.Add("second/repo", []github.Release{
		{TagName: "b", HTMLURL: "https://example.com/b", PublishedAt: "2023-06-15T09:00:00Z"},
	}, reg.NextColorIndex())

	result, err := Build(reg, Window{Start: date(2023, 1, 1), End: date(2023, 12, 31)}, testLogger())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if result.Items[0].Repo != "first/repo" || result.Items[1].Repo != "second/repo" {
		t.Errorf("tie order = %s, %s; want insertion order", result.Items[0].Repo, result.Items[1].Repo)
	}
}

func TestBuild_NameFallsBackToTag(t *testing.T) {
	reg := registry.New()
	_ = reg.Add("acme/widget", []github.Release{
		{TagName: "v1", Name: "Big Release", HTMLURL: "https://example.com", PublishedAt: "2023-06-15T09:00:00Z"},
		{TagName: "v2", HTMLURL: "https://example.com", PublishedAt: "2023-06-16T09:00:00Z"},
	}, 0)

	result, _ := Build(reg, Window{Start: date(2023, 1, 1), End: date(2023, 12, 31)}, testLogger())
	if result.Items[0].Name != "v2" {
		t.Errorf("missing name should fall back to tag, got %q", result.Items[0].Name)
	}
	if result.Items[1].Name != "Big Release" {
		t.Errorf("explicit name should be kept, got %q", result.Items[1].Name)
	}
}

func TestBuild_EmptyResultIsNotAnError(t *testing.T) {
	reg := registry.New()
	_ = reg.Add("acme/widget", []github.Release{published("v1", "2020-01-01T00:00:00Z")}, 0)

	result, err := Build(reg, Window{Start: date(2023, 1, 1), End: date(2023, 12, 31)}, testLogger())
	if err != nil {
		t.Fatalf("empty window result must not be an error: %v", err)
	}
	if len(result.Items) != 0 {
		t.Errorf("expected no items, got %d", len(result.Items))
	}
	if result.Stats.Repositories != 1 || result.Stats.TotalReleases != 1 || result.Stats.InWindow != 0 {
		t.Errorf("stats = %+v", result.Stats)
	}
}

func TestBuild_OffsetAndZuluTimestampsCompare(t *testing.T) {
	reg := registry.New()
	_ = reg.Add("acme/widget", []github.Release{
		published("older", "2023-06-15T08:00:00+02:00"), // 06:00 UTC
		published("newer", "2023-06-15T07:00:00Z"),
	}, 0)

	result, err := Build(reg, Window{Start: date(2023, 1, 1), End: date(2023, 12, 31)}, testLogger())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if result.Items[0].Tag != "newer" {
		t.Errorf("expected 07:00Z to sort above 06:00Z, got %s first", result.Items[0].Tag)
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("a", 250)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty stays empty", "", ""},
		{"short unchanged", "release notes", "release notes"},
		{"exactly at limit", strings.Repeat("b", 200), strings.Repeat("b", 200)},
		{"long gets marker", long, strings.Repeat("a", 200) + "..."},
		{"whitespace trimmed", "  notes  ", "notes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in)
			if got != tt.want {
				t.Errorf("truncate length %d, want length %d", len(got), len(tt.want))
			}
			if len([]rune(got)) > bodyLimit+len(ellipsis) {
				t.Errorf("truncated body exceeds bound: %d", len([]rune(got)))
			}
		})
	}
}

func TestParseWhen(t *testing.T) {
	zulu, err := parseWhen("2023-06-15T09:00:00Z")
	if err != nil {
		t.Fatalf("parseWhen zulu: %v", err)
	}
	offset, err := parseWhen("2023-06-15T09:00:00+00:00")
	if err != nil {
		t.Fatalf("parseWhen offset: %v", err)
	}
	if !zulu.Equal(offset) {
		t.Error("Z-suffixed and explicit-offset timestamps should be equal")
	}
	if _, err := parseWhen("june 15th"); err == nil {
		t.Error("expected error for malformed timestamp")
	}
}
