package github

import (
	"net/url"
	"strings"
)

// ParseRepoURL extracts the owner and repository name from a GitHub URL.
//
// The host must be exactly github.com and the path must contain at least two
// non-empty segments; a trailing ".git" suffix on the name is stripped. This
// is a pure string transformation - no network access occurs. Malformed input
// (empty string, wrong host, missing segments) returns ok=false.
func ParseRepoURL(raw string) (owner, name string, ok bool) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", "", false
	}
	if parsed.Host != "github.com" {
		return "", "", false
	}

	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}

	owner = parts[0]
	name = strings.TrimSuffix(parts[1], ".git")
	return owner, name, true
}

// RepoKey returns the canonical "owner/name" registry key for a repository.
func RepoKey(owner, name string) string {
	return owner + "/" + name
}
