// Package github implements the GitHub API client used to fetch release
// metadata for the unified timeline.
//
// The client authenticates with a bearer token, applies bounded timeouts to
// every request, and converts all remote failures into user-facing messages
// instead of raw errors. A 404 on the releases endpoint is ambiguous (no
// releases vs. no access), so the client disambiguates it with a secondary
// probe of the repository itself.
package github
