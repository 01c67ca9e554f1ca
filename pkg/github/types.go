package github

// Release is one published release as returned by the GitHub API.
//
// TagName and HTMLURL are required; the timeline skips entries where either
// is missing. PublishedAt is kept as the raw ISO 8601 string so that drafts
// and unpublished releases (empty string) stay distinguishable; parsing
// happens at aggregation time.
type Release struct {
	ID          int64  `json:"id"`
	TagName     string `json:"tag_name"`
	Name        string `json:"name"`
	Body        string `json:"body"`
	Draft       bool   `json:"draft"`
	Prerelease  bool   `json:"prerelease"`
	HTMLURL     string `json:"html_url"`
	PublishedAt string `json:"published_at"`
}

// User is the authenticated GitHub user returned by the identity probe.
type User struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
