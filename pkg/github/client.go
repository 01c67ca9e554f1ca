package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/relhist/relhist/pkg/cache"
	"github.com/relhist/relhist/pkg/httputil"
)

const (
	defaultBaseURL = "https://api.github.com"

	// probeTimeout bounds the lightweight identity and access probes.
	probeTimeout = 10 * time.Second

	// fetchTimeout bounds the full release list fetch.
	fetchTimeout = 30 * time.Second
)

// MsgNoReleases is the informational message returned when a repository is
// accessible but has no releases. It is not an error; callers can compare
// against it to render a softer notice.
const MsgNoReleases = "Repository exists but has no releases"

// Client talks to the GitHub REST API on behalf of one credential.
//
// Every remote failure is converted into a user-facing message at this
// boundary; no method lets a transport error escape as a raw fault. Release
// responses may be cached through the configured cache backend, keyed per
// repository. Probe endpoints are never cached so access state stays fresh.
type Client struct {
	http    *http.Client
	baseURL string
	token   string
	store   cache.Cache
	ttl     time.Duration
	logger  *log.Logger

	// retryDelay is the initial backoff delay for transient failures.
	retryDelay time.Duration
}

// NewClient creates a GitHub client for the given token.
// Pass a NullCache to disable response caching and nil for the default logger.
func NewClient(token string, store cache.Cache, ttl time.Duration, logger *log.Logger) *Client {
	if store == nil {
		store = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Client{
		http:       &http.Client{},
		baseURL:    defaultBaseURL,
		token:      token,
		store:      store,
		ttl:        ttl,
		logger:     logger,
		retryDelay: time.Second,
	}
}

// SetBaseURL overrides the API endpoint, e.g. for GitHub Enterprise installs.
func (c *Client) SetBaseURL(u string) {
	c.baseURL = strings.TrimRight(u, "/")
}

// Authenticate probes the identity endpoint and reports whether the token is
// currently valid. Transport failures count as authentication failure and are
// logged, never raised.
func (c *Client) Authenticate(ctx context.Context) bool {
	resp, err := c.get(ctx, c.baseURL+"/user", probeTimeout)
	if err != nil {
		c.logger.Error("GitHub authentication error", "err", err)
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("GitHub authentication failed", "status", resp.StatusCode)
		return false
	}
	c.logger.Debug("GitHub authentication successful")
	return true
}

// FetchUser returns the authenticated user's profile.
func (c *Client) FetchUser(ctx context.Context) (*User, error) {
	resp, err := c.get(ctx, c.baseURL+"/user", probeTimeout)
	if err != nil {
		return nil, fmt.Errorf("fetch user: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch user: HTTP %d: %s", resp.StatusCode, reason(resp))
	}
	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &user, nil
}

// CheckAccess probes whether a repository is reachable under the current
// credential. It distinguishes not-found/private from forbidden from other
// HTTP errors from network failure, returning a human-readable reason.
func (c *Client) CheckAccess(ctx context.Context, owner, name string) (bool, string) {
	url := fmt.Sprintf("%s/repos/%s/%s", c.baseURL, owner, name)
	resp, err := c.get(ctx, url, probeTimeout)
	if err != nil {
		return false, fmt.Sprintf("Network error: %v", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	switch resp.StatusCode {
	case http.StatusOK:
		return true, "Repository accessible"
	case http.StatusNotFound:
		return false, "Repository not found or private (no access)"
	case http.StatusForbidden:
		return false, "Access forbidden - check token permissions"
	default:
		return false, fmt.Sprintf("HTTP %d: %s", resp.StatusCode, reason(resp))
	}
}

// FetchReleases retrieves the complete raw release list for a repository,
// drafts included; exclusion of unpublished entries happens at aggregation
// time. The second return value is a user-facing message: empty on success,
// informational when the repository has no releases, and an error description
// otherwise (in which case the list is empty).
func (c *Client) FetchReleases(ctx context.Context, owner, name string) ([]Release, string) {
	key := "releases:" + RepoKey(owner, name)
	if data, hit, _ := c.store.Get(ctx, key); hit {
		var releases []Release
		if err := json.Unmarshal(data, &releases); err == nil {
			c.logger.Debug("release cache hit", "repo", RepoKey(owner, name))
			return releases, ""
		}
		_ = c.store.Delete(ctx, key)
	}

	var releases []Release
	var errMsg string
	url := fmt.Sprintf("%s/repos/%s/%s/releases", c.baseURL, owner, name)

	// Transient faults (transport errors, 5xx) are retried with backoff
	// before the failure message is surfaced.
	_ = httputil.Retry(ctx, 3, c.retryDelay, func() error {
		releases, errMsg = nil, ""

		resp, err := c.get(ctx, url, fetchTimeout)
		if err != nil {
			errMsg = fmt.Sprintf("Network error: %v", err)
			c.logger.Error("error fetching releases", "repo", RepoKey(owner, name), "err", err)
			return httputil.Retryable(err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			if err := json.NewDecoder(resp.Body).Decode(&releases); err != nil {
				errMsg = fmt.Sprintf("Invalid response: %v", err)
				c.logger.Error("decoding releases failed", "repo", RepoKey(owner, name), "err", err)
				return nil
			}
			c.logger.Info("fetched releases", "repo", RepoKey(owner, name), "count", len(releases))
			if data, err := json.Marshal(releases); err == nil {
				_ = c.store.Set(ctx, key, data, c.ttl)
			}
			return nil

		case resp.StatusCode == http.StatusNotFound:
			// Ambiguous: the repository may be inaccessible or may simply
			// have no releases. A secondary probe settles it.
			accessible, msg := c.CheckAccess(ctx, owner, name)
			if !accessible {
				errMsg = "Cannot access repository: " + msg
				c.logger.Warn("repository inaccessible", "repo", RepoKey(owner, name), "reason", msg)
			} else {
				errMsg = MsgNoReleases
				c.logger.Info("repository has no releases", "repo", RepoKey(owner, name))
			}
			return nil

		case resp.StatusCode == http.StatusForbidden:
			errMsg = "Access forbidden - check your token permissions"
			c.logger.Error("failed to fetch releases", "repo", RepoKey(owner, name), "status", resp.StatusCode)
			return nil

		case resp.StatusCode >= 500:
			errMsg = fmt.Sprintf("HTTP %d: %s", resp.StatusCode, reason(resp))
			c.logger.Error("failed to fetch releases", "repo", RepoKey(owner, name), "status", resp.StatusCode)
			return httputil.Retryable(fmt.Errorf("status %d", resp.StatusCode))

		default:
			errMsg = fmt.Sprintf("HTTP %d: %s", resp.StatusCode, reason(resp))
			c.logger.Error("failed to fetch releases", "repo", RepoKey(owner, name), "status", resp.StatusCode)
			return nil
		}
	})

	return releases, errMsg
}

// get issues a GET request with the client's auth headers and a bounded
// timeout. Callers own the response body on success.
func (c *Client) get(ctx context.Context, url string, timeout time.Duration) (*http.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	resp, err := c.doRequest(ctx, url)
	if err != nil {
		cancel()
		return nil, err
	}
	resp.Body = &cancelReadCloser{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

func (c *Client) doRequest(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return c.http.Do(req)
}

// reason extracts the server-provided reason phrase from the status line.
func reason(resp *http.Response) string {
	return strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
}

// cancelReadCloser ties a request-scoped context to the response body so the
// timeout is released exactly when the body is closed.
type cancelReadCloser struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelReadCloser) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}
