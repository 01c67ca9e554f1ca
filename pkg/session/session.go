// Package session persists the authenticated GitHub credential between CLI
// invocations.
//
// A session stores the access token and the user it authenticated as, with
// an expiry. It lives as a JSON file under the user's config directory; the
// raw token is never logged and the file is written with owner-only
// permissions.
package session

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/relhist/relhist/pkg/github"
)

// Sentinel errors for session operations.
var (
	// ErrExpired is returned when a session has exceeded its TTL.
	ErrExpired = errors.New("session expired")
)

// DefaultTTL is the default session duration (30 days).
const DefaultTTL = 30 * 24 * time.Hour

// Session stores the credential and user for one authenticated session.
type Session struct {
	ID          string       `json:"id"`
	AccessToken string       `json:"access_token"`
	User        *github.User `json:"user"`
	ExpiresAt   time.Time    `json:"expires_at"`
	CreatedAt   time.Time    `json:"created_at"`
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// New creates a session for the given token and user.
func New(accessToken string, user *github.User, ttl time.Duration) (*Session, error) {
	id, err := generateID()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	return &Session{
		ID:          id,
		AccessToken: accessToken,
		User:        user,
		ExpiresAt:   now.Add(ttl),
		CreatedAt:   now,
	}, nil
}

// generateID creates a cryptographically secure random session ID.
func generateID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
