package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const sessionFile = "session.json"

// FileStore persists a single CLI session as a JSON file in a config
// directory.
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

// NewFileStore creates a file-based session store rooted at baseDir.
// If baseDir is empty, it defaults to ~/.config/relhist/.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "relhist")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	return &FileStore{dir: baseDir}, nil
}

// Get loads the stored session. Returns nil, nil when no session exists and
// nil, ErrExpired when one exists but has expired (the stale file is removed).
func (s *FileStore) Get(ctx context.Context) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if sess.IsExpired() {
		_ = os.Remove(s.path())
		return nil, ErrExpired
	}
	return &sess, nil
}

// Save writes the session to disk with owner-only permissions.
func (s *FileStore) Save(ctx context.Context, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return os.WriteFile(s.path(), data, 0600)
}

// Delete removes the stored session. Deleting an absent session is a no-op.
func (s *FileStore) Delete(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path())
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Dir returns the store's base directory.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path() string {
	return filepath.Join(s.dir, sessionFile)
}
