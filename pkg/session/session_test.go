package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/relhist/relhist/pkg/github"
)

func TestFileStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	sess, err := New("ghp_testtoken", &github.User{Login: "octocat"}, DefaultTTL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := store.Save(ctx, sess); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := store.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if loaded == nil {
		t.Fatal("expected stored session")
	}
	if loaded.AccessToken != "ghp_testtoken" {
		t.Errorf("token = %q", loaded.AccessToken)
	}
	if loaded.User == nil || loaded.User.Login != "octocat" {
		t.Errorf("user = %+v", loaded.User)
	}
}

func TestFileStore_MissingSession(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	sess, err := store.Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if sess != nil {
		t.Error("expected nil session when none stored")
	}
}

func TestFileStore_ExpiredSession(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	sess, _ := New("ghp_old", &github.User{Login: "octocat"}, -time.Hour)
	if err := store.Save(ctx, sess); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if _, err := store.Get(ctx); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}

	// The stale file is removed; the next read is a clean miss.
	loaded, err := store.Get(ctx)
	if err != nil || loaded != nil {
		t.Errorf("after expiry cleanup: sess=%v err=%v", loaded, err)
	}
}

func TestFileStore_Delete(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	if err := store.Delete(ctx); err != nil {
		t.Errorf("Delete with no session should be a no-op: %v", err)
	}

	sess, _ := New("ghp_tok", nil, DefaultTTL)
	_ = store.Save(ctx, sess)
	if err := store.Delete(ctx); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if loaded, _ := store.Get(ctx); loaded != nil {
		t.Error("session should be gone after delete")
	}
}

func TestSessionIDsAreUnique(t *testing.T) {
	a, err := New("tok", nil, DefaultTTL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	b, _ := New("tok", nil, DefaultTTL)
	if a.ID == b.ID {
		t.Error("session IDs should be unique")
	}
	if a.ID == "" {
		t.Error("session ID should not be empty")
	}
}
