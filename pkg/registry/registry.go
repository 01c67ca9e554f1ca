// Package registry owns the set of repositories contributing to the unified
// timeline, pairing each repository key with its fetched releases and an
// assigned display color.
package registry

import (
	"errors"
	"slices"

	"github.com/relhist/relhist/pkg/github"
)

// ErrAlreadyAdded is returned when a repository key is already registered.
var ErrAlreadyAdded = errors.New("repository already added")

// Palette is the fixed, ordered set of display colors. The Nth repository
// added receives Palette[N mod len(Palette)].
var Palette = []string{
	"#FF6B6B", "#4ECDC4", "#45B7D1", "#96CEB4", "#FFEAA7",
	"#DDA0DD", "#98D8C8", "#F7DC6F", "#BB8FCE", "#85C1E9",
	"#F8C471", "#82E0AA", "#F1948A", "#85C1E9", "#D2B4DE",
}

// Entry pairs a repository key with its fetched releases and display color.
// Entries are owned exclusively by the registry: created on first fetch,
// replaced wholesale on re-fetch, destroyed on removal.
type Entry struct {
	Key      string           `json:"key"`
	Releases []github.Release `json:"releases"`
	Color    string           `json:"color"`
}

// Registry maps canonical "owner/name" keys to their entries, preserving
// insertion order for deterministic listing.
//
// Registry is not safe for concurrent use; the CLI mutates it from a single
// control flow only.
type Registry struct {
	entries map[string]Entry
	order   []string
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Add registers a repository under key with the color derived from
// colorIndex. Adding an existing key is a no-op and returns ErrAlreadyAdded;
// the stored entry is left untouched.
func (r *Registry) Add(key string, releases []github.Release, colorIndex int) error {
	if _, exists := r.entries[key]; exists {
		return ErrAlreadyAdded
	}
	r.entries[key] = Entry{
		Key:      key,
		Releases: releases,
		Color:    Palette[colorIndex%len(Palette)],
	}
	r.order = append(r.order, key)
	return nil
}

// Remove deletes the entry for key if present. Removing an absent key is
// a no-op.
func (r *Registry) Remove(key string) {
	if _, exists := r.entries[key]; !exists {
		return
	}
	delete(r.entries, key)
	r.order = slices.DeleteFunc(r.order, func(k string) bool { return k == key })
}

// NextColorIndex returns the color index for the next addition: the current
// registry size. After removals, later additions can therefore reuse a
// previously assigned color. This mirrors live-size assignment rather than a
// monotonic counter and is intentional, observable behavior.
func (r *Registry) NextColorIndex() int {
	return len(r.entries)
}

// Contains reports whether key is registered.
func (r *Registry) Contains(key string) bool {
	_, exists := r.entries[key]
	return exists
}

// Get returns the entry for key and whether it exists.
func (r *Registry) Get(key string) (Entry, bool) {
	e, ok := r.entries[key]
	return e, ok
}

// Len returns the number of registered repositories.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Entries returns the registered entries in insertion order.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.entries[key])
	}
	return out
}
