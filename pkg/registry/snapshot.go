package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// snapshot is the on-disk form of a registry. Entries carry their assigned
// colors so reloading preserves visual identity across invocations.
type snapshot struct {
	Entries []Entry `json:"entries"`
}

// SaveFile writes the registry to path as JSON, creating parent directories
// as needed.
func (r *Registry) SaveFile(path string) error {
	data, err := json.MarshalIndent(snapshot{Entries: r.Entries()}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// LoadFile reads a registry previously written with SaveFile. A missing file
// yields an empty registry, not an error.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read registry state: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode registry state: %w", err)
	}

	r := New()
	for _, e := range snap.Entries {
		r.entries[e.Key] = e
		r.order = append(r.order, e.Key)
	}
	return r, nil
}
