// Package settings holds the two user-tunable rewrite preferences and
// persists them as a single YAML object.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// DefaultShortDisplayTarget is the file name that gets folder-style display.
const DefaultShortDisplayTarget = "README"

// Settings are the persisted rewrite preferences.
type Settings struct {
	// OptimizeWhenAliasMatchesNoteName drops an alias that is absent,
	// empty, or equal to the note name when a link is shortened.
	OptimizeWhenAliasMatchesNoteName bool `yaml:"optimize_when_alias_matches_note_name" json:"optimize_when_alias_matches_note_name"`
	// TargetFileNameForShortDisplay is shown as its parent folder name in
	// rendered previews (e.g. Projects/X/README displays as "X/").
	TargetFileNameForShortDisplay string `yaml:"target_filename_for_short_display" json:"target_filename_for_short_display"`
}

// Defaults returns the out-of-the-box settings.
func Defaults() Settings {
	return Settings{
		OptimizeWhenAliasMatchesNoteName: true,
		TargetFileNameForShortDisplay:    DefaultShortDisplayTarget,
	}
}

// Store is the shared settings object: many readers (rewrite and display
// passes), one writer (the settings API). Updates are persisted before they
// become visible to readers.
type Store struct {
	path string

	mu  sync.RWMutex
	cur Settings
}

// Load reads settings from path, falling back to defaults when the file
// does not exist yet.
func Load(path string) (*Store, error) {
	st := &Store{path: path, cur: Defaults()}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return st, nil
	}
	if err != nil {
		return nil, fmt.Errorf("settings: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &st.cur); err != nil {
		return nil, fmt.Errorf("settings: parse %s: %w", path, err)
	}
	st.cur.TargetFileNameForShortDisplay = strings.TrimSpace(st.cur.TargetFileNameForShortDisplay)
	return st, nil
}

// Get returns a copy of the current settings.
func (s *Store) Get() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// Update trims the short-display target, persists the new settings, and
// only then publishes them to readers. No other validation is applied.
func (s *Store) Update(next Settings) error {
	next.TargetFileNameForShortDisplay = strings.TrimSpace(next.TargetFileNameForShortDisplay)

	data, err := yaml.Marshal(next)
	if err != nil {
		return fmt.Errorf("settings: marshal: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("settings: mkdir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("settings: write %s: %w", s.path, err)
	}

	s.mu.Lock()
	s.cur = next
	s.mu.Unlock()
	return nil
}
