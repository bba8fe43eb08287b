package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Settings is the small user-editable document: custom runtime locations and
// the choice of player. Empty path fields mean "use the default install".
type Settings struct {
	FlashPlayerPath string `json:"flash_player_path,omitempty"`
	RufflePath      string `json:"ruffle_path,omitempty"`
	UseRuffle       bool   `json:"use_ruffle,omitempty"`
	SoundEnabled    bool   `json:"sound_enabled,omitempty"`
}

// Store owns the single shared Settings value for the process. Readers take
// a Snapshot and work from the copy; the lock is only ever held for the
// read-or-replace instant, never across network or disk activity.
type Store struct {
	mu   sync.Mutex
	path string
	cur  Settings
}

// Open reads the settings document at path. A missing file yields defaults.
func Open(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	if err := json.Unmarshal(data, &s.cur); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}

	return s, nil
}

// Snapshot returns a copy of the current settings
func (s *Store) Snapshot() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}

// Replace swaps in new settings and persists them. Last write wins.
func (s *Store) Replace(next Settings) error {
	s.mu.Lock()
	s.cur = next
	s.mu.Unlock()

	return s.save(next)
}

func (s *Store) save(v Settings) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize settings: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}

	return nil
}
