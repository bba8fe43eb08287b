package versions

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Record tracks what is currently installed. There is no history, the
// document is rewritten after every successful install.
type Record struct {
	FlashPlayer string            `json:"flash_player"`
	Ruffle      string            `json:"ruffle"`
	Games       map[string]string `json:"games"`
}

// Ledger persists a Record as version.json in the games directory
type Ledger struct {
	path string
}

func NewLedger(dir string) *Ledger {
	return &Ledger{path: filepath.Join(dir, "version.json")}
}

// Load reads the current record. A missing file yields an empty record, it
// never blocks a read.
func (l *Ledger) Load() (Record, error) {
	rec := Record{Games: map[string]string{}}

	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return rec, nil
		}
		return rec, fmt.Errorf("failed to read version ledger: %w", err)
	}

	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, fmt.Errorf("failed to parse version ledger: %w", err)
	}

	if rec.Games == nil {
		rec.Games = map[string]string{}
	}

	return rec, nil
}

func (l *Ledger) Save(rec Record) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("failed to create ledger directory: %w", err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize version ledger: %w", err)
	}

	if err := os.WriteFile(l.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write version ledger: %w", err)
	}

	return nil
}

// SetFlashPlayer records the installed flash player version
func (l *Ledger) SetFlashPlayer(version string) error {
	rec := l.loadOrEmpty()
	rec.FlashPlayer = version
	return l.Save(rec)
}

// SetRuffle records the installed ruffle version
func (l *Ledger) SetRuffle(version string) error {
	rec := l.loadOrEmpty()
	rec.Ruffle = version
	return l.Save(rec)
}

// SetGame records a version token for one game
func (l *Ledger) SetGame(id, token string) error {
	rec := l.loadOrEmpty()
	rec.Games[id] = token
	return l.Save(rec)
}

// loadOrEmpty mirrors Load but falls back to an empty record on a corrupt
// document, an unreadable ledger should not block recording a new install
func (l *Ledger) loadOrEmpty() Record {
	rec, err := l.Load()
	if err != nil {
		logrus.WithError(err).Warn("resetting version ledger")
		return Record{Games: map[string]string{}}
	}
	return rec
}
