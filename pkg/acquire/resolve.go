package acquire

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FlashPath resolves the flash player location. A custom path from settings
// wins only when it actually exists on disk; a stale override falls through
// to the managed default.
func (c *Coordinator) FlashPath() string {
	snap := c.Store.Snapshot()
	if snap.FlashPlayerPath != "" && fileExists(snap.FlashPlayerPath) {
		return snap.FlashPlayerPath
	}

	return filepath.Join(c.Config.FlashPath(), c.Config.FlashSpec(c.Platform).Filename)
}

// RufflePath resolves the emulator location with the same precedence as
// FlashPath
func (c *Coordinator) RufflePath() string {
	snap := c.Store.Snapshot()
	if snap.RufflePath != "" && fileExists(snap.RufflePath) {
		return snap.RufflePath
	}

	return filepath.Join(c.Config.RufflePath(), c.Config.RuffleSpec(c.Platform).Filename)
}

func (c *Coordinator) FlashInstalled() bool {
	return fileExists(c.FlashPath())
}

func (c *Coordinator) RuffleInstalled() bool {
	return fileExists(c.RufflePath())
}

// GamePath finds a downloaded game: the standard <id>.swf first, then the
// most recently modified versioned copy (<id>-v*.swf).
func (c *Coordinator) GamePath(id string) (string, bool) {
	gamesDir := c.Config.GamesPath()

	standard := filepath.Join(gamesDir, id+".swf")
	if fileExists(standard) {
		return standard, true
	}

	entries, err := os.ReadDir(gamesDir)
	if err != nil {
		return "", false
	}

	prefix := id + "-v"

	var newest string
	var newestTime time.Time
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".swf") {
			continue
		}

		info, err := e.Info()
		if err != nil {
			continue
		}

		if newest == "" || info.ModTime().After(newestTime) {
			newest = filepath.Join(gamesDir, name)
			newestTime = info.ModTime()
		}
	}

	return newest, newest != ""
}

func (c *Coordinator) GameInstalled(id string) bool {
	_, ok := c.GamePath(id)
	return ok
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
