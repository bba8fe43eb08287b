package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pelletier/go-toml/v2"

	"github.com/flipyap/ptdl/pkg/common"
	"github.com/flipyap/ptdl/pkg/osconfig"
)

// ErrNotConfigured is returned when a requested game id is not part of the
// loaded catalog
var ErrNotConfigured = errors.New("not configured")

// AssetSpec describes where a downloadable artifact lives for one OS. An
// empty FallbackURL means a primary failure is terminal for that artifact.
type AssetSpec struct {
	PrimaryURL  string `yaml:"primary_url" toml:"primary_url"`
	FallbackURL string `yaml:"fallback_url,omitempty" toml:"fallback_url,omitempty"`
	Filename    string `yaml:"filename" toml:"filename"`
}

// FlashConfig is the per-OS download configuration for the standalone flash
// player plus the version string recorded when it is installed.
type FlashConfig struct {
	FallbackVersion string    `yaml:"fallback_version" toml:"fallback_version"`
	Windows         AssetSpec `yaml:"windows" toml:"windows"`
	Darwin          AssetSpec `yaml:"macos" toml:"macos"`
	Linux           AssetSpec `yaml:"linux" toml:"linux"`
}

// RuffleConfig holds the static per-OS fallback locations used when nightly
// discovery is unavailable.
type RuffleConfig struct {
	Windows AssetSpec `yaml:"windows" toml:"windows"`
	Darwin  AssetSpec `yaml:"macos" toml:"macos"`
	Linux   AssetSpec `yaml:"linux" toml:"linux"`
}

type Config struct {
	// DataPath - where runtimes and games are installed. Set by default
	// based on the operating system type and the user's home directory.
	DataPath string `yaml:"data_path" toml:"data_path"`

	Flash  FlashConfig       `yaml:"flash_player" toml:"flash_player"`
	Ruffle RuffleConfig      `yaml:"ruffle" toml:"ruffle"`
	Games  map[string]string `yaml:"games" toml:"games"`
}

// FlashSpec returns the flash player download location for the platform
func (c *Config) FlashSpec(p *osconfig.Platform) AssetSpec {
	switch p.Name {
	case osconfig.Windows:
		return c.Flash.Windows
	case osconfig.Darwin:
		return c.Flash.Darwin
	default:
		return c.Flash.Linux
	}
}

// RuffleSpec returns the static ruffle fallback location for the platform
func (c *Config) RuffleSpec(p *osconfig.Platform) AssetSpec {
	switch p.Name {
	case osconfig.Windows:
		return c.Ruffle.Windows
	case osconfig.Darwin:
		return c.Ruffle.Darwin
	default:
		return c.Ruffle.Linux
	}
}

// GameURL looks a game id up in the catalog
func (c *Config) GameURL(id string) (string, error) {
	u, ok := c.Games[id]
	if !ok {
		return "", fmt.Errorf("game %q: %w", id, ErrNotConfigured)
	}
	return u, nil
}

func (c *Config) GamesPath() string {
	return filepath.Join(c.DataPath, "Games")
}

func (c *Config) FlashPath() string {
	return filepath.Join(c.DataPath, "Flash")
}

func (c *Config) RufflePath() string {
	return filepath.Join(c.DataPath, "Ruffle")
}

// MetadataPath holds API response caches
func (c *Config) MetadataPath() string {
	return filepath.Join(c.DataPath, "metadata")
}

// SettingsPath is where the user settings document lives
func (c *Config) SettingsPath() string {
	return filepath.Join(c.FlashPath(), "settings.json")
}

func (c *Config) MkdirAll() error {
	paths := []string{c.GamesPath(), c.FlashPath(), c.RufflePath(), c.MetadataPath()}

	for _, path := range paths {
		err := os.MkdirAll(path, 0755)
		if err != nil {
			return err
		}
	}

	return nil
}

// Load - load the configuration file over the defaults
func (c *Config) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		return yaml.Unmarshal(data, c)
	} else if strings.HasSuffix(path, ".toml") {
		return toml.Unmarshal(data, c)
	}

	return fmt.Errorf("unknown configuration file suffix")
}

// New - create a configuration object from the built-in defaults plus an
// optional configuration file
func New(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.Load(path); err != nil {
			return cfg, err
		}
	}

	if cfg.DataPath == "" {
		dataPath, err := defaultDataPath()
		if err != nil {
			return cfg, err
		}
		cfg.DataPath = dataPath
	}

	if cfg.Games == nil {
		cfg.Games = map[string]string{}
	}

	return cfg, nil
}

// defaultDataPath follows each OS's convention for per-user application
// data rather than os.UserConfigDir, which points at ~/.config on linux
func defaultDataPath() (string, error) {
	if runtime.GOOS == "windows" {
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", errors.New("APPDATA is not set")
		}
		return filepath.Join(appData, common.DisplayName), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	if runtime.GOOS == "darwin" {
		return filepath.Join(homeDir, "Library", "Application Support", common.DisplayName), nil
	}

	return filepath.Join(homeDir, ".local", "share", common.DisplayName), nil
}
