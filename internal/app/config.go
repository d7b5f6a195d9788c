package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config is the on-disk application configuration, read from a TOML
// file. Every field has a usable default; a missing config file is
// not an error.
type Config struct {
	// PrefsPath is the preference document location.
	PrefsPath string `toml:"prefs_path"`

	// CatalogPath points at a YAML theme catalog. Empty means the
	// built-in catalog.
	CatalogPath string `toml:"catalog_path"`

	// ScriptPath points at an optional Lua init script.
	ScriptPath string `toml:"script_path"`

	// LogPath is the log file location. Empty disables logging.
	LogPath string `toml:"log_path"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`

	// ChordWindowMS is the multi-key sequence timeout in milliseconds.
	ChordWindowMS int `toml:"chord_window_ms"`

	// ResetOnMismatch selects full-reset chord matching instead of the
	// default sliding window.
	ResetOnMismatch bool `toml:"reset_on_mismatch"`
}

// DefaultConfig returns the configuration used when no file exists.
// Paths live under the user config directory.
func DefaultConfig() Config {
	base := configDir()
	return Config{
		PrefsPath:     filepath.Join(base, "prefs.json"),
		ScriptPath:    filepath.Join(base, "init.lua"),
		LogPath:       filepath.Join(base, "lectern.log"),
		LogLevel:      "info",
		ChordWindowMS: 2000,
	}
}

// configDir returns the lectern config directory, falling back to the
// working directory when the platform dir is unavailable.
func configDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".lectern"
	}
	return filepath.Join(dir, "lectern")
}

// LoadConfig reads the config file at path, layering it over the
// defaults. A missing file yields the defaults. An empty path means
// the standard location.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = filepath.Join(configDir(), "config.toml")
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("app: reading config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("app: parsing config %s: %w", path, err)
	}
	return cfg, cfg.validate(path)
}

// validate rejects values the rest of the application cannot honor.
func (c Config) validate(path string) error {
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("app: config %s: invalid log level %q", path, c.LogLevel)
	}
	if c.ChordWindowMS < 0 {
		return fmt.Errorf("app: config %s: negative chord_window_ms", path)
	}
	return nil
}

// ChordWindow returns the configured sequence timeout as a duration.
func (c Config) ChordWindow() time.Duration {
	return time.Duration(c.ChordWindowMS) * time.Millisecond
}
