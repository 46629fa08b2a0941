// Package config loads and saves screendeck's user configuration from
// ~/.screendeck/config.toml.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"

	dark "github.com/thiagokokada/dark-mode-go"
)

// UserConfigFileName is the TOML config file for user preferences
const UserConfigFileName = "config.toml"

// UserConfig represents user-facing configuration in TOML format
type UserConfig struct {
	// ScreenCommand is the screen binary to invoke (name or absolute
	// path, no arguments). Default: "screen"
	ScreenCommand string `toml:"screen_command"`

	// Theme sets the color scheme: "dark" (default), "light", or "system"
	Theme string `toml:"theme"`

	// ConfirmKill asks before terminating a session (default: true)
	ConfirmKill *bool `toml:"confirm_kill"`

	// SuggestCommand pre-fills the new-session dialog with the first
	// executable file found in the working directory (default: true)
	SuggestCommand *bool `toml:"suggest_command"`

	// Watch refreshes the dashboard when screen's socket directory
	// changes (default: true)
	Watch *bool `toml:"watch"`

	// Log defines debug log settings
	Log LogSettings `toml:"log"`

	// History defines launched-command history settings
	History HistorySettings `toml:"history"`
}

// LogSettings controls the debug log under ~/.screendeck.
type LogSettings struct {
	// Level is the minimum level: "debug", "info" (default), "warn", "error"
	Level string `toml:"level"`

	// Format is "json" (default) or "text"
	Format string `toml:"format"`

	// MaxSizeMB is the max log size in MB before rotation (default: 10)
	MaxSizeMB int `toml:"max_size_mb"`

	// MaxBackups is rotated files to keep (default: 5)
	MaxBackups int `toml:"max_backups"`

	// MaxAgeDays is days to keep rotated files (default: 10)
	MaxAgeDays int `toml:"max_age_days"`
}

// HistorySettings controls the sqlite store of commands launched through
// the new-session dialog.
type HistorySettings struct {
	// Enabled records launched commands for later suggestion (default: true)
	Enabled *bool `toml:"enabled"`

	// MaxEntries caps how many distinct commands are kept (default: 200)
	MaxEntries int `toml:"max_entries"`
}

// enabled reports a tri-state bool setting, treating nil (unset) as true.
func enabled(v *bool) bool {
	return v == nil || *v
}

// GetConfirmKill returns whether kills need confirmation (default true).
func (c *UserConfig) GetConfirmKill() bool {
	return enabled(c.ConfirmKill)
}

// GetSuggestCommand returns whether to scan the working directory for a
// default command (default true).
func (c *UserConfig) GetSuggestCommand() bool {
	return enabled(c.SuggestCommand)
}

// GetWatch returns whether the socket-directory watcher runs (default true).
func (c *UserConfig) GetWatch() bool {
	return enabled(c.Watch)
}

// GetScreenCommand returns the configured screen binary (default "screen").
func (c *UserConfig) GetScreenCommand() string {
	if c.ScreenCommand == "" {
		return "screen"
	}
	return c.ScreenCommand
}

// GetTheme returns the configured theme, defaulting to "dark".
func (c *UserConfig) GetTheme() string {
	switch c.Theme {
	case "dark", "light", "system":
		return c.Theme
	}
	return "dark"
}

// ResolveTheme resolves the configured theme to "dark" or "light".
// "system" asks the OS; detection failures fall back to dark.
func (c *UserConfig) ResolveTheme() string {
	theme := c.GetTheme()
	if theme != "system" {
		return theme
	}
	if isDark, err := dark.IsDarkMode(); err == nil && !isDark {
		return "light"
	}
	return "dark"
}

// GetEnabled returns whether command history is recorded (default true).
func (h *HistorySettings) GetEnabled() bool {
	return enabled(h.Enabled)
}

// GetMaxEntries returns the history cap (default 200).
func (h *HistorySettings) GetMaxEntries() int {
	if h.MaxEntries <= 0 {
		return 200
	}
	return h.MaxEntries
}

var defaultUserConfig UserConfig

// cache holds the process-wide config; LoadUserConfig parses the file at
// most once until ClearUserConfigCache.
var cache struct {
	mu  sync.Mutex
	cfg *UserConfig
}

// GetScreendeckDir returns ~/.screendeck, where config, logs and the
// history database live.
func GetScreendeckDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".screendeck"), nil
}

// GetUserConfigPath returns the path to the user config file
func GetUserConfigPath() (string, error) {
	dir, err := GetScreendeckDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, UserConfigFileName), nil
}

// LoadUserConfig returns the user configuration, parsing config.toml on
// the first call and the cached value afterwards. A missing file means
// defaults; a broken file means defaults plus a one-time error.
func LoadUserConfig() (*UserConfig, error) {
	cache.mu.Lock()
	defer cache.mu.Unlock()

	if cache.cfg != nil {
		return cache.cfg, nil
	}
	cfg, err := readConfigFile()
	cache.cfg = cfg
	return cfg, err
}

// readConfigFile parses config.toml. The defaults are returned even on a
// parse error so the caller can report it once and keep running; caching
// them also stops a broken file from being re-parsed on every call.
func readConfigFile() (*UserConfig, error) {
	path, err := GetUserConfigPath()
	if err != nil {
		return &defaultUserConfig, nil
	}

	var cfg UserConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return &defaultUserConfig, nil
		}
		return &defaultUserConfig, fmt.Errorf("config.toml parse error: %w", err)
	}
	return &cfg, nil
}

// ClearUserConfigCache clears the cached user config, allowing tests to
// reset state. The next LoadUserConfig() reads fresh from disk.
func ClearUserConfigCache() {
	cache.mu.Lock()
	cache.cfg = nil
	cache.mu.Unlock()
}

// SaveUserConfig writes the config atomically and clears the cache so
// the next LoadUserConfig() sees the new values.
func SaveUserConfig(config *UserConfig) error {
	path, err := GetUserConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("# screendeck configuration\n")
	buf.WriteString("# Edit this file or run `screendeck config --create-example`\n\n")
	if err := toml.NewEncoder(&buf).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := writeAtomic(path, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	ClearUserConfigCache()
	return nil
}

// writeAtomic lands data at path via a synced temp file and rename, so a
// crash mid-save can't leave a torn config behind.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".config-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// CreateExampleConfig writes a fully commented example config if none
// exists yet. Existing configs are never overwritten.
func CreateExampleConfig() error {
	configPath, err := GetUserConfigPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	exampleConfig := `# screendeck user configuration
# This file is loaded on startup.

# Screen binary to invoke (name on PATH or absolute path, no arguments)
# screen_command = "screen"

# Color scheme: "dark" (default), "light", or "system" (follow the OS)
# theme = "dark"

# Ask before terminating a session (default: true)
# confirm_kill = true

# Pre-fill the new-session dialog with the first executable file found
# in the working directory (default: true)
# suggest_command = true

# Refresh the session list when screen's socket directory changes
# (default: true; has no effect when the directory can't be located)
# watch = true

# Debug log settings. Logs go to ~/.screendeck/debug.log, but only when
# SCREENDECK_DEBUG=1 is set or a level is configured here.
[log]
# Minimum level: "debug", "info" (default), "warn", "error"
# level = "info"
# Output format: "json" (default) or "text"
# format = "json"
# Rotation: max size in MB, rotated files to keep, days to keep them
# max_size_mb = 10
# max_backups = 5
# max_age_days = 10

# History of commands launched through the new-session dialog,
# offered as suggestions the next time around.
[history]
# enabled = true
# Cap on distinct remembered commands (default: 200)
# max_entries = 200
`

	if err := os.MkdirAll(filepath.Dir(configPath), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(configPath, []byte(exampleConfig), 0o600); err != nil {
		return fmt.Errorf("failed to write example config: %w", err)
	}
	return nil
}
