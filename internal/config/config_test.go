package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useTempHome points HOME at a fresh directory and resets the cache so
// each test sees its own config file.
func useTempHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	ClearUserConfigCache()
	t.Cleanup(ClearUserConfigCache)
	return home
}

func TestLoadDefaultsWhenNoFile(t *testing.T) {
	useTempHome(t)

	cfg, err := LoadUserConfig()
	require.NoError(t, err)
	assert.Equal(t, "screen", cfg.GetScreenCommand())
	assert.Equal(t, "dark", cfg.GetTheme())
	assert.True(t, cfg.GetConfirmKill())
	assert.True(t, cfg.GetSuggestCommand())
	assert.True(t, cfg.GetWatch())
	assert.True(t, cfg.History.GetEnabled())
	assert.Equal(t, 200, cfg.History.GetMaxEntries())
}

func TestLoadFromFile(t *testing.T) {
	home := useTempHome(t)

	dir := filepath.Join(home, ".screendeck")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	content := `screen_command = "/usr/local/bin/screen"
theme = "light"
confirm_kill = false

[history]
enabled = false
max_entries = 50
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o600))

	cfg, err := LoadUserConfig()
	require.NoError(t, err)
	assert.Equal(t, "/usr/local/bin/screen", cfg.GetScreenCommand())
	assert.Equal(t, "light", cfg.GetTheme())
	assert.False(t, cfg.GetConfirmKill())
	assert.True(t, cfg.GetSuggestCommand()) // untouched → default
	assert.False(t, cfg.History.GetEnabled())
	assert.Equal(t, 50, cfg.History.GetMaxEntries())
}

func TestLoadCaches(t *testing.T) {
	useTempHome(t)

	first, err := LoadUserConfig()
	require.NoError(t, err)
	second, err := LoadUserConfig()
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestSaveRoundTrip(t *testing.T) {
	home := useTempHome(t)

	no := false
	cfg := &UserConfig{
		ScreenCommand: "myscreen",
		Theme:         "light",
		ConfirmKill:   &no,
	}
	require.NoError(t, SaveUserConfig(cfg))

	// No temp file left behind
	_, err := os.Stat(filepath.Join(home, ".screendeck", "config.toml.tmp"))
	assert.True(t, os.IsNotExist(err))

	loaded, err := LoadUserConfig()
	require.NoError(t, err)
	assert.Equal(t, "myscreen", loaded.GetScreenCommand())
	assert.Equal(t, "light", loaded.GetTheme())
	assert.False(t, loaded.GetConfirmKill())
}

func TestLoadInvalidTOML(t *testing.T) {
	home := useTempHome(t)

	dir := filepath.Join(home, ".screendeck")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("theme = [broken"), 0o600))

	cfg, err := LoadUserConfig()
	require.Error(t, err)
	// Still usable on defaults
	require.NotNil(t, cfg)
	assert.Equal(t, "dark", cfg.GetTheme())
}

func TestGetThemeRejectsUnknown(t *testing.T) {
	cfg := &UserConfig{Theme: "solarized"}
	assert.Equal(t, "dark", cfg.GetTheme())
}

func TestResolveThemeExplicit(t *testing.T) {
	assert.Equal(t, "light", (&UserConfig{Theme: "light"}).ResolveTheme())
	assert.Equal(t, "dark", (&UserConfig{Theme: "dark"}).ResolveTheme())
}

func TestCreateExampleConfig(t *testing.T) {
	home := useTempHome(t)

	require.NoError(t, CreateExampleConfig())

	path := filepath.Join(home, ".screendeck", "config.toml")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "screen_command")

	// The example must itself be valid TOML for UserConfig
	var cfg UserConfig
	_, err = toml.Decode(string(data), &cfg)
	require.NoError(t, err)

	// Never overwrites an existing config
	require.NoError(t, os.WriteFile(path, []byte(`theme = "light"`), 0o600))
	require.NoError(t, CreateExampleConfig())
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `theme = "light"`, string(data))
}
