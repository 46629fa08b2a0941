package screen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSocketDirEnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SCREENDIR", dir)
	assert.Equal(t, dir, SocketDir())
}

func TestSocketDirEnvOverrideMissing(t *testing.T) {
	// An explicit SCREENDIR that doesn't exist disables the lookup
	// entirely; guessing another location would watch the wrong dir.
	t.Setenv("SCREENDIR", "/nonexistent/screendir")
	assert.Equal(t, "", SocketDir())
}

func TestSocketDirEnvOverrideFile(t *testing.T) {
	// SCREENDIR pointing at a regular file is as good as absent.
	path := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	t.Setenv("SCREENDIR", path)
	assert.Equal(t, "", SocketDir())
}
