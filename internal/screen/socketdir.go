package screen

import (
	"os"
	"os/user"
	"path/filepath"
)

// SocketDir locates the directory where screen keeps its session sockets,
// or "" when none exists. A socket appears there per session and vanishes
// on exit, which is what makes the directory worth watching for refresh.
// Lookup order follows screen's own: $SCREENDIR first, then the usual
// distro run dirs, then the legacy ~/.screen fallback.
func SocketDir() string {
	if dir := os.Getenv("SCREENDIR"); dir != "" {
		if isDir(dir) {
			return dir
		}
		// Explicitly configured but absent: don't guess elsewhere.
		return ""
	}

	username := os.Getenv("USER")
	if username == "" {
		username = os.Getenv("LOGNAME")
	}
	if username == "" {
		if u, err := user.Current(); err == nil {
			username = u.Username
		}
	}

	if username != "" {
		candidates := []string{
			filepath.Join("/run/screen", "S-"+username),
			filepath.Join("/var/run/screen", "S-"+username),
			filepath.Join("/tmp/screens", "S-"+username),
			filepath.Join("/tmp/uscreens", "S-"+username),
		}
		for _, dir := range candidates {
			if isDir(dir) {
				return dir
			}
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		if dir := filepath.Join(home, ".screen"); isDir(dir) {
			return dir
		}
	}
	return ""
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
