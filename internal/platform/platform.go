// Package platform detects the host environment. screen's socket
// directory can sit on filesystems where inotify never fires (WSL2's 9p
// mounts, network shares), and the watcher needs to know before it
// promises auto-refresh.
package platform

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Platform represents the detected platform
type Platform string

const (
	PlatformMacOS   Platform = "macos"
	PlatformLinux   Platform = "linux"
	PlatformWSL1    Platform = "wsl1"
	PlatformWSL2    Platform = "wsl2"
	PlatformWindows Platform = "windows"
	PlatformUnknown Platform = "unknown"
)

// Detection runs once; tests reset these to force a re-probe.
var (
	current Platform
	known   bool
)

// Detect returns the host platform, probing on first call.
func Detect() Platform {
	if !known {
		current, known = classify(), true
	}
	return current
}

func classify() Platform {
	switch runtime.GOOS {
	case "darwin":
		return PlatformMacOS
	case "windows":
		return PlatformWindows
	case "linux":
	default:
		return PlatformUnknown
	}

	// Linux kernel, but possibly inside WSL. WSL_DISTRO_NAME is the
	// cheap tell; the kernel version string is the fallback.
	version, _ := os.ReadFile("/proc/version")
	if os.Getenv("WSL_DISTRO_NAME") == "" &&
		!strings.Contains(strings.ToLower(string(version)), "microsoft") {
		return PlatformLinux
	}
	return wslVersion(string(version))
}

// wslVersion tells WSL1 from WSL2. WSL2 kernels report
// "microsoft-standard"; WSL1 reports "Microsoft" alone. When the kernel
// string is inconclusive, WSL2's VM artifacts decide.
func wslVersion(version string) Platform {
	if strings.Contains(version, "microsoft-standard") {
		return PlatformWSL2
	}
	if strings.Contains(version, "Microsoft") {
		return PlatformWSL1
	}
	for _, probe := range []string{"/run/WSL", "/dev/vsock"} {
		if _, err := os.Stat(probe); err == nil {
			return PlatformWSL2
		}
	}
	// WSL1 is the safer assumption; it has the tighter limits.
	return PlatformWSL1
}

// IsWSL returns true if running in any WSL environment
func IsWSL() bool {
	p := Detect()
	return p == PlatformWSL1 || p == PlatformWSL2
}

var platformNames = map[Platform]string{
	PlatformMacOS:   "macOS",
	PlatformLinux:   "Linux",
	PlatformWSL1:    "WSL1",
	PlatformWSL2:    "WSL2",
	PlatformWindows: "Windows",
}

// String returns a human-readable platform name
func (p Platform) String() string {
	if name, ok := platformNames[p]; ok {
		return name
	}
	return "Unknown"
}

// CheckFsnotifySupport reports whether a path's filesystem delivers
// inotify events reliably. Returns a warning to show the user when the
// path sits on a problematic mount (9p, nfs, cifs, sshfs), or "" when
// watching should work. The watcher shows the warning instead of
// silently never firing.
func CheckFsnotifySupport(path string) string {
	// Only Linux mounts filesystems that swallow inotify; WSL2 reaches
	// Windows drives over 9p.
	if runtime.GOOS != "linux" {
		return ""
	}

	switch fs := fsTypeAt(path); {
	case fs == "9p":
		return "screen socket dir on 9p mount (WSL2 Windows filesystem): auto-refresh disabled. Use r to refresh."
	case fs == "nfs" || fs == "nfs4":
		return "screen socket dir on NFS mount: auto-refresh may be unreliable. Use r to refresh."
	case fs == "cifs" || fs == "smbfs":
		return "screen socket dir on CIFS/SMB mount: auto-refresh may be unreliable. Use r to refresh."
	case strings.HasPrefix(fs, "fuse.sshfs"):
		return "screen socket dir on SSHFS mount: auto-refresh disabled. Use r to refresh."
	}
	return ""
}

// fsTypeAt resolves a path's filesystem type via the longest /proc/mounts
// mountpoint that prefixes it. Empty when mounts cannot be read.
func fsTypeAt(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return ""
	}
	data, err := os.ReadFile("/proc/mounts")
	if err != nil {
		return ""
	}

	var best, fsType string
	for line := range strings.Lines(string(data)) {
		// device mountpoint fstype options ...
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		if strings.HasPrefix(abs, fields[1]) && len(fields[1]) > len(best) {
			best, fsType = fields[1], fields[2]
		}
	}
	return fsType
}
