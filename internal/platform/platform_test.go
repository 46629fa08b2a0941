package platform

import (
	"runtime"
	"testing"
)

// forcePlatform overrides detection for a test and restores a clean
// probe afterwards.
func forcePlatform(t *testing.T, p Platform) {
	t.Helper()
	current, known = p, true
	t.Cleanup(func() { current, known = "", false })
}

func TestDetectCaches(t *testing.T) {
	current, known = "", false
	t.Cleanup(func() { current, known = "", false })

	first := Detect()
	if first == "" {
		t.Fatal("Detect returned empty platform")
	}
	if !known {
		t.Error("Detect should remember its result")
	}

	// A second call returns the cached value even when the cache is
	// poisoned, proving no re-probe happens.
	current = PlatformUnknown
	if got := Detect(); got != PlatformUnknown {
		t.Errorf("Detect re-probed: got %v", got)
	}
}

func TestDetectMatchesGOOS(t *testing.T) {
	current, known = "", false
	t.Cleanup(func() { current, known = "", false })

	got := Detect()
	switch runtime.GOOS {
	case "darwin":
		if got != PlatformMacOS {
			t.Errorf("Detect = %v on darwin, want %v", got, PlatformMacOS)
		}
	case "windows":
		if got != PlatformWindows {
			t.Errorf("Detect = %v on windows, want %v", got, PlatformWindows)
		}
	case "linux":
		if got != PlatformLinux && got != PlatformWSL1 && got != PlatformWSL2 {
			t.Errorf("Detect = %v on linux, want a Linux or WSL platform", got)
		}
	}
}

func TestPlatformString(t *testing.T) {
	tests := []struct {
		p    Platform
		want string
	}{
		{PlatformMacOS, "macOS"},
		{PlatformLinux, "Linux"},
		{PlatformWSL1, "WSL1"},
		{PlatformWSL2, "WSL2"},
		{PlatformWindows, "Windows"},
		{PlatformUnknown, "Unknown"},
		{Platform("bogus"), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.p.String(); got != tt.want {
			t.Errorf("%v.String() = %q, want %q", tt.p, got, tt.want)
		}
	}
}

func TestIsWSL(t *testing.T) {
	tests := []struct {
		p    Platform
		want bool
	}{
		{PlatformWSL1, true},
		{PlatformWSL2, true},
		{PlatformLinux, false},
		{PlatformMacOS, false},
		{PlatformWindows, false},
	}
	for _, tt := range tests {
		forcePlatform(t, tt.p)
		if got := IsWSL(); got != tt.want {
			t.Errorf("IsWSL() on %v = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestWSLVersionFromKernelString(t *testing.T) {
	tests := []struct {
		version string
		want    Platform
	}{
		{"Linux version 5.15.90.1-microsoft-standard-WSL2", PlatformWSL2},
		{"Linux version 4.4.0-19041-Microsoft", PlatformWSL1},
	}
	for _, tt := range tests {
		if got := wslVersion(tt.version); got != tt.want {
			t.Errorf("wslVersion(%q) = %v, want %v", tt.version, got, tt.want)
		}
	}
}

func TestCheckFsnotifySupportNonLinux(t *testing.T) {
	if runtime.GOOS == "linux" {
		t.Skip("only meaningful off Linux")
	}
	if got := CheckFsnotifySupport("/anywhere"); got != "" {
		t.Errorf("CheckFsnotifySupport = %q off Linux, want empty", got)
	}
}

func TestCheckFsnotifySupportLocalDir(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("requires /proc/mounts")
	}
	if got := CheckFsnotifySupport(t.TempDir()); got != "" {
		t.Errorf("local dir should not warn, got %q", got)
	}
}

func TestFsTypeAtFindsAMount(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("requires /proc/mounts")
	}
	if fs := fsTypeAt(t.TempDir()); fs == "" {
		t.Error("every path should resolve to some mounted filesystem")
	}
}
