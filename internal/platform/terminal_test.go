package platform

import "testing"

// clearTerminalEnv blanks every fingerprint variable so detection only
// sees what the test sets afterwards.
func clearTerminalEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"TERM", "TERM_PROGRAM", "COLORTERM",
		"WARP_IS_LOCAL_SHELL_SESSION", "ITERM_SESSION_ID",
		"KITTY_WINDOW_ID", "ALACRITTY_SOCKET", "ALACRITTY_LOG",
		"VSCODE_INJECTION", "WT_SESSION", "WEZTERM_PANE",
	} {
		t.Setenv(key, "")
	}
}

func TestDetectTerminal(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		want  string
	}{
		{"warp", "TERM_PROGRAM", "WarpTerminal", "warp"},
		{"iterm2", "TERM_PROGRAM", "iTerm.app", "iterm2"},
		{"kitty", "TERM", "xterm-kitty", "kitty"},
		{"kitty window id", "KITTY_WINDOW_ID", "1", "kitty"},
		{"alacritty", "ALACRITTY_SOCKET", "/tmp/alacritty.sock", "alacritty"},
		{"vscode", "TERM_PROGRAM", "vscode", "vscode"},
		{"windows terminal", "WT_SESSION", "abc", "windows-terminal"},
		{"wezterm", "WEZTERM_PANE", "0", "wezterm"},
		{"apple terminal", "TERM_PROGRAM", "Apple_Terminal", "apple-terminal"},
		{"fallback lowercases", "TERM_PROGRAM", "Ghostty", "ghostty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearTerminalEnv(t)
			t.Setenv(tt.key, tt.value)
			if got := DetectTerminal(); got != tt.want {
				t.Errorf("DetectTerminal() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetectTerminalUnknown(t *testing.T) {
	clearTerminalEnv(t)
	if got := DetectTerminal(); got != "unknown" {
		t.Errorf("DetectTerminal() = %q, want unknown", got)
	}
}

func TestGetTerminalInfoKitty(t *testing.T) {
	clearTerminalEnv(t)
	t.Setenv("TERM", "xterm-kitty")

	info := GetTerminalInfo()
	if !info.SupportsOSC52 {
		t.Error("kitty supports OSC 52 clipboard")
	}
	if !info.SupportsTrueColor {
		t.Error("kitty supports true color")
	}
}

func TestGetTerminalInfoAppleTerminal(t *testing.T) {
	clearTerminalEnv(t)
	t.Setenv("TERM_PROGRAM", "Apple_Terminal")

	info := GetTerminalInfo()
	if info.SupportsOSC52 {
		t.Error("Terminal.app does not support OSC 52")
	}
}

func TestGetTerminalInfoColortermOverride(t *testing.T) {
	clearTerminalEnv(t)
	t.Setenv("COLORTERM", "truecolor")

	if !GetTerminalInfo().SupportsTrueColor {
		t.Error("COLORTERM=truecolor should flag true color support")
	}
}
