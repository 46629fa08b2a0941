package platform

import (
	"os"
	"strings"
)

// TerminalInfo describes what the hosting terminal emulator can do.
// Capabilities are inferred from environment variables, not queried.
type TerminalInfo struct {
	Name              string // warp, iterm2, kitty, alacritty, ...
	SupportsOSC52     bool   // OSC 52 clipboard writes
	SupportsTrueColor bool   // 24-bit color
}

// DetectTerminal identifies the terminal emulator from its environment
// fingerprint. Returns "unknown" when nothing matches.
func DetectTerminal() string {
	if os.Getenv("TERM_PROGRAM") == "WarpTerminal" || os.Getenv("WARP_IS_LOCAL_SHELL_SESSION") != "" {
		return "warp"
	}
	if os.Getenv("TERM_PROGRAM") == "iTerm.app" || os.Getenv("ITERM_SESSION_ID") != "" {
		return "iterm2"
	}
	if os.Getenv("TERM") == "xterm-kitty" || os.Getenv("KITTY_WINDOW_ID") != "" {
		return "kitty"
	}
	if os.Getenv("ALACRITTY_SOCKET") != "" || os.Getenv("ALACRITTY_LOG") != "" {
		return "alacritty"
	}
	if os.Getenv("TERM_PROGRAM") == "vscode" || os.Getenv("VSCODE_INJECTION") != "" {
		return "vscode"
	}
	if os.Getenv("WT_SESSION") != "" {
		return "windows-terminal"
	}
	if os.Getenv("TERM_PROGRAM") == "WezTerm" || os.Getenv("WEZTERM_PANE") != "" {
		return "wezterm"
	}
	if os.Getenv("TERM_PROGRAM") == "Apple_Terminal" {
		return "apple-terminal"
	}
	if termProgram := os.Getenv("TERM_PROGRAM"); termProgram != "" {
		return strings.ToLower(termProgram)
	}
	return "unknown"
}

// GetTerminalInfo returns the detected terminal and its capabilities.
func GetTerminalInfo() TerminalInfo {
	terminal := DetectTerminal()

	info := TerminalInfo{Name: terminal}

	if colorterm := os.Getenv("COLORTERM"); colorterm == "truecolor" || colorterm == "24bit" {
		info.SupportsTrueColor = true
	}

	switch terminal {
	case "warp", "iterm2", "kitty", "alacritty", "wezterm", "windows-terminal", "vscode":
		info.SupportsOSC52 = true
		info.SupportsTrueColor = true

	case "apple-terminal":
		// Terminal.app never implemented OSC 52.
		info.SupportsOSC52 = false

	default:
		// Most modern emulators handle OSC 52; assume yes and let the
		// native clipboard tools win first anyway.
		info.SupportsOSC52 = true
	}

	return info
}
