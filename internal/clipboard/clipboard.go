// Package clipboard puts command output on the system clipboard.
// A native tool is preferred; terminals without one get the OSC 52
// escape sequence, forwarded through screen when the dashboard itself
// runs inside a session.
package clipboard

import (
	"encoding/base64"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/asheshgoplani/screendeck/internal/platform"
)

// CopyResult describes how a copy was performed.
type CopyResult struct {
	Method    string // tool or mechanism used ("pbcopy", "xclip", "osc52")
	ByteSize  int
	LineCount int
}

// tool is one native clipboard command candidate.
type tool struct {
	name string
	args []string
	when func() bool // extra gate besides the PATH lookup
}

// candidates returns the native tools worth trying on this platform, in
// preference order.
func candidates() []tool {
	switch platform.Detect() {
	case platform.PlatformMacOS:
		return []tool{{name: "pbcopy"}}
	case platform.PlatformWSL1, platform.PlatformWSL2:
		return []tool{{name: "clip.exe"}}
	case platform.PlatformLinux:
		return []tool{
			{name: "wl-copy", when: func() bool { return os.Getenv("WAYLAND_DISPLAY") != "" }},
			{name: "xclip", args: []string{"-selection", "clipboard"}},
			{name: "xsel", args: []string{"--clipboard", "--input"}},
		}
	default:
		return nil
	}
}

// Copy places text on the clipboard. supportsOSC52 comes from
// platform.GetTerminalInfo and gates the escape-sequence fallback.
func Copy(text string, supportsOSC52 bool) (*CopyResult, error) {
	if text == "" {
		return nil, fmt.Errorf("no content to copy")
	}

	result := &CopyResult{ByteSize: len(text), LineCount: countLines(text)}

	for _, c := range candidates() {
		if c.when != nil && !c.when() {
			continue
		}
		path, err := exec.LookPath(c.name)
		if err != nil {
			continue
		}
		if pipeTo(path, c.args, text) == nil {
			result.Method = c.name
			return result, nil
		}
		// A present-but-broken tool (headless X, stale WSL interop) is
		// not fatal; the escape sequence may still reach the terminal.
	}

	if supportsOSC52 {
		if err := writeOSC52(text); err != nil {
			return nil, fmt.Errorf("OSC 52 clipboard failed: %w", err)
		}
		result.Method = "osc52"
		return result, nil
	}

	return nil, fmt.Errorf("no clipboard method available (install pbcopy, xclip, xsel, or wl-copy)")
}

// pipeTo feeds text to a clipboard command on stdin.
func pipeTo(path string, args []string, text string) error {
	cmd := exec.Command(path, args...)
	cmd.Stdin = strings.NewReader(text)
	return cmd.Run()
}

// writeOSC52 asks the terminal itself to set the clipboard. The sequence
// goes to /dev/tty so it cannot end up in a redirected stdout.
func writeOSC52(text string) error {
	seq := osc52(text)
	if os.Getenv("STY") != "" {
		seq = screenPassthrough(seq)
	}

	tty, err := os.OpenFile("/dev/tty", os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("cannot open /dev/tty: %w", err)
	}
	defer tty.Close()

	_, err = tty.WriteString(seq)
	return err
}

// osc52 builds the clipboard escape sequence.
func osc52(text string) string {
	return "\x1b]52;c;" + base64.StdEncoding.EncodeToString([]byte(text)) + "\x07"
}

// screenPassthrough wraps a sequence so screen forwards it to the outer
// terminal instead of swallowing it. screen truncates long DCS payloads,
// so the sequence travels in 76-byte pieces, each in its own envelope;
// the outer terminal reassembles the byte stream.
func screenPassthrough(seq string) string {
	var b strings.Builder
	for len(seq) > 0 {
		n := min(76, len(seq))
		b.WriteString("\x1bP")
		b.WriteString(seq[:n])
		b.WriteString("\x1b\\")
		seq = seq[n:]
	}
	return b.String()
}

// countLines counts lines the way a user would: a trailing newline does
// not add one.
func countLines(text string) int {
	if text == "" {
		return 0
	}
	n := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		n++
	}
	return n
}
