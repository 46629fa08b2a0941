package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HelpOverlay shows keyboard shortcuts in a modal
type HelpOverlay struct {
	visible      bool
	width        int
	height       int
	scrollOffset int // scroll position when the terminal is short
}

type helpSection struct {
	title string
	keys  [][2]string // key, description
}

var helpSections = []helpSection{
	{"NAVIGATION", [][2]string{
		{"j / Down", "Move down"},
		{"k / Up", "Move up"},
		{"Ctrl+u/d", "Half page up/down"},
		{"gg / G", "Jump to top/bottom"},
		{"Enter", "Attach to session"},
	}},
	{"SESSIONS", [][2]string{
		{"n", "New session"},
		{"d", "Kill session (asks first)"},
		{"K", "Kill session immediately"},
		{"r", "Refresh listing"},
		{"w", "Wipe dead sockets"},
	}},
	{"OUTPUT", [][2]string{
		{"v", "Toggle command output view"},
		{"c", "Copy output to clipboard"},
	}},
	{"FILTER", [][2]string{
		{"/", "Fuzzy filter sessions"},
		{"Esc", "Clear filter"},
	}},
	{"OTHER", [][2]string{
		{"t", "Toggle dark/light theme"},
		{"Ctrl+Q", "Detach (while attached)"},
		{"q", "Quit"},
		{"?", "This help"},
	}},
}

// NewHelpOverlay creates a new help overlay
func NewHelpOverlay() *HelpOverlay {
	return &HelpOverlay{}
}

// Show makes the help overlay visible
func (h *HelpOverlay) Show() {
	h.visible = true
	h.scrollOffset = 0
}

// Hide hides the help overlay
func (h *HelpOverlay) Hide() {
	h.visible = false
}

// IsVisible returns whether the help overlay is visible
func (h *HelpOverlay) IsVisible() bool {
	return h.visible
}

// SetSize sets the dimensions for centering
func (h *HelpOverlay) SetSize(width, height int) {
	h.width = width
	h.height = height
}

// Update handles keys while the overlay is open. Scroll keys move the
// window; anything else closes it.
func (h *HelpOverlay) Update(msg tea.Msg) (*HelpOverlay, tea.Cmd) {
	if !h.visible {
		return h, nil
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return h, nil
	}

	switch key.String() {
	case "j", "down":
		h.scrollOffset++
	case "k", "up":
		h.scrollOffset = max(0, h.scrollOffset-1)
	case "ctrl+d", "pgdown":
		h.scrollOffset += 10
	case "ctrl+u", "pgup":
		h.scrollOffset = max(0, h.scrollOffset-10)
	case "g":
		h.scrollOffset = 0
	case "G":
		h.scrollOffset = 1 << 20 // clamped in View
	default:
		h.Hide()
	}
	return h, nil
}

// window computes the visible line range for the available height,
// clamping the scroll offset. above/below report which scroll marks to
// draw; each mark costs one line of that height.
func (h *HelpOverlay) window(total, avail int) (start, end int, above, below bool) {
	if total <= avail {
		h.scrollOffset = 0
		return 0, total, false, false
	}

	// +1 because once scrolled, the top mark replaces a content line;
	// the last line is only reachable one step past total-avail.
	h.scrollOffset = max(0, min(h.scrollOffset, total-avail+1))

	start = h.scrollOffset
	visible := avail
	above = start > 0
	if above {
		visible--
	}
	below = start+visible < total
	if below {
		visible--
	}
	end = min(start+visible, total)
	return start, end, above, below
}

// View renders the help overlay
func (h *HelpOverlay) View() string {
	if !h.visible {
		return ""
	}

	// Shrink the dialog on narrow terminals, and the key column with it.
	dialogWidth := 48
	if h.width > 0 && h.width < dialogWidth+10 {
		dialogWidth = max(35, h.width-10)
	}
	keyWidth := 14
	if dialogWidth < 45 {
		keyWidth = 10
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	sectionStyle := lipgloss.NewStyle().Foreground(ColorCyan).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(ColorPurple).Width(keyWidth)
	descStyle := lipgloss.NewStyle().Foreground(ColorText)
	ruleStyle := lipgloss.NewStyle().Foreground(ColorBorder)
	fineStyle := lipgloss.NewStyle().Foreground(ColorComment).Italic(true)
	markStyle := lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)

	lines := []string{titleStyle.Render("KEYBOARD SHORTCUTS"), ""}
	for i, section := range helpSections {
		lines = append(lines, sectionStyle.Render(section.title))
		for _, item := range section.keys {
			lines = append(lines, "  "+keyStyle.Render(item[0])+descStyle.Render(item[1]))
		}
		if i < len(helpSections)-1 {
			lines = append(lines, "")
		}
	}
	lines = append(lines,
		"",
		ruleStyle.Render(strings.Repeat("─", max(20, dialogWidth-8))),
		fineStyle.Render("Screendeck v"+Version),
	)

	// Height left for content after dialog border, padding and footer.
	avail := max(10, h.height-8)
	start, end, above, below := h.window(len(lines), avail)

	var body []string
	if above {
		body = append(body, markStyle.Render("▲ more above"))
	}
	body = append(body, lines[start:end]...)
	if below {
		body = append(body, markStyle.Render("▼ more below"))
	}

	footer := "Press any key to close"
	if len(lines) > avail {
		footer = "j/k scroll • any other key to close"
	}

	content := strings.Join(body, "\n") + "\n\n" + fineStyle.Render(footer)
	box := DialogBoxStyle.Width(dialogWidth).Render(content)
	return centerOverlay(box, h.width, h.height)
}

// centerOverlay pads content into the middle of the screen. Widths are
// measured with lipgloss so escape codes don't count.
func centerOverlay(content string, screenWidth, screenHeight int) string {
	lines := strings.Split(content, "\n")

	contentWidth := 0
	for _, line := range lines {
		contentWidth = max(contentWidth, lipgloss.Width(line))
	}

	pad := strings.Repeat(" ", max(0, (screenWidth-contentWidth)/2))

	var b strings.Builder
	for range max(0, (screenHeight-len(lines))/2) {
		b.WriteByte('\n')
	}
	for _, line := range lines {
		b.WriteString(pad)
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}
