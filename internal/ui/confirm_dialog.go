package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ConfirmDialog asks before a session is terminated. It only collects the
// answer; the kill itself stays with the dashboard.
type ConfirmDialog struct {
	visible      bool
	targetSerial string
	targetStatus string
	width        int
	height       int
}

// NewConfirmDialog creates a new confirmation dialog
func NewConfirmDialog() *ConfirmDialog {
	return &ConfirmDialog{}
}

// ShowKill shows confirmation for terminating the session with the given
// serial. status is the listing's state field, shown so the user sees
// whether they are about to kill something attached.
func (c *ConfirmDialog) ShowKill(serial, status string) {
	c.visible = true
	c.targetSerial = serial
	c.targetStatus = status
}

// Hide hides the dialog
func (c *ConfirmDialog) Hide() {
	c.visible = false
	c.targetSerial = ""
	c.targetStatus = ""
}

// IsVisible returns whether the dialog is visible
func (c *ConfirmDialog) IsVisible() bool {
	return c.visible
}

// TargetSerial returns the serial of the session being confirmed.
func (c *ConfirmDialog) TargetSerial() string {
	return c.targetSerial
}

// SetSize updates dialog dimensions
func (c *ConfirmDialog) SetSize(width, height int) {
	c.width = width
	c.height = height
}

// button renders a labelled pill with the given background.
func button(label string, bg lipgloss.Color) string {
	return lipgloss.NewStyle().
		Foreground(ColorBg).
		Background(bg).
		Padding(0, 2).
		Bold(true).
		Render(label)
}

// View renders the confirmation dialog
func (c *ConfirmDialog) View() string {
	if !c.visible {
		return ""
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorRed).MarginBottom(1)
	warnStyle := lipgloss.NewStyle().Foreground(ColorYellow).MarginBottom(1)
	bodyStyle := lipgloss.NewStyle().Foreground(ColorTextDim).MarginBottom(1)
	hintStyle := lipgloss.NewStyle().Foreground(ColorTextDim)

	consequences := []string{
		"• Every process inside the session will be killed",
		"• Scrollback and window layout will be lost",
		"• This cannot be undone",
	}
	if c.targetStatus != "" {
		state := fmt.Sprintf("• Current state: %s", c.targetStatus)
		consequences = append([]string{state}, consequences...)
	}

	buttons := lipgloss.JoinHorizontal(lipgloss.Center,
		button("y Kill", ColorRed), "  ",
		button("n Cancel", ColorAccent), "  ",
		hintStyle.Render("(Esc to cancel)"),
	)

	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("⚠️  Kill Session?"),
		warnStyle.Render(fmt.Sprintf("This will PERMANENTLY KILL the screen session:\n\n  %q", c.targetSerial)),
		bodyStyle.Render(strings.Join(consequences, "\n")),
		"",
		buttons,
	)

	dialogWidth := 50
	if c.width > 0 && c.width < dialogWidth+10 {
		dialogWidth = c.width - 10
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorRed).
		Padding(1, 2).
		Width(dialogWidth).
		Render(content)

	return centerOverlay(box, c.width, c.height)
}
