package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	fieldName = iota
	fieldCommand
)

// NewDialog collects the two pieces a new session can carry: an optional
// name (screen's -S flag) and an optional command line to run inside it.
// Both empty is fine; that launches a bare interactive screen.
type NewDialog struct {
	nameInput    textinput.Model
	commandInput textinput.Model
	focusIndex   int // fieldName or fieldCommand
	width        int
	height       int
	visible      bool

	// Launch history offered under the command field, newest first.
	historyCommands  []string
	historyCursor    int
	historyNavigated bool // set by Ctrl+N/P, cleared by typing

	validationErr string
}

// NewNewDialog creates a new NewDialog instance
func NewNewDialog() *NewDialog {
	name := textinput.New()
	name.Placeholder = "session-name (optional)"
	name.CharLimit = MaxNameLength
	name.Width = 40
	name.Focus()

	command := textinput.New()
	command.Placeholder = "command (optional, shell on empty)"
	command.CharLimit = 200
	command.Width = 40

	return &NewDialog{nameInput: name, commandInput: command}
}

// Show makes the dialog visible with a fresh name field. suggestion, when
// non-empty, pre-fills the command field (typically "./<first executable>"
// found in the working directory); the user can overwrite or clear it.
func (d *NewDialog) Show(suggestion string) {
	d.visible = true
	d.validationErr = ""
	d.historyCursor = 0
	d.historyNavigated = false
	d.nameInput.SetValue("")
	d.commandInput.SetValue(suggestion)
	d.commandInput.SetCursor(len(suggestion))
	d.focusIndex = fieldName
	d.updateFocus()
}

// SetHistory sets the previously launched commands offered under the
// command field, newest first.
func (d *NewDialog) SetHistory(commands []string) {
	d.historyCommands = commands
	d.historyCursor = 0
}

// SetSize sets the dialog dimensions
func (d *NewDialog) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// Hide hides the dialog
func (d *NewDialog) Hide() {
	d.visible = false
}

// IsVisible returns whether the dialog is visible
func (d *NewDialog) IsVisible() bool {
	return d.visible
}

// GetValues returns the trimmed name and command.
func (d *NewDialog) GetValues() (name, command string) {
	return strings.TrimSpace(d.nameInput.Value()), strings.TrimSpace(d.commandInput.Value())
}

// Validate checks the dialog values and returns an error message, or ""
// when they are fine. An empty name and an empty command are both valid.
func (d *NewDialog) Validate() string {
	name := strings.TrimSpace(d.nameInput.Value())

	if strings.ContainsAny(name, " \t") {
		return "Session name cannot contain spaces"
	}
	if len(name) > MaxNameLength {
		return fmt.Sprintf("Session name too long (max %d characters)", MaxNameLength)
	}
	return ""
}

// SetError sets an inline validation error displayed inside the dialog
func (d *NewDialog) SetError(msg string) {
	d.validationErr = msg
}

// ClearError clears the inline validation error
func (d *NewDialog) ClearError() {
	d.validationErr = ""
}

func (d *NewDialog) updateFocus() {
	if d.focusIndex == fieldName {
		d.commandInput.Blur()
		d.nameInput.Focus()
	} else {
		d.nameInput.Blur()
		d.commandInput.Focus()
	}
}

// cycleHistory moves the dropdown cursor by step with wraparound. It
// reports whether it consumed the key.
func (d *NewDialog) cycleHistory(step int) bool {
	n := len(d.historyCommands)
	if d.focusIndex != fieldCommand || n == 0 {
		return false
	}
	d.historyCursor = (d.historyCursor + step + n) % n
	d.historyNavigated = true
	return true
}

// acceptHistory copies the highlighted entry into the command field. It
// only fires after an explicit Ctrl+N/P so Tab never clobbers typed text.
func (d *NewDialog) acceptHistory() bool {
	if d.focusIndex != fieldCommand || !d.historyNavigated || len(d.historyCommands) == 0 {
		return false
	}
	if d.historyCursor < len(d.historyCommands) {
		entry := d.historyCommands[d.historyCursor]
		d.commandInput.SetValue(entry)
		d.commandInput.SetCursor(len(entry))
	}
	d.historyNavigated = false
	return true
}

// Update handles key messages
func (d *NewDialog) Update(msg tea.Msg) (*NewDialog, tea.Cmd) {
	if !d.visible {
		return d, nil
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			d.Hide()
			return d, nil
		case "enter":
			// The parent reads the values and creates the session.
			return d, nil
		case "tab", "down":
			if d.acceptHistory() {
				return d, nil
			}
			d.focusIndex = 1 - d.focusIndex
			d.updateFocus()
			return d, nil
		case "shift+tab", "up":
			d.focusIndex = 1 - d.focusIndex
			d.updateFocus()
			return d, nil
		case "ctrl+n":
			if d.cycleHistory(1) {
				return d, nil
			}
		case "ctrl+p":
			if d.cycleHistory(-1) {
				return d, nil
			}
		}
	}

	return d, d.editFocused(msg)
}

// editFocused feeds the message to whichever input has focus. Typing in
// the command field cancels any pending history selection.
func (d *NewDialog) editFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if d.focusIndex == fieldName {
		d.nameInput, cmd = d.nameInput.Update(msg)
		return cmd
	}

	before := d.commandInput.Value()
	d.commandInput, cmd = d.commandInput.Update(msg)
	if d.commandInput.Value() != before {
		d.historyNavigated = false
		d.historyCursor = 0
	}
	return cmd
}

// cursorWindow returns the slice bounds of a span-sized window over
// total entries, positioned so cursor stays visible.
func cursorWindow(total, cursor, span int) (start, end int) {
	if total <= span {
		return 0, total
	}
	start = max(0, cursor-span/2)
	end = start + span
	if end > total {
		end = total
		start = end - span
	}
	return start, end
}

// View renders the dialog
func (d *NewDialog) View() string {
	if !d.visible {
		return ""
	}

	width := 56
	if d.width > 0 && d.width < width+10 {
		width = max(40, d.width-10)
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorCyan).MarginBottom(1)

	rows := []string{titleStyle.Render("New Session"), ""}
	rows = append(rows, d.fieldRows(fieldName, "Name:", d.nameInput.View())...)
	rows = append(rows, "")
	rows = append(rows, d.fieldRows(fieldCommand, "Command:", d.commandInput.View())...)
	if d.focusIndex == fieldCommand && len(d.historyCommands) > 0 {
		rows = append(rows, d.historyRows()...)
	}
	if d.validationErr != "" {
		errStyle := lipgloss.NewStyle().Foreground(ColorRed).Bold(true)
		rows = append(rows, "", errStyle.Render("  ⚠ "+d.validationErr))
	}
	rows = append(rows, "", d.helpRow())

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorCyan).
		Background(ColorSurface).
		Padding(1, 3).
		Width(width).
		Render(strings.Join(rows, "\n"))

	return lipgloss.Place(d.width, d.height, lipgloss.Center, lipgloss.Center, box)
}

// fieldRows renders a label and its input, marking the focused field.
func (d *NewDialog) fieldRows(field int, label, input string) []string {
	if d.focusIndex == field {
		style := lipgloss.NewStyle().Foreground(ColorCyan).Bold(true)
		return []string{style.Render("▶ " + label), "  " + input}
	}
	style := lipgloss.NewStyle().Foreground(ColorText)
	return []string{style.Render("  " + label), "  " + input}
}

// historyRows renders the dropdown under the command field: a window of
// up to five entries that follows the cursor, with overflow markers.
func (d *NewDialog) historyRows() []string {
	dim := lipgloss.NewStyle().Foreground(ColorComment)
	hot := lipgloss.NewStyle().Foreground(ColorCyan).Bold(true)

	start, end := cursorWindow(len(d.historyCommands), d.historyCursor, 5)

	rows := []string{"  " + dim.Render("─ history (Ctrl+N/P: cycle, Tab: accept) ─")}
	if start > 0 {
		rows = append(rows, dim.Render(fmt.Sprintf("    ↑ %d more above", start)))
	}
	for i := start; i < end; i++ {
		if i == d.historyCursor {
			rows = append(rows, hot.Render("  ▶ "+d.historyCommands[i]))
		} else {
			rows = append(rows, dim.Render("    "+d.historyCommands[i]))
		}
	}
	if below := len(d.historyCommands) - end; below > 0 {
		rows = append(rows, dim.Render(fmt.Sprintf("    ↓ %d more below", below)))
	}
	return rows
}

func (d *NewDialog) helpRow() string {
	style := lipgloss.NewStyle().Foreground(ColorComment).MarginTop(1)
	if d.focusIndex == fieldCommand && len(d.historyCommands) > 0 {
		return style.Render("^N/^P history │ Tab accept │ Enter create │ Esc cancel")
	}
	return style.Render("Tab next │ ↑↓ navigate │ Enter create │ Esc cancel")
}
