package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/asheshgoplani/screendeck/internal/screen"
)

// sessionSource adapts a record slice to fuzzy.Source. Serial and status are
// both searchable, so "det" narrows to detached sessions while "work"
// narrows to the session of that name.
type sessionSource []screen.SessionRecord

func (s sessionSource) String(i int) string { return s[i].Serial + " " + s[i].Status }
func (s sessionSource) Len() int            { return len(s) }

// Filter is the inline fuzzy filter bar over the session list.
// While the input is focused, typing narrows the list live. Enter commits
// the query and returns key focus to the list; Esc clears everything.
type Filter struct {
	input   textinput.Model
	visible bool
}

// NewFilter creates a hidden filter bar.
func NewFilter() *Filter {
	ti := textinput.New()
	ti.Placeholder = "Filter sessions..."
	ti.CharLimit = 100
	ti.Width = 30

	return &Filter{input: ti}
}

// Show makes the filter bar visible and focuses its input.
func (f *Filter) Show() {
	f.visible = true
	f.input.Focus()
}

// Hide clears the query and hides the bar.
func (f *Filter) Hide() {
	f.visible = false
	f.input.Blur()
	f.input.SetValue("")
}

// IsVisible returns whether the filter bar is shown.
func (f *Filter) IsVisible() bool {
	return f.visible
}

// Focused returns whether keystrokes currently go to the filter input.
func (f *Filter) Focused() bool {
	return f.visible && f.input.Focused()
}

// Query returns the current filter text.
func (f *Filter) Query() string {
	return f.input.Value()
}

// Update handles messages while the filter input is focused.
func (f *Filter) Update(msg tea.Msg) (*Filter, tea.Cmd) {
	if !f.Focused() {
		return f, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			f.Hide()
			return f, nil

		case "enter":
			// Commit: keep the query, hand the keys back to the list.
			if f.input.Value() == "" {
				f.Hide()
			} else {
				f.input.Blur()
			}
			return f, nil

		default:
			var cmd tea.Cmd
			f.input, cmd = f.input.Update(msg)
			return f, cmd
		}
	}

	return f, nil
}

// Apply returns the records matching the current query in match-quality
// order. An empty or hidden filter returns records unchanged.
func (f *Filter) Apply(records []screen.SessionRecord) []screen.SessionRecord {
	query := f.input.Value()
	if !f.visible || query == "" {
		return records
	}

	matches := fuzzy.FindFrom(query, sessionSource(records))
	out := make([]screen.SessionRecord, 0, len(matches))
	for _, m := range matches {
		out = append(out, records[m.Index])
	}
	return out
}

// View renders the bar with a shown/total count, or "" when hidden.
func (f *Filter) View(shown, total int) string {
	if !f.visible {
		return ""
	}

	count := FilterCountStyle.Render(fmt.Sprintf("%d/%d", shown, total))
	return FilterBarStyle.Render(
		FilterPromptStyle.Render("/") + " " + f.input.View() + " " + count,
	)
}
