package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// statusClass buckets the free-form status field screen prints inside the
// second parenthesis of an ls line. The field is carried verbatim from the
// listing, so classification is substring-based: "Multi, attached" and
// "Attached" both count as attached, "Dead ???" and "Remote or dead" as dead.
type statusClass int

const (
	statusUnknown statusClass = iota
	statusAttached
	statusDetached
	statusDead
)

func classifyStatus(status string) statusClass {
	s := strings.ToLower(status)
	switch {
	case strings.Contains(s, "dead"):
		return statusDead
	case strings.Contains(s, "attached"):
		return statusAttached
	case strings.Contains(s, "detached"):
		return statusDetached
	default:
		return statusUnknown
	}
}

// statusGlyph returns the unstyled indicator symbol for a status field.
// The selected table row uses this so the highlight bar can style the
// whole line without nested escape codes.
func statusGlyph(status string) string {
	switch classifyStatus(status) {
	case statusAttached:
		return "●"
	case statusDetached:
		return "○"
	case statusDead:
		return "✕"
	default:
		return "◌"
	}
}

// StatusIndicator returns the colored indicator for a status field.
// Read-locked because live theme switches rebuild the styles.
func StatusIndicator(status string) string {
	themeMu.RLock()
	defer themeMu.RUnlock()
	switch classifyStatus(status) {
	case statusAttached:
		return AttachedStyle.Render("●")
	case statusDetached:
		return DetachedStyle.Render("○")
	case statusDead:
		return DeadStyle.Render("✕")
	default:
		return DimStyle.Render("◌")
	}
}

// StatusStyle returns the style carrying a status field's color.
func StatusStyle(status string) lipgloss.Style {
	themeMu.RLock()
	defer themeMu.RUnlock()
	switch classifyStatus(status) {
	case statusAttached:
		return AttachedStyle
	case statusDetached:
		return DetachedStyle
	case statusDead:
		return DeadStyle
	default:
		return DimStyle
	}
}
