package ui

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme represents the current color scheme
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

var currentTheme = ThemeDark

// palette is the semantic color set a theme provides. Styles never name
// raw colors; they pick slots.
type palette struct {
	Bg, Surface, Border    lipgloss.Color
	Text, TextDim, Comment lipgloss.Color
	Accent, Purple, Cyan   lipgloss.Color
	Green, Yellow, Orange  lipgloss.Color
	Red                    lipgloss.Color
}

// Catppuccin Mocha and Latte.
var palettes = map[Theme]palette{
	ThemeDark: {
		Bg:      lipgloss.Color("#1e1e2e"),
		Surface: lipgloss.Color("#313244"),
		Border:  lipgloss.Color("#45475a"),
		Text:    lipgloss.Color("#cdd6f4"),
		TextDim: lipgloss.Color("#a6adc8"),
		Comment: lipgloss.Color("#6c7086"),
		Accent:  lipgloss.Color("#89b4fa"),
		Purple:  lipgloss.Color("#cba6f7"),
		Cyan:    lipgloss.Color("#89dceb"),
		Green:   lipgloss.Color("#a6e3a1"),
		Yellow:  lipgloss.Color("#f9e2af"),
		Orange:  lipgloss.Color("#fab387"),
		Red:     lipgloss.Color("#f38ba8"),
	},
	ThemeLight: {
		Bg:      lipgloss.Color("#eff1f5"),
		Surface: lipgloss.Color("#ccd0da"),
		Border:  lipgloss.Color("#bcc0cc"),
		Text:    lipgloss.Color("#4c4f69"),
		TextDim: lipgloss.Color("#6c6f85"),
		Comment: lipgloss.Color("#9ca0b0"),
		Accent:  lipgloss.Color("#1e66f5"),
		Purple:  lipgloss.Color("#8839ef"),
		Cyan:    lipgloss.Color("#04a5e5"),
		Green:   lipgloss.Color("#40a02b"),
		Yellow:  lipgloss.Color("#df8e1d"),
		Orange:  lipgloss.Color("#fe640b"),
		Red:     lipgloss.Color("#d20f39"),
	},
}

// Active palette slots. Every style below reads these; InitTheme rewrites
// them and rebuilds the styles.
var (
	ColorBg      lipgloss.Color
	ColorSurface lipgloss.Color
	ColorBorder  lipgloss.Color
	ColorText    lipgloss.Color
	ColorTextDim lipgloss.Color
	ColorComment lipgloss.Color
	ColorAccent  lipgloss.Color
	ColorPurple  lipgloss.Color
	ColorCyan    lipgloss.Color
	ColorGreen   lipgloss.Color
	ColorYellow  lipgloss.Color
	ColorOrange  lipgloss.Color
	ColorRed     lipgloss.Color
)

// themeMu guards the style globals during live theme switches: the t key
// rebuilds every style while View may still be reading them.
var themeMu sync.RWMutex

// InitTheme activates a palette by name. Anything but "light" means dark.
// Must run before the first render; package init covers that.
func InitTheme(theme string) {
	themeMu.Lock()
	defer themeMu.Unlock()

	currentTheme = ThemeDark
	if theme == "light" {
		currentTheme = ThemeLight
	}
	p := palettes[currentTheme]

	ColorBg = p.Bg
	ColorSurface = p.Surface
	ColorBorder = p.Border
	ColorText = p.Text
	ColorTextDim = p.TextDim
	ColorComment = p.Comment
	ColorAccent = p.Accent
	ColorPurple = p.Purple
	ColorCyan = p.Cyan
	ColorGreen = p.Green
	ColorYellow = p.Yellow
	ColorOrange = p.Orange
	ColorRed = p.Red

	initStyles()
}

// GetCurrentTheme returns the active theme
func GetCurrentTheme() Theme {
	return currentTheme
}

func init() {
	InitTheme("dark")
}

// MaxNameLength is the longest session name the new-session dialog accepts.
const MaxNameLength = 50

// Base chrome
var (
	BaseStyle      lipgloss.Style
	TitleStyle     lipgloss.Style
	PanelStyle     lipgloss.Style
	HighlightStyle lipgloss.Style
	DimStyle       lipgloss.Style
	ErrorStyle     lipgloss.Style
	SuccessStyle   lipgloss.Style
	WarningStyle   lipgloss.Style
	InfoStyle      lipgloss.Style
)

// Session status (Attached = someone's terminal owns it, Detached =
// running unattended, Dead = socket with no process)
var (
	AttachedStyle lipgloss.Style
	DetachedStyle lipgloss.Style
	DeadStyle     lipgloss.Style
)

// Menu bar
var (
	MenuBarStyle       lipgloss.Style
	MenuKeyStyle       lipgloss.Style
	MenuDescStyle      lipgloss.Style
	MenuSeparatorStyle lipgloss.Style
)

// Filter bar
var (
	FilterBarStyle    lipgloss.Style
	FilterPromptStyle lipgloss.Style
	FilterCountStyle  lipgloss.Style
)

// Dialogs
var (
	DialogBoxStyle          lipgloss.Style
	DialogTitleStyle        lipgloss.Style
	DialogButtonStyle       lipgloss.Style
	DialogButtonActiveStyle lipgloss.Style
)

// Session table rows (cached at package level, rebuilt on theme switch)
var (
	RowStyle         lipgloss.Style
	RowSelectedStyle lipgloss.Style
	RowHeaderStyle   lipgloss.Style
	RowSerialStyle   lipgloss.Style
	RowDateStyle     lipgloss.Style
)

// Command output view
var (
	TranscriptCmdStyle  lipgloss.Style
	TranscriptTextStyle lipgloss.Style
)

var (
	TimestampStyle lipgloss.Style
	SubtitleStyle  lipgloss.Style
)

// initStyles rebuilds every cached style from the active palette slots.
// Called by InitTheme with themeMu held.
func initStyles() {
	BaseStyle = lipgloss.NewStyle().Foreground(ColorText).Background(ColorBg)
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent).Background(ColorSurface).Padding(0, 1)
	PanelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(ColorBorder).Padding(0, 1)
	HighlightStyle = lipgloss.NewStyle().Foreground(ColorBg).Background(ColorAccent).Bold(true)
	DimStyle = lipgloss.NewStyle().Foreground(ColorComment)
	ErrorStyle = lipgloss.NewStyle().Foreground(ColorRed).Bold(true)
	SuccessStyle = lipgloss.NewStyle().Foreground(ColorGreen).Bold(true)
	WarningStyle = lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)
	InfoStyle = lipgloss.NewStyle().Foreground(ColorCyan)

	AttachedStyle = lipgloss.NewStyle().Foreground(ColorGreen).Bold(true)
	DetachedStyle = lipgloss.NewStyle().Foreground(ColorYellow)
	DeadStyle = lipgloss.NewStyle().Foreground(ColorRed).Bold(true)

	MenuBarStyle = lipgloss.NewStyle().Background(ColorSurface).Foreground(ColorText).Padding(0, 1)
	MenuKeyStyle = lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)
	MenuDescStyle = lipgloss.NewStyle().Foreground(ColorText)
	MenuSeparatorStyle = lipgloss.NewStyle().Foreground(ColorBorder)

	FilterBarStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(ColorAccent).Padding(0, 1)
	FilterPromptStyle = lipgloss.NewStyle().Foreground(ColorPurple).Bold(true)
	FilterCountStyle = lipgloss.NewStyle().Foreground(ColorComment)

	DialogBoxStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPurple).
		Padding(1, 2).
		Background(ColorSurface)
	DialogTitleStyle = lipgloss.NewStyle().Foreground(ColorPurple).Bold(true).Align(lipgloss.Center)
	DialogButtonStyle = lipgloss.NewStyle().Foreground(ColorAccent).Background(ColorBorder).Padding(0, 2).MarginRight(1)
	DialogButtonActiveStyle = lipgloss.NewStyle().
		Foreground(ColorBg).
		Background(ColorAccent).
		Padding(0, 2).
		MarginRight(1).
		Bold(true)

	RowStyle = lipgloss.NewStyle().Foreground(ColorText).PaddingLeft(2)
	RowSelectedStyle = lipgloss.NewStyle().Foreground(ColorBg).Background(ColorAccent).Bold(true)
	RowHeaderStyle = lipgloss.NewStyle().Foreground(ColorCyan).Bold(true).PaddingLeft(2)
	RowSerialStyle = lipgloss.NewStyle().Foreground(ColorText)
	RowDateStyle = lipgloss.NewStyle().Foreground(ColorComment)

	TranscriptCmdStyle = lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)
	TranscriptTextStyle = lipgloss.NewStyle().Foreground(ColorText)

	TimestampStyle = lipgloss.NewStyle().Foreground(ColorComment).Italic(true)
	SubtitleStyle = lipgloss.NewStyle().Foreground(ColorComment).Italic(true)
}

// MenuKey creates a formatted menu item with key and description
func MenuKey(key, description string) string {
	return fmt.Sprintf("%s %s %s",
		MenuKeyStyle.Render(key),
		MenuSeparatorStyle.Render("•"),
		MenuDescStyle.Render(description),
	)
}
