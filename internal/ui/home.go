package ui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/asheshgoplani/screendeck/internal/clipboard"
	"github.com/asheshgoplani/screendeck/internal/config"
	"github.com/asheshgoplani/screendeck/internal/history"
	"github.com/asheshgoplani/screendeck/internal/logging"
	"github.com/asheshgoplani/screendeck/internal/platform"
	"github.com/asheshgoplani/screendeck/internal/screen"
)

var uiLog = logging.ForComponent(logging.CompUI)

// Version is displayed in the header bar and help overlay.
// Stamped by main at startup.
var Version = "0.0.0"

// SetVersion sets the version string shown in the UI.
func SetVersion(v string) {
	Version = v
}

const (
	// tickInterval drives transient-message expiry.
	tickInterval = 2 * time.Second

	// Minimum terminal size for a usable dashboard.
	minTerminalWidth  = 40
	minTerminalHeight = 12
)

// Synchronized output markers (DEC private mode 2026) bracket the repaint
// after a terminal handoff so the redraw lands as one frame instead of a
// visible flicker.
const (
	syncOutputBegin = "\x1b[?2026h"
	syncOutputEnd   = "\x1b[?2026l"
	clearScreen     = "\033[2J\033[H"
)

// viewMode selects what the main content area shows.
type viewMode int

const (
	viewSessions viewMode = iota // the session table
	viewOutput                   // the accumulated command transcript
)

// Messages

// loadSessionsMsg carries a fresh listing, or the error that produced none.
type loadSessionsMsg struct {
	records []screen.SessionRecord
	err     error
}

// sessionKilledMsg reports a terminate attempt.
type sessionKilledMsg struct {
	serial string
	err    error
}

// wipeDoneMsg reports a dead-socket wipe.
type wipeDoneMsg struct {
	report string
	err    error
}

// socketsChangedMsg fires when the watcher sees socket-directory activity.
type socketsChangedMsg struct{}

// themeChangedMsg fires when the OS switches between dark and light mode.
type themeChangedMsg struct {
	isDark bool
}

// handoffDoneMsg fires when an attach or create returns the terminal.
type handoffDoneMsg struct {
	err error
}

// tickMsg drives transient-message expiry.
type tickMsg time.Time

// Home is the dashboard model: a session table with an alternate view of
// everything the command runner has captured, plus the dialogs that hang
// off it.
type Home struct {
	width  int
	height int

	manager      *screen.Manager
	cfg          *config.UserConfig
	hist         *history.Store // nil disables command suggestions
	watcher      *SocketWatcher // nil disables auto-refresh
	themeWatcher *ThemeWatcher  // nil unless theme = "system"

	sessions   []screen.SessionRecord
	cursor     int
	viewOffset int

	mode         viewMode
	outputScroll int
	followOutput bool

	filter        *Filter
	newDialog     *NewDialog
	confirmDialog *ConfirmDialog
	helpOverlay   *HelpOverlay

	// isAttaching suppresses View() output while screen owns the terminal
	// (Bubble Tea issue #431: View leaks to stdout during tea.Exec).
	isAttaching atomic.Bool

	err     error
	errTime time.Time

	notice     string
	noticeTime time.Time

	watchWarning string

	// Double-tap timers: Esc Esc quits, g g jumps to top.
	lastEscTime time.Time
	lastGTime   time.Time

	initialLoading bool

	// viewBuilder is reused across renders to reduce allocations.
	viewBuilder strings.Builder
}

// NewHome creates the dashboard model. The history store and socket
// watcher are optional and wired separately by main.
func NewHome(manager *screen.Manager, cfg *config.UserConfig) *Home {
	return &Home{
		manager:        manager,
		cfg:            cfg,
		filter:         NewFilter(),
		newDialog:      NewNewDialog(),
		confirmDialog:  NewConfirmDialog(),
		helpOverlay:    NewHelpOverlay(),
		followOutput:   true,
		initialLoading: true,
	}
}

// SetHistory wires the launched-command history store.
func (h *Home) SetHistory(store *history.Store) {
	h.hist = store
}

// SetWatcher wires the socket-directory watcher and surfaces any
// platform warning it carries.
func (h *Home) SetWatcher(w *SocketWatcher) {
	h.watcher = w
	if w != nil {
		h.watchWarning = w.Warning()
	}
}

// SetThemeWatcher wires the OS dark-mode watcher.
func (h *Home) SetThemeWatcher(tw *ThemeWatcher) {
	h.themeWatcher = tw
}

// Init starts the initial listing and the expiry ticker, plus the
// watcher listeners when they are wired.
func (h *Home) Init() tea.Cmd {
	cmds := []tea.Cmd{h.loadSessions, h.tick()}
	if h.watcher != nil {
		cmds = append(cmds, listenForSockets(h.watcher))
	}
	if h.themeWatcher != nil {
		cmds = append(cmds, listenForThemeChanges(h.themeWatcher))
	}
	return tea.Batch(cmds...)
}

// loadSessions fetches a fresh listing from screen.
func (h *Home) loadSessions() tea.Msg {
	records, err := h.manager.List()
	return loadSessionsMsg{records: records, err: err}
}

// listenForSockets blocks until the watcher reports socket activity.
// One-shot: Update re-arms it after every socketsChangedMsg.
func listenForSockets(w *SocketWatcher) tea.Cmd {
	return func() tea.Msg {
		<-w.ReloadChannel()
		return socketsChangedMsg{}
	}
}

// listenForThemeChanges blocks until the OS theme flips. One-shot,
// re-armed like the socket listener.
func listenForThemeChanges(tw *ThemeWatcher) tea.Cmd {
	return func() tea.Msg {
		isDark := <-tw.ChangeChannel()
		return themeChangedMsg{isDark: isDark}
	}
}

// tick schedules the next transient-message expiry check.
func (h *Home) tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// setError shows err in the status line until it expires or is replaced.
func (h *Home) setError(err error) {
	h.err = err
	h.errTime = time.Now()
	uiLog.Warn("dashboard_error", slog.String("error", err.Error()))
}

func (h *Home) clearError() {
	h.err = nil
	h.errTime = time.Time{}
}

// setNotice shows a transient success message in the status line.
func (h *Home) setNotice(text string) {
	h.notice = text
	h.noticeTime = time.Now()
}

// Update handles messages.
func (h *Home) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h.width = msg.Width
		h.height = msg.Height
		h.updateSizes()
		h.syncViewport()
		return h, nil

	case loadSessionsMsg:
		h.initialLoading = false
		if msg.err != nil {
			h.setError(msg.err)
			return h, nil
		}
		// The new listing replaces the old wholesale; rows are never
		// merged or updated in place.
		h.sessions = msg.records
		h.clampCursor()
		return h, nil

	case sessionKilledMsg:
		if msg.err != nil {
			h.setError(msg.err)
			return h, h.loadSessions
		}
		// Drop the row immediately; the follow-up listing confirms.
		for i := range h.sessions {
			if h.sessions[i].Serial == msg.serial {
				h.sessions = append(h.sessions[:i], h.sessions[i+1:]...)
				break
			}
		}
		h.clampCursor()
		uiLog.Info("session_killed", slog.String("serial", msg.serial))
		return h, h.loadSessions

	case wipeDoneMsg:
		if msg.err != nil {
			h.setError(msg.err)
			return h, h.loadSessions
		}
		if summary := wipeSummary(msg.report); summary != "" {
			h.setNotice(summary)
		}
		return h, h.loadSessions

	case socketsChangedMsg:
		// Reload and re-arm the listener.
		return h, tea.Batch(h.loadSessions, listenForSockets(h.watcher))

	case themeChangedMsg:
		if msg.isDark {
			InitTheme("dark")
		} else {
			InitTheme("light")
		}
		uiLog.Info("os_theme_changed", slog.Bool("dark", msg.isDark))
		return h, listenForThemeChanges(h.themeWatcher)

	case handoffDoneMsg:
		h.isAttaching.Store(false)
		if msg.err != nil {
			h.setError(msg.err)
		}
		return h, h.loadSessions

	case tickMsg:
		// Transient messages expire after 5 seconds.
		if h.err != nil && !h.errTime.IsZero() && time.Since(h.errTime) > 5*time.Second {
			h.clearError()
		}
		if h.notice != "" && time.Since(h.noticeTime) > 5*time.Second {
			h.notice = ""
		}
		return h, h.tick()

	case tea.KeyMsg:
		// Modal surfaces take priority over main-view keys.
		if h.helpOverlay.IsVisible() {
			var cmd tea.Cmd
			h.helpOverlay, cmd = h.helpOverlay.Update(msg)
			return h, cmd
		}
		if h.newDialog.IsVisible() {
			return h.handleNewDialogKey(msg)
		}
		if h.confirmDialog.IsVisible() {
			return h.handleConfirmDialogKey(msg)
		}
		if h.filter.Focused() {
			return h.handleFilterKey(msg)
		}
		return h.handleMainKey(msg)
	}

	return h, nil
}

// handleNewDialogKey handles keys while the new-session dialog is open.
func (h *Home) handleNewDialogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if validationErr := h.newDialog.Validate(); validationErr != "" {
			h.newDialog.SetError(validationErr)
			return h, nil
		}
		name, command := h.newDialog.GetValues()
		h.newDialog.Hide()
		h.clearError()
		h.isAttaching.Store(true)
		return h, h.createSession(name, command)

	case "esc":
		h.newDialog.Hide()
		return h, nil
	}

	var cmd tea.Cmd
	h.newDialog, cmd = h.newDialog.Update(msg)
	return h, cmd
}

// handleConfirmDialogKey handles keys while the kill confirmation is open.
func (h *Home) handleConfirmDialogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		serial := h.confirmDialog.TargetSerial()
		h.confirmDialog.Hide()
		if serial == "" {
			return h, nil
		}
		return h, h.killSession(serial)

	case "n", "N", "esc":
		h.confirmDialog.Hide()
		return h, nil
	}
	return h, nil
}

// handleFilterKey forwards keys to the filter input while it has focus.
func (h *Home) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	h.filter, cmd = h.filter.Update(msg)
	h.clampCursor()
	return h, cmd
}

// handleMainKey handles keys in the session table view.
func (h *Home) handleMainKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if h.mode == viewOutput {
		return h.handleOutputKey(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return h, tea.Quit

	case "esc":
		// An applied filter clears before anything else.
		if h.filter.IsVisible() {
			h.filter.Hide()
			h.clampCursor()
			return h, nil
		}
		// Double Esc within 500ms quits (for keyboards where q is awkward).
		if time.Since(h.lastEscTime) < 500*time.Millisecond {
			return h, tea.Quit
		}
		h.lastEscTime = time.Now()
		return h, nil

	case "up", "k":
		if h.cursor > 0 {
			h.cursor--
			h.syncViewport()
		}
		return h, nil

	case "down", "j":
		if h.cursor < len(h.visibleSessions())-1 {
			h.cursor++
			h.syncViewport()
		}
		return h, nil

	case "ctrl+u":
		h.moveCursor(-h.visibleRows() / 2)
		return h, nil

	case "ctrl+d":
		h.moveCursor(h.visibleRows() / 2)
		return h, nil

	case "ctrl+b":
		h.moveCursor(-h.visibleRows())
		return h, nil

	case "ctrl+f":
		h.moveCursor(h.visibleRows())
		return h, nil

	case "g":
		// Vi-style gg jumps to top.
		if time.Since(h.lastGTime) < 500*time.Millisecond {
			h.cursor = 0
			h.syncViewport()
			return h, nil
		}
		h.lastGTime = time.Now()
		return h, nil

	case "G":
		if n := len(h.visibleSessions()); n > 0 {
			h.cursor = n - 1
			h.syncViewport()
		}
		return h, nil

	case "enter":
		if rec := h.selectedSession(); rec != nil {
			// Block View before the Exec swap so nothing paints over
			// the attached session.
			h.isAttaching.Store(true)
			return h, h.attachSession(rec.Serial)
		}
		return h, nil

	case "n":
		suggestion := ""
		if h.cfg.GetSuggestCommand() {
			if cwd, err := os.Getwd(); err == nil {
				suggestion = DefaultCommandSuggestion(cwd)
			}
		}
		if h.hist != nil {
			if commands, err := h.hist.Recent(20); err == nil {
				h.newDialog.SetHistory(commands)
			}
		}
		h.newDialog.SetSize(h.width, h.height)
		h.newDialog.Show(suggestion)
		return h, nil

	case "d":
		if rec := h.selectedSession(); rec != nil {
			if h.cfg.GetConfirmKill() {
				h.confirmDialog.SetSize(h.width, h.height)
				h.confirmDialog.ShowKill(rec.Serial, rec.Status)
				return h, nil
			}
			return h, h.killSession(rec.Serial)
		}
		return h, nil

	case "K":
		// Immediate kill, no confirmation.
		if rec := h.selectedSession(); rec != nil {
			return h, h.killSession(rec.Serial)
		}
		return h, nil

	case "r":
		return h, h.loadSessions

	case "w":
		return h, h.wipeSessions

	case "v":
		h.mode = viewOutput
		h.followOutput = true
		return h, nil

	case "t":
		h.toggleTheme()
		return h, nil

	case "/":
		h.filter.Show()
		return h, nil

	case "c":
		return h.copyTranscript()

	case "?":
		h.helpOverlay.SetSize(h.width, h.height)
		h.helpOverlay.Show()
		return h, nil
	}

	return h, nil
}

// handleOutputKey handles keys while the command output view is showing.
func (h *Home) handleOutputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return h, tea.Quit

	case "v", "esc":
		h.mode = viewSessions
		return h, nil

	case "down", "j":
		h.scrollOutput(1)
		return h, nil

	case "up", "k":
		h.scrollOutput(-1)
		return h, nil

	case "ctrl+d":
		h.scrollOutput(h.outputRows() / 2)
		return h, nil

	case "ctrl+u":
		h.scrollOutput(-h.outputRows() / 2)
		return h, nil

	case "ctrl+f":
		h.scrollOutput(h.outputRows())
		return h, nil

	case "ctrl+b":
		h.scrollOutput(-h.outputRows())
		return h, nil

	case "g":
		h.followOutput = false
		h.outputScroll = 0
		return h, nil

	case "G":
		h.followOutput = true
		return h, nil

	case "c":
		return h.copyTranscript()

	case "t":
		h.toggleTheme()
		return h, nil

	case "?":
		h.helpOverlay.SetSize(h.width, h.height)
		h.helpOverlay.Show()
		return h, nil
	}

	return h, nil
}

// scrollOutput moves the transcript window by delta lines, releasing
// follow mode in the middle and re-engaging it at the bottom edge.
func (h *Home) scrollOutput(delta int) {
	maxScroll := h.maxOutputScroll()
	if h.followOutput {
		h.outputScroll = maxScroll
	}
	h.outputScroll += delta
	if h.outputScroll >= maxScroll {
		h.outputScroll = maxScroll
		h.followOutput = true
	} else {
		h.followOutput = false
	}
	if h.outputScroll < 0 {
		h.outputScroll = 0
	}
}

// moveCursor shifts the table cursor by delta rows, clamped to the listing.
func (h *Home) moveCursor(delta int) {
	h.cursor += delta
	if n := len(h.visibleSessions()); h.cursor >= n {
		h.cursor = n - 1
	}
	if h.cursor < 0 {
		h.cursor = 0
	}
	h.syncViewport()
}

// toggleTheme flips between the dark and light palettes.
func (h *Home) toggleTheme() {
	if GetCurrentTheme() == ThemeDark {
		InitTheme("light")
	} else {
		InitTheme("dark")
	}
}

// copyTranscript puts the accumulated command output on the clipboard.
func (h *Home) copyTranscript() (tea.Model, tea.Cmd) {
	text := h.manager.Runner().Transcript()
	if strings.TrimSpace(text) == "" {
		h.setError(fmt.Errorf("no command output to copy"))
		return h, nil
	}
	result, err := clipboard.Copy(text, platform.GetTerminalInfo().SupportsOSC52)
	if err != nil {
		h.setError(err)
		return h, nil
	}
	h.setNotice(fmt.Sprintf("Copied %d lines (%s)", result.LineCount, result.Method))
	return h, nil
}

// attachCmd hands the terminal to screen for the duration of an attach.
// The pty plumbing in Manager.Attach talks to the controlling terminal
// directly, so the ExecCommand writer hooks are deliberately no-ops.
type attachCmd struct {
	manager *screen.Manager
	serial  string
}

func (a *attachCmd) Run() error {
	return a.manager.Attach(context.Background(), a.serial)
}

func (a *attachCmd) SetStdin(io.Reader)  {}
func (a *attachCmd) SetStdout(io.Writer) {}
func (a *attachCmd) SetStderr(io.Writer) {}

// foregroundCmd hands the terminal to a composed screen invocation
// (session creation must own the terminal until the user detaches).
type foregroundCmd struct {
	commandLine string
}

func (f *foregroundCmd) Run() error {
	return screen.RunForeground(context.Background(), f.commandLine)
}

func (f *foregroundCmd) SetStdin(io.Reader)  {}
func (f *foregroundCmd) SetStdout(io.Writer) {}
func (f *foregroundCmd) SetStderr(io.Writer) {}

// attachSession resumes serial in the foreground via tea.Exec. The View
// stays blank while isAttaching holds; the callback repaints and
// triggers a refresh.
func (h *Home) attachSession(serial string) tea.Cmd {
	uiLog.Info("attach_session", slog.String("serial", serial))
	return tea.Exec(&attachCmd{manager: h.manager, serial: serial}, func(err error) tea.Msg {
		// Release the View before the message is processed so the
		// repaint isn't suppressed.
		h.isAttaching.Store(false)
		fmt.Print(syncOutputBegin + clearScreen + syncOutputEnd)
		return handoffDoneMsg{err: err}
	})
}

// createSession composes the screen invocation for name/command, records
// the command in history, and hands the terminal over until the session
// ends or detaches.
func (h *Home) createSession(name, command string) tea.Cmd {
	commandLine := h.manager.CreateCommand(name, command)
	if h.hist != nil && command != "" {
		if err := h.hist.Record(command); err != nil {
			uiLog.Warn("history_record_failed", slog.String("error", err.Error()))
		}
	}
	uiLog.Info("create_session",
		slog.String("name", name),
		slog.String("command", command))
	return tea.Exec(&foregroundCmd{commandLine: commandLine}, func(err error) tea.Msg {
		h.isAttaching.Store(false)
		fmt.Print(syncOutputBegin + clearScreen + syncOutputEnd)
		return handoffDoneMsg{err: err}
	})
}

// killSession terminates serial in the background.
func (h *Home) killSession(serial string) tea.Cmd {
	return func() tea.Msg {
		err := h.manager.Terminate(serial)
		return sessionKilledMsg{serial: serial, err: err}
	}
}

// wipeSessions asks screen to remove dead sockets.
func (h *Home) wipeSessions() tea.Msg {
	report, err := h.manager.Wipe()
	return wipeDoneMsg{report: report, err: err}
}

// wipeSummary extracts screen's closing "N sockets wiped out." line from
// the full -wipe output.
func wipeSummary(report string) string {
	lines := strings.Split(strings.TrimSpace(report), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}

// visibleSessions returns the listing with the active filter applied.
func (h *Home) visibleSessions() []screen.SessionRecord {
	return h.filter.Apply(h.sessions)
}

// selectedSession returns the record under the cursor, or nil.
func (h *Home) selectedSession() *screen.SessionRecord {
	visible := h.visibleSessions()
	if h.cursor >= 0 && h.cursor < len(visible) {
		return &visible[h.cursor]
	}
	return nil
}

// clampCursor keeps the cursor inside the (possibly filtered) listing.
func (h *Home) clampCursor() {
	if n := len(h.visibleSessions()); h.cursor >= n {
		h.cursor = n - 1
	}
	if h.cursor < 0 {
		h.cursor = 0
	}
	h.syncViewport()
}

// visibleRows is how many session rows fit in the content area after
// the header bar, column header, help bar, and status line.
func (h *Home) visibleRows() int {
	rows := h.height - 5
	if h.filter.IsVisible() {
		rows -= 3 // the filter bar renders with its own border
	}
	if rows < 1 {
		rows = 1
	}
	return rows
}

// syncViewport keeps the cursor inside the visible row window.
func (h *Home) syncViewport() {
	rows := h.visibleRows()
	if h.cursor < h.viewOffset {
		h.viewOffset = h.cursor
	}
	if h.cursor >= h.viewOffset+rows {
		h.viewOffset = h.cursor - rows + 1
	}
	if h.viewOffset < 0 {
		h.viewOffset = 0
	}
}

// outputRows is how many transcript lines fit in the output view.
func (h *Home) outputRows() int {
	rows := h.height - 5
	if rows < 1 {
		rows = 1
	}
	return rows
}

// transcriptLines splits the runner transcript for windowed display.
func (h *Home) transcriptLines() []string {
	text := h.manager.Runner().Transcript()
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimRight(text, "\n"), "\n")
}

func (h *Home) maxOutputScroll() int {
	m := len(h.transcriptLines()) - h.outputRows()
	if m < 0 {
		m = 0
	}
	return m
}

// updateSizes propagates the window size to child components.
func (h *Home) updateSizes() {
	h.newDialog.SetSize(h.width, h.height)
	h.confirmDialog.SetSize(h.width, h.height)
	h.helpOverlay.SetSize(h.width, h.height)
}

// View renders the dashboard.
func (h *Home) View() string {
	// Stay blank while screen owns the terminal; rendering during
	// tea.Exec leaks into the attached session's display.
	if h.isAttaching.Load() {
		return ""
	}

	if h.width == 0 {
		return "Loading..."
	}

	if h.width < minTerminalWidth || h.height < minTerminalHeight {
		return lipgloss.Place(
			h.width, h.height,
			lipgloss.Center, lipgloss.Center,
			WarningStyle.Render(fmt.Sprintf(
				"Terminal too small (%dx%d)\nMinimum: %dx%d",
				h.width, h.height,
				minTerminalWidth, minTerminalHeight,
			)),
		)
	}

	if h.initialLoading {
		return lipgloss.Place(
			h.width, h.height,
			lipgloss.Center, lipgloss.Center,
			DimStyle.Render("Loading sessions..."),
		)
	}

	// Modal surfaces replace the whole screen.
	if h.helpOverlay.IsVisible() {
		return h.helpOverlay.View()
	}
	if h.newDialog.IsVisible() {
		return h.newDialog.View()
	}
	if h.confirmDialog.IsVisible() {
		return h.confirmDialog.View()
	}

	h.viewBuilder.Reset()
	h.viewBuilder.Grow(16384)
	b := &h.viewBuilder

	b.WriteString(h.renderHeaderBar())
	b.WriteString("\n")

	if h.mode == viewOutput {
		b.WriteString(h.renderOutput())
	} else {
		if h.filter.IsVisible() {
			b.WriteString(h.filter.View(len(h.visibleSessions()), len(h.sessions)))
			b.WriteString("\n")
		}
		b.WriteString(h.renderSessionTable())
	}

	b.WriteString("\n")
	b.WriteString(h.renderHelpBar())

	// Status line: error wins over notice wins over watcher warning.
	switch {
	case h.err != nil:
		remaining := 5*time.Second - time.Since(h.errTime)
		if remaining < 0 {
			remaining = 0
		}
		hint := DimStyle.Render(fmt.Sprintf(" (auto-dismiss in %ds)", int(remaining.Seconds())+1))
		b.WriteString("\n")
		b.WriteString(ErrorStyle.Render("⚠ "+h.err.Error()) + hint)
	case h.notice != "":
		b.WriteString("\n")
		b.WriteString(SuccessStyle.Render("✓ " + h.notice))
	case h.watchWarning != "":
		b.WriteString("\n")
		b.WriteString(WarningStyle.Render(h.watchWarning))
	}

	result := ensureExactHeight(b.String(), h.height)
	return lipgloss.NewStyle().Width(h.width).Render(result)
}

// renderHeaderBar draws the top bar: title, status counts, version badge.
func (h *Home) renderHeaderBar() string {
	attached, detached, dead := h.countStatuses()

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorAccent).
		Render("Screendeck")

	sep := lipgloss.NewStyle().Foreground(ColorBorder).Render(" • ")
	var parts []string
	if attached > 0 {
		parts = append(parts, AttachedStyle.Render(fmt.Sprintf("● %d attached", attached)))
	}
	if detached > 0 {
		parts = append(parts, DetachedStyle.Render(fmt.Sprintf("○ %d detached", detached)))
	}
	if dead > 0 {
		parts = append(parts, DeadStyle.Render(fmt.Sprintf("✕ %d dead", dead)))
	}
	stats := DimStyle.Render("no sessions")
	if len(parts) > 0 {
		stats = strings.Join(parts, sep)
	}

	versionBadge := DimStyle.Render("v" + Version)

	left := lipgloss.JoinHorizontal(lipgloss.Left, title, "  ", stats)
	padding := h.width - lipgloss.Width(left) - lipgloss.Width(versionBadge) - 2
	if padding < 1 {
		padding = 1
	}
	content := left + strings.Repeat(" ", padding) + versionBadge

	return lipgloss.NewStyle().
		Background(ColorSurface).
		Width(h.width).
		Padding(0, 1).
		Render(content)
}

// countStatuses tallies the listing by classified state.
func (h *Home) countStatuses() (attached, detached, dead int) {
	for i := range h.sessions {
		switch classifyStatus(h.sessions[i].Status) {
		case statusAttached:
			attached++
		case statusDetached:
			detached++
		case statusDead:
			dead++
		}
	}
	return attached, detached, dead
}

// renderSessionTable draws the column header and one row per session,
// windowed to the viewport with overflow indicators.
func (h *Home) renderSessionTable() string {
	rows := h.visibleRows()

	if len(h.sessions) == 0 {
		empty := strings.Join([]string{
			DimStyle.Render("⬡  No screen sessions"),
			"",
			DimStyle.Render("Press n to start one, r to refresh"),
		}, "\n")
		return lipgloss.Place(h.width, rows+1, lipgloss.Center, lipgloss.Center, empty)
	}

	visible := h.visibleSessions()
	serialW, createdW := h.columnWidths()

	var b strings.Builder

	header := "  " + runewidth.FillRight("SERIAL", serialW)
	if createdW > 0 {
		header += "  " + runewidth.FillRight("CREATED", createdW)
	}
	header += "  STATUS"
	b.WriteString(RowHeaderStyle.Render(runewidth.Truncate(header, h.width-2, "")))
	b.WriteString("\n")

	if len(visible) == 0 {
		b.WriteString(DimStyle.Render("  no sessions match the filter"))
		return ensureExactHeight(b.String(), rows+1)
	}

	maxVisible := rows
	start := h.viewOffset
	if start > len(visible)-1 {
		start = len(visible) - 1
	}
	if start < 0 {
		start = 0
	}
	if start > 0 {
		b.WriteString(DimStyle.Render(fmt.Sprintf("  ⋮ +%d above", start)))
		b.WriteString("\n")
		maxVisible--
	}

	shown := 0
	for i := start; i < len(visible) && shown < maxVisible; i++ {
		h.renderSessionRow(&b, visible[i], i == h.cursor, serialW, createdW)
		shown++
	}

	if remaining := len(visible) - (start + shown); remaining > 0 {
		b.WriteString(DimStyle.Render(fmt.Sprintf("  ⋮ +%d below", remaining)))
	}

	return ensureExactHeight(b.String(), rows+1)
}

// renderSessionRow writes one session line. The selected row renders its
// cells unstyled so the highlight bar can own the whole line without
// nested escape codes.
func (h *Home) renderSessionRow(b *strings.Builder, rec screen.SessionRecord, selected bool, serialW, createdW int) {
	serial := runewidth.FillRight(runewidth.Truncate(rec.Serial, serialW, "…"), serialW)
	created := ""
	if createdW > 0 {
		created = runewidth.FillRight(runewidth.Truncate(rec.CreatedAt, createdW, "…"), createdW)
	}
	status := runewidth.Truncate(rec.Status, h.statusWidth(serialW, createdW), "…")

	if selected {
		line := "▸ " + statusGlyph(rec.Status) + " " + serial
		if created != "" {
			line += "  " + created
		}
		line += "  " + status
		b.WriteString(RowSelectedStyle.Render(runewidth.FillRight(line, h.width)))
	} else {
		line := "  " + StatusIndicator(rec.Status) + " " + RowSerialStyle.Render(serial)
		if created != "" {
			line += "  " + RowDateStyle.Render(created)
		}
		line += "  " + StatusStyle(rec.Status).Render(status)
		b.WriteString(line)
	}
	b.WriteString("\n")
}

// columnWidths sizes the serial and created columns for the current
// terminal width. The created column shortens and then collapses as the
// terminal narrows.
func (h *Home) columnWidths() (serialW, createdW int) {
	serialW = 12
	for i := range h.sessions {
		if w := runewidth.StringWidth(h.sessions[i].Serial); w > serialW {
			serialW = w
		}
	}
	if maxW := h.width / 3; serialW > maxW {
		serialW = maxW
	}

	// Full timestamps look like "08/24/2025 10:15:32 AM".
	createdW = 22
	if h.width-4-serialW-2-createdW-2 < 12 {
		createdW = 17 // drop the AM/PM suffix
	}
	if h.width-4-serialW-2-createdW-2 < 12 {
		createdW = 0
	}
	return serialW, createdW
}

// statusWidth is the space left for the status column.
func (h *Home) statusWidth(serialW, createdW int) int {
	used := 4 + serialW + 2 // marker, indicator, serial, gap
	if createdW > 0 {
		used += createdW + 2
	}
	w := h.width - used
	if w < 6 {
		w = 6
	}
	return w
}

// renderOutput draws the accumulated command transcript with the current
// scroll window.
func (h *Home) renderOutput() string {
	rows := h.outputRows()
	lines := h.transcriptLines()

	title := TitleStyle.Render("Command Output") + "  " +
		DimStyle.Render(fmt.Sprintf("%d lines", len(lines)))

	if len(lines) == 0 {
		empty := DimStyle.Render("No commands have run yet")
		return title + "\n" + lipgloss.Place(h.width, rows, lipgloss.Center, lipgloss.Center, empty)
	}

	maxScroll := len(lines) - rows
	if maxScroll < 0 {
		maxScroll = 0
	}
	if h.followOutput || h.outputScroll > maxScroll {
		h.outputScroll = maxScroll
	}

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n")

	end := h.outputScroll + rows
	if end > len(lines) {
		end = len(lines)
	}
	for _, line := range lines[h.outputScroll:end] {
		truncated := runewidth.Truncate(line, h.width, "…")
		if strings.HasPrefix(line, "> ") {
			b.WriteString(TranscriptCmdStyle.Render(truncated))
		} else {
			b.WriteString(TranscriptTextStyle.Render(truncated))
		}
		b.WriteString("\n")
	}

	return ensureExactHeight(b.String(), rows+1)
}

// renderHelpBar draws the bottom shortcut bar under a horizontal rule.
func (h *Home) renderHelpBar() string {
	border := lipgloss.NewStyle().
		Foreground(ColorBorder).
		Render(strings.Repeat("─", max(0, h.width)))

	if h.width < 70 {
		hint := DimStyle.Render("? for help")
		padding := (h.width - lipgloss.Width(hint)) / 2
		if padding < 0 {
			padding = 0
		}
		return border + "\n" + strings.Repeat(" ", padding) + hint
	}

	var items []string
	if h.mode == viewOutput {
		items = []string{
			MenuKey("j/k", "Scroll"),
			MenuKey("c", "Copy"),
			MenuKey("v", "Sessions"),
			MenuKey("q", "Quit"),
			MenuKey("?", "Help"),
		}
	} else {
		items = []string{
			MenuKey("⏎", "Attach"),
			MenuKey("n", "New"),
			MenuKey("d", "Kill"),
			MenuKey("r", "Refresh"),
			MenuKey("/", "Filter"),
			MenuKey("v", "Output"),
			MenuKey("q", "Quit"),
			MenuKey("?", "Help"),
		}
	}

	return border + "\n " + strings.Join(items, "  ")
}

// ensureExactHeight pads or truncates content to exactly n lines so
// stacked sections can't shift the layout.
func ensureExactHeight(content string, n int) string {
	if n <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	if len(lines) > n {
		lines = lines[:n]
	} else {
		for len(lines) < n {
			lines = append(lines, "")
		}
	}
	return strings.Join(lines, "\n")
}
