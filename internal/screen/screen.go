// Package screen wraps the GNU screen command line. It never manages
// session state itself: every operation shells out to screen and, where
// screen answers in prose, re-parses that prose. Session persistence,
// process trees and pseudo-terminals all stay inside screen.
package screen

import (
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/asheshgoplani/screendeck/internal/logging"
	"github.com/asheshgoplani/screendeck/internal/run"
)

var screenLog = logging.ForComponent(logging.CompScreen)

// DefaultCommand is the screen binary used when the config names none.
const DefaultCommand = "screen"

// Manager runs screen subcommands through a shared Runner so that every
// invocation lands in the transcript the dashboard's output view shows.
type Manager struct {
	base   string
	runner *run.Runner
	listSf singleflight.Group // collapses concurrent -ls invocations
}

// NewManager returns a Manager invoking base (a bare binary name or path,
// no arguments) through runner.
func NewManager(base string, runner *run.Runner) *Manager {
	if base == "" {
		base = DefaultCommand
	}
	return &Manager{base: base, runner: runner}
}

// Base returns the configured screen command.
func (m *Manager) Base() string { return m.base }

// Runner exposes the underlying runner (the transcript source).
func (m *Manager) Runner() *run.Runner { return m.runner }

// List queries screen for its sessions and parses the listing. Concurrent
// callers (watcher, manual refresh) share a single subprocess via
// singleflight. An empty listing, including screen's "No Sockets found"
// answer, is a valid zero-session result, not an error; errors surface
// only when the listing command could not be launched.
func (m *Manager) List() ([]SessionRecord, error) {
	v, err, shared := m.listSf.Do("ls", func() (interface{}, error) {
		out, execErr := m.runner.Execute(m.base + " -ls")
		if execErr != nil {
			return nil, execErr
		}
		return ParseSessions(out), nil
	})
	if err != nil {
		return nil, err
	}
	records := v.([]SessionRecord)
	screenLog.Debug("listing_refreshed",
		slog.Int("sessions", len(records)),
		slog.Bool("shared", shared))
	return records, nil
}

// Terminate asks screen to quit the session identified by serial.
// screen acknowledges a missing session with prose, not an exit code, so
// that text is what gets classified; any other outcome counts as success
// even if screen silently ignored the command.
func (m *Manager) Terminate(serial string) error {
	out, err := m.runner.Execute(m.base + " -X -S " + serial + " quit")
	if err != nil {
		return err
	}
	if isNoSessionText(out) {
		return fmt.Errorf("terminate %s: %w", serial, ErrSessionNotFound)
	}
	screenLog.Info("session_terminated", slog.String("serial", serial))
	return nil
}

// Wipe removes sockets of dead sessions (`screen -wipe`) and returns
// screen's report text.
func (m *Manager) Wipe() (string, error) {
	out, err := m.runner.Execute(m.base + " -wipe")
	if err != nil {
		return "", err
	}
	screenLog.Info("sockets_wiped")
	return out, nil
}

// CreateCommand builds the command line that starts a new session with
// this manager's base command.
func (m *Manager) CreateCommand(name, command string) string {
	return BuildCreateCommand(m.base, name, command)
}

// BuildCreateCommand composes the session-creation command line: the base
// command, then `-S <name>` only when a name was given, then the command
// only when one was given. Fixed order, joined by single spaces.
func BuildCreateCommand(base, name, command string) string {
	parts := []string{base}
	if name != "" {
		parts = append(parts, "-S", name)
	}
	if command != "" {
		parts = append(parts, command)
	}
	return strings.Join(parts, " ")
}

// Version probes the screen binary and returns its version banner
// (first line of `screen -v`). Returns ErrScreenNotFound when the binary
// is missing, which is the preflight check main runs before starting the
// dashboard. The probe goes through exec directly; a preflight does not
// belong in the transcript.
func (m *Manager) Version() (string, error) {
	path, err := exec.LookPath(m.base)
	if err != nil {
		return "", fmt.Errorf("%s: %w", m.base, ErrScreenNotFound)
	}
	// Old screen builds exit 1 on -v; the banner still lands on the
	// output, so the exit status is ignored.
	out, _ := exec.Command(path, "-v").CombinedOutput()
	line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	return line, nil
}
