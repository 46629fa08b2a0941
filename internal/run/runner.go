// Package run executes shell command lines and keeps a transcript of what
// was run. It deliberately mirrors popen semantics: only stdout is captured,
// the subprocess gets no stdin, and the exit status is not inspected. A
// command that fails after launch is indistinguishable from one that
// succeeded, apart from whatever text it printed.
package run

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/asheshgoplani/screendeck/internal/logging"
)

var runLog = logging.ForComponent(logging.CompRun)

// DefaultShell interprets command lines handed to Execute.
const DefaultShell = "/bin/sh"

// Runner executes command lines through a shell and accumulates a transcript
// of every invocation. Safe for concurrent use; Execute is called from
// bubbletea command goroutines.
type Runner struct {
	// Shell overrides the interpreter (tests point this at a bogus path to
	// exercise the spawn-failure path). Empty means DefaultShell.
	Shell string

	mu         sync.Mutex
	transcript strings.Builder
}

// Execute runs command through the shell and blocks until it finishes,
// returning everything the command wrote to stdout. Stderr is not
// captured; it flows through to the caller's stderr. There is no timeout
// and no cancellation.
//
// An error is returned only when the command could not be launched at all
// (missing shell, fork failure). A launched command that exits non-zero is
// reported as success: callers get the captured text and must judge the
// outcome from the text itself, the same way the external tool's own users
// do.
func (r *Runner) Execute(command string) (string, error) {
	shell := r.Shell
	if shell == "" {
		shell = DefaultShell
	}

	cmd := exec.Command(shell, "-c", command)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	// Stdin stays nil: the subprocess reads from the null device.
	// Stderr inherits ours, as popen would leave it.
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		runLog.Error("spawn_failed",
			slog.String("command", command),
			slog.String("error", err.Error()))
		r.append(command, err.Error()+"\n")
		return "", fmt.Errorf("run %q: %w", command, err)
	}

	text := stdout.String()
	r.append(command, text)
	runLog.Debug("command_done",
		slog.String("command", command),
		slog.Int("bytes", len(text)))
	return text, nil
}

// append records one invocation in the transcript as a "> command" line
// followed by the raw captured output.
func (r *Runner) append(command, output string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transcript.WriteString("> ")
	r.transcript.WriteString(command)
	r.transcript.WriteString("\n")
	r.transcript.WriteString(output)
}

// Transcript returns the accumulated log of all invocations so far.
func (r *Runner) Transcript() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.transcript.String()
}

// ResetTranscript clears the accumulated log.
func (r *Runner) ResetTranscript() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transcript.Reset()
}
