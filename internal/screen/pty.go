//go:build !windows
// +build !windows

package screen

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/creack/pty"
	"golang.org/x/term"

	"github.com/asheshgoplani/screendeck/internal/run"
)

// handoffGrace swallows stdin briefly after the pty handoff; terminal
// emulators answer capability queries then, and those replies must not
// reach the session as keystrokes.
const handoffGrace = 50 * time.Millisecond

// detachByte is Ctrl+Q, intercepted as a universal detach on top of
// screen's own C-a d binding.
const detachByte = 0x11

// Attach resumes the session identified by serial in the foreground,
// handing the calling terminal over to screen until the user detaches.
// The call blocks for the whole attachment and returns once the terminal
// is ours again; the session itself keeps running inside screen.
//
// Attaching to an unknown serial is not pre-checked: screen prints its
// "There is no screen to be resumed" prose to the shared terminal and
// exits, which reads the same as an immediate detach.
func (m *Manager) Attach(ctx context.Context, serial string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cmd := exec.CommandContext(ctx, m.base, "-r", serial)
	ptmx, err := pty.Start(cmd)
	if err != nil {
		return fmt.Errorf("attach %s: %w", serial, err)
	}
	defer ptmx.Close()

	restore, err := rawTerminal()
	if err != nil {
		return fmt.Errorf("attach %s: raw mode: %w", serial, err)
	}
	defer restore()

	stopResize := mirrorWinsize(ptmx)
	defer stopResize()

	detached := make(chan struct{})
	go func() { _, _ = io.Copy(os.Stdout, ptmx) }() // EOF when screen releases the pty
	go relayInput(ptmx, time.Now().Add(handoffGrace), func() {
		close(detached)
		cancel()
	})

	waited := make(chan error, 1)
	go func() { waited <- cmd.Wait() }()

	select {
	case <-detached:
		// Killing the attach client detaches the session; screen hangs
		// up cleanly and the session survives.
		return nil
	case <-ctx.Done():
		return nil
	case err := <-waited:
		return attachExit(ctx, serial, err)
	}
}

// rawTerminal switches stdin to raw mode and returns the restore func.
func rawTerminal() (func(), error) {
	fd := int(os.Stdin.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	return func() { _ = term.Restore(fd, state) }, nil
}

// mirrorWinsize keeps the inner pty sized to the controlling terminal
// until the returned stop func is called.
func mirrorWinsize(ptmx *os.File) (stop func()) {
	resize := func() {
		if ws, err := pty.GetsizeFull(os.Stdin); err == nil {
			_ = pty.Setsize(ptmx, ws)
		}
	}
	resize()

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGWINCH)
	done := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			case <-ch:
				resize()
			}
		}
	}()

	return func() {
		signal.Stop(ch)
		close(done)
		wg.Wait()
	}
}

// relayInput forwards stdin to the pty, dropping anything read before
// the grace deadline and calling detach on the detach byte. It returns
// when stdin or the pty errors out; a read blocked on an idle stdin can
// outlive the attachment, which is harmless.
func relayInput(ptmx *os.File, grace time.Time, detach func()) {
	buf := make([]byte, 64)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil {
			return
		}
		if time.Now().Before(grace) {
			continue
		}
		if n == 1 && buf[0] == detachByte {
			detach()
			return
		}
		if _, err := ptmx.Write(buf[:n]); err != nil {
			return
		}
	}
}

// attachExit maps the attach client's exit to an error, treating
// screen's normal endings and our own cancellation as success.
func attachExit(ctx context.Context, serial string, err error) error {
	if err == nil || ctx.Err() != nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && screenExitOK(exitErr.ExitCode()) {
		return nil
	}
	return fmt.Errorf("attach %s: %w", serial, err)
}

// screenExitOK reports whether an exit status is one of screen's normal
// endings: 0 for quit, 1 for detach and "no screen to be resumed".
func screenExitOK(code int) bool {
	return code == 0 || code == 1
}

// RunForeground hands the terminal to an arbitrary composed command line
// (session creation uses this: `screen [-S name] [command]` must own the
// terminal). It blocks until the command exits or the user detaches.
func RunForeground(ctx context.Context, commandLine string) error {
	cmd := exec.CommandContext(ctx, run.DefaultShell, "-c", commandLine)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && screenExitOK(exitErr.ExitCode()) {
			return nil
		}
		return fmt.Errorf("run %q: %w", commandLine, err)
	}
	return nil
}
