package screen

import (
	"errors"
	"strings"
)

// Sentinel errors for conditions recognized from screen's behavior.
// screen reports most failures as prose on its output stream rather than
// through exit codes, so classification is substring matching against the
// same text its interactive users read.
var (
	// ErrScreenNotFound means the screen binary is not on PATH.
	ErrScreenNotFound = errors.New("screen binary not found")

	// ErrSessionNotFound means no session matched the given serial.
	ErrSessionNotFound = errors.New("no matching screen session")
)

// isNoSessionText reports whether out contains screen's no-such-session
// prose. Covers both the -X command form and the resume form.
func isNoSessionText(out string) bool {
	return strings.Contains(out, "No screen session found") ||
		strings.Contains(out, "There is no screen to be resumed")
}
