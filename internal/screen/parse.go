package screen

import (
	"regexp"
	"strings"
)

// SessionRecord is one row of screen's session listing. All three fields
// are carried verbatim from the listing text; nothing is parsed further.
type SessionRecord struct {
	// Serial identifies the session (pid.tty.host or pid.name). Unique
	// within a single listing, not stable across screen restarts.
	Serial string

	// CreatedAt is the creation timestamp as screen prints it. Builds
	// compiled without timestamp display put the state field here instead.
	CreatedAt string

	// Status is the free-text state/info field.
	Status string
}

// listPattern matches one session row: leading whitespace, the serial
// token, then two parenthesized fields. The lazy quantifiers matter;
// greedy matching would fold a multi-word second field into the first.
var listPattern = regexp.MustCompile(`^\s+(.+?)\s+\((.+?)\)\s+\((.+?)\)`)

// ParseSessions extracts session records from `screen -ls` output.
// Lines that don't look like session rows (banners, socket-dir summaries,
// "No Sockets found") are skipped. Garbage in, empty result out, never an
// error. Records keep the order screen printed them in.
func ParseSessions(text string) []SessionRecord {
	var records []SessionRecord
	for _, line := range strings.Split(text, "\n") {
		m := listPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		records = append(records, SessionRecord{
			Serial:    m[1],
			CreatedAt: m[2],
			Status:    m[3],
		})
	}
	return records
}
