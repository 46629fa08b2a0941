package clipboard

import (
	"strings"
	"testing"
)

func TestCopyEmptyContent(t *testing.T) {
	_, err := Copy("", false)
	if err == nil {
		t.Fatal("empty content should be an error")
	}
	if err.Error() != "no content to copy" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCopyResultMetadata(t *testing.T) {
	result, err := Copy("line1\nline2\nline3\n", false)
	if err != nil {
		t.Skipf("no native clipboard here: %v", err)
	}
	if result.ByteSize != 18 {
		t.Errorf("ByteSize = %d, want 18", result.ByteSize)
	}
	if result.LineCount != 3 {
		t.Errorf("LineCount = %d, want 3", result.LineCount)
	}
	if result.Method == "" {
		t.Error("Method should name the tool that was used")
	}
}

func TestCountLines(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"hello world", 1},
		{"line1\nline2\nline3", 3},
		{"line1\nline2\nline3\n", 3},
		{"\n\n\n", 3},
	}
	for _, tt := range tests {
		if got := countLines(tt.text); got != tt.want {
			t.Errorf("countLines(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestOSC52Sequence(t *testing.T) {
	// base64("hello") = aGVsbG8=
	want := "\x1b]52;c;aGVsbG8=\x07"
	if got := osc52("hello"); got != want {
		t.Errorf("osc52 = %q, want %q", got, want)
	}
}

func TestScreenPassthroughShortSequence(t *testing.T) {
	got := screenPassthrough("abc")
	want := "\x1bPabc\x1b\\"
	if got != want {
		t.Errorf("passthrough = %q, want %q", got, want)
	}
}

func TestScreenPassthroughChunksLongSequences(t *testing.T) {
	seq := osc52(strings.Repeat("x", 300))
	wrapped := screenPassthrough(seq)

	envelopes := strings.Count(wrapped, "\x1bP")
	wantEnvelopes := (len(seq) + 75) / 76
	if envelopes != wantEnvelopes {
		t.Errorf("got %d DCS envelopes for %d bytes, want %d", envelopes, len(seq), wantEnvelopes)
	}
	if envelopes < 2 {
		t.Fatalf("long sequence should span multiple envelopes, got %d", envelopes)
	}

	// Stripping the envelopes must reassemble the original byte stream,
	// because that is exactly what the outer terminal sees.
	stripped := strings.ReplaceAll(wrapped, "\x1bP", "")
	stripped = strings.ReplaceAll(stripped, "\x1b\\", "")
	if stripped != seq {
		t.Error("envelope payloads do not reassemble into the original sequence")
	}
}

func TestScreenPassthroughEmpty(t *testing.T) {
	if got := screenPassthrough(""); got != "" {
		t.Errorf("passthrough of empty sequence = %q, want empty", got)
	}
}
