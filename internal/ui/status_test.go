package ui

import (
	"strings"
	"testing"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status string
		want   statusClass
	}{
		{"Attached", statusAttached},
		{"Detached", statusDetached},
		{"Multi, attached", statusAttached},
		{"Multi, detached", statusDetached},
		{"Dead ???", statusDead},
		{"Remote or dead", statusDead},
		{"Multi, 80x24", statusUnknown},
		{"", statusUnknown},
	}

	for _, tt := range tests {
		if got := classifyStatus(tt.status); got != tt.want {
			t.Errorf("classifyStatus(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestStatusGlyph(t *testing.T) {
	tests := []struct {
		status string
		want   string
	}{
		{"Attached", "●"},
		{"Detached", "○"},
		{"Dead ???", "✕"},
		{"Multi, 80x24", "◌"},
	}

	for _, tt := range tests {
		if got := statusGlyph(tt.status); got != tt.want {
			t.Errorf("statusGlyph(%q) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestStatusIndicatorCarriesGlyph(t *testing.T) {
	// StatusIndicator styles its output, so only check the glyph survives.
	tests := []struct {
		status string
		glyph  string
	}{
		{"Attached", "●"},
		{"Detached", "○"},
		{"Dead ???", "✕"},
		{"whatever", "◌"},
	}

	for _, tt := range tests {
		result := StatusIndicator(tt.status)
		if !strings.Contains(result, tt.glyph) {
			t.Errorf("StatusIndicator(%q) = %q, missing %q", tt.status, result, tt.glyph)
		}
	}
}
