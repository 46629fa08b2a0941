package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asheshgoplani/screendeck/internal/screen"
)

func filterRecords() []screen.SessionRecord {
	return []screen.SessionRecord{
		{Serial: "12345.work", CreatedAt: "08/20/25 10:00:00", Status: "Detached"},
		{Serial: "12346.builds", CreatedAt: "08/20/25 10:05:00", Status: "Attached"},
		{Serial: "12347.scratch", CreatedAt: "08/20/25 10:10:00", Status: "Detached"},
	}
}

func typeString(t *testing.T, f *Filter, s string) {
	t.Helper()
	for _, r := range s {
		updated, _ := f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		*f = *updated
	}
}

func TestFilterHiddenPassesThrough(t *testing.T) {
	f := NewFilter()
	records := filterRecords()

	assert.Equal(t, records, f.Apply(records))
}

func TestFilterNarrowsBySerial(t *testing.T) {
	f := NewFilter()
	f.Show()
	typeString(t, f, "work")

	got := f.Apply(filterRecords())
	require.Len(t, got, 1)
	assert.Equal(t, "12345.work", got[0].Serial)
}

func TestFilterMatchesStatus(t *testing.T) {
	f := NewFilter()
	f.Show()
	typeString(t, f, "Attached")

	got := f.Apply(filterRecords())
	require.NotEmpty(t, got)
	assert.Equal(t, "12346.builds", got[0].Serial)
}

func TestFilterFuzzySubsequence(t *testing.T) {
	f := NewFilter()
	f.Show()
	typeString(t, f, "scr")

	got := f.Apply(filterRecords())
	require.Len(t, got, 1)
	assert.Equal(t, "12347.scratch", got[0].Serial)
}

func TestFilterNoMatch(t *testing.T) {
	f := NewFilter()
	f.Show()
	typeString(t, f, "zzzzzz")

	assert.Empty(t, f.Apply(filterRecords()))
}

func TestFilterEnterCommitsQuery(t *testing.T) {
	f := NewFilter()
	f.Show()
	typeString(t, f, "work")

	updated, _ := f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	f = updated

	assert.True(t, f.IsVisible())
	assert.False(t, f.Focused())
	assert.Equal(t, "work", f.Query())
	// The committed query still narrows the list.
	assert.Len(t, f.Apply(filterRecords()), 1)
}

func TestFilterEscClears(t *testing.T) {
	f := NewFilter()
	f.Show()
	typeString(t, f, "work")

	updated, _ := f.Update(tea.KeyMsg{Type: tea.KeyEsc})
	f = updated

	assert.False(t, f.IsVisible())
	assert.Equal(t, "", f.Query())
	assert.Equal(t, filterRecords(), f.Apply(filterRecords()))
}

func TestFilterEnterOnEmptyHides(t *testing.T) {
	f := NewFilter()
	f.Show()

	updated, _ := f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	f = updated

	assert.False(t, f.IsVisible())
}
