package main

import (
	"os"
	"os/exec"
	"testing"

	"github.com/asheshgoplani/screendeck/internal/config"
	"github.com/asheshgoplani/screendeck/internal/history"
	"github.com/asheshgoplani/screendeck/internal/run"
	"github.com/asheshgoplani/screendeck/internal/screen"
	"github.com/asheshgoplani/screendeck/internal/ui"
)

func TestScreenAvailable(t *testing.T) {
	_, err := exec.LookPath("screen")
	if err != nil {
		t.Skip("screen not available - skipping test")
	}
}

func TestHomeInit(t *testing.T) {
	home := ui.NewHome(screen.NewManager("screen", &run.Runner{}), &config.UserConfig{})
	if home == nil {
		t.Fatal("NewHome() returned nil")
	}
}

func TestHomeView(t *testing.T) {
	home := ui.NewHome(screen.NewManager("screen", &run.Runner{}), &config.UserConfig{})
	view := home.View()
	if view == "" {
		t.Error("View() returned empty string")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"shorter than max", "hello", 10, "hello"},
		{"exactly max", "hello", 5, "hello"},
		{"longer than max", "hello world", 8, "hello..."},
		{"tiny max", "hello", 2, "he"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.in, tt.max); got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
		})
	}
}

func TestRecordHistoryRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := &config.UserConfig{}
	recordHistory(cfg, "make -j8")

	baseDir, err := config.GetScreendeckDir()
	if err != nil {
		t.Fatal(err)
	}
	store, err := history.Open(history.DefaultPath(baseDir))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	if err := store.Migrate(); err != nil {
		t.Fatal(err)
	}

	recent, err := store.Recent(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 1 || recent[0] != "make -j8" {
		t.Errorf("expected [make -j8], got %v", recent)
	}
}

func TestRecordHistorySkipsEmptyCommand(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	recordHistory(&config.UserConfig{}, "")

	baseDir, err := config.GetScreendeckDir()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(history.DefaultPath(baseDir)); !os.IsNotExist(err) {
		t.Error("empty command should not create the history database")
	}
}

func TestRecordHistoryRespectsDisabled(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	disabled := false
	cfg := &config.UserConfig{}
	cfg.History.Enabled = &disabled
	recordHistory(cfg, "make -j8")

	baseDir, err := config.GetScreendeckDir()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(history.DefaultPath(baseDir)); !os.IsNotExist(err) {
		t.Error("disabled history should not create the database")
	}
}
