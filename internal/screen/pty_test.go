//go:build !windows
// +build !windows

package screen

import (
	"context"
	"fmt"
	"os/exec"
	"testing"
)

func TestScreenExitOK(t *testing.T) {
	tests := []struct {
		code int
		want bool
	}{
		{0, true},
		{1, true},
		{2, false},
		{127, false},
		{-1, false},
	}

	for _, tt := range tests {
		if got := screenExitOK(tt.code); got != tt.want {
			t.Errorf("screenExitOK(%d) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

// exitError produces a real *exec.ExitError with the given status.
func exitError(t *testing.T, code int) error {
	t.Helper()
	err := exec.Command("sh", "-c", fmt.Sprintf("exit %d", code)).Run()
	if err == nil {
		t.Fatalf("exit %d produced no error", code)
	}
	return err
}

func TestAttachExit(t *testing.T) {
	ctx := context.Background()

	if err := attachExit(ctx, "123.demo", nil); err != nil {
		t.Errorf("nil wait error should be success, got %v", err)
	}
	if err := attachExit(ctx, "123.demo", exitError(t, 1)); err != nil {
		t.Errorf("exit 1 is a normal detach, got %v", err)
	}
	if err := attachExit(ctx, "123.demo", exitError(t, 2)); err == nil {
		t.Error("exit 2 should surface an error")
	}

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	if err := attachExit(cancelled, "123.demo", exitError(t, 2)); err != nil {
		t.Errorf("cancelled context should swallow the wait error, got %v", err)
	}
}
