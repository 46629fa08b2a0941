package logging

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRingBufferBelowCapacity(t *testing.T) {
	r := newRingBuffer(64)
	r.Write([]byte("hello "))
	r.Write([]byte("world"))

	if got := string(r.snapshot()); got != "hello world" {
		t.Errorf("snapshot = %q, want %q", got, "hello world")
	}
}

func TestRingBufferEmpty(t *testing.T) {
	r := newRingBuffer(16)
	if got := r.snapshot(); len(got) != 0 {
		t.Errorf("snapshot of empty buffer = %q, want empty", got)
	}
}

func TestRingBufferExactCapacity(t *testing.T) {
	r := newRingBuffer(4)
	r.Write([]byte("wxyz"))

	if got := string(r.snapshot()); got != "wxyz" {
		t.Errorf("snapshot = %q, want %q", got, "wxyz")
	}
}

// Streams 18 bytes through an 8-byte buffer in uneven chunks and checks
// the survivors after every write, covering wrap at both the logical and
// the physical end.
func TestRingBufferOverwriteSequence(t *testing.T) {
	r := newRingBuffer(8)

	steps := []struct {
		write string
		want  string
	}{
		{"AAAA", "AAAA"},
		{"BBBB", "AAAABBBB"},
		{"CC", "AABBBBCC"},
		{"DDD", "BBBCCDDD"},
		{"EE", "BCCDDDEE"},
		{"FFF", "DDDEEFFF"},
	}
	for _, step := range steps {
		n, err := r.Write([]byte(step.write))
		if err != nil || n != len(step.write) {
			t.Fatalf("Write(%q) = (%d, %v)", step.write, n, err)
		}
		if got := string(r.snapshot()); got != step.want {
			t.Errorf("after %q: snapshot = %q, want %q", step.write, got, step.want)
		}
	}
}

func TestRingBufferInputLargerThanCapacity(t *testing.T) {
	r := newRingBuffer(4)

	n, err := r.Write([]byte("0123456789"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if n != 10 {
		t.Errorf("Write returned %d, want the full input length 10", n)
	}
	if got := string(r.snapshot()); got != "6789" {
		t.Errorf("snapshot = %q, want %q", got, "6789")
	}
}

func TestRingBufferDefaultCapacity(t *testing.T) {
	r := newRingBuffer(0)
	if len(r.buf) != 4<<20 {
		t.Errorf("default capacity = %d, want %d", len(r.buf), 4<<20)
	}
}

func TestRingBufferDump(t *testing.T) {
	r := newRingBuffer(32)
	r.Write([]byte("line one\nline two\n"))

	path := filepath.Join(t.TempDir(), "dump.jsonl")
	if err := r.dump(path); err != nil {
		t.Fatalf("dump: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read dump: %v", err)
	}
	if string(data) != "line one\nline two\n" {
		t.Errorf("dump contents = %q", data)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat dump: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("dump permissions = %o, want 600", perm)
	}
}
