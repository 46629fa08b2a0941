package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer lets the flush goroutine and the test share one buffer.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// newTestAggregator uses an interval long enough that flushes only
// happen when the test asks for them.
func newTestAggregator(t *testing.T) (*aggregator, *syncBuffer) {
	t.Helper()
	buf := &syncBuffer{}
	a := newAggregator(slog.New(slog.NewJSONHandler(buf, nil)), time.Hour)
	t.Cleanup(a.stop)
	return a, buf
}

func decodeBatches(t *testing.T, buf *syncBuffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("bad log line %q: %v", line, err)
		}
		if m["msg"] == "event_batch" {
			out = append(out, m)
		}
	}
	return out
}

func findBatch(t *testing.T, batches []map[string]any, event string) map[string]any {
	t.Helper()
	for _, b := range batches {
		if b["event"] == event {
			return b
		}
	}
	t.Fatalf("no batch for event %q", event)
	return nil
}

func TestAggregatorCountsEvents(t *testing.T) {
	a, buf := newTestAggregator(t)

	for range 5 {
		a.add(CompWatch, "fs_event", slog.String("op", "CREATE"))
	}
	a.add(CompScreen, "list", slog.Int("sessions", 3))
	a.flush()

	batches := decodeBatches(t, buf)
	if len(batches) != 2 {
		t.Fatalf("got %d batches, want 2", len(batches))
	}

	fs := findBatch(t, batches, "fs_event")
	if fs["count"].(float64) != 5 {
		t.Errorf("count = %v, want 5", fs["count"])
	}
	if fs["component"] != CompWatch {
		t.Errorf("component = %v, want %q", fs["component"], CompWatch)
	}
	if fs["op"] != "CREATE" {
		t.Errorf("op = %v, want CREATE", fs["op"])
	}
}

func TestAggregatorFlushDrainsPending(t *testing.T) {
	a, buf := newTestAggregator(t)

	a.add(CompWatch, "fs_event")
	a.flush()
	a.flush()

	if got := len(decodeBatches(t, buf)); got != 1 {
		t.Errorf("got %d batches after double flush, want 1", got)
	}
}

func TestAggregatorLastAttrsWin(t *testing.T) {
	a, buf := newTestAggregator(t)

	a.add(CompWatch, "fs_event", slog.String("op", "CREATE"))
	a.add(CompWatch, "fs_event", slog.String("op", "REMOVE"))
	a.flush()

	fs := findBatch(t, decodeBatches(t, buf), "fs_event")
	if fs["op"] != "REMOVE" {
		t.Errorf("op = %v, want the most recent value REMOVE", fs["op"])
	}
}

func TestAggregatorStopFlushes(t *testing.T) {
	buf := &syncBuffer{}
	a := newAggregator(slog.New(slog.NewJSONHandler(buf, nil)), time.Hour)

	a.add(CompRun, "exec")
	a.stop()
	a.stop()

	if got := len(decodeBatches(t, buf)); got != 1 {
		t.Errorf("got %d batches after stop, want 1", got)
	}
}

func TestAggregatorPeriodicFlush(t *testing.T) {
	buf := &syncBuffer{}
	a := newAggregator(slog.New(slog.NewJSONHandler(buf, nil)), 20*time.Millisecond)
	defer a.stop()

	a.add(CompWatch, "fs_event")

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(decodeBatches(t, buf)) > 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("no batch flushed within 2s")
}

func TestAggregatorConcurrentAdd(t *testing.T) {
	a, buf := newTestAggregator(t)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				a.add(CompWatch, "fs_event")
			}
		}()
	}
	wg.Wait()
	a.flush()

	fs := findBatch(t, decodeBatches(t, buf), "fs_event")
	if fs["count"].(float64) != 800 {
		t.Errorf("count = %v, want 800", fs["count"])
	}
}
