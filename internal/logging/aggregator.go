package logging

import (
	"log/slog"
	"sync"
	"time"
)

// eventKey identifies one batched event stream.
type eventKey struct {
	comp string
	name string
}

// tally accumulates occurrences of one event between flushes. attrs keep
// the values from the most recent call.
type tally struct {
	n     int64
	first time.Time
	last  time.Time
	attrs []slog.Attr
}

// aggregator turns event storms into one summary line per interval.
// Socket watchers can see hundreds of filesystem events during a build;
// logging each one would drown the file.
type aggregator struct {
	log      *slog.Logger
	interval time.Duration

	mu      sync.Mutex
	pending map[eventKey]*tally

	done     chan struct{}
	stopOnce sync.Once
	stopped  sync.WaitGroup
}

// newAggregator starts the flush goroutine immediately. log must not be nil.
func newAggregator(log *slog.Logger, interval time.Duration) *aggregator {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	a := &aggregator{
		log:      log,
		interval: interval,
		pending:  make(map[eventKey]*tally),
		done:     make(chan struct{}),
	}
	a.stopped.Add(1)
	go a.run()
	return a
}

// stop flushes whatever is pending and ends the goroutine. Safe to call
// more than once.
func (a *aggregator) stop() {
	a.stopOnce.Do(func() {
		close(a.done)
		a.stopped.Wait()
		a.flush()
	})
}

// add counts one occurrence of the event.
func (a *aggregator) add(component, event string, attrs ...slog.Attr) {
	now := time.Now()

	a.mu.Lock()
	defer a.mu.Unlock()

	key := eventKey{comp: component, name: event}
	t := a.pending[key]
	if t == nil {
		t = &tally{first: now}
		a.pending[key] = t
	}
	t.n++
	t.last = now
	if len(attrs) > 0 {
		t.attrs = attrs
	}
}

func (a *aggregator) run() {
	defer a.stopped.Done()
	tick := time.NewTicker(a.interval)
	defer tick.Stop()

	for {
		select {
		case <-tick.C:
			a.flush()
		case <-a.done:
			return
		}
	}
}

// flush swaps the pending map out under lock, then logs without it.
func (a *aggregator) flush() {
	a.mu.Lock()
	batch := a.pending
	a.pending = make(map[eventKey]*tally)
	a.mu.Unlock()

	for key, t := range batch {
		args := []any{
			slog.String("component", key.comp),
			slog.String("event", key.name),
			slog.Int64("count", t.n),
			slog.Int64("span_ms", t.last.Sub(t.first).Milliseconds()),
		}
		for _, attr := range t.attrs {
			args = append(args, attr)
		}
		a.log.Info("event_batch", args...)
	}
}
