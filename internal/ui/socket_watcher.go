package ui

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/asheshgoplani/screendeck/internal/logging"
	"github.com/asheshgoplani/screendeck/internal/platform"
)

var watcherLog = logging.ForComponent(logging.CompWatch)

// debounceWindow is how long we wait after the last event for a socket
// before signalling a reload. Screen touches the socket several times in a
// row during attach and detach; one reload per burst is enough.
const debounceWindow = 300 * time.Millisecond

// SocketWatcher monitors the screen socket directory and signals the UI
// when sessions come and go or flip attach state. Screen updates the
// socket's mode bits on attach/detach, so Chmod events matter here as much
// as Create and Remove.
type SocketWatcher struct {
	watcher  *fsnotify.Watcher
	reloadCh chan struct{}

	// limiter caps reload signals during socket churn. Anything it drops is
	// picked up by the user's next manual refresh.
	limiter *rate.Limiter

	warning string

	closeCh   chan struct{}
	closeOnce sync.Once
}

// NewSocketWatcher creates a watcher on the given socket directory.
// Returns an error if the directory does not exist or cannot be watched;
// the dashboard treats that as "no live updates" and leaves refresh manual.
func NewSocketWatcher(dir string) (*SocketWatcher, error) {
	if dir == "" {
		return nil, fmt.Errorf("no socket directory to watch")
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("socket directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	sw := &SocketWatcher{
		watcher:  watcher,
		reloadCh: make(chan struct{}, 1), // Buffered to prevent blocking
		limiter:  rate.NewLimiter(rate.Every(time.Second), 2),
		warning:  platform.CheckFsnotifySupport(dir),
		closeCh:  make(chan struct{}),
	}

	go sw.eventLoop()

	watcherLog.Debug("socket_watcher_started", slog.String("dir", dir))
	return sw, nil
}

// eventLoop handles file system events with per-socket debouncing.
func (sw *SocketWatcher) eventLoop() {
	// Debounce map
	debounce := make(map[string]*time.Timer)
	debounceMu := sync.Mutex{}

	for {
		select {
		case <-sw.closeCh:
			// Stop all pending debounce timers to prevent goroutine leaks
			debounceMu.Lock()
			for _, timer := range debounce {
				timer.Stop()
			}
			debounceMu.Unlock()
			return
		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}

			if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename|fsnotify.Chmod) == 0 {
				continue
			}

			// Sockets churn in bursts, so individual events are batched
			// rather than logged one by one.
			logging.Aggregate(logging.CompWatch, "socket_event", slog.String("op", event.Op.String()))

			// Debounce: wait for the last event on this socket
			debounceMu.Lock()
			if timer, exists := debounce[event.Name]; exists {
				timer.Stop()
			}
			debounce[event.Name] = time.AfterFunc(debounceWindow, func() {
				debounceMu.Lock()
				delete(debounce, event.Name)
				debounceMu.Unlock()
				sw.notify()
			})
			debounceMu.Unlock()

		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			watcherLog.Warn("socket_watcher_error", slog.String("error", err.Error()))
		}
	}
}

// notify sends a reload signal unless rate-limited.
func (sw *SocketWatcher) notify() {
	if !sw.limiter.Allow() {
		watcherLog.Debug("socket_watcher_rate_limited")
		return
	}

	// Non-blocking send (drop if channel full)
	select {
	case sw.reloadCh <- struct{}{}:
		watcherLog.Debug("socket_watcher_reload")
	default:
		watcherLog.Debug("socket_watcher_reload_channel_full")
	}
}

// ReloadChannel returns the channel that signals when reload is needed.
func (sw *SocketWatcher) ReloadChannel() <-chan struct{} {
	return sw.reloadCh
}

// Warning returns a human-readable note when the socket directory sits on a
// filesystem where inotify is unreliable (9p, NFS, CIFS), or "" when fine.
func (sw *SocketWatcher) Warning() string {
	return sw.warning
}

// Close stops the watcher and releases resources. Safe to call multiple times.
func (sw *SocketWatcher) Close() error {
	var err error
	sw.closeOnce.Do(func() {
		close(sw.closeCh)
		err = sw.watcher.Close()
	})
	return err
}
