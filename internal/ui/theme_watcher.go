package ui

import (
	"context"
	"log/slog"
	"sync"

	dark "github.com/thiagokokada/dark-mode-go"
)

// ThemeWatcher follows the OS light/dark setting so a dashboard running
// with theme = "system" repaints when the desktop appearance flips.
// Same shape as SocketWatcher: goroutine, buffered channel, Close.
type ThemeWatcher struct {
	changeCh  chan bool     // true=dark; carries the latest state, not a backlog
	closeCh   chan struct{} // stops the watch goroutine
	closeOnce sync.Once
}

// NewThemeWatcher starts watching the OS appearance setting. On
// platforms without dark-mode detection it returns nil and the palette
// stays at whatever was resolved on startup.
func NewThemeWatcher(parentCtx context.Context) *ThemeWatcher {
	ctx, cancel := context.WithCancel(parentCtx)

	events, errs, err := dark.WatchDarkMode(ctx)
	if err != nil {
		cancel()
		uiLog.Warn("theme_watch_unavailable", slog.String("error", err.Error()))
		return nil
	}

	tw := &ThemeWatcher{
		changeCh: make(chan bool, 1),
		closeCh:  make(chan struct{}),
	}

	go func() {
		defer cancel()
		for {
			select {
			case isDark, ok := <-events:
				if !ok {
					return
				}
				tw.publish(isDark)
			case err, ok := <-errs:
				if ok && err != nil {
					uiLog.Warn("theme_watch_error", slog.String("error", err.Error()))
				}
			case <-tw.closeCh:
				return
			}
		}
	}()
	return tw
}

// publish replaces any unread value so the UI always picks up the
// current OS state, not a stale intermediate flip. Single sender, so
// the drain cannot race another publish.
func (tw *ThemeWatcher) publish(isDark bool) {
	select {
	case tw.changeCh <- isDark:
	default:
		select {
		case <-tw.changeCh:
		default:
		}
		tw.changeCh <- isDark
	}
}

// ChangeChannel returns the channel that receives dark mode changes.
func (tw *ThemeWatcher) ChangeChannel() <-chan bool {
	return tw.changeCh
}

// Close stops the watcher goroutine. Safe to call multiple times.
func (tw *ThemeWatcher) Close() {
	tw.closeOnce.Do(func() {
		close(tw.closeCh)
	})
}
