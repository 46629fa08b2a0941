// Package logging funnels every subsystem through one slog pipeline.
// Records go to a rotated JSONL file and an in-memory ring that can be
// dumped on SIGUSR1. The TUI owns the terminal, so nothing in this
// package ever writes to stdout or stderr.
package logging

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Component names stamped on every record so one log file can be
// filtered per subsystem.
const (
	CompUI      = "ui"
	CompScreen  = "screen"
	CompRun     = "run"
	CompWatch   = "watch"
	CompConfig  = "config"
	CompHistory = "history"
	CompMain    = "main"
)

// Config holds logging configuration.
type Config struct {
	// LogDir is the directory for log files (e.g. ~/.screendeck).
	// Empty with Debug unset means all output is discarded.
	LogDir string

	// Level is the minimum log level: "debug", "info", "warn", "error"
	Level string

	// Format is "json" (default) or "text"
	Format string

	// MaxSizeMB is the max size in MB before rotation (default: 10)
	MaxSizeMB int

	// MaxBackups is rotated files to keep (default: 5)
	MaxBackups int

	// MaxAgeDays is days to keep rotated files (default: 10)
	MaxAgeDays int

	// Compress rotated files (default: true)
	Compress bool

	// RingBufferSize is the in-memory ring capacity in bytes (default: 4MB)
	RingBufferSize int

	// AggregateIntervalSecs is the batched-event flush interval (default: 30)
	AggregateIntervalSecs int

	// Debug forces file output and debug level regardless of LogDir
	Debug bool
}

func (c Config) withDefaults() Config {
	if c.MaxSizeMB <= 0 {
		c.MaxSizeMB = 10
	}
	if c.MaxBackups <= 0 {
		c.MaxBackups = 5
	}
	if c.MaxAgeDays <= 0 {
		c.MaxAgeDays = 10
	}
	if c.RingBufferSize <= 0 {
		c.RingBufferSize = 4 << 20
	}
	if c.AggregateIntervalSecs <= 0 {
		c.AggregateIntervalSecs = 30
	}
	return c
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// All mutable logging state lives behind one lock. Init replaces it
// wholesale; readers grab a snapshot under RLock.
var global struct {
	mu     sync.RWMutex
	logger *slog.Logger
	ring   *ringBuffer
	agg    *aggregator
	file   *lumberjack.Logger
}

// Init wires up the global pipeline. Without Debug and without a LogDir
// the pipeline is a discard handler: a dashboard run by someone who never
// asked for logs leaves no files behind.
func Init(cfg Config) {
	cfg = cfg.withDefaults()

	global.mu.Lock()
	defer global.mu.Unlock()

	if !cfg.Debug && cfg.LogDir == "" {
		global.logger = slog.New(slog.DiscardHandler)
		global.ring = nil
		global.agg = nil
		global.file = nil
		return
	}

	global.file = &lumberjack.Logger{
		Filename:   filepath.Join(cfg.LogDir, "debug.log"),
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
	global.ring = newRingBuffer(cfg.RingBufferSize)

	sink := io.MultiWriter(global.file, global.ring)
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var h slog.Handler
	if cfg.Format == "text" {
		h = slog.NewTextHandler(sink, opts)
	} else {
		h = slog.NewJSONHandler(sink, opts)
	}
	global.logger = slog.New(h)

	// High-frequency events (socket churn during builds) get counted and
	// flushed as one summary line per interval.
	global.agg = newAggregator(global.logger, time.Duration(cfg.AggregateIntervalSecs)*time.Second)
}

// Logger returns the global logger. Safe before Init; returns a discard
// logger until Init runs.
func Logger() *slog.Logger {
	global.mu.RLock()
	defer global.mu.RUnlock()
	if global.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return global.logger
}

// ForComponent returns a logger that stamps every record with the
// component name. Component loggers are package-level vars created long
// before Init runs, so the handler resolves the global pipeline at log
// time instead of capturing whatever existed at construction.
func ForComponent(name string) *slog.Logger {
	return slog.New(&componentHandler{component: name})
}

// componentHandler defers to the current global handler on every call.
type componentHandler struct {
	component string
	attrs     []slog.Attr
	group     string
}

func (h *componentHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return Logger().Handler().Enabled(ctx, level)
}

func (h *componentHandler) Handle(ctx context.Context, r slog.Record) error {
	target := Logger().Handler().WithAttrs([]slog.Attr{slog.String("component", h.component)})
	if len(h.attrs) > 0 {
		target = target.WithAttrs(h.attrs)
	}
	if h.group != "" {
		target = target.WithGroup(h.group)
	}
	return target.Handle(ctx, r)
}

func (h *componentHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &componentHandler{component: h.component, attrs: merged, group: h.group}
}

func (h *componentHandler) WithGroup(name string) slog.Handler {
	return &componentHandler{component: h.component, attrs: h.attrs, group: name}
}

// Aggregate counts a high-frequency event for batched logging. A no-op
// until Init sets up a file pipeline.
func Aggregate(component, event string, attrs ...slog.Attr) {
	global.mu.RLock()
	agg := global.agg
	global.mu.RUnlock()
	if agg != nil {
		agg.add(component, event, attrs...)
	}
}

// DumpRingBuffer writes the most recent log output to path. Used by the
// SIGUSR1 handler for post-mortems.
func DumpRingBuffer(path string) error {
	global.mu.RLock()
	ring := global.ring
	global.mu.RUnlock()
	if ring == nil {
		return nil
	}
	return ring.dump(path)
}

// Shutdown flushes pending summaries and closes the log file.
func Shutdown() {
	global.mu.Lock()
	defer global.mu.Unlock()

	if global.agg != nil {
		global.agg.stop()
		global.agg = nil
	}
	if global.file != nil {
		global.file.Close()
		global.file = nil
	}
	global.logger = nil
	global.ring = nil
}
