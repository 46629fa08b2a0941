package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/asheshgoplani/screendeck/internal/config"
	"github.com/asheshgoplani/screendeck/internal/history"
	"github.com/asheshgoplani/screendeck/internal/logging"
	"github.com/asheshgoplani/screendeck/internal/platform"
	"github.com/asheshgoplani/screendeck/internal/run"
	"github.com/asheshgoplani/screendeck/internal/screen"
	"github.com/asheshgoplani/screendeck/internal/ui"
)

const Version = "0.1.0"

var mainLog = logging.ForComponent(logging.CompMain)

// init sets up color profile for consistent terminal colors across environments
func init() {
	initColorProfile()
}

// initColorProfile configures the lipgloss color profile before any styles
// render. SCREENDECK_COLOR overrides detection: truecolor, 256, 16, none.
func initColorProfile() {
	if colorEnv := os.Getenv("SCREENDECK_COLOR"); colorEnv != "" {
		switch strings.ToLower(colorEnv) {
		case "truecolor", "true", "24bit":
			lipgloss.SetColorProfile(termenv.TrueColor)
			return
		case "256", "ansi256":
			lipgloss.SetColorProfile(termenv.ANSI256)
			return
		case "16", "ansi", "basic":
			lipgloss.SetColorProfile(termenv.ANSI)
			return
		case "none", "off", "ascii":
			lipgloss.SetColorProfile(termenv.Ascii)
			return
		}
	}

	if platform.GetTerminalInfo().SupportsTrueColor {
		lipgloss.SetColorProfile(termenv.TrueColor)
		return
	}

	// ANSI256 still works over SSH and in older emulators.
	lipgloss.SetColorProfile(termenv.ANSI256)
}

func main() {
	args := os.Args[1:]

	if len(args) > 0 {
		switch args[0] {
		case "version", "--version", "-v":
			fmt.Printf("screendeck v%s\n", Version)
			return
		case "help", "--help", "-h":
			printHelp()
			return
		case "ls", "list":
			handleList(args[1:])
			return
		case "attach":
			handleAttach(args[1:])
			return
		case "new":
			handleNew(args[1:])
			return
		case "kill":
			handleKill(args[1:])
			return
		case "wipe":
			handleWipe(args[1:])
			return
		case "history":
			handleHistory(args[1:])
			return
		case "config":
			handleConfig(args[1:])
			return
		default:
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", args[0])
			printHelp()
			os.Exit(1)
		}
	}

	runDashboard()
}

// runDashboard starts the interactive TUI. Everything the dashboard needs
// (config, logging, history store, socket watcher) is assembled here so the
// ui package stays constructible without side effects in tests.
func runDashboard() {
	cfg, cfgErr := config.LoadUserConfig()
	if cfgErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", cfgErr)
	}

	ui.SetVersion(Version)
	ui.InitTheme(cfg.ResolveTheme())

	manager := screen.NewManager(cfg.GetScreenCommand(), &run.Runner{})
	banner := requireScreen(manager)

	// Structured logging (JSONL with rotation). Logs stay discarded unless
	// SCREENDECK_DEBUG is set or the config names a level, so the TUI never
	// fights a stray log line for the terminal.
	debugMode := os.Getenv("SCREENDECK_DEBUG") != ""
	if baseDir, err := config.GetScreendeckDir(); err == nil {
		logCfg := logging.Config{
			Debug:                 debugMode,
			Level:                 "info",
			Format:                "json",
			MaxSizeMB:             10,
			MaxBackups:            5,
			MaxAgeDays:            10,
			Compress:              true,
			RingBufferSize:        10 * 1024 * 1024,
			AggregateIntervalSecs: 30,
		}
		if debugMode {
			logCfg.Level = "debug"
		}
		if debugMode || cfg.Log.Level != "" {
			logCfg.LogDir = baseDir
		}

		ls := cfg.Log
		if ls.Level != "" {
			logCfg.Level = ls.Level
		}
		if ls.Format != "" {
			logCfg.Format = ls.Format
		}
		if ls.MaxSizeMB > 0 {
			logCfg.MaxSizeMB = ls.MaxSizeMB
		}
		if ls.MaxBackups > 0 {
			logCfg.MaxBackups = ls.MaxBackups
		}
		if ls.MaxAgeDays > 0 {
			logCfg.MaxAgeDays = ls.MaxAgeDays
		}

		logging.Init(logCfg)
		defer logging.Shutdown()

		mainLog.Info("dashboard_started",
			slog.Int("pid", os.Getpid()),
			slog.String("version", Version),
			slog.String("screen", banner))

		// SIGUSR1 dumps the ring buffer for post-mortem debugging
		usr1Chan := make(chan os.Signal, 1)
		signal.Notify(usr1Chan, syscall.SIGUSR1)
		go func() {
			for range usr1Chan {
				dumpPath := filepath.Join(baseDir, fmt.Sprintf("crash-dump-%d.jsonl", time.Now().Unix()))
				if err := logging.DumpRingBuffer(dumpPath); err != nil {
					mainLog.Error("crash_dump_failed", slog.String("error", err.Error()))
				} else {
					mainLog.Info("crash_dump_written", slog.String("path", dumpPath))
				}
			}
		}()
	}

	// Command history store backing the new-session dialog suggestions.
	// Any failure here degrades to a dashboard without history.
	var hist *history.Store
	if cfg.History.GetEnabled() {
		if baseDir, err := config.GetScreendeckDir(); err == nil {
			store, err := history.Open(history.DefaultPath(baseDir))
			if err != nil {
				mainLog.Warn("history_unavailable", slog.String("error", err.Error()))
			} else if err := store.Migrate(); err != nil {
				mainLog.Warn("history_migrate_failed", slog.String("error", err.Error()))
				store.Close()
			} else {
				_ = store.Prune(cfg.History.GetMaxEntries())
				hist = store
				defer hist.Close()
			}
		}
	}

	// Graceful shutdown on SIGINT/SIGTERM. os.Exit skips the defers above,
	// so the handler closes the store and flushes logs itself.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		if hist != nil {
			_ = hist.Close()
		}
		logging.Shutdown()
		os.Exit(0)
	}()

	// Watch screen's socket directory so sessions started or ended outside
	// the dashboard show up without a manual refresh.
	var watcher *ui.SocketWatcher
	if cfg.GetWatch() {
		if dir := screen.SocketDir(); dir != "" {
			w, err := ui.NewSocketWatcher(dir)
			if err != nil {
				mainLog.Warn("socket_watch_unavailable",
					slog.String("dir", dir),
					slog.String("error", err.Error()))
			} else {
				watcher = w
				defer watcher.Close()
			}
		}
	}

	// With theme = "system" the dashboard also follows OS dark-mode flips
	// while it is running, not just at startup.
	var themeWatcher *ui.ThemeWatcher
	if cfg.GetTheme() == "system" {
		if tw := ui.NewThemeWatcher(context.Background()); tw != nil {
			themeWatcher = tw
			defer themeWatcher.Close()
		}
	}

	home := ui.NewHome(manager, cfg)
	if hist != nil {
		home.SetHistory(hist)
	}
	if watcher != nil {
		home.SetWatcher(watcher)
	}
	if themeWatcher != nil {
		home.SetThemeWatcher(themeWatcher)
	}

	p := tea.NewProgram(
		home,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// requireScreen verifies the screen binary exists, returning its version
// banner. Missing binary is the one error worth a full install hint.
func requireScreen(manager *screen.Manager) string {
	banner, err := manager.Version()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s not found in PATH\n", manager.Base())
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "screendeck requires GNU screen. Install with:")
		fmt.Fprintln(os.Stderr, "  apt install screen     # Debian/Ubuntu")
		fmt.Fprintln(os.Stderr, "  dnf install screen     # Fedora")
		fmt.Fprintln(os.Stderr, "  brew install screen    # macOS")
		os.Exit(1)
	}
	return banner
}

func printHelp() {
	fmt.Printf("screendeck v%s\n", Version)
	fmt.Println("Terminal dashboard for GNU screen sessions")
	fmt.Println()
	fmt.Println("Usage: screendeck [command]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  (none)                       Start the dashboard")
	fmt.Println("  ls, list                     List sessions")
	fmt.Println("  attach <serial>              Attach to a session")
	fmt.Println("  new [-S name] [command...]   Start a new session")
	fmt.Println("  kill <serial>                Terminate a session")
	fmt.Println("  wipe                         Remove dead session sockets")
	fmt.Println("  history                      Show remembered commands")
	fmt.Println("  config                       Show effective configuration")
	fmt.Println("  version                      Show version")
	fmt.Println("  help                         Show this help")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  screendeck                        # Start the dashboard")
	fmt.Println("  screendeck new -S work ./run.sh   # Named session running a script")
	fmt.Println("  screendeck attach 12345.work      # Resume a session")
	fmt.Println("  screendeck ls --json              # Listing for scripts")
	fmt.Println("  screendeck kill 12345.work        # Terminate a session")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  SCREENDECK_COLOR   Color mode: truecolor, 256, 16, none")
	fmt.Println("  SCREENDECK_DEBUG   Write debug logs to ~/.screendeck/debug.log")
	fmt.Println("  SCREENDIR          Socket directory override (screen's own)")
	fmt.Println()
	fmt.Println("Keyboard shortcuts (in the dashboard):")
	fmt.Println("  Enter      Attach to selected session")
	fmt.Println("  n          New session")
	fmt.Println("  d          Kill session (asks first)")
	fmt.Println("  w          Wipe dead sessions")
	fmt.Println("  r          Refresh")
	fmt.Println("  /          Filter sessions")
	fmt.Println("  v          Toggle command output view")
	fmt.Println("  c          Copy output to clipboard")
	fmt.Println("  t          Toggle dark/light theme")
	fmt.Println("  Ctrl+Q     Detach (while attached)")
	fmt.Println("  q          Quit")
}
