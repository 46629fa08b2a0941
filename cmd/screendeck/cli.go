package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/asheshgoplani/screendeck/internal/config"
	"github.com/asheshgoplani/screendeck/internal/history"
	"github.com/asheshgoplani/screendeck/internal/run"
	"github.com/asheshgoplani/screendeck/internal/screen"
)

// Table column widths for ls/history output
const (
	tableColSerial  = 28
	tableColCreated = 24
	tableColCommand = 48
)

// cliManager builds the screen wrapper for subcommands, verifying the
// binary exists before anything runs through it.
func cliManager() (*screen.Manager, *config.UserConfig) {
	cfg, err := config.LoadUserConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
	}
	manager := screen.NewManager(cfg.GetScreenCommand(), &run.Runner{})
	requireScreen(manager)
	return manager, cfg
}

func handleList(args []string) {
	fs := flag.NewFlagSet("ls", flag.ExitOnError)
	jsonOutput := fs.Bool("json", false, "Output as JSON")

	fs.Usage = func() {
		fmt.Println("Usage: screendeck ls [options]")
		fmt.Println()
		fmt.Println("List screen sessions.")
		fmt.Println()
		fmt.Println("Options:")
		fs.PrintDefaults()
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  screendeck ls          # Table listing")
		fmt.Println("  screendeck ls --json   # JSON for scripting")
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	manager, _ := cliManager()
	records, err := manager.List()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to list sessions: %v\n", err)
		os.Exit(1)
	}

	if *jsonOutput {
		type sessionJSON struct {
			Serial    string `json:"serial"`
			CreatedAt string `json:"created_at"`
			Status    string `json:"status"`
		}
		sessions := make([]sessionJSON, len(records))
		for i, rec := range records {
			sessions[i] = sessionJSON{
				Serial:    rec.Serial,
				CreatedAt: rec.CreatedAt,
				Status:    rec.Status,
			}
		}
		output, err := json.MarshalIndent(sessions, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to format JSON output: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(output))
		return
	}

	if len(records) == 0 {
		fmt.Println("No screen sessions.")
		return
	}

	fmt.Printf("%-*s %-*s %s\n", tableColSerial, "SERIAL", tableColCreated, "CREATED", "STATUS")
	fmt.Println(strings.Repeat("-", tableColSerial+tableColCreated+16))
	for _, rec := range records {
		fmt.Printf("%-*s %-*s %s\n",
			tableColSerial, truncate(rec.Serial, tableColSerial),
			tableColCreated, truncate(rec.CreatedAt, tableColCreated),
			rec.Status)
	}
	fmt.Printf("\nTotal: %d sessions\n", len(records))
}

func handleAttach(args []string) {
	fs := flag.NewFlagSet("attach", flag.ExitOnError)

	fs.Usage = func() {
		fmt.Println("Usage: screendeck attach <serial>")
		fmt.Println()
		fmt.Println("Attach to a session in the foreground. Detach with C-a d or")
		fmt.Println("Ctrl+Q; the session keeps running either way.")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  screendeck attach 12345.work")
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fs.Usage()
		os.Exit(1)
	}

	manager, _ := cliManager()
	if err := manager.Attach(context.Background(), fs.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func handleNew(args []string) {
	fs := flag.NewFlagSet("new", flag.ExitOnError)
	name := fs.String("S", "", "Session name (screen -S)")

	fs.Usage = func() {
		fmt.Println("Usage: screendeck new [-S name] [command...]")
		fmt.Println()
		fmt.Println("Start a new screen session in the foreground. With no command,")
		fmt.Println("the session runs your shell. The process exits when you detach.")
		fmt.Println()
		fmt.Println("Options:")
		fs.PrintDefaults()
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  screendeck new                      # Plain shell session")
		fmt.Println("  screendeck new -S work              # Named shell session")
		fmt.Println("  screendeck new -S build make -j8    # Named session running make")
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	command := strings.Join(fs.Args(), " ")
	manager, cfg := cliManager()
	commandLine := manager.CreateCommand(*name, command)

	// Remember the command before the handoff; after it, detach and
	// process exit look the same.
	recordHistory(cfg, command)

	if err := screen.RunForeground(context.Background(), commandLine); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func handleKill(args []string) {
	fs := flag.NewFlagSet("kill", flag.ExitOnError)

	fs.Usage = func() {
		fmt.Println("Usage: screendeck kill <serial>")
		fmt.Println()
		fmt.Println("Terminate a session (screen -X -S <serial> quit).")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  screendeck kill 12345.work")
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fs.Usage()
		os.Exit(1)
	}

	serial := fs.Arg(0)
	manager, _ := cliManager()
	if err := manager.Terminate(serial); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Killed %s\n", serial)
}

func handleWipe(args []string) {
	fs := flag.NewFlagSet("wipe", flag.ExitOnError)

	fs.Usage = func() {
		fmt.Println("Usage: screendeck wipe")
		fmt.Println()
		fmt.Println("Remove sockets of dead sessions (screen -wipe) and print")
		fmt.Println("screen's report.")
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	manager, _ := cliManager()
	report, err := manager.Wipe()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(strings.TrimRight(report, "\n"))
}

func handleHistory(args []string) {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	limit := fs.Int("n", 20, "Max entries to show")
	clear := fs.Bool("clear", false, "Forget all remembered commands")

	fs.Usage = func() {
		fmt.Println("Usage: screendeck history [options]")
		fmt.Println()
		fmt.Println("Show commands launched through screendeck, most recent first.")
		fmt.Println()
		fmt.Println("Options:")
		fs.PrintDefaults()
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  screendeck history          # Last 20 commands")
		fmt.Println("  screendeck history -n 50    # Last 50 commands")
		fmt.Println("  screendeck history --clear  # Forget everything")
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	baseDir, err := config.GetScreendeckDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	store, err := history.Open(history.DefaultPath(baseDir))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open history: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()
	if err := store.Migrate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *clear {
		if err := store.Clear(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("History cleared.")
		return
	}

	entries, err := store.Entries(*limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(entries) == 0 {
		fmt.Println("No commands remembered yet.")
		return
	}

	fmt.Printf("%-*s %5s  %s\n", tableColCommand, "COMMAND", "USES", "LAST USED")
	fmt.Println(strings.Repeat("-", tableColCommand+25))
	for _, e := range entries {
		fmt.Printf("%-*s %5d  %s\n",
			tableColCommand, truncate(e.Command, tableColCommand),
			e.UseCount,
			e.LastUsed.Format("2006-01-02 15:04"))
	}
	fmt.Printf("\nTotal: %d commands\n", len(entries))
}

func handleConfig(args []string) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	createExample := fs.Bool("create-example", false, "Write a commented example config if none exists")

	fs.Usage = func() {
		fmt.Println("Usage: screendeck config [options]")
		fmt.Println()
		fmt.Println("Show the effective configuration and where it comes from.")
		fmt.Println()
		fmt.Println("Options:")
		fs.PrintDefaults()
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  screendeck config                    # Show effective settings")
		fmt.Println("  screendeck config --create-example   # Write a starter config.toml")
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	configPath, err := config.GetUserConfigPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *createExample {
		if err := config.CreateExampleConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Example config at %s\n", configPath)
		return
	}

	cfg, err := config.LoadUserConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
	}

	if _, statErr := os.Stat(configPath); os.IsNotExist(statErr) {
		fmt.Printf("Config file: %s (not present, using defaults)\n", configPath)
	} else {
		fmt.Printf("Config file: %s\n", configPath)
	}
	fmt.Println()
	fmt.Printf("  screen_command   = %q\n", cfg.GetScreenCommand())
	fmt.Printf("  theme            = %q\n", cfg.GetTheme())
	fmt.Printf("  confirm_kill     = %t\n", cfg.GetConfirmKill())
	fmt.Printf("  suggest_command  = %t\n", cfg.GetSuggestCommand())
	fmt.Printf("  watch            = %t\n", cfg.GetWatch())
	fmt.Printf("  history.enabled  = %t\n", cfg.History.GetEnabled())
	fmt.Printf("  history.max      = %d\n", cfg.History.GetMaxEntries())
	if dir := screen.SocketDir(); dir != "" {
		fmt.Printf("  socket dir       = %s\n", dir)
	} else {
		fmt.Println("  socket dir       = (not found, watcher disabled)")
	}
}

// recordHistory remembers a launched command when history is enabled.
// Best effort; a broken store never blocks launching the session.
func recordHistory(cfg *config.UserConfig, command string) {
	if command == "" || !cfg.History.GetEnabled() {
		return
	}
	baseDir, err := config.GetScreendeckDir()
	if err != nil {
		return
	}
	store, err := history.Open(history.DefaultPath(baseDir))
	if err != nil {
		return
	}
	defer store.Close()
	if err := store.Migrate(); err != nil {
		return
	}
	_ = store.Record(command)
	_ = store.Prune(cfg.History.GetMaxEntries())
}

// truncate shortens a string to max length with ellipsis
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
