package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/asheshgoplani/item-deck/internal/config"
	"github.com/asheshgoplani/item-deck/internal/item"
	"github.com/asheshgoplani/item-deck/internal/logging"
	"github.com/asheshgoplani/item-deck/internal/ui"
)

const Version = "0.3.0"

var cliLog = logging.ForComponent(logging.CompCLI)

// init sets up color profile for consistent terminal colors across environments
func init() {
	initColorProfile()
}

// initColorProfile configures lipgloss color profile based on terminal capabilities.
// Prefers TrueColor for best visuals, falls back to ANSI256 for compatibility.
func initColorProfile() {
	// ITEMDECK_COLOR: truecolor, 256, 16, none
	if colorEnv := os.Getenv("ITEMDECK_COLOR"); colorEnv != "" {
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

	colorTerm := os.Getenv("COLORTERM")
	if colorTerm == "truecolor" || colorTerm == "24bit" {
		lipgloss.SetColorProfile(termenv.TrueColor)
		return
	}

	term := os.Getenv("TERM")
	for _, t := range []string{"xterm-256color", "screen-256color", "tmux-256color", "xterm-direct", "alacritty", "kitty", "wezterm"} {
		if strings.Contains(term, t) {
			lipgloss.SetColorProfile(termenv.TrueColor)
			return
		}
	}

	if os.Getenv("WT_SESSION") != "" || // Windows Terminal
		os.Getenv("ITERM_SESSION_ID") != "" || // iTerm2
		os.Getenv("TERMINAL_EMULATOR") != "" || // JetBrains terminals
		os.Getenv("KONSOLE_VERSION") != "" { // Konsole
		lipgloss.SetColorProfile(termenv.TrueColor)
		return
	}

	lipgloss.SetColorProfile(termenv.ANSI256)
}

// cliEnv is what a command needs from the process: streams, terminal facts
// and the cancellation context.
type cliEnv struct {
	ctx    context.Context
	stdout io.Writer
	stderr io.Writer
	tty    bool // stdin and stdout are terminals
	width  int  // terminal columns, 0 when unknown
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	env := &cliEnv{
		ctx:    ctx,
		stdout: os.Stdout,
		stderr: os.Stderr,
		tty:    term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd())),
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		env.width = w
	}

	// Logs go to $ITEMDECK_HOME/debug.log when ITEMDECK_DEBUG is set or
	// [logs] enabled = true; otherwise they are discarded.
	logging.Init(config.LoggingConfig(os.Getenv("ITEMDECK_DEBUG") != ""))
	// stray log.Printf calls must not draw over the TUI
	log.SetFlags(0)
	log.SetOutput(logging.NewBridgeWriter(logging.CompCLI))
	watchDumpSignal()
	if _, err := config.LoadUserConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
	}

	code := run(env, os.Args[1:])
	logging.Shutdown()
	os.Exit(code)
}

// watchDumpSignal writes the log ring buffer to a file on SIGUSR1.
func watchDumpSignal() {
	baseDir, err := config.GetItemDeckDir()
	if err != nil {
		return
	}
	usr1Chan := make(chan os.Signal, 1)
	signal.Notify(usr1Chan, syscall.SIGUSR1)
	go func() {
		for range usr1Chan {
			dumpPath := filepath.Join(baseDir, fmt.Sprintf("crash-dump-%d.jsonl", time.Now().Unix()))
			if err := logging.DumpRingBuffer(dumpPath); err != nil {
				cliLog.Error("crash_dump_failed", slog.String("error", err.Error()))
			} else {
				cliLog.Info("crash_dump_written", slog.String("path", dumpPath))
			}
		}
	}()
}

// run dispatches args and returns the process exit code.
func run(env *cliEnv, args []string) int {
	var err error
	if len(args) > 0 {
		switch args[0] {
		case "version", "--version", "-v":
			fmt.Fprintf(env.stdout, "item-deck v%s\n", Version)
			return 0
		case "help", "--help", "-h":
			printHelp(env.stdout)
			return 0
		case "list", "ls":
			err = handleList(env, args[1:])
		case "show":
			err = handleShow(env, args[1:])
		case "count":
			err = handleCount(env, args[1:])
		case "init-config":
			err = handleInitConfig(env)
		default:
			err = runBrowser(env, args)
		}
	} else {
		err = runBrowser(env, args)
	}

	if err == nil || errors.Is(err, flag.ErrHelp) {
		return 0
	}
	code := ErrCodeLoadFailed
	var ce *cliError
	if errors.As(err, &ce) {
		code = ce.code
	}
	cliLog.Error("command_failed", slog.String("code", code), slog.String("error", err.Error()))
	NewCLIOutput(env.stdout, env.stderr, jsonRequested(args)).Error(err.Error(), code)
	return 1
}

func jsonRequested(args []string) bool {
	for _, a := range args {
		if a == "--json" || a == "-json" {
			return true
		}
	}
	return false
}

// runBrowser starts the TUI. Without a terminal it prints the catalog
// like list does.
func runBrowser(env *cliEnv, args []string) error {
	if !env.tty {
		return handleList(env, args)
	}

	fs := flag.NewFlagSet("item-deck", flag.ContinueOnError)
	fs.SetOutput(env.stderr)
	fuzzy := fs.Bool("fuzzy", false, "Start in fuzzy search mode")
	fs.Usage = func() { printHelp(env.stderr) }
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() > 1 {
		return newCLIError(ErrCodeUsage, fmt.Errorf("unknown command %q (see item-deck help)", fs.Arg(0)))
	}

	ui.SetVersion(Version)
	ui.InitTheme(config.ResolveTheme())

	dir, src := config.ResolveDataDir(fs.Arg(0))
	if src == config.SourceNone {
		picked, err := ui.PromptDataDir(env.ctx, "")
		if err != nil {
			return newCLIError(ErrCodeNoDataDir, err)
		}
		dir = picked
	}
	cliLog.Info("data_dir_resolved", slog.String("path", dir), slog.String("source", string(src)))

	res, err := item.LoadDir(env.ctx, dir, config.GetLoadOptions())
	if err != nil {
		return newCLIError(ErrCodeLoadFailed, fmt.Errorf("failed to load %s: %w", dir, err))
	}
	cat := item.BuildCatalog(res.Records)

	opts := ui.Options{
		Catalog:    cat,
		Load:       res,
		DataDir:    dir,
		SearchMode: config.GetSearchMode(),
	}
	if *fuzzy {
		opts.SearchMode = item.SearchFuzzy
	}
	if config.GetWatchEnabled() {
		dw, err := item.NewDataWatcher(dir)
		if err != nil {
			cliLog.Warn("data_watcher_failed", slog.String("error", err.Error()))
		} else {
			opts.DataWatcher = dw
		}
	}
	if config.GetTheme() == "system" {
		opts.ThemeWatcher = ui.NewThemeWatcher(env.ctx)
	}

	browser := ui.NewBrowser(opts)
	defer browser.Close()

	p := tea.NewProgram(browser, tea.WithAltScreen(), tea.WithContext(env.ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("ui: %w", err)
	}
	return nil
}

// handleInitConfig writes an annotated config.toml unless one exists.
func handleInitConfig(env *cliEnv) error {
	path, err := config.GetUserConfigPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(env.stdout, "Config already exists: %s\n", path)
		return nil
	}
	if err := config.CreateExampleConfig(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Fprintf(env.stdout, "Wrote %s\n", path)
	return nil
}

func printHelp(w io.Writer) {
	fmt.Fprintf(w, "item-deck v%s\n", Version)
	fmt.Fprintln(w, "Terminal browser for game item definition files")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage: item-deck [dir] [--fuzzy]")
	fmt.Fprintln(w, "       item-deck <command> [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  (none)           Start the browser")
	fmt.Fprintln(w, "  list, ls [dir]   List item names (-q filter, --fuzzy, --json)")
	fmt.Fprintln(w, "  show <name>      Show one item (--dir, --json, --plain)")
	fmt.Fprintln(w, "  count [dir]      Count files, records and items (--json)")
	fmt.Fprintln(w, "  init-config      Write an example config.toml")
	fmt.Fprintln(w, "  version          Show version")
	fmt.Fprintln(w, "  help             Show this help")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "The data folder is the argument, else data_dir from config.toml, else ./json.")
	fmt.Fprintln(w, "The browser asks for a folder when none of these is set.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  item-deck ~/cdda/data/json          # Browse a game install")
	fmt.Fprintln(w, "  item-deck list -q knife             # Names containing \"knife\"")
	fmt.Fprintln(w, "  item-deck show \"baseball bat\"       # Render one item")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment Variables:")
	fmt.Fprintln(w, "  ITEMDECK_HOME     Config and log folder (default ~/.item-deck)")
	fmt.Fprintln(w, "  ITEMDECK_DEBUG    Write debug.log")
	fmt.Fprintln(w, "  ITEMDECK_COLOR    Color mode: truecolor, 256, 16, none")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Keyboard shortcuts (in the browser):")
	fmt.Fprintln(w, "  type       Filter by name")
	fmt.Fprintln(w, "  ↑/↓        Move and select")
	fmt.Fprintln(w, "  esc        Leave search, again to clear it")
	fmt.Fprintln(w, "  tab        Switch between list and detail")
	fmt.Fprintln(w, "  y          Copy the item's JSON")
	fmt.Fprintln(w, "  ?          Help")
	fmt.Fprintln(w, "  q          Quit")
}
