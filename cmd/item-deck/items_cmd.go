package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/asheshgoplani/item-deck/internal/config"
	"github.com/asheshgoplani/item-deck/internal/item"
)

// maxSuggestions caps the "did you mean" list of show.
const maxSuggestions = 3

// loadCatalog resolves the data directory (no prompt) and loads it.
func loadCatalog(env *cliEnv, dirArg string) (*item.LoadResult, *item.Catalog, error) {
	dir, src := config.ResolveDataDir(dirArg)
	if src == config.SourceNone {
		return nil, nil, newCLIError(ErrCodeNoDataDir,
			fmt.Errorf("%w: pass a folder or set data_dir in %s", item.ErrNoDataDir, configHint()))
	}
	cliLog.Debug("data_dir_resolved", slog.String("path", dir), slog.String("source", string(src)))

	res, err := item.LoadDir(env.ctx, dir, config.GetLoadOptions())
	if err != nil {
		return nil, nil, newCLIError(ErrCodeLoadFailed, fmt.Errorf("failed to load %s: %w", dir, err))
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(env.stderr, "warning: skipped %s\n", w.Error())
	}
	return res, item.BuildCatalog(res.Records), nil
}

func configHint() string {
	path, err := config.GetUserConfigPath()
	if err != nil {
		return "config.toml"
	}
	return path
}

// parseFlags parses args after moving flags to the front. It returns
// flag.ErrHelp untouched so callers can exit cleanly after -h.
func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(normalizeArgs(fs, args)); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return newCLIError(ErrCodeUsage, err)
	}
	return nil
}

type listEntry struct {
	Name   string `json:"name"`
	Source string `json:"source"`
	Index  int    `json:"index"`
}

func handleList(env *cliEnv, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(env.stderr)
	jsonOutput := fs.Bool("json", false, "Output as JSON")
	query := fs.String("q", "", "Only list names containing this text (case-insensitive)")
	fuzzy := fs.Bool("fuzzy", false, "Match -q as a fuzzy pattern")

	fs.Usage = func() {
		fmt.Fprintln(env.stderr, "Usage: item-deck list [dir] [options]")
		fmt.Fprintln(env.stderr)
		fmt.Fprintln(env.stderr, "List item names in catalog order.")
		fmt.Fprintln(env.stderr)
		fmt.Fprintln(env.stderr, "Options:")
		fs.PrintDefaults()
		fmt.Fprintln(env.stderr)
		fmt.Fprintln(env.stderr, "Examples:")
		fmt.Fprintln(env.stderr, "  item-deck list ~/cdda/data/json")
		fmt.Fprintln(env.stderr, "  item-deck list -q bat --json")
	}

	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() > 1 {
		return newCLIError(ErrCodeUsage, fmt.Errorf("list takes at most one folder, got %d arguments", fs.NArg()))
	}

	_, cat, err := loadCatalog(env, fs.Arg(0))
	if err != nil {
		return err
	}

	mode := item.SearchSubstring
	if *fuzzy {
		mode = item.SearchFuzzy
	}
	matches := cat.Search(*query, mode)
	cliLog.Info("list_complete",
		slog.String("query", *query),
		slog.Int("matches", matches.Len()))

	var human strings.Builder
	entries := make([]listEntry, 0, matches.Len())
	for _, idx := range matches.Indices {
		rec, _ := cat.At(idx)
		name := cat.Name(idx)
		human.WriteString(name)
		human.WriteString("\n")
		entries = append(entries, listEntry{Name: name, Source: rec.Source, Index: rec.Index})
	}
	return NewCLIOutput(env.stdout, env.stderr, *jsonOutput).Print(human.String(), entries)
}

func handleShow(env *cliEnv, args []string) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	fs.SetOutput(env.stderr)
	dirArg := fs.String("dir", "", "Item data folder (default: data_dir from config, then ./json)")
	jsonOutput := fs.Bool("json", false, "Print the raw record as JSON")
	plain := fs.Bool("plain", false, "Print plain text instead of rendered Markdown")

	fs.Usage = func() {
		fmt.Fprintln(env.stderr, "Usage: item-deck show <name> [options]")
		fmt.Fprintln(env.stderr)
		fmt.Fprintln(env.stderr, "Show the details of the first item with this name.")
		fmt.Fprintln(env.stderr)
		fmt.Fprintln(env.stderr, "Options:")
		fs.PrintDefaults()
		fmt.Fprintln(env.stderr)
		fmt.Fprintln(env.stderr, "Examples:")
		fmt.Fprintln(env.stderr, "  item-deck show \"baseball bat\"")
		fmt.Fprintln(env.stderr, "  item-deck show rock --json --dir ./json")
	}

	if err := parseFlags(fs, args); err != nil {
		return err
	}
	name := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if name == "" {
		fs.Usage()
		return newCLIError(ErrCodeUsage, errors.New("item name is required"))
	}

	_, cat, err := loadCatalog(env, *dirArg)
	if err != nil {
		return err
	}

	idx, ok := cat.Lookup(name)
	if !ok {
		msg := fmt.Sprintf("no item named %q", name)
		if s := suggestNames(cat, name); len(s) > 0 {
			msg += "; did you mean " + strings.Join(s, ", ") + "?"
		}
		return newCLIError(ErrCodeNotFound, errors.New(msg))
	}
	rec, _ := cat.At(idx)
	cliLog.Info("show_item", slog.String("name", cat.Name(idx)), slog.String("source", rec.Source))

	if *jsonOutput {
		data, err := rec.JSON()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(env.stdout, string(data))
		return err
	}

	detail, _ := item.Project(rec)
	if *plain || !env.tty {
		_, err = fmt.Fprint(env.stdout, detail.Text())
		return err
	}
	out, err := renderMarkdown(detail.Markdown(), env.width, config.ResolveTheme())
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(env.stdout, out)
	return err
}

// suggestNames returns a few names containing name, or fuzzy matches when
// nothing contains it.
func suggestNames(cat *item.Catalog, name string) []string {
	matches := cat.Search(name, item.SearchSubstring)
	if matches.Len() == 0 {
		matches = cat.Search(name, item.SearchFuzzy)
	}
	var out []string
	for _, idx := range matches.Indices {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, fmt.Sprintf("%q", cat.Name(idx)))
	}
	return out
}

// renderMarkdown renders md for the terminal with glamour's standard style
// matching the UI theme.
func renderMarkdown(md string, width int, theme string) (string, error) {
	style := "dark"
	if theme == "light" {
		style = "light"
	}
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}

type countResult struct {
	Root       string `json:"root"`
	Files      int    `json:"files"`
	Records    int    `json:"records"`
	Items      int    `json:"items"`
	Unnamed    int    `json:"unnamed"`
	Skipped    int    `json:"skipped_files"`
	DurationMS int64  `json:"duration_ms"`
}

func handleCount(env *cliEnv, args []string) error {
	fs := flag.NewFlagSet("count", flag.ContinueOnError)
	fs.SetOutput(env.stderr)
	jsonOutput := fs.Bool("json", false, "Output as JSON")

	fs.Usage = func() {
		fmt.Fprintln(env.stderr, "Usage: item-deck count [dir] [options]")
		fmt.Fprintln(env.stderr)
		fmt.Fprintln(env.stderr, "Count data files, records and browsable items.")
		fmt.Fprintln(env.stderr)
		fmt.Fprintln(env.stderr, "Options:")
		fs.PrintDefaults()
	}

	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() > 1 {
		return newCLIError(ErrCodeUsage, fmt.Errorf("count takes at most one folder, got %d arguments", fs.NArg()))
	}

	res, cat, err := loadCatalog(env, fs.Arg(0))
	if err != nil {
		return err
	}
	c := countResult{
		Root:       res.Root,
		Files:      len(res.Files),
		Records:    len(res.Records),
		Items:      cat.Len(),
		Unnamed:    cat.Dropped(),
		Skipped:    len(res.Warnings),
		DurationMS: res.Duration.Milliseconds(),
	}

	var human strings.Builder
	fmt.Fprintf(&human, "Folder:   %s\n", c.Root)
	fmt.Fprintf(&human, "Files:    %d\n", c.Files)
	fmt.Fprintf(&human, "Records:  %d\n", c.Records)
	fmt.Fprintf(&human, "Items:    %d\n", c.Items)
	if c.Unnamed > 0 {
		fmt.Fprintf(&human, "Unnamed:  %d\n", c.Unnamed)
	}
	if c.Skipped > 0 {
		fmt.Fprintf(&human, "Skipped:  %d file(s)\n", c.Skipped)
	}
	return NewCLIOutput(env.stdout, env.stderr, *jsonOutput).Print(human.String(), c)
}
