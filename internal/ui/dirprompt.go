package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/asheshgoplani/item-deck/internal/item"
	"github.com/asheshgoplani/item-deck/internal/platform"
)

// maxDirSuggestions caps the completions offered under the prompt.
const maxDirSuggestions = 8

// DirPrompt asks for the item data folder before the browser starts.
type DirPrompt struct {
	input       textinput.Model
	suggestions []string
	width       int
	height      int

	err       string
	result    string
	cancelled bool
}

// NewDirPrompt creates the prompt, pre-filled with initial when non-empty.
func NewDirPrompt(initial string) *DirPrompt {
	ti := textinput.New()
	ti.Placeholder = "~/cdda/data/json"
	ti.CharLimit = 512
	ti.Width = 50
	ti.ShowSuggestions = true
	ti.Focus()
	if initial != "" {
		ti.SetValue(initial)
		ti.CursorEnd()
	}

	p := &DirPrompt{input: ti}
	p.refreshSuggestions()
	return p
}

// Init starts the cursor blink.
func (p *DirPrompt) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles key input.
func (p *DirPrompt) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		p.input.Width = max(20, min(70, msg.Width-16))
		return p, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "ctrl+c":
			p.cancelled = true
			return p, tea.Quit
		case "enter":
			if strings.TrimSpace(p.input.Value()) == "" {
				p.cancelled = true
				return p, tea.Quit
			}
			dir, err := validateDataDir(p.input.Value())
			if err != nil {
				p.err = err.Error()
				return p, nil
			}
			p.result = dir
			return p, tea.Quit
		}
	}

	before := p.input.Value()
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	if p.input.Value() != before {
		p.err = ""
		p.refreshSuggestions()
	}
	return p, cmd
}

func (p *DirPrompt) refreshSuggestions() {
	p.suggestions = directoryCompletions(p.input.Value())
	p.input.SetSuggestions(p.suggestions)
}

// View renders the prompt dialog.
func (p *DirPrompt) View() string {
	var content strings.Builder
	content.WriteString(DialogTitleStyle.Render("Item data folder"))
	content.WriteString("\n\n")
	content.WriteString(DimStyle.Render("Folder holding the game's item JSON files."))
	content.WriteString("\n\n")
	content.WriteString(p.input.View())
	content.WriteString("\n")

	if p.err != "" {
		content.WriteString("\n")
		content.WriteString(ErrorStyle.Render("✗ " + p.err))
		content.WriteString("\n")
	} else if matches := p.suggestions; len(matches) > 1 {
		current := p.input.CurrentSuggestion()
		content.WriteString("\n")
		for i, m := range matches {
			if i == maxDirSuggestions {
				content.WriteString(DimStyle.Render(fmt.Sprintf("  … %d more", len(matches)-i)))
				content.WriteString("\n")
				break
			}
			if m == current {
				content.WriteString(ListCursorStyle.Render("  " + m))
			} else {
				content.WriteString(DimStyle.Render("  " + m))
			}
			content.WriteString("\n")
		}
	}

	content.WriteString("\n")
	content.WriteString(strings.Join([]string{
		MenuKey("tab", "complete"),
		MenuKey("enter", "open"),
		MenuKey("esc", "cancel"),
	}, MenuSeparatorStyle.Render(" • ")))

	box := DialogBoxStyle.Width(max(40, min(80, p.width-6))).Render(content.String())
	if p.width == 0 || p.height == 0 {
		return box
	}
	return lipgloss.Place(p.width, p.height, lipgloss.Center, lipgloss.Center, box)
}

// Result is the chosen folder, or "" when the prompt was cancelled.
func (p *DirPrompt) Result() string {
	if p.cancelled {
		return ""
	}
	return p.result
}

// PromptDataDir runs the folder prompt on its own screen. It returns
// item.ErrNoDataDir when the user cancels.
func PromptDataDir(ctx context.Context, initial string) (string, error) {
	prompt := NewDirPrompt(initial)
	final, err := tea.NewProgram(prompt, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) {
			return "", item.ErrNoDataDir
		}
		return "", fmt.Errorf("folder prompt: %w", err)
	}
	dir := final.(*DirPrompt).Result()
	if dir == "" {
		uiLog.Info("data_dir_prompt_cancelled")
		return "", item.ErrNoDataDir
	}
	uiLog.Info("data_dir_prompt_chosen", slog.String("path", dir))
	return dir, nil
}

// validateDataDir expands input and checks it names an existing directory.
func validateDataDir(input string) (string, error) {
	path := platform.ExpandPath(strings.TrimSpace(input))
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%s does not exist", input)
		}
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a folder", input)
	}
	return abs, nil
}

// directoryCompletions lists subdirectories that extend input. Results keep
// the form the user typed, so "~/da" completes to "~/data".
func directoryCompletions(input string) []string {
	if input == "" {
		return nil
	}
	expanded := platform.ExpandPath(input)

	var dir, prefix, shown string
	if strings.HasSuffix(input, string(os.PathSeparator)) {
		dir, prefix, shown = expanded, "", input
	} else {
		dir, prefix = filepath.Split(expanded)
		if dir == "" {
			dir = "."
		}
		if !strings.HasSuffix(input, prefix) {
			return nil
		}
		shown = input[:len(input)-len(prefix)]
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), prefix) {
			continue
		}
		if strings.HasPrefix(e.Name(), ".") && !strings.HasPrefix(prefix, ".") {
			continue
		}
		out = append(out, shown+e.Name()+string(os.PathSeparator))
	}
	sort.Strings(out)
	return out
}
