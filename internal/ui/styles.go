package ui

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme is the active color scheme.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

var currentTheme = ThemeDark

type palette struct {
	Bg, Surface, Border, Text, TextDim  lipgloss.Color
	Accent, Purple, Cyan, Green, Yellow lipgloss.Color
	Orange, Red, Comment                lipgloss.Color
}

// Tokyo Night
var darkColors = palette{
	Bg:      lipgloss.Color("#1a1b26"),
	Surface: lipgloss.Color("#24283b"),
	Border:  lipgloss.Color("#414868"),
	Text:    lipgloss.Color("#c0caf5"),
	TextDim: lipgloss.Color("#787fa0"),
	Accent:  lipgloss.Color("#7aa2f7"),
	Purple:  lipgloss.Color("#bb9af7"),
	Cyan:    lipgloss.Color("#7dcfff"),
	Green:   lipgloss.Color("#9ece6a"),
	Yellow:  lipgloss.Color("#e0af68"),
	Orange:  lipgloss.Color("#ff9e64"),
	Red:     lipgloss.Color("#f7768e"),
	Comment: lipgloss.Color("#787fa0"),
}

// Tokyo Night Light
var lightColors = palette{
	Bg:      lipgloss.Color("#d5d6db"),
	Surface: lipgloss.Color("#e9e9ec"),
	Border:  lipgloss.Color("#9699a3"),
	Text:    lipgloss.Color("#343b58"),
	TextDim: lipgloss.Color("#6a6d7c"),
	Accent:  lipgloss.Color("#34548a"),
	Purple:  lipgloss.Color("#7847bd"),
	Cyan:    lipgloss.Color("#166775"),
	Green:   lipgloss.Color("#485e30"),
	Yellow:  lipgloss.Color("#8f5e15"),
	Orange:  lipgloss.Color("#965027"),
	Red:     lipgloss.Color("#8c4351"),
	Comment: lipgloss.Color("#6a6d7c"),
}

// Active colors, set by InitTheme.
var (
	ColorBg      lipgloss.Color
	ColorSurface lipgloss.Color
	ColorBorder  lipgloss.Color
	ColorText    lipgloss.Color
	ColorTextDim lipgloss.Color
	ColorAccent  lipgloss.Color
	ColorPurple  lipgloss.Color
	ColorCyan    lipgloss.Color
	ColorGreen   lipgloss.Color
	ColorYellow  lipgloss.Color
	ColorOrange  lipgloss.Color
	ColorRed     lipgloss.Color
	ColorComment lipgloss.Color
)

// themeMu guards the color and style variables during live theme switches.
var themeMu sync.RWMutex

// InitTheme activates the "dark" or "light" palette and rebuilds all styles.
func InitTheme(theme string) {
	themeMu.Lock()
	defer themeMu.Unlock()

	p := darkColors
	currentTheme = ThemeDark
	if theme == string(ThemeLight) {
		p = lightColors
		currentTheme = ThemeLight
	}
	ColorBg, ColorSurface, ColorBorder = p.Bg, p.Surface, p.Border
	ColorText, ColorTextDim, ColorComment = p.Text, p.TextDim, p.Comment
	ColorAccent, ColorPurple, ColorCyan = p.Accent, p.Purple, p.Cyan
	ColorGreen, ColorYellow, ColorOrange, ColorRed = p.Green, p.Yellow, p.Orange, p.Red

	initStyles()
}

// GetCurrentTheme returns the active theme.
func GetCurrentTheme() Theme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentTheme
}

func init() {
	InitTheme("dark")
}

// Base styles
var (
	TitleStyle   lipgloss.Style
	DimStyle     lipgloss.Style
	ErrorStyle   lipgloss.Style
	SuccessStyle lipgloss.Style
	WarningStyle lipgloss.Style
	InfoStyle    lipgloss.Style
)

// Help bar
var (
	MenuKeyStyle       lipgloss.Style
	MenuDescStyle      lipgloss.Style
	MenuSeparatorStyle lipgloss.Style
)

// Search box
var (
	SearchPromptStyle      lipgloss.Style
	SearchPromptFocusStyle lipgloss.Style
	SearchMatchStyle       lipgloss.Style
)

// Item list
var (
	ListItemStyle     lipgloss.Style
	ListCursorStyle   lipgloss.Style
	ListSelectedStyle lipgloss.Style
	ListMarkerStyle   lipgloss.Style
)

// Detail panel
var (
	DetailTitleStyle  lipgloss.Style
	DetailDescStyle   lipgloss.Style
	DetailLabelStyle  lipgloss.Style
	DetailValueStyle  lipgloss.Style
	DetailBulletStyle lipgloss.Style
	DetailFooterStyle lipgloss.Style
)

// Panels and dialogs
var (
	PanelTitleStyle      lipgloss.Style
	PanelTitleDimStyle   lipgloss.Style
	PanelRuleStyle       lipgloss.Style
	DialogBoxStyle       lipgloss.Style
	DialogTitleStyle     lipgloss.Style
	BannerStyle          lipgloss.Style
	HelpSectionStyle     lipgloss.Style
	HelpKeyColumnStyle   lipgloss.Style
	ScrollIndicatorStyle lipgloss.Style
)

// initStyles rebuilds every style from the active colors.
func initStyles() {
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	DimStyle = lipgloss.NewStyle().Foreground(ColorTextDim)
	ErrorStyle = lipgloss.NewStyle().Foreground(ColorRed)
	SuccessStyle = lipgloss.NewStyle().Foreground(ColorGreen)
	WarningStyle = lipgloss.NewStyle().Foreground(ColorYellow)
	InfoStyle = lipgloss.NewStyle().Foreground(ColorCyan)

	MenuKeyStyle = lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)
	MenuDescStyle = lipgloss.NewStyle().Foreground(ColorTextDim)
	MenuSeparatorStyle = lipgloss.NewStyle().Foreground(ColorBorder)

	SearchPromptStyle = lipgloss.NewStyle().Foreground(ColorTextDim)
	SearchPromptFocusStyle = lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)
	SearchMatchStyle = lipgloss.NewStyle().Foreground(ColorOrange).Bold(true)

	ListItemStyle = lipgloss.NewStyle().Foreground(ColorText)
	ListCursorStyle = lipgloss.NewStyle().Foreground(ColorBg).Background(ColorAccent).Bold(true)
	ListSelectedStyle = lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)
	ListMarkerStyle = lipgloss.NewStyle().Foreground(ColorGreen)

	DetailTitleStyle = lipgloss.NewStyle().Foreground(ColorPurple).Bold(true)
	DetailDescStyle = lipgloss.NewStyle().Foreground(ColorText).Italic(true)
	DetailLabelStyle = lipgloss.NewStyle().Foreground(ColorCyan).Bold(true)
	DetailValueStyle = lipgloss.NewStyle().Foreground(ColorText)
	DetailBulletStyle = lipgloss.NewStyle().Foreground(ColorGreen)
	DetailFooterStyle = lipgloss.NewStyle().Foreground(ColorComment).Italic(true)

	PanelTitleStyle = lipgloss.NewStyle().Foreground(ColorCyan).Bold(true)
	PanelTitleDimStyle = lipgloss.NewStyle().Foreground(ColorTextDim)
	PanelRuleStyle = lipgloss.NewStyle().Foreground(ColorBorder)
	DialogBoxStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorAccent).
		Padding(1, 2)
	DialogTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	BannerStyle = lipgloss.NewStyle().Foreground(ColorBg).Background(ColorYellow).Bold(true)
	HelpSectionStyle = lipgloss.NewStyle().Foreground(ColorCyan).Bold(true)
	HelpKeyColumnStyle = lipgloss.NewStyle().Foreground(ColorPurple)
	ScrollIndicatorStyle = lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)
}

// MenuKey renders one "key desc" pair of the help bar.
func MenuKey(key, description string) string {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return MenuKeyStyle.Render(key) + " " + MenuDescStyle.Render(description)
}
