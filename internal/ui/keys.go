package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the browser's bindings. The help overlay is generated from it.
type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	ListUp     key.Binding // vi keys, only while the list has focus
	ListDown   key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	Home       key.Binding
	End        key.Binding
	Select     key.Binding
	Search     key.Binding
	Escape     key.Binding
	SwitchPane key.Binding
	Copy       key.Binding
	Help       key.Binding
	Quit       key.Binding
	ForceQuit  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:         key.NewBinding(key.WithKeys("up", "ctrl+k"), key.WithHelp("↑/ctrl+k", "previous item")),
		Down:       key.NewBinding(key.WithKeys("down", "ctrl+j"), key.WithHelp("↓/ctrl+j", "next item")),
		ListUp:     key.NewBinding(key.WithKeys("k"), key.WithHelp("k", "previous item (list)")),
		ListDown:   key.NewBinding(key.WithKeys("j"), key.WithHelp("j", "next item (list)")),
		PageUp:     key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
		PageDown:   key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "page down")),
		Home:       key.NewBinding(key.WithKeys("home"), key.WithHelp("home", "first item")),
		End:        key.NewBinding(key.WithKeys("end"), key.WithHelp("end", "last item")),
		Select:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "show item")),
		Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Escape:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "leave / clear search")),
		SwitchPane: key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "list / detail")),
		Copy:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy record JSON")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "this help")),
		Quit:       key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit:  key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// helpSections groups bindings for the help overlay.
func (k keyMap) helpSections() []helpSection {
	return []helpSection{
		{title: "NAVIGATION", bindings: []key.Binding{k.Up, k.Down, k.ListUp, k.ListDown, k.PageUp, k.PageDown, k.Home, k.End, k.Select}},
		{title: "SEARCH", bindings: []key.Binding{k.Search, k.Escape}},
		{title: "OTHER", bindings: []key.Binding{k.SwitchPane, k.Copy, k.Help, k.Quit}},
	}
}
