package ui

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/asheshgoplani/item-deck/internal/clipboard"
	"github.com/asheshgoplani/item-deck/internal/item"
	"github.com/asheshgoplani/item-deck/internal/logging"
)

var uiLog = logging.ForComponent(logging.CompUI)

// Version is shown in the help overlay; set by main.
var Version = "0.0.0"

// SetVersion sets the version shown in the UI.
func SetVersion(v string) {
	Version = v
}

// statusTTL is how long a status message replaces the help bar.
const statusTTL = 3 * time.Second

type focusArea int

const (
	focusSearch focusArea = iota
	focusList
	focusDetail
)

func (f focusArea) String() string {
	switch f {
	case focusList:
		return "list"
	case focusDetail:
		return "detail"
	default:
		return "search"
	}
}

// noDetail marks the detail viewport as holding no record.
const noDetail = -2

// Options configures a Browser.
type Options struct {
	Catalog      *item.Catalog
	Load         *item.LoadResult // optional; header stats and skipped files
	DataDir      string
	SearchMode   item.SearchMode
	DataWatcher  *item.DataWatcher // optional
	ThemeWatcher *ThemeWatcher     // optional
}

// Browser is the two-pane item browser: a searchable list of item names and
// the detail of the selected item.
type Browser struct {
	width  int
	height int

	catalog *item.Catalog
	load    *item.LoadResult
	dataDir string

	// state is what the core reads each frame; frame is its latest result
	state *item.BrowseState
	frame item.FrameView

	cursor int // row inside frame.Matches.Indices
	offset int // first visible list row
	focus  focusArea

	input  textinput.Model
	detail viewport.Model
	// detailFor is the catalog index rendered into detail, detailWidth its width
	detailFor   int
	detailWidth int

	keys keyMap
	help *HelpOverlay

	dataWatcher  *item.DataWatcher
	themeWatcher *ThemeWatcher
	dataChanged  string

	status    string
	statusErr bool
	statusSeq int
}

// Messages
type dataChangedMsg struct {
	path string
}

type clipboardMsg struct {
	name   string
	result *clipboard.CopyResult
	err    error
}

type clearStatusMsg struct {
	seq int
}

// NewBrowser creates the browser model.
func NewBrowser(opts Options) *Browser {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "Search items..."
	ti.CharLimit = 200
	ti.Focus()

	mode := opts.SearchMode
	if mode == "" {
		mode = item.SearchSubstring
	}

	keys := defaultKeyMap()
	b := &Browser{
		catalog:      opts.Catalog,
		load:         opts.Load,
		dataDir:      opts.DataDir,
		state:        item.NewBrowseState(mode),
		focus:        focusSearch,
		input:        ti,
		detail:       viewport.New(0, 0),
		detailFor:    noDetail,
		keys:         keys,
		help:         NewHelpOverlay(keys),
		dataWatcher:  opts.DataWatcher,
		themeWatcher: opts.ThemeWatcher,
	}
	b.refresh()
	return b
}

// Init starts the cursor blink and the watcher listeners.
func (b *Browser) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if b.dataWatcher != nil {
		cmds = append(cmds, listenForDataChange(b.dataWatcher))
	}
	if b.themeWatcher != nil {
		cmds = append(cmds, listenForThemeChange(b.themeWatcher))
	}
	return tea.Batch(cmds...)
}

// Close stops the background watchers.
func (b *Browser) Close() {
	if b.dataWatcher != nil {
		b.dataWatcher.Close()
	}
	if b.themeWatcher != nil {
		b.themeWatcher.Close()
	}
}

// listenForDataChange waits for the data watcher's next notification.
func listenForDataChange(dw *item.DataWatcher) tea.Cmd {
	return func() tea.Msg {
		select {
		case path := <-dw.Changes():
			return dataChangedMsg{path: path}
		case <-dw.Done():
			return nil
		}
	}
}

// refresh re-runs the frame for the current state and keeps the cursor on
// the selected item when it is still listed.
func (b *Browser) refresh() {
	b.frame = item.Frame(b.catalog, b.state)
	n := b.frame.Matches.Len()
	if pos := b.selectedRow(); pos >= 0 {
		b.cursor = pos
	}
	b.cursor = min(max(b.cursor, 0), max(n-1, 0))
	b.syncDetail()
}

// selectedRow is the list row of the selected item, or -1 when it is
// filtered out or nothing is selected.
func (b *Browser) selectedRow() int {
	for row, idx := range b.frame.Matches.Indices {
		if idx == b.state.Selected {
			return row
		}
	}
	return -1
}

// applyQuery pushes the search box into the browse state.
func (b *Browser) applyQuery() {
	q := b.input.Value()
	if q == b.state.Query {
		return
	}
	b.state.Query = q
	b.cursor = 0
	b.offset = 0
	b.refresh()
	logging.Aggregate(logging.CompQuery, "query_changed",
		slog.Int("matches", b.frame.Matches.Len()),
		slog.String("mode", string(b.state.Mode)))
}

// moveCursor moves by delta rows and selects the item under the cursor.
// While the selection is not listed, the first move only selects the
// highlighted row.
func (b *Browser) moveCursor(delta int) {
	n := b.frame.Matches.Len()
	if n == 0 {
		return
	}
	if b.selectedRow() < 0 {
		b.selectCursor()
		return
	}
	b.cursor = min(max(b.cursor+delta, 0), n-1)
	b.selectCursor()
}

func (b *Browser) selectCursor() {
	if b.cursor < 0 || b.cursor >= b.frame.Matches.Len() {
		return
	}
	b.state.Selected = b.frame.Matches.Indices[b.cursor]
	b.refresh()
}

// syncDetail re-renders the detail viewport when the selection or its width
// changed.
func (b *Browser) syncDetail() {
	want := noDetail
	if b.frame.Detail != nil {
		want = b.state.Selected
	}
	if want == b.detailFor && b.detail.Width == b.detailWidth {
		return
	}
	b.detailFor = want
	b.detailWidth = b.detail.Width
	b.detail.SetContent(renderDetail(b.frame.Detail, b.detail.Width, b.dataDir))
	b.detail.GotoTop()
}

func (b *Browser) setFocus(f focusArea) {
	if f == b.focus {
		return
	}
	b.focus = f
	if f == focusSearch {
		b.input.Focus()
	} else {
		b.input.Blur()
	}
	uiLog.Debug("focus_changed", slog.String("focus", f.String()))
}

func (b *Browser) setStatus(msg string, isErr bool) tea.Cmd {
	b.status = msg
	b.statusErr = isErr
	b.statusSeq++
	seq := b.statusSeq
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

// copySelected copies the selected record's JSON to the clipboard.
func (b *Browser) copySelected() tea.Cmd {
	rec, ok := b.catalog.At(b.state.Selected)
	if !ok {
		return b.setStatus("Nothing selected", true)
	}
	name, _ := rec.DisplayName()
	return func() tea.Msg {
		data, err := rec.JSON()
		if err != nil {
			return clipboardMsg{name: name, err: err}
		}
		res, err := clipboard.Copy(string(data), true)
		return clipboardMsg{name: name, result: res, err: err}
	}
}

// listHeight is the number of list rows in the current layout.
func (b *Browser) listHeight() int {
	l := b.computeLayout()
	return max(1, l.listHeight)
}

// Update handles messages.
func (b *Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		b.help.SetSize(msg.Width, msg.Height)
		b.updateSizes()
		return b, nil

	case dataChangedMsg:
		b.dataChanged = msg.path
		uiLog.Info("data_changed_notice", slog.String("path", msg.path))
		return b, listenForDataChange(b.dataWatcher)

	case themeChangedMsg:
		theme := "light"
		if msg.dark {
			theme = "dark"
		}
		InitTheme(theme)
		b.detailFor = noDetail
		b.syncDetail()
		uiLog.Info("theme_changed", slog.String("theme", theme))
		return b, listenForThemeChange(b.themeWatcher)

	case clipboardMsg:
		if msg.err != nil {
			uiLog.Warn("clipboard_copy_failed", slog.String("error", msg.err.Error()))
			return b, b.setStatus("Copy failed: "+msg.err.Error(), true)
		}
		uiLog.Info("clipboard_copy",
			slog.String("item", msg.name),
			slog.String("method", msg.result.Method),
			slog.Int("bytes", msg.result.ByteSize))
		return b, b.setStatus(fmt.Sprintf("%s: %s", msg.name, msg.result.Summary()), false)

	case clearStatusMsg:
		if msg.seq == b.statusSeq {
			b.status = ""
		}
		return b, nil

	case tea.KeyMsg:
		if b.help.IsVisible() {
			b.help.Update(msg)
			return b, nil
		}
		if key.Matches(msg, b.keys.ForceQuit) {
			return b, tea.Quit
		}
		switch b.focus {
		case focusSearch:
			return b.handleSearchKey(msg)
		case focusDetail:
			return b.handleDetailKey(msg)
		default:
			return b.handleListKey(msg)
		}
	}

	// cursor blink and other textinput internals
	if b.focus == focusSearch {
		var cmd tea.Cmd
		b.input, cmd = b.input.Update(msg)
		return b, cmd
	}
	return b, nil
}

// handleNavKey handles list movement shared by search and list focus.
func (b *Browser) handleNavKey(msg tea.KeyMsg) bool {
	switch {
	case key.Matches(msg, b.keys.Up):
		b.moveCursor(-1)
	case key.Matches(msg, b.keys.Down):
		b.moveCursor(1)
	case key.Matches(msg, b.keys.PageUp):
		b.moveCursor(-b.listHeight())
	case key.Matches(msg, b.keys.PageDown):
		b.moveCursor(b.listHeight())
	default:
		return false
	}
	return true
}

func (b *Browser) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if b.handleNavKey(msg) {
		return b, nil
	}
	switch {
	case key.Matches(msg, b.keys.Escape):
		b.setFocus(focusList)
		return b, nil
	case key.Matches(msg, b.keys.Select):
		b.selectCursor()
		b.setFocus(focusList)
		return b, nil
	case key.Matches(msg, b.keys.SwitchPane):
		b.setFocus(focusDetail)
		return b, nil
	}

	var cmd tea.Cmd
	b.input, cmd = b.input.Update(msg)
	b.applyQuery()
	return b, cmd
}

func (b *Browser) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if b.handleNavKey(msg) {
		return b, nil
	}
	switch {
	case key.Matches(msg, b.keys.ListUp):
		b.moveCursor(-1)
	case key.Matches(msg, b.keys.ListDown):
		b.moveCursor(1)
	case key.Matches(msg, b.keys.Home):
		b.moveCursor(-b.frame.Matches.Len())
	case key.Matches(msg, b.keys.End):
		b.moveCursor(b.frame.Matches.Len())
	case key.Matches(msg, b.keys.Select):
		b.selectCursor()
	case key.Matches(msg, b.keys.Search):
		b.setFocus(focusSearch)
		return b, textinput.Blink
	case key.Matches(msg, b.keys.Escape):
		if b.input.Value() != "" {
			b.input.Reset()
			b.applyQuery()
		}
	case key.Matches(msg, b.keys.SwitchPane):
		b.setFocus(focusDetail)
	case key.Matches(msg, b.keys.Copy):
		return b, b.copySelected()
	case key.Matches(msg, b.keys.Help):
		b.help.Show()
	case key.Matches(msg, b.keys.Quit):
		return b, tea.Quit
	}
	return b, nil
}

func (b *Browser) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, b.keys.SwitchPane), key.Matches(msg, b.keys.Escape):
		b.setFocus(focusList)
		return b, nil
	case key.Matches(msg, b.keys.Search):
		b.setFocus(focusSearch)
		return b, textinput.Blink
	case key.Matches(msg, b.keys.Copy):
		return b, b.copySelected()
	case key.Matches(msg, b.keys.Help):
		b.help.Show()
		return b, nil
	case key.Matches(msg, b.keys.Quit):
		return b, tea.Quit
	case key.Matches(msg, b.keys.Home):
		b.detail.GotoTop()
		return b, nil
	case key.Matches(msg, b.keys.End):
		b.detail.GotoBottom()
		return b, nil
	case key.Matches(msg, b.keys.Up):
		b.detail.LineUp(1)
		return b, nil
	case key.Matches(msg, b.keys.Down):
		b.detail.LineDown(1)
		return b, nil
	}
	var cmd tea.Cmd
	b.detail, cmd = b.detail.Update(msg)
	return b, cmd
}

// layout is the geometry of one render.
type layout struct {
	mode          string
	listWidth     int
	listHeight    int // rows for item names
	detailWidth   int
	detailHeight  int // rows for the detail viewport
	contentHeight int
}

// chrome is the header, search line and footer; a banner adds one more.
func (b *Browser) chromeHeight() int {
	h := 3
	if b.banner() != "" {
		h++
	}
	return h
}

func (b *Browser) computeLayout() layout {
	l := layout{mode: layoutMode(b.width)}
	l.contentHeight = max(0, b.height-b.chromeHeight())
	const titleLines = 2

	switch l.mode {
	case LayoutModeDual:
		l.listWidth = max(24, b.width*35/100)
		l.detailWidth = b.width - l.listWidth - 3
		l.listHeight = l.contentHeight - titleLines
		l.detailHeight = l.contentHeight - titleLines
	case LayoutModeStacked:
		l.listWidth = b.width
		l.detailWidth = b.width
		listTotal := max(5, l.contentHeight*45/100)
		l.listHeight = listTotal - titleLines
		l.detailHeight = max(1, l.contentHeight-listTotal-1-titleLines)
	default:
		l.listWidth = b.width
		l.detailWidth = b.width
		l.listHeight = l.contentHeight - titleLines
		l.detailHeight = l.contentHeight - titleLines
	}
	l.listHeight = max(0, l.listHeight)
	l.detailHeight = max(0, l.detailHeight)
	return l
}

func (b *Browser) updateSizes() {
	l := b.computeLayout()
	b.detail.Width = max(1, l.detailWidth)
	b.detail.Height = max(1, l.detailHeight)
	b.input.Width = max(10, b.width-24)
	b.syncDetail()
}

// banner is the one-line notice between the search box and the panes.
func (b *Browser) banner() string {
	switch {
	case b.dataChanged != "":
		return fmt.Sprintf("Data changed on disk (%s). Restart item-deck to reload.", b.relPath(b.dataChanged))
	case b.dataWatcher != nil && b.dataWatcher.Warning() != "":
		return b.dataWatcher.Warning()
	case b.load != nil && len(b.load.Warnings) > 0:
		return fmt.Sprintf("%d data file(s) skipped; see debug.log", len(b.load.Warnings))
	}
	return ""
}

func (b *Browser) relPath(path string) string {
	if b.dataDir == "" {
		return path
	}
	if rel, err := filepath.Rel(b.dataDir, path); err == nil {
		return rel
	}
	return path
}

// View renders the UI.
func (b *Browser) View() string {
	if b.width == 0 {
		return "Loading..."
	}
	if b.width < minTerminalWidth || b.height < minTerminalHeight {
		return centerInScreen(WarningStyle.Render(fmt.Sprintf(
			"Terminal too small (%dx%d)\nMinimum: %dx%d",
			b.width, b.height, minTerminalWidth, minTerminalHeight)), b.width, b.height)
	}
	if b.help.IsVisible() {
		return b.help.View()
	}

	l := b.computeLayout()
	var out strings.Builder
	out.WriteString(ensureExactWidth(b.renderHeader(), b.width))
	out.WriteString("\n")
	out.WriteString(ensureExactWidth(b.renderSearchLine(), b.width))
	out.WriteString("\n")
	if banner := b.banner(); banner != "" {
		out.WriteString(BannerStyle.Render(truncateText(" "+banner, b.width)))
		out.WriteString("\n")
	}

	var content string
	switch {
	case l.mode == LayoutModeDual:
		content = b.renderDualColumnLayout(l)
	case l.mode == LayoutModeStacked:
		content = b.renderStackedLayout(l)
	case b.focus == focusDetail:
		content = b.renderDetailPanel(l.detailWidth, l.detailHeight)
	default:
		content = b.renderListPanel(l.listWidth, l.listHeight)
	}
	out.WriteString(ensureExactHeight(content, l.contentHeight))
	out.WriteString("\n")
	out.WriteString(ensureExactWidth(b.renderFooter(), b.width))

	return ensureExactHeight(out.String(), b.height)
}

func (b *Browser) renderHeader() string {
	title := TitleStyle.Render("ITEM DECK")
	stats := fmt.Sprintf("%d items", b.catalog.Len())
	if d := b.catalog.Dropped(); d > 0 {
		stats += fmt.Sprintf(" • %d unnamed", d)
	}
	left := title + "  " + DimStyle.Render(stats)
	room := b.width - lipgloss.Width(left) - 2
	if room < 8 || b.dataDir == "" {
		return left
	}
	dir := truncateText(b.dataDir, room)
	pad := b.width - lipgloss.Width(left) - lipgloss.Width(dir)
	return left + strings.Repeat(" ", max(1, pad)) + DimStyle.Render(dir)
}

func (b *Browser) renderSearchLine() string {
	if b.focus == focusSearch {
		b.input.PromptStyle = SearchPromptFocusStyle
	} else {
		b.input.PromptStyle = SearchPromptStyle
	}
	count := fmt.Sprintf("%d/%d", b.frame.Matches.Len(), b.catalog.Len())
	if b.state.Mode == item.SearchFuzzy {
		count = "fuzzy " + count
	}
	return b.input.View() + "  " + DimStyle.Render(count)
}

func (b *Browser) renderFooter() string {
	if b.status != "" {
		if b.statusErr {
			return ErrorStyle.Render(b.status)
		}
		return SuccessStyle.Render(b.status)
	}
	sep := MenuSeparatorStyle.Render(" • ")
	var parts []string
	switch {
	case b.width >= 100:
		parts = []string{MenuKey("↑↓", "move"), MenuKey("/", "search"), MenuKey("tab", "detail"), MenuKey("y", "copy"), MenuKey("?", "help"), MenuKey("q", "quit")}
	case b.width >= 60:
		parts = []string{MenuKey("↑↓", "move"), MenuKey("tab", "detail"), MenuKey("?", "help"), MenuKey("q", "quit")}
	default:
		parts = []string{MenuKey("?", "help"), MenuKey("q", "quit")}
	}
	if b.focus == focusSearch {
		parts[len(parts)-1] = MenuKey("esc", "leave search")
	}
	return strings.Join(parts, sep)
}

func (b *Browser) renderDualColumnLayout(l layout) string {
	left := ensureExactWidth(ensureExactHeight(b.renderListPanel(l.listWidth, l.listHeight), l.contentHeight), l.listWidth)
	right := ensureExactWidth(ensureExactHeight(b.renderDetailPanel(l.detailWidth, l.detailHeight), l.contentHeight), l.detailWidth)

	sepLines := make([]string, l.contentHeight)
	for i := range sepLines {
		sepLines[i] = PanelRuleStyle.Render(" │ ")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, left, strings.Join(sepLines, "\n"), right)
}

func (b *Browser) renderStackedLayout(l layout) string {
	listTotal := l.listHeight + 2
	var out strings.Builder
	out.WriteString(ensureExactHeight(b.renderListPanel(l.listWidth, l.listHeight), listTotal))
	out.WriteString("\n")
	out.WriteString(PanelRuleStyle.Render(strings.Repeat("─", max(0, b.width))))
	out.WriteString("\n")
	out.WriteString(b.renderDetailPanel(l.detailWidth, l.detailHeight))
	return out.String()
}

func (b *Browser) renderListPanel(width, height int) string {
	hint := ""
	if q := b.state.Query; q != "" {
		hint = fmt.Sprintf("matching %q", q)
	}
	title := renderPanelTitle("ITEMS", hint, width, b.focus != focusDetail)
	return title + "\n" + ensureExactHeight(b.renderList(width, height), height)
}

func (b *Browser) renderDetailPanel(width, height int) string {
	hint := ""
	if b.frame.Detail != nil && b.detail.TotalLineCount() > b.detail.Height {
		hint = fmt.Sprintf("%d%%", int(b.detail.ScrollPercent()*100))
	}
	title := renderPanelTitle("DETAIL", hint, width, b.focus == focusDetail)
	return title + "\n" + ensureExactHeight(b.detail.View(), height)
}

// renderList draws the visible window of matching names.
func (b *Browser) renderList(width, height int) string {
	matches := b.frame.Matches
	if b.catalog.Len() == 0 {
		return DimStyle.Render("No items loaded.")
	}
	if matches.Len() == 0 {
		return DimStyle.Render(truncateText(fmt.Sprintf("No items match %q.", b.state.Query), width))
	}
	if height <= 0 {
		return ""
	}

	if b.cursor < b.offset {
		b.offset = b.cursor
	}
	if b.cursor >= b.offset+height {
		b.offset = b.cursor - height + 1
	}
	b.offset = min(b.offset, max(0, matches.Len()-height))

	end := min(matches.Len(), b.offset+height)
	rows := make([]string, 0, end-b.offset)
	for row := b.offset; row < end; row++ {
		idx := matches.Indices[row]
		name := b.catalog.Name(idx)
		marker := "  "
		if idx == b.state.Selected {
			marker = ListMarkerStyle.Render("▸ ")
		}
		nameWidth := width - 2
		if row == b.cursor && b.focus != focusDetail {
			text := truncateText(name, nameWidth)
			rows = append(rows, marker+ListCursorStyle.Render(text+strings.Repeat(" ", max(0, nameWidth-lipgloss.Width(text)))))
			continue
		}
		base := ListItemStyle
		if idx == b.state.Selected {
			base = ListSelectedStyle
		}
		rows = append(rows, marker+highlightName(truncateText(name, nameWidth), matches.Highlights[idx], base))
	}
	return strings.Join(rows, "\n")
}

// highlightName renders name with the bytes at offsets emphasized.
// Offsets past the end (after truncation) are ignored.
func highlightName(name string, offsets []int, base lipgloss.Style) string {
	if len(offsets) == 0 {
		return base.Render(name)
	}
	hit := make(map[int]bool, len(offsets))
	for _, o := range offsets {
		hit[o] = true
	}

	var out, run strings.Builder
	runHit := false
	flush := func() {
		if run.Len() == 0 {
			return
		}
		if runHit {
			out.WriteString(SearchMatchStyle.Render(run.String()))
		} else {
			out.WriteString(base.Render(run.String()))
		}
		run.Reset()
	}
	for i, r := range name {
		if hit[i] != runHit {
			flush()
			runHit = hit[i]
		}
		run.WriteRune(r)
	}
	flush()
	return out.String()
}
