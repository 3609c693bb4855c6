package item

// BrowseState is the UI-owned state the core reads once per frame.
type BrowseState struct {
	Query    string
	Selected int // catalog position; -1 for no selection
	Mode     SearchMode
}

// NewBrowseState returns a state with nothing selected.
func NewBrowseState(mode SearchMode) *BrowseState {
	return &BrowseState{Selected: -1, Mode: mode}
}

// FrameView is what a frame needs to draw both panes.
type FrameView struct {
	Matches MatchSet
	Detail  *Detail // nil when nothing valid is selected
}

// Frame evaluates the current query and selection against the catalog.
func Frame(c *Catalog, st *BrowseState) FrameView {
	var fv FrameView
	if st == nil {
		st = NewBrowseState(SearchSubstring)
	}
	fv.Matches = c.Search(st.Query, st.Mode)
	if rec, ok := c.At(st.Selected); ok {
		if d, ok := Project(rec); ok {
			fv.Detail = &d
		}
	}
	return fv
}
