package item

import (
	"iter"
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"
)

// SearchMode selects how a query is matched against display names.
type SearchMode string

const (
	// SearchSubstring is a case-insensitive substring match.
	SearchSubstring SearchMode = "substring"
	// SearchFuzzy is a case-insensitive subsequence match.
	SearchFuzzy SearchMode = "fuzzy"
)

// ParseSearchMode maps a config string to a SearchMode, defaulting to substring.
func ParseSearchMode(s string) SearchMode {
	if SearchMode(strings.ToLower(s)) == SearchFuzzy {
		return SearchFuzzy
	}
	return SearchSubstring
}

// Filter yields the catalog positions whose display name contains query,
// ignoring case. The empty query matches everything. The sequence is
// recomputed every time it is ranged over.
func (c *Catalog) Filter(query string) iter.Seq[int] {
	q := strings.ToLower(query)
	return func(yield func(int) bool) {
		if c == nil {
			return
		}
		for i, e := range c.entries {
			if q != "" && !strings.Contains(e.lower, q) {
				continue
			}
			if !yield(i) {
				return
			}
		}
	}
}

// Matches collects Filter(query).
func (c *Catalog) Matches(query string) []int {
	return slices.Collect(c.Filter(query))
}

// Refine narrows an existing result set with another query.
func (c *Catalog) Refine(indices []int, query string) []int {
	q := strings.ToLower(query)
	out := make([]int, 0, len(indices))
	for _, i := range indices {
		if i < 0 || i >= c.Len() {
			continue
		}
		if q == "" || strings.Contains(c.entries[i].lower, q) {
			out = append(out, i)
		}
	}
	return out
}

// MatchSet is a search result: catalog positions in catalog order, plus the
// byte offsets inside each matched name that should be highlighted.
type MatchSet struct {
	Query      string
	Mode       SearchMode
	Indices    []int
	Highlights map[int][]int
}

// Len returns the number of matches.
func (m MatchSet) Len() int { return len(m.Indices) }

// Search runs query in the given mode.
func (c *Catalog) Search(query string, mode SearchMode) MatchSet {
	set := MatchSet{Query: query, Mode: mode, Highlights: map[int][]int{}}
	if query == "" {
		set.Indices = c.Matches("")
		return set
	}

	if mode == SearchFuzzy {
		matches := fuzzy.FindFrom(query, nameSource{c})
		set.Indices = make([]int, 0, len(matches))
		for _, m := range matches {
			set.Indices = append(set.Indices, m.Index)
			set.Highlights[m.Index] = m.MatchedIndexes
		}
		// fuzzy ranks by score; the list is always shown in catalog order
		slices.Sort(set.Indices)
		return set
	}

	q := strings.ToLower(query)
	for i := range c.Filter(query) {
		set.Indices = append(set.Indices, i)
		e := c.entries[i]
		// offsets in the lowered name only line up when lowering kept the byte length
		if len(e.lower) != len(e.name) {
			continue
		}
		at := strings.Index(e.lower, q)
		hl := make([]int, 0, len(q))
		for off := at; off < at+len(q); off++ {
			hl = append(hl, off)
		}
		set.Highlights[i] = hl
	}
	return set
}

// nameSource adapts a Catalog to fuzzy.Source.
type nameSource struct {
	c *Catalog
}

func (s nameSource) String(i int) string {
	return s.c.entries[i].name
}

func (s nameSource) Len() int {
	return s.c.Len()
}
