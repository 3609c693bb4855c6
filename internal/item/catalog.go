package item

import (
	"iter"
	"log/slog"
	"sort"
	"strings"

	"github.com/asheshgoplani/item-deck/internal/logging"
)

var catalogLog = logging.ForComponent(logging.CompCatalog)

// Catalog is the browsable, name-sorted view of the loaded records.
// It is immutable once built and safe to read from any goroutine.
type Catalog struct {
	entries []entry
	dropped int
}

type entry struct {
	name  string
	lower string // cached for case-insensitive matching
	rec   Record
}

// BuildCatalog drops records without a display name and sorts the rest by
// name using plain byte order. Records with equal names keep their load order.
func BuildCatalog(records []Record) *Catalog {
	entries := make([]entry, 0, len(records))
	for _, rec := range records {
		name, ok := rec.DisplayName()
		if !ok {
			continue
		}
		entries = append(entries, entry{name: name, lower: strings.ToLower(name), rec: rec})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].name < entries[j].name
	})

	c := &Catalog{entries: entries, dropped: len(records) - len(entries)}
	catalogLog.Info("catalog_built",
		slog.Int("entries", len(entries)),
		slog.Int("dropped", c.dropped))
	return c
}

// Len returns the number of browsable records.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Dropped returns how many loaded records had no display name.
func (c *Catalog) Dropped() int {
	if c == nil {
		return 0
	}
	return c.dropped
}

// At returns the record at catalog position i.
func (c *Catalog) At(i int) (Record, bool) {
	if c == nil || i < 0 || i >= len(c.entries) {
		return Record{}, false
	}
	return c.entries[i].rec, true
}

// Name returns the display name at catalog position i.
func (c *Catalog) Name(i int) string {
	if c == nil || i < 0 || i >= len(c.entries) {
		return ""
	}
	return c.entries[i].name
}

// All yields every record in catalog order.
func (c *Catalog) All() iter.Seq2[int, Record] {
	return func(yield func(int, Record) bool) {
		if c == nil {
			return
		}
		for i, e := range c.entries {
			if !yield(i, e.rec) {
				return
			}
		}
	}
}

// Lookup finds a record by display name: the first exact match, otherwise the
// first case-insensitive match.
func (c *Catalog) Lookup(name string) (int, bool) {
	if c == nil {
		return -1, false
	}
	i := sort.Search(len(c.entries), func(i int) bool { return c.entries[i].name >= name })
	if i < len(c.entries) && c.entries[i].name == name {
		return i, true
	}
	lower := strings.ToLower(name)
	for i, e := range c.entries {
		if e.lower == lower {
			return i, true
		}
	}
	return -1, false
}
