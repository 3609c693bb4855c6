package item

import (
	"log/slog"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/asheshgoplani/item-deck/internal/logging"
)

// Field is one rendered row of the detail panel.
type Field struct {
	Key   string
	Label string
	Text  string   // label/value rows
	Items []string // bulleted rows
	List  bool
}

// Detail is the structured rendering of one record.
type Detail struct {
	Title       string
	Description string // empty when absent
	Known       []Field
	Extra       []Field
	Source      string
	Index       int
}

// Field returns the known or extra field stored under key.
func (d *Detail) Field(key string) (Field, bool) {
	for _, f := range d.Known {
		if f.Key == key {
			return f, true
		}
	}
	for _, f := range d.Extra {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

type knownField struct {
	key   string
	label string
	// extract returns ok=false when the value is missing or of the wrong kind
	extract func(Value) (Field, bool)
}

// Known fields, in display order. description is handled separately because
// it renders as a paragraph without a label.
var knownFields = []knownField{
	{key: "volume", label: "Volume", extract: scalarField},
	{key: "weight", label: "Weight", extract: scalarField},
	{key: "price", label: "Price", extract: scalarField},
	{key: "price_postapoc", label: "Price (post-apoc)", extract: scalarField},
	{key: "material", label: "Material", extract: materialField},
	{key: "flags", label: "Flags", extract: stringListField},
}

// IsKnownField reports whether key gets special-cased rendering.
func IsKnownField(key string) bool {
	if key == "name" || key == "description" {
		return true
	}
	for _, kf := range knownFields {
		if kf.key == key {
			return true
		}
	}
	return false
}

// Project builds the detail view of rec. ok is false when rec has no display
// name, in which case it cannot be selected.
func Project(rec Record) (Detail, bool) {
	title, ok := rec.DisplayName()
	if !ok {
		return Detail{}, false
	}
	d := Detail{Title: title, Source: rec.Source, Index: rec.Index}

	if v := rec.Get("description"); v.Exists() {
		if s, ok := v.AsString(); ok {
			d.Description = s
		} else {
			noteMismatch("description", v)
		}
	}

	for _, kf := range knownFields {
		v := rec.Get(kf.key)
		if !v.Exists() {
			continue
		}
		f, ok := kf.extract(v)
		if !ok {
			noteMismatch(kf.key, v)
			continue
		}
		f.Key = kf.key
		f.Label = kf.label
		d.Known = append(d.Known, f)
	}

	keys := slices.Clone(rec.Data.Keys())
	slices.Sort(keys)
	for _, key := range keys {
		if IsKnownField(key) || strings.HasPrefix(key, CommentPrefix) {
			continue
		}
		if f, ok := genericField(key, rec.Get(key)); ok {
			d.Extra = append(d.Extra, f)
		}
	}
	return d, true
}

// genericField renders fields outside the known set. Only arrays and strings
// are shown; everything else is skipped.
func genericField(key string, v Value) (Field, bool) {
	label := capitalize(key)
	switch v.Kind() {
	case KindArray:
		items := flattenStrings(v)
		if len(items) == 0 {
			return Field{}, false
		}
		return Field{Key: key, Label: label, Items: items, List: true}, true
	case KindString:
		s, _ := v.AsString()
		return Field{Key: key, Label: label, Text: s}, true
	default:
		return Field{}, false
	}
}

// flattenStrings returns the string leaves of an array, descending at most
// one nested level. Numbers and other kinds are dropped.
func flattenStrings(v Value) []string {
	arr, _ := v.AsArray()
	var out []string
	for _, e := range arr {
		if s, ok := e.AsString(); ok {
			out = append(out, s)
			continue
		}
		inner, ok := e.AsArray()
		if !ok {
			continue
		}
		for _, ie := range inner {
			if s, ok := ie.AsString(); ok {
				out = append(out, s)
			}
		}
	}
	return out
}

func scalarField(v Value) (Field, bool) {
	s, ok := v.Scalar()
	if !ok {
		return Field{}, false
	}
	return Field{Text: s}, true
}

// materialField accepts a single material or a list of them.
func materialField(v Value) (Field, bool) {
	if s, ok := v.AsString(); ok {
		return Field{Text: s}, true
	}
	arr, ok := v.AsArray()
	if !ok {
		return Field{}, false
	}
	var names []string
	for _, e := range arr {
		if s, ok := e.AsString(); ok {
			names = append(names, s)
		}
	}
	if len(names) == 0 {
		return Field{}, false
	}
	return Field{Text: strings.Join(names, ", ")}, true
}

func stringListField(v Value) (Field, bool) {
	arr, ok := v.AsArray()
	if !ok {
		return Field{}, false
	}
	items := make([]string, 0, len(arr))
	for _, e := range arr {
		if s, ok := e.AsString(); ok {
			items = append(items, s)
		}
	}
	return Field{Items: items, List: true}, true
}

func noteMismatch(key string, v Value) {
	logging.Aggregate(logging.CompDetail, "field_kind_mismatch",
		slog.String("field", key),
		slog.String("kind", v.Kind().String()))
}

// capitalize upper-cases the first character of s.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
