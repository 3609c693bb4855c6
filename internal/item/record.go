package item

import (
	"bytes"
	"encoding/json"
)

// CommentPrefix marks fields that hold human annotations in the data files.
const CommentPrefix = "//"

// Record is one item definition as loaded from a data file.
type Record struct {
	Data   *Object
	Source string // file the record came from; empty for programmatic records
	Index  int    // position inside Source
}

// NewRecord wraps an object that did not come from disk.
func NewRecord(data *Object) Record {
	if data == nil {
		data = NewObject()
	}
	return Record{Data: data, Index: -1}
}

// Get returns a top-level field.
func (r Record) Get(key string) Value {
	return r.Data.Get(key)
}

// DisplayName resolves name.str. Anything other than a non-empty string is "no name".
func (r Record) DisplayName() (string, bool) {
	s, ok := ObjectValue(r.Data).Path("name", "str").AsString()
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// JSON returns the record as indented JSON with keys in document order.
func (r Record) JSON() ([]byte, error) {
	raw, err := r.Data.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
