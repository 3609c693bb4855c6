package item

import (
	"encoding/json"
	"strconv"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindInvalid Kind = iota // absent: the zero Value
	KindNull
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the JSON name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "absent"
	}
}

// Value is a dynamically-typed JSON value. The zero Value is "absent".
// Every accessor is total: asking for the wrong kind returns ok=false
// instead of panicking.
type Value struct {
	kind Kind
	b    bool
	s    string // string payload, or the source text of a number
	arr  []Value
	obj  *Object
}

// Constructors, mostly for tests and programmatic records.

func Null() Value { return Value{kind: KindNull} }

func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

func String(s string) Value { return Value{kind: KindString, s: s} }

func Array(vs ...Value) Value { return Value{kind: KindArray, arr: vs} }

// ObjectValue wraps o; a nil o becomes an empty object.
func ObjectValue(o *Object) Value {
	if o == nil {
		o = NewObject()
	}
	return Value{kind: KindObject, obj: o}
}

// Number builds a number from its JSON text. Invalid text yields an absent Value.
func Number(text string) Value {
	if _, err := strconv.ParseFloat(text, 64); err != nil {
		return Value{}
	}
	return Value{kind: KindNumber, s: text}
}

// Int is shorthand for an integral number.
func Int(n int64) Value {
	return Value{kind: KindNumber, s: strconv.FormatInt(n, 10)}
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// Exists reports whether v is present (any kind other than absent).
func (v Value) Exists() bool { return v.kind != KindInvalid }

// AsString returns the string payload.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

// AsBool returns the boolean payload.
func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// AsNumber returns the numeric payload as a float64.
func (v Value) AsNumber() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	f, err := strconv.ParseFloat(v.s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// NumberText returns a number exactly as it appeared in the source.
func (v Value) NumberText() (string, bool) {
	if v.kind != KindNumber {
		return "", false
	}
	return v.s, true
}

// Scalar returns the text of a string or number value, for passthrough display.
func (v Value) Scalar() (string, bool) {
	switch v.kind {
	case KindString, KindNumber:
		return v.s, true
	default:
		return "", false
	}
}

// AsArray returns the elements of an array value. The slice must not be modified.
func (v Value) AsArray() ([]Value, bool) {
	if v.kind != KindArray {
		return nil, false
	}
	return v.arr, true
}

// AsObject returns the object payload.
func (v Value) AsObject() (*Object, bool) {
	if v.kind != KindObject || v.obj == nil {
		return nil, false
	}
	return v.obj, true
}

// Get looks up key when v is an object. Anything else yields an absent Value.
func (v Value) Get(key string) Value {
	o, ok := v.AsObject()
	if !ok {
		return Value{}
	}
	return o.Get(key)
}

// Path follows a chain of object keys, e.g. Path("name", "str").
func (v Value) Path(keys ...string) Value {
	cur := v
	for _, k := range keys {
		cur = cur.Get(k)
		if !cur.Exists() {
			return Value{}
		}
	}
	return cur
}

// MarshalJSON writes v back out; object keys keep their document order.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull, KindInvalid:
		return []byte("null"), nil
	case KindBool:
		return strconv.AppendBool(nil, v.b), nil
	case KindNumber:
		return []byte(v.s), nil
	case KindString:
		return json.Marshal(v.s)
	case KindArray:
		buf := []byte{'['}
		for i, e := range v.arr {
			if i > 0 {
				buf = append(buf, ',')
			}
			b, err := e.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf = append(buf, b...)
		}
		return append(buf, ']'), nil
	case KindObject:
		return v.obj.MarshalJSON()
	}
	return []byte("null"), nil
}

// Object is a JSON object that remembers key order.
type Object struct {
	keys   []string
	values map[string]Value
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{values: make(map[string]Value)}
}

// Set stores key. A repeated key keeps its first position and the latest value.
func (o *Object) Set(key string, v Value) *Object {
	if _, seen := o.values[key]; !seen {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
	return o
}

// Get returns the value stored under key, or an absent Value.
func (o *Object) Get(key string) Value {
	if o == nil {
		return Value{}
	}
	return o.values[key]
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	if o == nil {
		return false
	}
	_, ok := o.values[key]
	return ok
}

// Len returns the number of keys.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Keys returns the keys in document order. The slice must not be modified.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	return o.keys
}

// MarshalJSON writes the object with keys in document order.
func (o *Object) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("{}"), nil
	}
	buf := []byte{'{'}
	for i, k := range o.keys {
		if i > 0 {
			buf = append(buf, ',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf = append(buf, kb...)
		buf = append(buf, ':')
		vb, err := o.values[k].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf = append(buf, vb...)
	}
	return append(buf, '}'), nil
}
