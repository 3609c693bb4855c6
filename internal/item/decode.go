package item

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// maxNestingDepth bounds how deeply arrays and objects may nest in a data file.
const maxNestingDepth = 10000

// UnmarshalJSON decodes any JSON document into v, keeping object key order.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	val, err := decodeValue(dec, 0)
	if err != nil {
		return err
	}
	if err := expectEOF(dec); err != nil {
		return err
	}
	*v = val
	return nil
}

// ParseValue is a convenience wrapper around UnmarshalJSON.
func ParseValue(data []byte) (Value, error) {
	var v Value
	if err := v.UnmarshalJSON(data); err != nil {
		return Value{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return v, nil
}

// parseRecordArray decodes one data file: a JSON array whose elements are objects.
func parseRecordArray(r io.Reader) ([]*Object, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrMalformed)
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, fmt.Errorf("%w: top level is %s", ErrNotArray, describeToken(tok))
	}

	var out []*Object
	for i := 0; dec.More(); i++ {
		v, err := decodeValue(dec, 1)
		if err != nil {
			return nil, fmt.Errorf("%w: element %d at offset %d: %v", ErrMalformed, i, dec.InputOffset(), err)
		}
		obj, ok := v.AsObject()
		if !ok {
			return nil, fmt.Errorf("%w: element %d is %s", ErrNotObject, i, v.Kind())
		}
		out = append(out, obj)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := expectEOF(dec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return out, nil
}

// decodeValue reads one value. depth counts the arrays and objects already open.
func decodeValue(dec *json.Decoder, depth int) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Value{}, io.ErrUnexpectedEOF
		}
		return Value{}, err
	}

	switch t := tok.(type) {
	case json.Delim:
		if (t == '[' || t == '{') && depth >= maxNestingDepth {
			return Value{}, fmt.Errorf("nesting exceeds %d", maxNestingDepth)
		}
		switch t {
		case '[':
			arr := []Value{}
			for dec.More() {
				e, err := decodeValue(dec, depth+1)
				if err != nil {
					return Value{}, err
				}
				arr = append(arr, e)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return Array(arr...), nil
		case '{':
			obj := NewObject()
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := kt.(string)
				if !ok {
					return Value{}, fmt.Errorf("object key is %s", describeToken(kt))
				}
				e, err := decodeValue(dec, depth+1)
				if err != nil {
					return Value{}, err
				}
				obj.Set(key, e)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return ObjectValue(obj), nil
		default:
			return Value{}, fmt.Errorf("unexpected %q", rune(t))
		}
	case string:
		return String(t), nil
	case json.Number:
		return Value{kind: KindNumber, s: string(t)}, nil
	case bool:
		return Bool(t), nil
	case nil:
		return Null(), nil
	}
	return Value{}, fmt.Errorf("unexpected token %v", tok)
}

func expectEOF(dec *json.Decoder) error {
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err != nil {
			return err
		}
		return errors.New("trailing data after document")
	}
	return nil
}

func describeToken(tok json.Token) string {
	switch t := tok.(type) {
	case json.Delim:
		if t == '{' {
			return "object"
		}
		return fmt.Sprintf("%q", rune(t))
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "bool"
	case nil:
		return "null"
	}
	return fmt.Sprintf("%T", tok)
}
