package item

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueAccessorsAreTotal(t *testing.T) {
	values := []Value{{}, Null(), Bool(true), Int(3), Number("1.5"), String("x"), Array(String("a")), ObjectValue(nil)}

	for _, v := range values {
		t.Run(v.Kind().String(), func(t *testing.T) {
			_, okS := v.AsString()
			_, okB := v.AsBool()
			_, okN := v.AsNumber()
			_, okA := v.AsArray()
			_, okO := v.AsObject()

			assert.Equal(t, v.Kind() == KindString, okS)
			assert.Equal(t, v.Kind() == KindBool, okB)
			assert.Equal(t, v.Kind() == KindNumber, okN)
			assert.Equal(t, v.Kind() == KindArray, okA)
			assert.Equal(t, v.Kind() == KindObject, okO)
			assert.False(t, v.Get("missing").Exists())
		})
	}
}

func TestZeroValueIsAbsent(t *testing.T) {
	var v Value
	assert.False(t, v.Exists())
	assert.Equal(t, KindInvalid, v.Kind())
	assert.Equal(t, "absent", v.Kind().String())
	assert.False(t, v.Path("name", "str").Exists())
}

func TestNumberKeepsSourceText(t *testing.T) {
	v, err := ParseValue([]byte(`1.50`))
	require.NoError(t, err)

	text, ok := v.NumberText()
	require.True(t, ok)
	assert.Equal(t, "1.50", text)

	f, ok := v.AsNumber()
	require.True(t, ok)
	assert.InDelta(t, 1.5, f, 1e-9)

	assert.False(t, Number("abc").Exists())
}

func TestScalar(t *testing.T) {
	s, ok := String("3 L").Scalar()
	assert.True(t, ok)
	assert.Equal(t, "3 L", s)

	s, ok = Int(250).Scalar()
	assert.True(t, ok)
	assert.Equal(t, "250", s)

	_, ok = Bool(true).Scalar()
	assert.False(t, ok)
	_, ok = Array().Scalar()
	assert.False(t, ok)
}

func TestParseValuePreservesKeyOrder(t *testing.T) {
	v, err := ParseValue([]byte(`{"z":1,"a":{"y":true,"b":null},"m":[1,"two"]}`))
	require.NoError(t, err)

	obj, ok := v.AsObject()
	require.True(t, ok)
	assert.Equal(t, []string{"z", "a", "m"}, obj.Keys())

	inner, ok := v.Get("a").AsObject()
	require.True(t, ok)
	assert.Equal(t, []string{"y", "b"}, inner.Keys())
	assert.Equal(t, KindNull, v.Path("a", "b").Kind())

	out, err := v.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":{"y":true,"b":null},"m":[1,"two"]}`, string(out))
}

func TestObjectSetRepeatedKey(t *testing.T) {
	o := NewObject().Set("a", Int(1)).Set("b", Int(2)).Set("a", Int(3))
	assert.Equal(t, []string{"a", "b"}, o.Keys())
	n, _ := o.Get("a").AsNumber()
	assert.Equal(t, 3.0, n)
	assert.Equal(t, 2, o.Len())
}

func TestNilObjectIsEmpty(t *testing.T) {
	var o *Object
	assert.Equal(t, 0, o.Len())
	assert.False(t, o.Has("x"))
	assert.Nil(t, o.Keys())
	out, err := o.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "{}", string(out))
}

func TestParseValueErrors(t *testing.T) {
	for _, doc := range []string{``, `{`, `[1,]`, `{"a":1} {"b":2}`, `{1:2}`} {
		_, err := ParseValue([]byte(doc))
		assert.Truef(t, errors.Is(err, ErrMalformed), "ParseValue(%q) = %v, want ErrMalformed", doc, err)
	}
}

func TestParseRecordArray(t *testing.T) {
	objs, err := parseRecordArray(strings.NewReader(`[{"a":1},{"b":2}]`))
	require.NoError(t, err)
	require.Len(t, objs, 2)
	assert.True(t, objs[1].Has("b"))

	objs, err = parseRecordArray(strings.NewReader(`[]`))
	require.NoError(t, err)
	assert.Empty(t, objs)
}

func TestParseRecordArrayErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"object at top level", `{"name":"x"}`, ErrNotArray},
		{"string at top level", `"x"`, ErrNotArray},
		{"number element", `[{"a":1}, 3]`, ErrNotObject},
		{"truncated", `[{"a":1}`, ErrMalformed},
		{"empty file", ``, ErrMalformed},
		{"trailing garbage", `[] []`, ErrMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseRecordArray(strings.NewReader(tt.doc))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRecordDisplayName(t *testing.T) {
	tests := []struct {
		doc  string
		want string
		ok   bool
	}{
		{`{"name":{"str":"Baseball Bat"}}`, "Baseball Bat", true},
		{`{"name":{"str":""}}`, "", false},
		{`{"name":"Baseball Bat"}`, "", false},
		{`{"name":{"str":7}}`, "", false},
		{`{"name":{"str_sp":"bats"}}`, "", false},
		{`{"volume":"1 L"}`, "", false},
	}
	for _, tt := range tests {
		got, ok := mustRecord(t, tt.doc).DisplayName()
		assert.Equal(t, tt.ok, ok, tt.doc)
		assert.Equal(t, tt.want, got, tt.doc)
	}
}

func TestRecordJSON(t *testing.T) {
	rec := mustRecord(t, `{"volume":"3 L","name":{"str":"Bat"}}`)
	out, err := rec.JSON()
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"volume\": \"3 L\",\n  \"name\": {\n    \"str\": \"Bat\"\n  }\n}", string(out))
	assert.Equal(t, -1, rec.Index)
}
