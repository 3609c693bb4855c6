package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeArgs(t *testing.T) {
	newFlags := func() *flag.FlagSet {
		fs := flag.NewFlagSet("test", flag.ContinueOnError)
		fs.Bool("json", false, "")
		fs.Bool("fuzzy", false, "")
		fs.String("q", "", "")
		fs.String("dir", "", "")
		return fs
	}
	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{"flags already first", []string{"--json", "./json"}, []string{"--json", "./json"}},
		{"bool flag after positional", []string{"./json", "--json"}, []string{"--json", "./json"}},
		{"string flag after positional", []string{"./json", "-q", "bat"}, []string{"-q", "bat", "./json"}},
		{"equals syntax", []string{"Rock", "--dir=./json"}, []string{"--dir=./json", "Rock"}},
		{"mixed", []string{"baseball", "--json", "bat", "--dir", "d"}, []string{"--json", "--dir", "d", "baseball", "bat"}},
		{"double dash", []string{"--json", "--", "-odd-name"}, []string{"--json", "-odd-name"}},
		{"no flags", []string{"a", "b"}, []string{"a", "b"}},
		{"empty", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalizeArgs(newFlags(), tt.args))
		})
	}
}

func TestCLIOutputPrint(t *testing.T) {
	var out, errOut bytes.Buffer
	require.NoError(t, NewCLIOutput(&out, &errOut, false).Print("hello\n", map[string]int{"n": 1}))
	assert.Equal(t, "hello\n", out.String())

	out.Reset()
	require.NoError(t, NewCLIOutput(&out, &errOut, true).Print("hello\n", map[string]int{"n": 1}))
	assert.JSONEq(t, `{"n": 1}`, out.String())
	assert.Empty(t, errOut.String())
}

func TestCLIOutputError(t *testing.T) {
	var out, errOut bytes.Buffer
	NewCLIOutput(&out, &errOut, false).Error("boom", ErrCodeNotFound)
	assert.Equal(t, "Error: boom\n", errOut.String())
	assert.Empty(t, out.String())

	errOut.Reset()
	NewCLIOutput(&out, &errOut, true).Error("boom", ErrCodeNotFound)
	var got map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, map[string]any{"success": false, "error": "boom", "code": "NOT_FOUND"}, got)
}

func TestCLIErrorUnwraps(t *testing.T) {
	base := errors.New("inner")
	err := newCLIError(ErrCodeUsage, base)
	assert.ErrorIs(t, err, base)
	assert.Equal(t, "inner", err.Error())

	var ce *cliError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ErrCodeUsage, ce.code)
}
