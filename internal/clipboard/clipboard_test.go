package clipboard

import (
	"bytes"
	"encoding/base64"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asheshgoplani/item-deck/internal/platform"
)

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// stubExec replaces the command runner and PATH lookup for one test.
func stubExec(t *testing.T, run func(name string, args []string, text string) error, found map[string]bool) {
	t.Helper()
	origCmd, origLook := command, lookPath
	command = run
	lookPath = func(name string) (string, error) {
		if found[name] {
			return "/usr/bin/" + name, nil
		}
		return "", errors.New("not found")
	}
	t.Cleanup(func() { command, lookPath = origCmd, origLook })
}

func TestCopyEmpty(t *testing.T) {
	_, err := Copy("", true)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestCountLines(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"hello world", 1},
		{"line1\nline2\nline3\n", 3},
		{"line1\nline2\nline3", 3},
		{"\n\n\n", 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, countLines(tt.in), "%q", tt.in)
	}
}

func TestOSC52Sequence(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte("hello"))
	assert.Equal(t, "\x1b]52;c;"+encoded+"\x07", osc52Sequence(encoded, false))
	assert.Equal(t, "\x1bPtmux;\x1b\x1b]52;c;"+encoded+"\x07\x1b\\", osc52Sequence(encoded, true))
}

func TestCopyNativeLinuxPrefersXclip(t *testing.T) {
	t.Setenv("WAYLAND_DISPLAY", "")
	var gotName, gotText string
	var gotArgs []string
	stubExec(t, func(name string, args []string, text string) error {
		gotName, gotArgs, gotText = name, args, text
		return nil
	}, map[string]bool{"xclip": true, "xsel": true})

	method, err := copyNative(platform.PlatformLinux, `{"a":1}`)
	require.NoError(t, err)
	assert.Equal(t, "xclip", method)
	assert.Equal(t, "/usr/bin/xclip", gotName)
	assert.Equal(t, []string{"-selection", "clipboard"}, gotArgs)
	assert.Equal(t, `{"a":1}`, gotText)
}

func TestCopyNativeWayland(t *testing.T) {
	t.Setenv("WAYLAND_DISPLAY", "wayland-0")
	stubExec(t, func(string, []string, string) error { return nil }, map[string]bool{"wl-copy": true, "xclip": true})

	method, err := copyNative(platform.PlatformLinux, "x")
	require.NoError(t, err)
	assert.Equal(t, "wl-copy", method)
}

func TestCopyNativeNoTool(t *testing.T) {
	t.Setenv("WAYLAND_DISPLAY", "")
	stubExec(t, func(string, []string, string) error { return nil }, nil)

	_, err := copyNative(platform.PlatformLinux, "x")
	assert.Error(t, err)
	_, err = copyNative(platform.PlatformUnknown, "x")
	assert.Error(t, err)
}

func TestCopyFallsBackToOSC52(t *testing.T) {
	t.Setenv("WAYLAND_DISPLAY", "")
	t.Setenv("TMUX", "")
	stubExec(t, func(string, []string, string) error { return errors.New("boom") }, map[string]bool{"xclip": true})

	var buf bytes.Buffer
	origTTY := openTTY
	openTTY = func() (io.WriteCloser, error) { return nopCloser{&buf}, nil }
	t.Cleanup(func() { openTTY = origTTY })

	// every native path goes through the failing stub
	res, err := Copy("line1\nline2", true)
	require.NoError(t, err)
	assert.Equal(t, "osc52", res.Method)
	assert.Equal(t, 2, res.LineCount)
	assert.Equal(t, 11, res.ByteSize)
	assert.Equal(t, osc52Sequence(base64.StdEncoding.EncodeToString([]byte("line1\nline2")), false), buf.String())

	_, err = Copy("x", false)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestCopyResultSummary(t *testing.T) {
	assert.Equal(t, "copied 1 line via pbcopy", (&CopyResult{Method: "pbcopy", LineCount: 1}).Summary())
	assert.Equal(t, "copied 4 lines via osc52", (&CopyResult{Method: "osc52", LineCount: 4}).Summary())
}
