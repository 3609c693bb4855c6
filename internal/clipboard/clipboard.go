package clipboard

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/asheshgoplani/item-deck/internal/platform"
)

var (
	// ErrEmpty is returned when there is nothing to copy.
	ErrEmpty = errors.New("no content to copy")

	// ErrUnavailable means neither a clipboard command nor OSC 52 could be used.
	ErrUnavailable = errors.New("no clipboard method available (install pbcopy, xclip, xsel, or wl-copy)")
)

// CopyResult describes a successful copy.
type CopyResult struct {
	Method    string // "pbcopy", "xclip", "osc52", ...
	ByteSize  int
	LineCount int
}

// Summary is the status-line text for a copy, e.g. "copied 12 lines via xclip".
func (r *CopyResult) Summary() string {
	unit := "lines"
	if r.LineCount == 1 {
		unit = "line"
	}
	return fmt.Sprintf("copied %d %s via %s", r.LineCount, unit, r.Method)
}

// command pipes text into an external program. Replaced in tests.
var command = func(name string, args []string, text string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = strings.NewReader(text)
	return cmd.Run()
}

// lookPath is exec.LookPath, replaced in tests.
var lookPath = exec.LookPath

// openTTY opens the controlling terminal for OSC 52 output. Replaced in tests.
var openTTY = func() (io.WriteCloser, error) {
	return os.OpenFile("/dev/tty", os.O_WRONLY, 0)
}

// Copy puts text on the system clipboard. The platform clipboard command is
// tried first; when that fails and allowOSC52 is set, the terminal is asked
// to do it through an OSC 52 escape sequence.
func Copy(text string, allowOSC52 bool) (*CopyResult, error) {
	if text == "" {
		return nil, ErrEmpty
	}
	res := &CopyResult{ByteSize: len(text), LineCount: countLines(text)}

	method, err := copyNative(platform.Detect(), text)
	if err == nil {
		res.Method = method
		return res, nil
	}
	if !allowOSC52 {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if err := copyOSC52(text); err != nil {
		return nil, fmt.Errorf("OSC 52 clipboard failed: %w", err)
	}
	res.Method = "osc52"
	return res, nil
}

func copyNative(p platform.Platform, text string) (string, error) {
	switch p {
	case platform.PlatformMacOS:
		return "pbcopy", command("pbcopy", nil, text)
	case platform.PlatformWSL1, platform.PlatformWSL2:
		return "clip.exe", command("clip.exe", nil, text)
	case platform.PlatformLinux:
		if os.Getenv("WAYLAND_DISPLAY") != "" {
			if path, err := lookPath("wl-copy"); err == nil {
				return "wl-copy", command(path, nil, text)
			}
		}
		if path, err := lookPath("xclip"); err == nil {
			return "xclip", command(path, []string{"-selection", "clipboard"}, text)
		}
		if path, err := lookPath("xsel"); err == nil {
			return "xsel", command(path, []string{"--clipboard", "--input"}, text)
		}
		return "", errors.New("no clipboard command found")
	default:
		return "", fmt.Errorf("unsupported platform: %s", p)
	}
}

func copyOSC52(text string) error {
	tty, err := openTTY()
	if err != nil {
		return fmt.Errorf("cannot open terminal: %w", err)
	}
	defer tty.Close()

	seq := osc52Sequence(base64.StdEncoding.EncodeToString([]byte(text)), os.Getenv("TMUX") != "")
	_, err = io.WriteString(tty, seq)
	return err
}

// osc52Sequence builds the escape sequence; inside tmux it is wrapped in a
// DCS passthrough so it reaches the outer terminal.
func osc52Sequence(encoded string, inTmux bool) string {
	osc := "\x1b]52;c;" + encoded + "\x07"
	if !inTmux {
		return osc
	}
	return "\x1bPtmux;\x1b" + osc + "\x1b\\"
}

// countLines counts lines; a trailing newline does not start a new one.
func countLines(text string) int {
	if text == "" {
		return 0
	}
	n := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		n++
	}
	return n
}
