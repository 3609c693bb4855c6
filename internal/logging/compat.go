package logging

import (
	"bytes"
	"log/slog"
	"strings"
)

// BridgeWriter lets the standard library logger feed slog. Libraries that
// call log.Printf would otherwise scribble over the TUI; routed through here
// they land in debug.log with a component field taken from a leading
// "[CATEGORY]" tag when one is present.
type BridgeWriter struct {
	logger    *slog.Logger
	component string
}

// NewBridgeWriter creates a writer that forwards writes to slog.
// defaultComponent is used for lines without a [CATEGORY] tag.
func NewBridgeWriter(defaultComponent string) *BridgeWriter {
	return &BridgeWriter{
		logger:    Logger(),
		component: defaultComponent,
	}
}

// Write implements io.Writer. Each write is one log line.
func (bw *BridgeWriter) Write(p []byte) (int, error) {
	n := len(p)
	msg := string(bytes.TrimSpace(p))
	if msg == "" {
		return n, nil
	}

	// slog adds its own timestamp
	msg = stripLogTimestamp(msg)

	component := bw.component
	if strings.HasPrefix(msg, "[") {
		if idx := strings.Index(msg, "] "); idx > 0 {
			component = strings.ToLower(msg[1:idx])
			msg = msg[idx+2:]
		}
	}

	bw.logger.Info(msg, slog.String("component", canonicalComponent(component)))
	return n, nil
}

// stripLogTimestamp removes the prefix added by log.Ltime (optionally with
// log.Lmicroseconds).
func stripLogTimestamp(s string) string {
	// "15:04:05.000000 "
	if len(s) > 16 && s[2] == ':' && s[5] == ':' && s[8] == '.' && s[15] == ' ' {
		return s[16:]
	}
	// "15:04:05 "
	if len(s) > 9 && s[2] == ':' && s[5] == ':' && s[8] == ' ' {
		return s[9:]
	}
	return s
}

// canonicalComponent folds tag spellings into the component constants.
func canonicalComponent(cat string) string {
	switch cat {
	case "load", "loader", "parse":
		return CompLoader
	case "catalog", "sort":
		return CompCatalog
	case "query", "search", "filter":
		return CompQuery
	case "detail", "project":
		return CompDetail
	case "watch", "watcher", "fsnotify":
		return CompWatch
	case "ui", "tui", "tea":
		return CompUI
	case "config", "toml":
		return CompConfig
	case "cli":
		return CompCLI
	default:
		return cat
	}
}
