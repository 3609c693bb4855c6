package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/asheshgoplani/item-deck/internal/platform"
)

// HomeEnv overrides the directory holding config.toml and debug.log.
const HomeEnv = "ITEMDECK_HOME"

// DefaultDataDirName is looked up in the working directory when no data
// directory is configured, matching the layout of a game install.
const DefaultDataDirName = "json"

// GetItemDeckDir returns the item-deck home directory (~/.item-deck unless
// ITEMDECK_HOME is set).
func GetItemDeckDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return platform.ExpandPath(dir), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".item-deck"), nil
}

// DataDirSource records where ResolveDataDir found the directory.
type DataDirSource string

const (
	SourceArgument DataDirSource = "argument"
	SourceConfig   DataDirSource = "config"
	SourceDefault  DataDirSource = "default"
	SourceNone     DataDirSource = ""
)

// ResolveDataDir picks the item data directory: an explicit argument wins,
// then data_dir from config.toml, then ./json when it exists. It returns
// SourceNone when nothing applies; the caller may then prompt for a folder.
func ResolveDataDir(arg string) (string, DataDirSource) {
	if arg != "" {
		return platform.ExpandPath(arg), SourceArgument
	}
	if dir := GetDataDir(); dir != "" {
		return dir, SourceConfig
	}
	if info, err := os.Stat(DefaultDataDirName); err == nil && info.IsDir() {
		return DefaultDataDirName, SourceDefault
	}
	return "", SourceNone
}
