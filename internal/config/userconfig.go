package config

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	dark "github.com/thiagokokada/dark-mode-go"

	"github.com/asheshgoplani/item-deck/internal/item"
	"github.com/asheshgoplani/item-deck/internal/logging"
	"github.com/asheshgoplani/item-deck/internal/platform"
)

var configLog = logging.ForComponent(logging.CompConfig)

// UserConfigFileName is the TOML config file inside the item-deck home.
const UserConfigFileName = "config.toml"

// UserConfig is the user-editable configuration in config.toml.
type UserConfig struct {
	// DataDir is the item data directory used when none is given on the
	// command line. "~" and environment variables are expanded.
	DataDir string `toml:"data_dir"`

	// Theme sets the color scheme: "dark" (default), "light", or "system"
	Theme string `toml:"theme"`

	Search SearchSettings `toml:"search"`
	Loader LoaderSettings `toml:"loader"`
	Watch  WatchSettings  `toml:"watch"`
	Logs   LogSettings    `toml:"logs"`
}

// SearchSettings configures the query box.
type SearchSettings struct {
	// Mode is "substring" (default) or "fuzzy"
	Mode string `toml:"mode"`
}

// LoaderSettings configures how data files are read.
type LoaderSettings struct {
	// Policy is "strict" (default: any bad file aborts startup) or
	// "lenient" (bad files are skipped and listed as warnings)
	Policy string `toml:"policy"`

	// MaxParallel caps concurrent file parsing. 0 means one per CPU.
	MaxParallel int `toml:"max_parallel"`
}

// WatchSettings configures the "data changed on disk" notice.
type WatchSettings struct {
	// Enabled defaults to true; pointer so an explicit false is visible
	Enabled *bool `toml:"enabled"`
}

// GetEnabled returns the watch toggle, defaulting to true.
func (w *WatchSettings) GetEnabled() bool {
	if w.Enabled == nil {
		return true
	}
	return *w.Enabled
}

// LogSettings mirrors logging.Config.
type LogSettings struct {
	// Enabled writes debug.log even without ITEMDECK_DEBUG
	Enabled bool `toml:"enabled"`

	// Level is the minimum log level: "debug", "info" (default), "warn", "error"
	Level string `toml:"level"`

	// Format is "json" (default) or "text"
	Format string `toml:"format"`

	// MaxSizeMB rotates debug.log past this size. Default: 10
	MaxSizeMB int `toml:"max_size_mb"`

	// MaxBackups is the number of rotated files kept. Default: 3
	MaxBackups int `toml:"max_backups"`

	// MaxAgeDays removes rotated files older than this. Default: 7
	MaxAgeDays int `toml:"max_age_days"`

	// Compress gzips rotated files
	Compress bool `toml:"compress"`

	// RingBufferMB is the in-memory tail dumped on SIGUSR1. Default: 1
	RingBufferMB int `toml:"ring_buffer_mb"`

	// AggregateIntervalS is the event summary interval. Default: 30
	AggregateIntervalS int `toml:"aggregate_interval_secs"`
}

var defaultUserConfig = UserConfig{}

var (
	userConfigCache   *UserConfig
	userConfigCacheMu sync.RWMutex
)

// GetUserConfigPath returns the path to config.toml.
func GetUserConfigPath() (string, error) {
	dir, err := GetItemDeckDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, UserConfigFileName), nil
}

// LoadUserConfig reads config.toml once and caches the result. A missing file
// yields defaults. A parse error is returned alongside the defaults so the
// caller can report it and keep going.
func LoadUserConfig() (*UserConfig, error) {
	userConfigCacheMu.RLock()
	if userConfigCache != nil {
		defer userConfigCacheMu.RUnlock()
		return userConfigCache, nil
	}
	userConfigCacheMu.RUnlock()

	userConfigCacheMu.Lock()
	defer userConfigCacheMu.Unlock()
	if userConfigCache != nil {
		return userConfigCache, nil
	}

	configPath, err := GetUserConfigPath()
	if err != nil {
		userConfigCache = &defaultUserConfig
		return userConfigCache, nil
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		userConfigCache = &defaultUserConfig
		return userConfigCache, nil
	}

	var config UserConfig
	md, err := toml.DecodeFile(configPath, &config)
	if err != nil {
		// cache defaults so a broken file is not re-parsed on every getter
		userConfigCache = &defaultUserConfig
		configLog.Warn("config_parse_failed",
			slog.String("path", configPath),
			slog.String("error", err.Error()))
		return userConfigCache, fmt.Errorf("config.toml parse error: %w", err)
	}
	for _, key := range md.Undecoded() {
		configLog.Warn("config_unknown_key", slog.String("key", key.String()))
	}

	userConfigCache = &config
	return userConfigCache, nil
}

// ReloadUserConfig drops the cache and reads config.toml again.
func ReloadUserConfig() (*UserConfig, error) {
	ClearUserConfigCache()
	return LoadUserConfig()
}

// SaveUserConfig writes config atomically (temp file, fsync, rename) and
// clears the cache.
func SaveUserConfig(config *UserConfig) error {
	configPath, err := GetUserConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("# item-deck configuration\n\n")
	if err := toml.NewEncoder(&buf).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	tmpPath := configPath + ".tmp"
	if err := os.WriteFile(tmpPath, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := syncFile(tmpPath); err != nil {
		configLog.Debug("config_fsync_failed", slog.String("error", err.Error()))
	}
	if err := os.Rename(tmpPath, configPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to finalize config save: %w", err)
	}

	ClearUserConfigCache()
	configLog.Info("config_saved", slog.String("path", configPath))
	return nil
}

func syncFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}

// ClearUserConfigCache forgets the cached config; the next load reads disk.
func ClearUserConfigCache() {
	userConfigCacheMu.Lock()
	userConfigCache = nil
	userConfigCacheMu.Unlock()
}

func loadOrDefault() *UserConfig {
	config, err := LoadUserConfig()
	if err != nil || config == nil {
		return &defaultUserConfig
	}
	return config
}

// GetDataDir returns data_dir with ~ and $VARS expanded, or "".
func GetDataDir() string {
	dir := loadOrDefault().DataDir
	if dir == "" {
		return ""
	}
	return platform.ExpandPath(dir)
}

// GetTheme returns the configured theme, defaulting to "dark".
func GetTheme() string {
	switch theme := loadOrDefault().Theme; theme {
	case "dark", "light", "system":
		return theme
	default:
		return "dark"
	}
}

// ResolveTheme turns the configured theme into "dark" or "light", asking
// the OS when the theme is "system". Detection failures fall back to dark.
func ResolveTheme() string {
	theme := GetTheme()
	if theme != "system" {
		return theme
	}
	isDark, err := dark.IsDarkMode()
	if err != nil || isDark {
		return "dark"
	}
	return "light"
}

// GetSearchMode returns the configured search mode.
func GetSearchMode() item.SearchMode {
	return item.ParseSearchMode(loadOrDefault().Search.Mode)
}

// GetLoadOptions returns loader settings ready for item.LoadDir.
func GetLoadOptions() item.LoadOptions {
	l := loadOrDefault().Loader
	opts := item.LoadOptions{Policy: item.ParsePolicy(l.Policy)}
	if l.MaxParallel > 0 {
		opts.MaxParallel = l.MaxParallel
	}
	return opts
}

// GetWatchEnabled reports whether the data watcher should run.
func GetWatchEnabled() bool {
	w := loadOrDefault().Watch
	return w.GetEnabled()
}

// GetLogSettings returns log settings with defaults applied.
func GetLogSettings() LogSettings {
	s := loadOrDefault().Logs
	if s.Level == "" {
		s.Level = "info"
	}
	if s.Format == "" {
		s.Format = "json"
	}
	if s.MaxSizeMB <= 0 {
		s.MaxSizeMB = 10
	}
	if s.MaxBackups <= 0 {
		s.MaxBackups = 3
	}
	if s.MaxAgeDays <= 0 {
		s.MaxAgeDays = 7
	}
	if s.RingBufferMB <= 0 {
		s.RingBufferMB = 1
	}
	if s.AggregateIntervalS <= 0 {
		s.AggregateIntervalS = 30
	}
	return s
}

// LoggingConfig converts the [logs] section into a logging.Config.
func LoggingConfig(debug bool) logging.Config {
	s := GetLogSettings()
	dir, _ := GetItemDeckDir()
	return logging.Config{
		LogDir:                dir,
		Level:                 s.Level,
		Format:                s.Format,
		MaxSizeMB:             s.MaxSizeMB,
		MaxBackups:            s.MaxBackups,
		MaxAgeDays:            s.MaxAgeDays,
		Compress:              s.Compress,
		RingBufferSize:        s.RingBufferMB * 1024 * 1024,
		AggregateIntervalSecs: s.AggregateIntervalS,
		Enabled:               s.Enabled,
		Debug:                 debug,
	}
}

const exampleConfig = `# item-deck configuration
# Loaded once at startup. Every setting is optional.

# Item data directory used when none is passed on the command line.
# Without it, ./json is used if present, otherwise you are asked for a folder.
# data_dir = "~/games/cdda/data/json"

# Color scheme: "dark" (default), "light", or "system" (follows the OS)
# theme = "dark"

[search]
# "substring" (default): case-insensitive substring of the item name
# "fuzzy": characters in order, gaps allowed ("bbat" finds "Baseball Bat")
# mode = "substring"

[loader]
# "strict" (default): any malformed data file aborts startup
# "lenient": malformed files are skipped and reported
# policy = "strict"
# Concurrent file parsing, 0 = one per CPU
# max_parallel = 0

[watch]
# Show a notice when data files change after loading (restart to reload)
# enabled = true

[logs]
# debug.log is written when ITEMDECK_DEBUG=1 or enabled = true
# enabled = false
# level = "info"
# format = "json"
# max_size_mb = 10
# max_backups = 3
# max_age_days = 7
# compress = false
# ring_buffer_mb = 1
# aggregate_interval_secs = 30
`

// CreateExampleConfig writes a commented config.toml if none exists.
func CreateExampleConfig() error {
	configPath, err := GetUserConfigPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(configPath); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0o700); err != nil {
		return err
	}
	return os.WriteFile(configPath, []byte(exampleConfig), 0o600)
}
