package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetItemDeckDirFromEnv(t *testing.T) {
	t.Setenv(HomeEnv, "/tmp/deck-home")
	dir, err := GetItemDeckDir()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/deck-home", dir)
}

func TestGetItemDeckDirDefault(t *testing.T) {
	t.Setenv(HomeEnv, "")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	dir, err := GetItemDeckDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".item-deck"), dir)
}

func TestResolveDataDirPrecedence(t *testing.T) {
	home := useTempHome(t)
	work := t.TempDir()
	t.Chdir(work)

	dir, src := ResolveDataDir("")
	assert.Equal(t, SourceNone, src)
	assert.Empty(t, dir)

	require.NoError(t, os.Mkdir(filepath.Join(work, DefaultDataDirName), 0o755))
	dir, src = ResolveDataDir("")
	assert.Equal(t, SourceDefault, src)
	assert.Equal(t, DefaultDataDirName, dir)

	writeConfig(t, home, `data_dir = "/from/config"`)
	ClearUserConfigCache()
	dir, src = ResolveDataDir("")
	assert.Equal(t, SourceConfig, src)
	assert.Equal(t, "/from/config", dir)

	dir, src = ResolveDataDir("/from/arg")
	assert.Equal(t, SourceArgument, src)
	assert.Equal(t, "/from/arg", dir)
}
