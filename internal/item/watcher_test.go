package item

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func newTestWatcher(t *testing.T, root string) *DataWatcher {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fsnotify goroutines on windows are not tracked reliably")
	}
	dw, err := NewDataWatcher(root)
	require.NoError(t, err)
	return dw
}

func TestDataWatcherReportsJSONChange(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	writeDataFile(t, dir, "items.json", `[]`)
	dw := newTestWatcher(t, dir)
	defer dw.Close()

	path := filepath.Join(dir, "items.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name":{"str":"x"}}]`), 0o644))

	select {
	case got := <-dw.Changes():
		assert.Equal(t, path, got)
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification")
	}
}

func TestDataWatcherDebounces(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	dw := newTestWatcher(t, dir)
	defer dw.Close()

	for i := 0; i < 5; i++ {
		writeDataFile(t, dir, "burst.json", `[]`)
	}

	select {
	case <-dw.Changes():
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification")
	}
	select {
	case <-dw.Changes():
		t.Fatal("burst produced more than one notification")
	case <-time.After(2 * watchDebounce):
	}
}

func TestDataWatcherIgnoresOtherFiles(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	dw := newTestWatcher(t, dir)
	defer dw.Close()

	writeDataFile(t, dir, "README.md", "notes")

	select {
	case p := <-dw.Changes():
		t.Fatalf("unexpected notification for %s", p)
	case <-time.After(3 * watchDebounce):
	}
}

func TestDataWatcherNewSubdirectory(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	dw := newTestWatcher(t, dir)
	defer dw.Close()

	sub := filepath.Join(dir, "mods")
	require.NoError(t, os.Mkdir(sub, 0o755))
	// give the loop a moment to register the new directory
	time.Sleep(100 * time.Millisecond)
	writeDataFile(t, sub, "mod.json", `[]`)

	select {
	case got := <-dw.Changes():
		assert.Equal(t, filepath.Join(sub, "mod.json"), got)
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification from new subdirectory")
	}
}

func TestDataWatcherCloseIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t)

	dw := newTestWatcher(t, t.TempDir())
	assert.NoError(t, dw.Close())
	assert.NoError(t, dw.Close())
}
