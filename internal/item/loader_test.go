package item

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordNames(records []Record) []string {
	names := make([]string, 0, len(records))
	for _, r := range records {
		name, _ := r.DisplayName()
		names = append(names, name)
	}
	return names
}

func TestLoadDirWalkOrder(t *testing.T) {
	dir := t.TempDir()
	writeDataFile(t, dir, "b.json", `[{"name":{"str":"b1"}},{"name":{"str":"b2"}}]`)
	writeDataFile(t, dir, "a.json", `[{"name":{"str":"a1"}}]`)
	writeDataFile(t, dir, "sub/c.json", `[{"name":{"str":"c1"}}]`)
	writeDataFile(t, dir, "notes.txt", `not json at all`)

	res, err := LoadDir(context.Background(), dir, LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"a1", "b1", "b2", "c1"}, recordNames(res.Records))
	assert.Len(t, res.Files, 3)
	assert.Empty(t, res.Warnings)

	assert.Equal(t, filepath.Join(dir, "b.json"), res.Records[2].Source)
	assert.Equal(t, 1, res.Records[2].Index)
}

func TestLoadDirEmpty(t *testing.T) {
	res, err := LoadDir(context.Background(), t.TempDir(), LoadOptions{})
	require.NoError(t, err)
	assert.Empty(t, res.Records)
	assert.Empty(t, res.Files)
}

func TestLoadDirKeepsNamelessRecords(t *testing.T) {
	dir := t.TempDir()
	writeDataFile(t, dir, "items.json", `[{"name":{"str":"Baseball Bat"},"volume":"3 L"},{"name":{"str":""}},{"volume":"1 L"}]`)

	res, err := LoadDir(context.Background(), dir, LoadOptions{})
	require.NoError(t, err)
	assert.Len(t, res.Records, 3)
}

func TestLoadDirNoRoot(t *testing.T) {
	_, err := LoadDir(context.Background(), "", LoadOptions{})
	assert.ErrorIs(t, err, ErrNoDataDir)
}

func TestLoadDirMissingRoot(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")
	_, err := LoadDir(context.Background(), missing, LoadOptions{})

	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, missing, le.Path)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadDirRootIsFile(t *testing.T) {
	path := writeDataFile(t, t.TempDir(), "items.json", `[]`)
	_, err := LoadDir(context.Background(), path, LoadOptions{})

	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, path, le.Path)
}

func TestLoadDirStrictFailsOnBadFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"malformed", `[{"name":`, ErrMalformed},
		{"not an array", `{"name":{"str":"x"}}`, ErrNotArray},
		{"not an object", `[{"name":{"str":"x"}}, "loose"]`, ErrNotObject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeDataFile(t, dir, "a.json", `[{"name":{"str":"ok"}}]`)
			bad := writeDataFile(t, dir, "b.json", tt.content)

			res, err := LoadDir(context.Background(), dir, LoadOptions{Policy: PolicyStrict})
			assert.Nil(t, res)
			assert.ErrorIs(t, err, tt.want)

			var le *LoadError
			require.ErrorAs(t, err, &le)
			assert.Equal(t, bad, le.Path)
		})
	}
}

func TestLoadDirStrictReportsFirstBadFile(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 20; i++ {
		writeDataFile(t, dir, fmt.Sprintf("f%02d.json", i), `[{"name":{"str":"x"}}]`)
	}
	first := writeDataFile(t, dir, "f05b.json", `oops`)
	writeDataFile(t, dir, "f15b.json", `oops`)

	for i := 0; i < 5; i++ {
		_, err := LoadDir(context.Background(), dir, LoadOptions{MaxParallel: 8})
		var le *LoadError
		require.ErrorAs(t, err, &le)
		assert.Equal(t, first, le.Path)
	}
}

func TestLoadDirLenientSkipsBadFiles(t *testing.T) {
	dir := t.TempDir()
	writeDataFile(t, dir, "a.json", `[{"name":{"str":"a"}}]`)
	bad := writeDataFile(t, dir, "b.json", `[1, 2]`)
	writeDataFile(t, dir, "c.json", `[{"name":{"str":"c"}}]`)

	res, err := LoadDir(context.Background(), dir, LoadOptions{Policy: PolicyLenient})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "c"}, recordNames(res.Records))
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, bad, res.Warnings[0].Path)
	assert.ErrorIs(t, res.Warnings[0], ErrNotObject)
}

func TestLoadDirDeepNesting(t *testing.T) {
	dir := t.TempDir()
	writeDataFile(t, dir, "a.json", `[{"name":{"str":"a"}}]`)
	shallow := 100
	writeDataFile(t, dir, "b.json", `[{"name":{"str":"b"},"nested":`+
		strings.Repeat("[", shallow)+strings.Repeat("]", shallow)+`}]`)
	deep := maxNestingDepth + 10
	bad := writeDataFile(t, dir, "c.json",
		"["+strings.Repeat("[", deep)+strings.Repeat("]", deep)+"]")

	_, err := LoadDir(context.Background(), dir, LoadOptions{Policy: PolicyStrict})
	assert.ErrorIs(t, err, ErrMalformed)
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, bad, le.Path)
	assert.Contains(t, err.Error(), "nesting exceeds")

	res, err := LoadDir(context.Background(), dir, LoadOptions{Policy: PolicyLenient})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, recordNames(res.Records))
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, bad, res.Warnings[0].Path)
}

func TestParseValueDeepNesting(t *testing.T) {
	deep := maxNestingDepth + 1
	_, err := ParseValue([]byte(strings.Repeat("[", deep) + strings.Repeat("]", deep)))
	assert.ErrorIs(t, err, ErrMalformed)

	v, err := ParseValue([]byte(strings.Repeat("[", 50) + strings.Repeat("]", 50)))
	require.NoError(t, err)
	assert.Equal(t, KindArray, v.Kind())
}

func TestLoadDirFollowsFileSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need extra privileges on windows")
	}
	target := writeDataFile(t, t.TempDir(), "real.json", `[{"name":{"str":"Linked"}}]`)
	dir := t.TempDir()
	writeDataFile(t, dir, "a.json", `[{"name":{"str":"a"}}]`)
	link := filepath.Join(dir, "items.json")
	require.NoError(t, os.Symlink(target, link))

	res, err := LoadDir(context.Background(), dir, LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "Linked"}, recordNames(res.Records))
	assert.Equal(t, []string{filepath.Join(dir, "a.json"), link}, res.Files)
	assert.Equal(t, link, res.Records[1].Source)
}

func TestLoadDirDanglingSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need extra privileges on windows")
	}
	dir := t.TempDir()
	writeDataFile(t, dir, "a.json", `[{"name":{"str":"a"}}]`)
	link := filepath.Join(dir, "gone.json")
	require.NoError(t, os.Symlink(filepath.Join(dir, "missing.json"), link))

	_, err := LoadDir(context.Background(), dir, LoadOptions{Policy: PolicyStrict})
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, link, le.Path)
	assert.ErrorIs(t, err, os.ErrNotExist)

	res, err := LoadDir(context.Background(), dir, LoadOptions{Policy: PolicyLenient})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, recordNames(res.Records))
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, link, res.Warnings[0].Path)
}

func TestLoadDirUnreadableSubdir(t *testing.T) {
	if runtime.GOOS == "windows" || os.Getuid() == 0 {
		t.Skip("permission bits are not enforced here")
	}
	dir := t.TempDir()
	writeDataFile(t, dir, "a.json", `[{"name":{"str":"a"}}]`)
	locked := filepath.Join(dir, "locked")
	writeDataFile(t, locked, "x.json", `[]`)
	require.NoError(t, os.Chmod(locked, 0))
	t.Cleanup(func() { os.Chmod(locked, 0o755) })

	_, err := LoadDir(context.Background(), dir, LoadOptions{Policy: PolicyStrict})
	assert.Error(t, err)

	res, err := LoadDir(context.Background(), dir, LoadOptions{Policy: PolicyLenient})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, recordNames(res.Records))
	assert.Len(t, res.Warnings, 1)
}

func TestLoadDirCancelled(t *testing.T) {
	dir := t.TempDir()
	writeDataFile(t, dir, "a.json", `[{"name":{"str":"a"}}]`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := LoadDir(ctx, dir, LoadOptions{})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestLoadDirDeterministicAcrossParallelism(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 30; i++ {
		writeDataFile(t, dir, fmt.Sprintf("part%02d/items.json", i),
			fmt.Sprintf(`[{"name":{"str":"item %d a"}},{"name":{"str":"item %d b"}}]`, i, i))
	}

	serial, err := LoadDir(context.Background(), dir, LoadOptions{MaxParallel: 1})
	require.NoError(t, err)
	parallel, err := LoadDir(context.Background(), dir, LoadOptions{MaxParallel: 16})
	require.NoError(t, err)

	assert.Equal(t, recordNames(serial.Records), recordNames(parallel.Records))
	assert.Len(t, parallel.Records, 60)
}

func TestParsePolicy(t *testing.T) {
	assert.Equal(t, PolicyLenient, ParsePolicy("lenient"))
	assert.Equal(t, PolicyStrict, ParsePolicy("strict"))
	assert.Equal(t, PolicyStrict, ParsePolicy(""))
	assert.Equal(t, PolicyStrict, ParsePolicy("whatever"))
}
