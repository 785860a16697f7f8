package logsetup

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestRotationPolicy_ArchiveName(t *testing.T) {
	tests := []struct {
		pattern string
		index   int
		want    string
	}{
		{"logs/app.{}.log", 1, "logs/app.1.log"},
		{"logs/app.{}.log", 12, "logs/app.12.log"},
		{"logs/app.log", 3, "logs/app.log.3"},
	}
	for _, tt := range tests {
		got := RotationPolicy{WindowPattern: tt.pattern}.ArchiveName(tt.index)
		assert.Equal(t, tt.want, got)
	}
}

func TestRollingFile_RollsAtSizeLimit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	policy := RotationPolicy{
		SizeLimitBytes: 10,
		WindowPattern:  filepath.Join(dir, "app.{}.log"),
		WindowCount:    2,
	}

	w, err := OpenRollingFile(path, 0, policy)
	require.NoError(t, err)
	defer w.Close()

	for _, rec := range []string{"first\n", "second\n", "third\n", "fourth\n"} {
		n, err := w.Write([]byte(rec))
		require.NoError(t, err)
		assert.Equal(t, len(rec), n)
	}

	assert.Equal(t, "fourth\n", readFile(t, path))
	assert.Equal(t, "third\n", readFile(t, filepath.Join(dir, "app.1.log")))
	assert.Equal(t, "second\n", readFile(t, filepath.Join(dir, "app.2.log")))

	_, err = os.Stat(filepath.Join(dir, "app.3.log"))
	assert.True(t, os.IsNotExist(err), "window must keep at most two archives")
}

func TestRollingFile_NoSplitBelowLimit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	w, err := OpenRollingFile(path, 0, RotationPolicy{
		SizeLimitBytes: 64,
		WindowPattern:  filepath.Join(dir, "app.log"),
		WindowCount:    1,
	})
	require.NoError(t, err)
	defer w.Close()

	_, err = w.Write([]byte("a\n"))
	require.NoError(t, err)
	_, err = w.Write([]byte("b\n"))
	require.NoError(t, err)

	assert.Equal(t, "a\nb\n", readFile(t, path))
	_, err = os.Stat(path + ".1")
	assert.True(t, os.IsNotExist(err))
}

func TestRollingFile_ZeroWindowDiscards(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	w, err := OpenRollingFile(path, 0, RotationPolicy{
		SizeLimitBytes: 4,
		WindowPattern:  filepath.Join(dir, "old.{}"),
		WindowCount:    0,
	})
	require.NoError(t, err)
	defer w.Close()

	_, err = w.Write([]byte("aaaa"))
	require.NoError(t, err)
	_, err = w.Write([]byte("bbbb"))
	require.NoError(t, err)

	assert.Equal(t, "bbbb", readFile(t, path))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRollingFile_AppendsToExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	require.NoError(t, os.WriteFile(path, []byte("0123456789"), 0o600))

	w, err := OpenRollingFile(path, 0, RotationPolicy{
		SizeLimitBytes: 12,
		WindowPattern:  filepath.Join(dir, "app.{}.log"),
		WindowCount:    1,
	})
	require.NoError(t, err)
	defer w.Close()

	// existing size counts towards the limit
	_, err = w.Write([]byte("abc"))
	require.NoError(t, err)

	assert.Equal(t, "abc", readFile(t, path))
	assert.Equal(t, "0123456789", readFile(t, filepath.Join(dir, "app.1.log")))
}

func TestRollingFile_CreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "deeper", "app.log")
	w, err := OpenRollingFile(path, 0, RotationPolicy{
		SizeLimitBytes: 2,
		WindowPattern:  filepath.Join(dir, "archive", "app.{}.log"),
		WindowCount:    1,
	})
	require.NoError(t, err)
	defer w.Close()

	_, err = w.Write([]byte("xx"))
	require.NoError(t, err)
	_, err = w.Write([]byte("yy"))
	require.NoError(t, err)

	assert.Equal(t, "xx", readFile(t, filepath.Join(dir, "archive", "app.1.log")))
	assert.Equal(t, path, w.Path())
}

func TestRollingFile_WriteAfterClose(t *testing.T) {
	dir := t.TempDir()
	w, err := OpenRollingFile(filepath.Join(dir, "app.log"), 0, RotationPolicy{
		SizeLimitBytes: 10,
		WindowPattern:  filepath.Join(dir, "app.{}"),
	})
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	_, err = w.Write([]byte("late"))
	require.ErrorIs(t, err, os.ErrClosed)
}

func TestOpenRollingFile_EmptyPath(t *testing.T) {
	_, err := OpenRollingFile("", 0, RotationPolicy{SizeLimitBytes: 1, WindowPattern: "x"})
	require.ErrorIs(t, err, ErrFilePathNotSet)
}

func TestRollingFile_LargeRecordStaysWhole(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	w, err := OpenRollingFile(path, 0, RotationPolicy{
		SizeLimitBytes: 4,
		WindowPattern:  filepath.Join(dir, "app.{}"),
		WindowCount:    3,
	})
	require.NoError(t, err)
	defer w.Close()

	big := strings.Repeat("z", 16)
	_, err = w.Write([]byte(big))
	require.NoError(t, err)
	assert.Equal(t, big, readFile(t, path))
}

func TestRollingFile_FailedRollKeepsWriting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")

	// archives would live under a regular file, so every roll fails
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	w, err := OpenRollingFile(path, 0, RotationPolicy{
		SizeLimitBytes: 10,
		WindowPattern:  filepath.Join(blocker, "app.{}.log"),
		WindowCount:    2,
	})
	require.NoError(t, err)
	defer w.Close()

	_, err = w.Write([]byte("first\n"))
	require.NoError(t, err)

	n, err := w.Write([]byte("second\n"))
	require.Error(t, err)
	assert.Equal(t, len("second\n"), n)

	n, err = w.Write([]byte("third\n"))
	require.Error(t, err)
	assert.Equal(t, len("third\n"), n)

	assert.Equal(t, "first\nsecond\nthird\n", readFile(t, path))
}

func TestRollingFile_CloseAfterFailedRoll(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	w, err := OpenRollingFile(filepath.Join(dir, "app.log"), 0, RotationPolicy{
		SizeLimitBytes: 4,
		WindowPattern:  filepath.Join(blocker, "app.{}.log"),
		WindowCount:    1,
	})
	require.NoError(t, err)

	_, _ = w.Write([]byte("aaaa"))
	_, _ = w.Write([]byte("bbbb"))
	require.NoError(t, w.Close())

	_, err = w.Write([]byte("late"))
	require.ErrorIs(t, err, os.ErrClosed)
}
