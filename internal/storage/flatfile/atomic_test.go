package flatfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtomicWriteCreatesNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "target.txt")

	require.NoError(t, atomicWrite(path, []byte("hello\n")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(data))
}

func TestAtomicWriteReplacesExistingContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "target.txt")
	require.NoError(t, os.WriteFile(path, []byte("old content\n"), 0o644))

	require.NoError(t, atomicWrite(path, []byte("new content\n")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new content\n", string(data))

	// No temporary files may linger after a successful replace.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "target.txt", entries[0].Name())
}

func TestAtomicWriteFailureTouchesNothing(t *testing.T) {
	// The target's directory does not exist, so the temp file cannot be
	// created and the write must fail before anything becomes visible.
	dir := t.TempDir()
	path := filepath.Join(dir, "missing", "target.txt")

	err := atomicWrite(path, []byte("content\n"))
	require.Error(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestOriginalUnchangedUntilRename(t *testing.T) {
	// Replays the replacer's two steps with a pause in between: a crash
	// after the temp file is fully written but before the rename must
	// leave the original contents untouched on the next read.
	dir := t.TempDir()
	target := filepath.Join(dir, "output_1.txt")
	require.NoError(t, os.WriteFile(target, []byte("original\n"), 0o644))

	tmp, err := os.CreateTemp(dir, filepath.Base(target)+".*.tmp")
	require.NoError(t, err)
	_, err = tmp.Write([]byte("replacement\n"))
	require.NoError(t, err)
	require.NoError(t, tmp.Sync())
	require.NoError(t, tmp.Close())

	// The crash point: the new content exists on disk in full, yet the
	// target still reads back exactly as before.
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "original\n", string(data))

	// Only the rename makes the new content visible, all at once.
	require.NoError(t, os.Rename(tmp.Name(), target))
	data, err = os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "replacement\n", string(data))
}

func TestAtomicWriteTempNamesCarryTmpSuffix(t *testing.T) {
	// The suffix convention matters: Reset sweeps *.tmp leftovers and
	// List must be able to tell records from stragglers.
	dir := t.TempDir()
	tmp, err := os.CreateTemp(dir, filepath.Base("output_3.txt")+".*.tmp")
	require.NoError(t, err)
	defer tmp.Close()

	assert.True(t, strings.HasSuffix(tmp.Name(), ".tmp"))
	_, ok := recordID(filepath.Base(tmp.Name()))
	assert.False(t, ok, "a temp file must never parse as a record")
}
