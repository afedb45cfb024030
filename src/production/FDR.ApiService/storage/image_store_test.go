package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestImageStoreSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "images")
	store := NewImageStore(dir)
	store.now = func() time.Time { return time.Unix(1756454400, 0) }

	filename, err := store.Save([]byte("jpeg-bytes"))
	require.NoError(t, err)
	require.Equal(t, "cam_1756454400.jpg", filename)

	data, err := os.ReadFile(filepath.Join(dir, filename))
	require.NoError(t, err)
	require.Equal(t, []byte("jpeg-bytes"), data)
}

func TestImageStoreSameSecondOverwrites(t *testing.T) {
	dir := t.TempDir()
	store := NewImageStore(dir)
	store.now = func() time.Time { return time.Unix(1756454400, 0) }

	first, err := store.Save([]byte("first"))
	require.NoError(t, err)
	second, err := store.Save([]byte("second"))
	require.NoError(t, err)
	require.Equal(t, first, second)

	data, err := os.ReadFile(filepath.Join(dir, second))
	require.NoError(t, err)
	require.Equal(t, []byte("second"), data)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestImageStoreCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "images")
	store := NewImageStore(dir)

	_, err := store.Save([]byte("x"))
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	require.True(t, info.IsDir())
}
