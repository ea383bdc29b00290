package filestore_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chat-relay/internal/client/filestore"
)

func TestStore_Save(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "downloads")
	store := filestore.New(dir)

	body := []byte("file body with :: inside\x00")
	path, err := store.Save("photo.png", body)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "photo.png"), path)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, body, got)
}

func TestStore_SaveStripsDirectoryComponents(t *testing.T) {
	dir := t.TempDir()
	store := filestore.New(dir)

	path, err := store.Save("../../etc/passwd", []byte("nope"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "passwd"), path)
}

func TestStore_SaveOverwrites(t *testing.T) {
	store := filestore.New(t.TempDir())

	_, err := store.Save("notes.txt", []byte("first"))
	require.NoError(t, err)
	path, err := store.Save("notes.txt", []byte("second"))
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), got)
}

func TestStore_SaveRejectsUnusableNames(t *testing.T) {
	store := filestore.New(t.TempDir())

	for _, name := range []string{"", ".", "..", "/"} {
		_, err := store.Save(name, []byte("x"))
		assert.ErrorIs(t, err, filestore.ErrEmptyFilename, "name %q", name)
	}
}

func TestStore_SaveCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "received")
	store := filestore.New(dir)

	_, err := store.Save("f.bin", []byte{1, 2, 3})
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
