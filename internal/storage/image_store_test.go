package storage

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestImageStore_SaveAndRead(t *testing.T) {
	tempDir := t.TempDir()
	store := NewImageStore(tempDir, zap.NewNop())

	t.Run("saves into the project folder", func(t *testing.T) {
		path, err := store.Save(7, "site.jpg", []byte("image bytes"))

		require.NoError(t, err)
		assert.Equal(t, filepath.Join(tempDir, "project_7", "site.jpg"), path)
		assert.FileExists(t, path)

		content, err := store.Read(path)
		require.NoError(t, err)
		assert.Equal(t, []byte("image bytes"), content)
	})

	t.Run("strips directory components from the name", func(t *testing.T) {
		path, err := store.Save(7, "../../escape.jpg", []byte("x"))

		require.NoError(t, err)
		assert.Equal(t, filepath.Join(tempDir, "project_7", "escape.jpg"), path)
	})

	t.Run("rejects reads outside the base directory", func(t *testing.T) {
		_, err := store.Read("/etc/passwd")
		assert.Error(t, err)
	})
}

func TestImageStore_WithImage(t *testing.T) {
	tempDir := t.TempDir()
	store := NewImageStore(tempDir, zap.NewNop())

	path, err := store.Save(3, "photo.jpg", []byte("scoped"))
	require.NoError(t, err)

	var got []byte
	err = store.WithImage(path, func(r io.Reader) error {
		got, err = io.ReadAll(r)
		return err
	})

	require.NoError(t, err)
	assert.Equal(t, []byte("scoped"), got)
}

func TestImageStore_Delete(t *testing.T) {
	tempDir := t.TempDir()
	store := NewImageStore(tempDir, zap.NewNop())

	path, err := store.Save(3, "photo.jpg", []byte("x"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(path))
	assert.NoFileExists(t, path)

	// Deleting again is not an error
	assert.NoError(t, store.Delete(path))
}
