package storage

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageCreateOpenDelete(t *testing.T) {
	store, err := NewLocalStorage(filepath.Join(t.TempDir(), "letters"))
	require.NoError(t, err)

	file, err := store.Create("archives/offer_letters.zip")
	require.NoError(t, err)
	_, err = file.WriteString("zip payload")
	require.NoError(t, err)
	require.NoError(t, file.Close())

	reader, err := store.Open("archives/offer_letters.zip")
	require.NoError(t, err)
	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	require.NoError(t, reader.Close())
	assert.Equal(t, "zip payload", string(data))

	require.NoError(t, store.Delete("archives/offer_letters.zip"))
	_, err = store.Open("archives/offer_letters.zip")
	require.Error(t, err)

	// Deleting an already removed file is not an error.
	require.NoError(t, store.Delete("archives/offer_letters.zip"))
}

func TestLocalStorageCleanupOlderThan(t *testing.T) {
	base := filepath.Join(t.TempDir(), "letters")
	store, err := NewLocalStorage(base)
	require.NoError(t, err)

	stale, err := store.Create("archives/stale.zip")
	require.NoError(t, err)
	require.NoError(t, stale.Close())
	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(base, "archives", "stale.zip"), old, old))

	fresh, err := store.Create("archives/fresh.zip")
	require.NoError(t, err)
	require.NoError(t, fresh.Close())

	deleted, err := store.CleanupOlderThan(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join("archives", "stale.zip")}, deleted)

	_, err = store.Open("archives/fresh.zip")
	assert.NoError(t, err)
}
