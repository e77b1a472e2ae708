package storage_test

import (
	"testing"

	"github.com/Slayer-Regen/ecoquest-client/storage"
	"github.com/stretchr/testify/require"
)

func TestFileRepo(t *testing.T) {
	folder := t.TempDir()

	repo, err := storage.NewFileRepo(folder)
	require.NoError(t, err)

	t.Run("missing key", func(t *testing.T) {
		_, err := repo.Get("missing")
		require.ErrorIs(t, err, storage.ErrKeyNotFound)
	})

	t.Run("set and get", func(t *testing.T) {
		require.NoError(t, repo.Set(storage.KeyRefreshToken, "xyz"))
		value, err := repo.Get(storage.KeyRefreshToken)
		require.NoError(t, err)
		require.Equal(t, "xyz", value)
	})

	t.Run("survives reopen", func(t *testing.T) {
		reopened, err := storage.NewFileRepo(folder)
		require.NoError(t, err)
		value, err := reopened.Get(storage.KeyRefreshToken)
		require.NoError(t, err)
		require.Equal(t, "xyz", value)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(storage.KeyRefreshToken))
		_, err := repo.Get(storage.KeyRefreshToken)
		require.ErrorIs(t, err, storage.ErrKeyNotFound)

		// Deleting again is a no-op.
		require.NoError(t, repo.Delete(storage.KeyRefreshToken))
	})
}
