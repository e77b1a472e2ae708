package prefs_test

import (
	"testing"

	"github.com/Slayer-Regen/ecoquest-client/prefs"
	storagerepofake "github.com/Slayer-Regen/ecoquest-client/storage/repofake"
	"github.com/stretchr/testify/require"
)

func TestPrefs_DarkMode(t *testing.T) {
	repo := storagerepofake.NewFakeStorageRepo()
	p := prefs.New(repo)

	require.False(t, p.DarkMode())

	enabled, err := p.ToggleDarkMode()
	require.NoError(t, err)
	require.True(t, enabled)
	require.True(t, p.DarkMode())

	require.NoError(t, p.SetDarkMode(false))
	require.False(t, p.DarkMode())
}

func TestPrefs_MalformedValue(t *testing.T) {
	repo := storagerepofake.NewFakeStorageRepo()
	require.NoError(t, repo.Set("darkMode", "banana"))

	require.False(t, prefs.New(repo).DarkMode())
}
