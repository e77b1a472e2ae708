package guard_test

import (
	"testing"

	"github.com/Slayer-Regen/ecoquest-client/guard"
	"github.com/Slayer-Regen/ecoquest-client/session"
	storagerepofake "github.com/Slayer-Regen/ecoquest-client/storage/repofake"
	"github.com/stretchr/testify/require"
)

func TestGuard_Resolve(t *testing.T) {
	store := session.NewStore(storagerepofake.NewFakeStorageRepo())
	g := guard.New(store)

	t.Run("unauthenticated", func(t *testing.T) {
		require.Equal(t, guard.RouteLogin, g.Resolve(guard.RouteDashboard))
		require.Equal(t, guard.RouteLogin, g.Resolve(guard.RouteRewards))
		require.Equal(t, guard.RouteLogin, g.Resolve("/"))
		require.Equal(t, guard.RouteLogin, g.Resolve(guard.RouteLogin))
		require.Equal(t, guard.RouteCallback, g.Resolve(guard.RouteCallback))
		require.False(t, g.Allowed(guard.RouteDashboard))
	})

	t.Run("authenticated", func(t *testing.T) {
		store.SetCredentials(&session.User{ID: "1", Email: "a@b.com"}, "abc")
		require.Equal(t, guard.RouteDashboard, g.Resolve(guard.RouteDashboard))
		require.Equal(t, guard.RouteDashboard, g.Resolve("/"))
		require.True(t, g.Allowed(guard.RouteAnalytics))
	})

	t.Run("re-evaluated on session change", func(t *testing.T) {
		require.NoError(t, store.Logout())
		require.Equal(t, guard.RouteLogin, g.Resolve(guard.RouteDashboard))
	})
}
