package authflow_test

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/Slayer-Regen/ecoquest-client/api"
	"github.com/Slayer-Regen/ecoquest-client/authflow"
	"github.com/Slayer-Regen/ecoquest-client/session"
	"github.com/Slayer-Regen/ecoquest-client/storage"
	storagerepofake "github.com/Slayer-Regen/ecoquest-client/storage/repofake"
	"github.com/Slayer-Regen/ecoquest-client/toasts"
	"github.com/stretchr/testify/require"
)

const baseURL = "http://localhost:3000"

type fixture struct {
	repo  *storagerepofake.FakeStorageRepo
	store *session.Store
	queue *toasts.Queue
}

func newFixture() *fixture {
	repo := storagerepofake.NewFakeStorageRepo()
	return &fixture{
		repo:  repo,
		store: session.NewStore(repo),
		queue: toasts.NewQueue(),
	}
}

func (f *fixture) flow(options ...authflow.FlowOption) *authflow.Flow {
	return authflow.NewFlow(f.store, f.queue, baseURL, options...)
}

func profileStub(profile *api.Profile, err error) authflow.ProfileFetchFunc {
	return func(ctx context.Context, token string) (*api.Profile, error) {
		return profile, err
	}
}

func TestFlow_SuccessfulCallback(t *testing.T) {
	f := newFixture()
	flow := f.flow(authflow.WithProfileFetch(profileStub(&api.Profile{
		User: api.ProfileUser{ID: "1", Email: "a@b.com", DisplayName: "A"},
	}, nil)))

	params := url.Values{"token": {"abc"}, "refreshToken": {"xyz"}}
	route := flow.Handle(context.Background(), params)

	require.Equal(t, authflow.RouteDashboard, route)

	snap := f.store.Snapshot()
	require.Equal(t, "abc", snap.Token)
	require.Equal(t, "a@b.com", snap.User.Email)

	persisted, err := f.repo.Get(storage.KeyRefreshToken)
	require.NoError(t, err)
	require.Equal(t, "xyz", persisted)

	items := f.queue.List()
	require.Len(t, items, 1)
	require.Equal(t, "Welcome!", items[0].Title)
	require.Equal(t, "Signed in as a@b.com", items[0].Description)
	require.Equal(t, toasts.KindSuccess, items[0].Kind)
}

func TestFlow_ProviderError(t *testing.T) {
	cases := []struct {
		code    string
		message string
	}{
		{"oauth_failed", "OAuth authentication failed. Please try again."},
		{"no_user", "Could not retrieve user information."},
		{"server_error", "Server error occurred. Please try again later."},
		{"something_else", "An unknown error occurred."},
	}

	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			f := newFixture()
			flow := f.flow()

			route := flow.Handle(context.Background(), url.Values{"error": {tc.code}})
			require.Equal(t, authflow.RouteLogin, route)
			require.False(t, f.store.Snapshot().IsAuthenticated)

			items := f.queue.List()
			require.Len(t, items, 1)
			require.Equal(t, "Authentication Failed", items[0].Title)
			require.Equal(t, tc.message, items[0].Description)
			require.Equal(t, toasts.KindError, items[0].Kind)
		})
	}
}

func TestFlow_NoTokensReceived(t *testing.T) {
	f := newFixture()
	flow := f.flow()

	route := flow.Handle(context.Background(), url.Values{})
	require.Equal(t, authflow.RouteLogin, route)

	items := f.queue.List()
	require.Len(t, items, 1)
	require.Equal(t, "No authentication tokens received", items[0].Description)
}

func TestFlow_ProfileFetchFailureDelaysRedirect(t *testing.T) {
	f := newFixture()
	var slept time.Duration
	flow := f.flow(
		authflow.WithProfileFetch(profileStub(nil, errors.New("boom"))),
		authflow.WithSleep(func(d time.Duration) { slept = d }),
	)

	params := url.Values{"token": {"abc"}, "refreshToken": {"xyz"}}
	route := flow.Handle(context.Background(), params)

	require.Equal(t, authflow.RouteLogin, route)
	require.Equal(t, 3*time.Second, slept)
	require.False(t, f.store.Snapshot().IsAuthenticated)

	// The refresh token was persisted before the fetch failed, matching
	// the callback page's ordering.
	persisted, err := f.repo.Get(storage.KeyRefreshToken)
	require.NoError(t, err)
	require.Equal(t, "xyz", persisted)
}

func TestFlow_SingleAttempt(t *testing.T) {
	f := newFixture()
	calls := 0
	flow := f.flow(authflow.WithProfileFetch(func(ctx context.Context, token string) (*api.Profile, error) {
		calls++
		return &api.Profile{User: api.ProfileUser{Email: "a@b.com"}}, nil
	}))

	params := url.Values{"token": {"abc"}, "refreshToken": {"xyz"}}
	first := flow.Handle(context.Background(), params)
	second := flow.Handle(context.Background(), params)

	require.Equal(t, first, second)
	require.Equal(t, 1, calls)
}
