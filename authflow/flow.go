// Package authflow turns the OAuth provider redirect into an established
// session. The flow is single-attempt: every outcome ends in exactly one
// redirect, and running it again requires a fresh provider round-trip.
package authflow

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/Slayer-Regen/ecoquest-client/api"
	"github.com/Slayer-Regen/ecoquest-client/session"
	"github.com/Slayer-Regen/ecoquest-client/toasts"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// Route is the terminal navigation target of the flow.
type Route string

const (
	RouteDashboard Route = "/dashboard"
	RouteLogin     Route = "/login"
)

const defaultRedirectDelay = 3 * time.Second

// ProfileFetchFunc loads the user profile authenticated with the token just
// received from the redirect; the session store is not populated yet at
// that point.
type ProfileFetchFunc func(ctx context.Context, token string) (*api.Profile, error)

type Flow struct {
	session      *session.Store
	toasts       *toasts.Queue
	fetchProfile ProfileFetchFunc

	// The delayed redirect after a failed profile fetch is a deliberate
	// pause so the error toast can be read, not a retry.
	redirectDelay time.Duration
	sleep         func(time.Duration)

	once  sync.Once
	route Route
}

type FlowOption func(*Flow)

// WithProfileFetch overrides how the profile is loaded (for tests).
func WithProfileFetch(fetch ProfileFetchFunc) FlowOption {
	return func(f *Flow) {
		f.fetchProfile = fetch
	}
}

// WithRedirectDelay overrides the post-failure pause.
func WithRedirectDelay(d time.Duration) FlowOption {
	return func(f *Flow) {
		f.redirectDelay = d
	}
}

// WithSleep overrides the pause implementation (for tests).
func WithSleep(sleep func(time.Duration)) FlowOption {
	return func(f *Flow) {
		f.sleep = sleep
	}
}

// NewFlow wires the flow against the backend at baseURL.
func NewFlow(store *session.Store, queue *toasts.Queue, baseURL string, options ...FlowOption) *Flow {
	flow := &Flow{
		session:       store,
		toasts:        queue,
		redirectDelay: defaultRedirectDelay,
		sleep:         time.Sleep,
	}
	flow.fetchProfile = func(ctx context.Context, token string) (*api.Profile, error) {
		client := api.NewClient(baseURL, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
		return client.GetUser(ctx)
	}
	for _, opt := range options {
		opt(flow)
	}
	return flow
}

// Handle runs the state machine over the redirect's query parameters and
// returns the terminal route. Subsequent calls return the first outcome
// without side effects.
func (f *Flow) Handle(ctx context.Context, params url.Values) Route {
	f.once.Do(func() {
		f.route = f.run(ctx, params)
	})
	return f.route
}

func (f *Flow) run(ctx context.Context, params url.Values) Route {
	token := params.Get("token")
	refreshToken := params.Get("refreshToken")
	errorCode := params.Get("error")

	if errorCode != "" {
		log.Warn().Str("code", errorCode).Msg("OAuth provider returned an error")
		f.toasts.Error("Authentication Failed", errorMessage(errorCode))
		return RouteLogin
	}

	if token == "" || refreshToken == "" {
		f.toasts.Error("Error", "No authentication tokens received")
		return RouteLogin
	}

	if err := f.session.SetRefreshToken(refreshToken); err != nil {
		// The session still works for this run; only persistence is lost.
		log.Err(err).Msg("Failed to persist refresh token")
	}

	profile, err := f.fetchProfile(ctx, token)
	if err != nil {
		log.Err(err).Msg("Failed to fetch user profile after callback")
		f.toasts.Error("Error", "Failed to load user profile. Please try again.")
		f.sleep(f.redirectDelay)
		return RouteLogin
	}

	f.session.SetCredentials(profile.SessionUser(), token)
	f.toasts.Success("Welcome!", "Signed in as "+profile.User.Email)
	return RouteDashboard
}
