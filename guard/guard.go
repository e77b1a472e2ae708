// Package guard gates navigation to authenticated views. It holds no state
// of its own: every decision is a pure function of the session snapshot at
// the moment of navigation.
package guard

import (
	"github.com/Slayer-Regen/ecoquest-client/session"
)

const (
	RouteLogin             = "/login"
	RouteCallback          = "/oauth/callback"
	RouteDashboard         = "/dashboard"
	RouteRewards           = "/rewards"
	RouteLeaderboard       = "/leaderboard"
	RouteAnalytics         = "/analytics"
	RouteSummaries         = "/summaries"
	RouteSettings          = "/settings"
	RouteHowItWorks        = "/how-it-works"
	RouteRedemptionHistory = "/redemption-history"
)

// protectedRoutes require a valid token.
var protectedRoutes = map[string]struct{}{
	RouteDashboard:         {},
	RouteRewards:           {},
	RouteLeaderboard:       {},
	RouteAnalytics:         {},
	RouteSummaries:         {},
	RouteSettings:          {},
	RouteHowItWorks:        {},
	RouteRedemptionHistory: {},
}

type SessionReader interface {
	Snapshot() session.Snapshot
}

type Guard struct {
	session SessionReader
}

func New(reader SessionReader) *Guard {
	return &Guard{session: reader}
}

// Resolve returns the route to render for the requested one: protected
// routes redirect to the login route when the session holds no token, and
// the root route lands on the dashboard.
func (g *Guard) Resolve(route string) string {
	if route == "/" || route == "" {
		route = RouteDashboard
	}
	if _, protected := protectedRoutes[route]; !protected {
		return route
	}
	if !g.session.Snapshot().IsAuthenticated {
		return RouteLogin
	}
	return route
}

// Allowed reports whether the route renders without a redirect.
func (g *Guard) Allowed(route string) bool {
	return g.Resolve(route) == route
}
