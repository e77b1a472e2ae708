package authflow

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// CallbackPath is the client route the backend redirects to after the
// provider round-trip, carrying token/refreshToken or error in the query.
const CallbackPath = "/oauth/callback"

// Listener runs a loopback HTTP server that catches the OAuth redirect and
// feeds it to the flow. It serves exactly one callback.
type Listener struct {
	addr     string
	flow     *Flow
	server   *http.Server
	listener net.Listener
	routes   chan Route
}

func NewListener(addr string, flow *Flow) *Listener {
	return &Listener{
		addr:   addr,
		flow:   flow,
		routes: make(chan Route, 1),
	}
}

// Start binds the loopback address and serves in the background.
func (l *Listener) Start() error {
	listener, err := net.Listen("tcp", l.addr)
	if err != nil {
		return fmt.Errorf("failed to bind callback listener: %w", err)
	}
	l.listener = listener

	router := chi.NewRouter()
	router.Get(CallbackPath, l.handleCallback)

	l.server = &http.Server{Handler: router}
	go func() {
		if err := l.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Err(err).Msg("Callback listener stopped unexpectedly")
		}
	}()
	log.Info().Str("addr", l.Addr()).Msg("Waiting for OAuth callback")
	return nil
}

// Addr returns the bound address, resolving a ":0" port after Start.
func (l *Listener) Addr() string {
	if l.listener != nil {
		return l.listener.Addr().String()
	}
	return l.addr
}

func (l *Listener) handleCallback(w http.ResponseWriter, r *http.Request) {
	route := l.flow.Handle(r.Context(), r.URL.Query())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if route == RouteDashboard {
		fmt.Fprint(w, "<html><body><h2>Signed in</h2><p>You can close this window and return to the terminal.</p></body></html>")
	} else {
		fmt.Fprint(w, "<html><body><h2>Sign-in failed</h2><p>Return to the terminal for details.</p></body></html>")
	}

	select {
	case l.routes <- route:
	default:
	}
}

// Wait blocks until the callback lands or ctx expires, returning the
// flow's terminal route.
func (l *Listener) Wait(ctx context.Context) (Route, error) {
	select {
	case route := <-l.routes:
		return route, nil
	case <-ctx.Done():
		return RouteLogin, ctx.Err()
	}
}

// Shutdown stops the loopback server.
func (l *Listener) Shutdown(ctx context.Context) error {
	if l.server == nil {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := l.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop callback listener: %w", err)
	}
	return nil
}
