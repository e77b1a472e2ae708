package main

import (
	"fmt"
	"os"

	"github.com/Slayer-Regen/ecoquest-client/api"
	"github.com/Slayer-Regen/ecoquest-client/guard"
	"github.com/Slayer-Regen/ecoquest-client/internal/config"
	"github.com/Slayer-Regen/ecoquest-client/prefs"
	"github.com/Slayer-Regen/ecoquest-client/session"
	"github.com/Slayer-Regen/ecoquest-client/storage"
	"github.com/Slayer-Regen/ecoquest-client/toasts"
	"github.com/spf13/cobra"
)

// app holds the wired client: one session store, one cache, one toast queue
// per process, exactly as the browser app holds one of each per tab.
type app struct {
	config  config.Config
	session *session.Store
	toasts  *toasts.Queue
	service *api.Service
	guard   *guard.Guard
	prefs   *prefs.Prefs
}

func newApp() (*app, error) {
	cfg := config.New()
	repo, err := storage.NewFileRepo(cfg.GetDataFolder())
	if err != nil {
		return nil, err
	}

	store := session.NewStore(repo)
	// Scripted runs can supply a bearer token directly; it is still held
	// only in memory for this invocation.
	if token := os.Getenv("ECOQUEST_TOKEN"); token != "" {
		store.SetCredentials(nil, token)
	}

	client := api.NewClient(cfg.GetAPIBaseURL(), store, api.WithTimeout(cfg.GetRequestTimeout()))
	return &app{
		config:  cfg,
		session: store,
		toasts:  toasts.NewQueue(),
		service: api.NewService(client, api.NewCache()),
		guard:   guard.New(store),
		prefs:   prefs.New(repo),
	}, nil
}

// requireAuth resolves the route through the guard and refuses when it
// redirects to login.
func (a *app) requireAuth(route string) error {
	if a.guard.Resolve(route) == guard.RouteLogin {
		return fmt.Errorf("not signed in: run 'ecoquest login' first or set ECOQUEST_TOKEN")
	}
	return nil
}

// drainToasts prints queued notifications the way the SPA would render
// them.
func (a *app) drainToasts() {
	for _, toast := range a.toasts.List() {
		prefix := "•"
		switch toast.Kind {
		case toasts.KindSuccess:
			prefix = "✓"
		case toasts.KindError:
			prefix = "✗"
		}
		fmt.Printf("%s %s", prefix, toast.Title)
		if toast.Description != "" {
			fmt.Printf(": %s", toast.Description)
		}
		fmt.Println()
		a.toasts.Dismiss(toast.ID)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ecoquest",
		Short:         "EcoQuest carbon footprint tracker client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newLoginCmd(),
		newLogoutCmd(),
		newDashboardCmd(),
		newActivitiesCmd(),
		newPointsCmd(),
		newRedeemCmd(),
		newHistoryCmd(),
		newLeaderboardCmd(),
		newAnalyticsCmd(),
		newSummariesCmd(),
		newExportCmd(),
		newDarkModeCmd(),
	)
	return root
}
