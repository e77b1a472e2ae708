package main

import (
	"context"
	"fmt"
	"time"

	"github.com/Slayer-Regen/ecoquest-client/authflow"
	"github.com/spf13/cobra"
)

func newLoginCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in via the backend's Google OAuth flow",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			displayAppname(app.config.GetAppName())

			flow := authflow.NewFlow(app.session, app.toasts, app.config.GetAPIBaseURL())
			listener := authflow.NewListener(app.config.GetCallbackAddr(), flow)
			if err := listener.Start(); err != nil {
				return err
			}
			defer listener.Shutdown(context.Background())

			fmt.Printf("Open the following URL in your browser to sign in:\n\n    %s\n\n", app.service.Client().LoginURL())
			fmt.Printf("Waiting for the redirect on http://%s%s ...\n", app.config.GetCallbackAddr(), authflow.CallbackPath)

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			route, err := listener.Wait(ctx)
			app.drainToasts()
			if err != nil {
				return fmt.Errorf("no callback received: %w", err)
			}

			if route == authflow.RouteDashboard {
				snap := app.session.Snapshot()
				if snap.User != nil {
					fmt.Printf("Signed in as %s (%s)\n", snap.User.DisplayName, snap.User.Email)
				}
				if !snap.TokenExpiry.IsZero() {
					fmt.Printf("Session valid until %s\n", snap.TokenExpiry.Format(time.RFC1123))
				}
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "how long to wait for the OAuth redirect")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the session and the stored refresh token",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.session.Logout(); err != nil {
				return err
			}
			fmt.Println("Signed out.")
			return nil
		},
	}
}
