package main

import (
	"fmt"
	"time"

	"github.com/Slayer-Regen/ecoquest-client/activity"
	"github.com/Slayer-Regen/ecoquest-client/guard"
	"github.com/spf13/cobra"
)

func newDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show your emissions dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.requireAuth(guard.RouteDashboard); err != nil {
				return err
			}

			profile, err := app.service.User(cmd.Context())
			if err != nil {
				return err
			}
			// Refresh the denormalized aggregates opportunistically, the
			// way the dashboard page does on every visit.
			snap := app.session.Snapshot()
			app.session.SetCredentials(profile.SessionUser(), snap.Token)

			fmt.Printf("%s <%s>\n", profile.User.DisplayName, profile.User.Email)
			if profile.Stats != nil {
				fmt.Printf("  Total CO2:   %.1f kg\n", profile.Stats.TotalCo2Kg)
				fmt.Printf("  Points:      %d\n", profile.Stats.CurrentBalance)
				fmt.Printf("  Activities:  %d\n", profile.Stats.TotalActivities)
			}
			if profile.Streak != nil {
				fmt.Printf("  Streak:      %d days (best %d, next milestone %d)\n",
					profile.Streak.CurrentStreak, profile.Streak.LongestStreak, profile.Streak.NextMilestone)
			}
			return nil
		},
	}
}

func newActivitiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activities",
		Short: "List, log and delete activities",
	}
	cmd.AddCommand(newActivitiesListCmd(), newActivitiesLogCmd(), newActivitiesDeleteCmd())
	return cmd
}

func newActivitiesListCmd() *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List logged activities",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.requireAuth(guard.RouteDashboard); err != nil {
				return err
			}

			activities, err := app.service.Activities(cmd.Context(), page)
			if err != nil {
				return err
			}
			if len(activities) == 0 {
				fmt.Println("No activities logged yet.")
				return nil
			}
			for _, a := range activities {
				fmt.Printf("%-10s %-12s %8.2f kg CO2   %s\n", a.ActivityDate, a.Type, a.Co2Kg, a.ID)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	return cmd
}

func newActivitiesLogCmd() *cobra.Command {
	var (
		activityType string
		date         string
		mode         string
		distance     float64
		kwh          float64
		countryCode  string
		class        string
		foodType     string
		weight       float64
	)

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Log a new activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.requireAuth(guard.RouteDashboard); err != nil {
				return err
			}

			when, err := time.Parse("2006-01-02", date)
			if err != nil {
				return fmt.Errorf("invalid --date, want YYYY-MM-DD: %w", err)
			}

			var details activity.Details
			switch activity.Type(activityType) {
			case activity.TypeCommute:
				details = activity.Commute{Mode: mode, DistanceKm: distance}
			case activity.TypeElectricity:
				details = activity.Electricity{Kwh: kwh, CountryCode: countryCode}
			case activity.TypeFlight:
				details = activity.Flight{DistanceKm: distance, Class: class}
			case activity.TypeFood:
				details = activity.Food{FoodType: foodType, WeightKg: weight}
			default:
				return fmt.Errorf("%w: %q", activity.ErrUnknownType, activityType)
			}

			created, err := app.service.LogActivity(cmd.Context(), activity.LogRequest{Date: when, Details: details})
			if err != nil {
				app.toasts.Error("Error", "Failed to log activity")
				app.drainToasts()
				return err
			}
			app.toasts.Success("Activity Logged", fmt.Sprintf("%s: %.2f kg CO2", created.Type, created.Co2Kg))
			app.drainToasts()
			return nil
		},
	}
	cmd.Flags().StringVar(&activityType, "type", "", "activity type: commute, electricity, flight or food")
	cmd.Flags().StringVar(&date, "date", time.Now().Format("2006-01-02"), "activity date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&mode, "mode", "", "commute mode (car, bus, train, bike, walk, motorbike)")
	cmd.Flags().Float64Var(&distance, "distance", 0, "distance in km (commute, flight)")
	cmd.Flags().Float64Var(&kwh, "kwh", 0, "electricity usage in kWh")
	cmd.Flags().StringVar(&countryCode, "country", "US", "two-letter country code (electricity)")
	cmd.Flags().StringVar(&class, "class", activity.ClassEconomy, "flight class (economy, business, first)")
	cmd.Flags().StringVar(&foodType, "food", "", "food type")
	cmd.Flags().Float64Var(&weight, "weight", 0, "food weight in kg")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func newActivitiesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.requireAuth(guard.RouteDashboard); err != nil {
				return err
			}
			if err := app.service.DeleteActivity(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("Activity deleted.")
			return nil
		},
	}
}
