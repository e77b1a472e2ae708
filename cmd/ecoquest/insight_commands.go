package main

import (
	"fmt"
	"os"

	"github.com/Slayer-Regen/ecoquest-client/api"
	"github.com/Slayer-Regen/ecoquest-client/guard"
	"github.com/spf13/cobra"
)

func newLeaderboardCmd() *cobra.Command {
	var (
		boardType string
		period    string
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the emissions or points leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.requireAuth(guard.RouteLeaderboard); err != nil {
				return err
			}

			board, err := app.service.Leaderboard(cmd.Context(), api.LeaderboardQuery{
				Type:   boardType,
				Period: period,
				Limit:  limit,
			})
			if err != nil {
				return err
			}
			if len(board.Entries) == 0 {
				fmt.Println("No data available for this period.")
				return nil
			}
			for _, entry := range board.Entries {
				marker := " "
				if entry.IsCurrentUser {
					marker = "*"
				}
				if boardType == api.LeaderboardPoints {
					fmt.Printf("%s #%-3d %-24s %d pts\n", marker, entry.Rank, entry.DisplayName, entry.TotalPoints)
				} else {
					fmt.Printf("%s #%-3d %-24s %.1f kg (%d activities)\n", marker, entry.Rank, entry.DisplayName, entry.TotalCo2, entry.ActivityCount)
				}
			}
			if board.UserRank != nil {
				fmt.Printf("Your rank: #%d\n", board.UserRank.Rank)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&boardType, "type", api.LeaderboardGlobal, "leaderboard type: global or points")
	cmd.Flags().StringVar(&period, "period", api.PeriodMonth, "period: week, month or all")
	cmd.Flags().IntVar(&limit, "limit", 20, "number of entries")
	return cmd
}

func newAnalyticsCmd() *cobra.Command {
	var (
		period  string
		groupBy string
	)

	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Show emissions over time and the per-type breakdown",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.requireAuth(guard.RouteAnalytics); err != nil {
				return err
			}

			series, err := app.service.AnalyticsEmissions(cmd.Context(), period, groupBy)
			if err != nil {
				return err
			}
			fmt.Println("Emissions over time:")
			if len(series.TimeSeries) == 0 {
				fmt.Println("  No emissions data for this period.")
			}
			for _, point := range series.TimeSeries {
				fmt.Printf("  %-12s %.2f kg\n", point.Period, point.TotalCo2)
			}

			breakdown, err := app.service.AnalyticsBreakdown(cmd.Context(), period)
			if err != nil {
				return err
			}
			fmt.Println("Breakdown by type:")
			if len(breakdown.Items) == 0 {
				fmt.Println("  No breakdown data for this period.")
			}
			for _, item := range breakdown.Items {
				fmt.Printf("  %-12s %.2f kg (%.1f%%)\n", item.Type, item.TotalCo2, item.Percentage)
			}
			fmt.Printf("Total: %.2f kg CO2\n", breakdown.Total)
			return nil
		},
	}
	cmd.Flags().StringVar(&period, "period", api.Analytics30d, "period: 7d, 30d or 90d")
	cmd.Flags().StringVar(&groupBy, "group-by", "day", "time series grouping")
	return cmd
}

func newSummariesCmd() *cobra.Command {
	var generate bool

	cmd := &cobra.Command{
		Use:   "summaries",
		Short: "Show weekly summaries",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.requireAuth(guard.RouteSummaries); err != nil {
				return err
			}

			if generate {
				if _, err := app.service.GenerateSummary(cmd.Context()); err != nil {
					return err
				}
				fmt.Println("Summary generated.")
			}

			summaries, err := app.service.Summaries(cmd.Context())
			if err != nil {
				return err
			}
			if len(summaries) == 0 {
				fmt.Println("No summaries yet.")
				return nil
			}
			for _, s := range summaries {
				fmt.Printf("%s – %s: %.1f kg CO2, %d pts, %d activities\n",
					s.WeekStart, s.WeekEnd, s.TotalCo2Kg, s.TotalPoints, s.ActivityCount)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&generate, "generate", false, "generate this week's summary first")
	return cmd
}

func newExportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:       "export {activities|summaries}",
		Short:     "Download a CSV export",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"activities", "summaries"},
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.requireAuth(guard.RouteSettings); err != nil {
				return err
			}

			file, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer file.Close()

			switch args[0] {
			case "activities":
				err = app.service.Client().ExportActivitiesCSV(cmd.Context(), file)
			case "summaries":
				err = app.service.Client().ExportSummariesCSV(cmd.Context(), file)
			default:
				err = fmt.Errorf("unknown export %q", args[0])
			}
			if err != nil {
				return err
			}
			fmt.Printf("Exported to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "export.csv", "output file")
	return cmd
}

func newDarkModeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "darkmode",
		Short: "Toggle the dark-mode preference",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			enabled, err := app.prefs.ToggleDarkMode()
			if err != nil {
				return err
			}
			if enabled {
				fmt.Println("Dark mode on.")
			} else {
				fmt.Println("Dark mode off.")
			}
			return nil
		},
	}
}
