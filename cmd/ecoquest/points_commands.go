package main

import (
	"errors"
	"fmt"

	"github.com/Slayer-Regen/ecoquest-client/api"
	"github.com/Slayer-Regen/ecoquest-client/guard"
	"github.com/spf13/cobra"
)

func newPointsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "points",
		Short: "Show your points balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.requireAuth(guard.RouteRewards); err != nil {
				return err
			}
			balance, err := app.service.Points(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Balance: %d pts\n", balance.Balance)
			return nil
		},
	}
}

func newRedeemCmd() *cobra.Command {
	var (
		rewardID string
		cost     int64
		name     string
	)

	cmd := &cobra.Command{
		Use:   "redeem",
		Short: "Redeem a reward",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.requireAuth(guard.RouteRewards); err != nil {
				return err
			}

			redemption, err := app.service.Redeem(cmd.Context(), api.RedeemRequest{
				RewardID: rewardID,
				Cost:     cost,
				Name:     name,
			})
			if errors.Is(err, api.ErrInsufficientPoints) {
				app.toasts.Error("Error", "Insufficient points")
				app.drainToasts()
				return err
			}
			if err != nil {
				return err
			}
			app.toasts.Success("Success", "Redeemed: "+name)
			app.drainToasts()
			fmt.Printf("Spent %d pts (status: %s)\n", redemption.PointsSpent, redemption.Status)
			return nil
		},
	}
	cmd.Flags().StringVar(&rewardID, "id", "", "reward identifier")
	cmd.Flags().Int64Var(&cost, "cost", 0, "reward cost in points")
	cmd.Flags().StringVar(&name, "name", "", "reward name")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("cost")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show your redemption history",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.requireAuth(guard.RouteRedemptionHistory); err != nil {
				return err
			}
			redemptions, err := app.service.RedemptionHistory(cmd.Context())
			if err != nil {
				return err
			}
			if len(redemptions) == 0 {
				fmt.Println("No redemptions yet.")
				return nil
			}
			var total int64
			for _, r := range redemptions {
				fmt.Printf("%-12s %-24s -%d pts  (%s)\n", r.RedeemedAt, r.RewardName, r.PointsSpent, r.Status)
				total += r.PointsSpent
			}
			fmt.Printf("Total spent: %d pts\n", total)
			return nil
		},
	}
}
