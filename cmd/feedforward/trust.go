// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/pdiddy/feedforward/pkg/types"
)

var trustCmd = &cobra.Command{
	Use:   "trust",
	Short: "Inspect and adjust participant trust scores",
}

var trustUpdateCmd = &cobra.Command{
	Use:   "update <participant-id>",
	Short: "Apply a bounded adjustment to a participant's historical accuracy",
	Long: `Update adds --adjustment (between -0.1 and 0.1) to the participant's
historical accuracy, clamps it to [0, 1], recomputes the weighted score,
and appends the change to the participant's history.`,
	Args: cobra.ExactArgs(1),
	RunE: runTrustUpdate,
}

var trustShowCmd = &cobra.Command{
	Use:   "show [participant-id]",
	Short: "Show a trust record (defaults to your own)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTrustShow,
}

func init() {
	trustUpdateCmd.Flags().Float64("adjustment", 0, "change to historical accuracy, -0.1 to 0.1")
	trustUpdateCmd.Flags().String("reason", "", "why the adjustment is made")
	trustUpdateCmd.Flags().String("evidence", "", "supporting evidence")

	trustCmd.AddCommand(trustUpdateCmd, trustShowCmd)
	rootCmd.AddCommand(trustCmd)
}

func runTrustUpdate(cmd *cobra.Command, args []string) error {
	adjustment, _ := cmd.Flags().GetFloat64("adjustment")
	reason, _ := cmd.Flags().GetString("reason")
	evidence, _ := cmd.Flags().GetString("evidence")

	req := types.TrustAdjustment{
		ParticipantID: args[0],
		Adjustment:    adjustment,
		Reason:        reason,
		Evidence:      evidence,
	}
	return run(cmd, "updateTrust", func(ctx context.Context, a *app) (*types.TrustUpdate, error) {
		return a.engine.UpdateTrust(ctx, req)
	})
}

func runTrustShow(cmd *cobra.Command, args []string) error {
	var participant string
	if len(args) == 1 {
		participant = args[0]
	}
	return run(cmd, "trustScore", func(ctx context.Context, a *app) (*types.TrustScore, error) {
		return a.engine.TrustScore(ctx, participant)
	})
}
