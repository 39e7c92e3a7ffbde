// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/pdiddy/feedforward/pkg/types"
)

var matchCmd = &cobra.Command{
	Use:   "match <demand-hash>",
	Short: "Rank supplies against a demand",
	Long: `Match finds every supply sharing at least one keyword with the demand,
drops supplies whose trust snapshot is below --min-trust, and ranks the rest
by keyword overlap weighted by trust. Each returned match is recorded.

--min-trust and --limit default to matching.min_trust and matching.limit.`,
	Args: cobra.ExactArgs(1),
	RunE: runMatch,
}

func init() {
	matchCmd.Flags().Float64("min-trust", types.DefaultMinTrust, "minimum supply trust score, 0 to 1")
	matchCmd.Flags().Int("limit", types.DefaultMatchLimit, "maximum matches returned, 1 to 100")

	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	return run(cmd, "matchSupplyDemand", func(ctx context.Context, a *app) (*types.MatchResponse, error) {
		minTrust, limit := a.cfg.Matching.MinTrust, a.cfg.Matching.Limit
		if cmd.Flags().Changed("min-trust") {
			minTrust, _ = cmd.Flags().GetFloat64("min-trust")
		}
		if cmd.Flags().Changed("limit") {
			limit, _ = cmd.Flags().GetInt("limit")
		}
		req := types.MatchRequest{
			DemandHash: args[0],
			MinTrust:   &minTrust,
			Limit:      &limit,
		}
		return a.engine.MatchSupplyDemand(ctx, req)
	})
}
