// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/pdiddy/feedforward/pkg/types"
)

var supplyCmd = &cobra.Command{
	Use:   "supply",
	Short: "Record what a participant can offer",
}

var supplyCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a supply from keywords",
	Long: `Create hashes the given keywords, snapshots the creator's current trust
score, and stores the supply so later demands can match against it.`,
	Example: `  feedforward supply create --keyword rust --keyword systems --context-level 3 --conversation conv-42`,
	RunE:    runSupplyCreate,
}

func init() {
	supplyCreateCmd.Flags().StringSlice("keyword", nil, "keyword offered (repeatable, 1 to 20)")
	supplyCreateCmd.Flags().Int("context-level", 1, "depth of context available, 1 to 5")
	supplyCreateCmd.Flags().String("conversation", "", "conversation the supply comes from")
	supplyCreateCmd.Flags().StringToString("metadata", nil, "free-form key=value metadata")

	supplyCmd.AddCommand(supplyCreateCmd)
	rootCmd.AddCommand(supplyCmd)
}

func runSupplyCreate(cmd *cobra.Command, args []string) error {
	keywords, _ := cmd.Flags().GetStringSlice("keyword")
	level, _ := cmd.Flags().GetInt("context-level")
	conversation, _ := cmd.Flags().GetString("conversation")
	metadata, _ := cmd.Flags().GetStringToString("metadata")

	req := types.SupplyRequest{
		Keywords:       keywords,
		ContextLevel:   level,
		ConversationID: conversation,
		Metadata:       metadata,
	}
	return run(cmd, "createSupply", func(ctx context.Context, a *app) (*types.SupplyReceipt, error) {
		return a.engine.CreateSupply(ctx, req)
	})
}
