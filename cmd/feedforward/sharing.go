// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/pdiddy/feedforward/pkg/types"
)

var sharingCmd = &cobra.Command{
	Use:   "sharing",
	Short: "Control feed-forward sharing per conversation",
}

var sharingEnableCmd = &cobra.Command{
	Use:   "enable <conversation-id>",
	Short: "Enable or disable sharing for a conversation",
	Long: `Enable records whether the conversation's knowledge may be shared and
prints the previous state. Pass --enabled=false to turn sharing off.`,
	Args: cobra.ExactArgs(1),
	RunE: runSharingEnable,
}

func init() {
	sharingEnableCmd.Flags().Bool("enabled", true, "whether sharing is on")
	sharingEnableCmd.Flags().Bool("retroactive", false, "also share what the conversation produced earlier")

	sharingCmd.AddCommand(sharingEnableCmd)
	rootCmd.AddCommand(sharingCmd)
}

func runSharingEnable(cmd *cobra.Command, args []string) error {
	enabled, _ := cmd.Flags().GetBool("enabled")
	retroactive, _ := cmd.Flags().GetBool("retroactive")

	req := types.SharingRequest{
		ConversationID: args[0],
		Enabled:        enabled,
		Retroactive:    retroactive,
	}
	return run(cmd, "enableSharing", func(ctx context.Context, a *app) (*types.SharingUpdate, error) {
		return a.engine.EnableSharing(ctx, req)
	})
}
