// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/feedforward/pkg/types"
)

var demandCmd = &cobra.Command{
	Use:   "demand",
	Short: "Record what a participant is looking for",
}

var demandCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a demand from keywords",
	Long: `Create hashes the given keywords and stores the demand. The printed
demand hash is the argument to the match command.`,
	Example: `  feedforward demand create --keyword rust --keyword gc --urgency 5 --context "need help with rust"`,
	RunE:    runDemandCreate,
}

func init() {
	demandCreateCmd.Flags().StringSlice("keyword", nil, "keyword sought (repeatable, 1 to 10)")
	demandCreateCmd.Flags().Int("urgency", 1, "urgency, 1 to 10")
	demandCreateCmd.Flags().String("context", "", "what the demand is about (up to 500 characters)")
	demandCreateCmd.Flags().StringToString("criteria", nil, "free-form key=value criteria")
	demandCreateCmd.Flags().Duration("expires-in", 0, "expire the demand after this duration")
	demandCreateCmd.Flags().Int("max-results", 0, "maximum results the requester wants")

	demandCmd.AddCommand(demandCreateCmd)
	rootCmd.AddCommand(demandCmd)
}

func runDemandCreate(cmd *cobra.Command, args []string) error {
	keywords, _ := cmd.Flags().GetStringSlice("keyword")
	urgency, _ := cmd.Flags().GetInt("urgency")
	about, _ := cmd.Flags().GetString("context")
	criteria, _ := cmd.Flags().GetStringToString("criteria")

	req := types.DemandRequest{
		Keywords: keywords,
		Urgency:  urgency,
		Context:  about,
		Criteria: criteria,
	}
	if cmd.Flags().Changed("expires-in") {
		d, _ := cmd.Flags().GetDuration("expires-in")
		expires := time.Now().Add(d).UTC()
		req.Expires = &expires
	}
	if cmd.Flags().Changed("max-results") {
		n, _ := cmd.Flags().GetInt("max-results")
		req.MaxResults = &n
	}

	return run(cmd, "createDemand", func(ctx context.Context, a *app) (*types.DemandReceipt, error) {
		return a.engine.CreateDemand(ctx, req)
	})
}
