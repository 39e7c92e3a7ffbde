// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/pdiddy/feedforward/pkg/types"
)

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Read the shared training corpus",
}

var corpusStreamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Fetch one page of corpus entries",
	RunE:  runCorpusStream,
}

func init() {
	corpusStreamCmd.Flags().Int64("since", 0, "only entries after this unix timestamp")
	corpusStreamCmd.Flags().Float64("min-quality", 0, "minimum entry quality, 0 to 1")
	corpusStreamCmd.Flags().StringSlice("keyword", nil, "only entries with these keywords")

	corpusCmd.AddCommand(corpusStreamCmd)
	rootCmd.AddCommand(corpusCmd)
}

func runCorpusStream(cmd *cobra.Command, args []string) error {
	var q types.CorpusQuery
	if cmd.Flags().Changed("since") {
		since, _ := cmd.Flags().GetInt64("since")
		q.Since = &since
	}
	if cmd.Flags().Changed("min-quality") {
		quality, _ := cmd.Flags().GetFloat64("min-quality")
		q.MinQuality = &quality
	}
	q.Keywords, _ = cmd.Flags().GetStringSlice("keyword")

	return run(cmd, "getCorpusStream", func(ctx context.Context, a *app) (*types.CorpusPage, error) {
		return a.engine.GetCorpusStream(ctx, q)
	})
}
