// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/feedforward/internal/feedforward"
)

// printResponse writes resp to stdout in the --format encoding. A failed
// response yields errOperationFailed so the process exits non-zero.
func printResponse[T any](cmd *cobra.Command, resp feedforward.Response[T]) error {
	format, _ := cmd.Flags().GetString("format")
	if err := encode(cmd.OutOrStdout(), format, resp); err != nil {
		return err
	}
	if !resp.Success {
		return errOperationFailed
	}
	return nil
}

func encode(w io.Writer, format string, v any) error {
	switch format {
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q: use json or yaml", format)
	}
}
