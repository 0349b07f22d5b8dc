package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHealthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the daemon is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			var payload struct {
				Status string `json:"status"`
			}
			if err := client.get(cmd.Context(), "/api/health", nil, &payload); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Daemon healthy (%s)\n", payload.Status)
			return nil
		},
	}
}
