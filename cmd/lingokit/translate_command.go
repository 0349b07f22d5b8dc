package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"lingokit/internal/server"
)

func newTranslateCommand(ctx *commandContext) *cobra.Command {
	var sourceLang string
	var targetLang string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "translate <text>",
		Short: "Translate text synchronously without creating a job",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			request := map[string]string{
				"text":        strings.Join(args, " "),
				"source_lang": strings.TrimSpace(sourceLang),
				"target_lang": strings.TrimSpace(targetLang),
			}
			var resp server.TranslateTextResponse
			if err := client.post(cmd.Context(), "/api/translate", request, &resp); err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, resp)
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Translation)
			return nil
		},
	}

	cmd.Flags().StringVar(&sourceLang, "from", "auto", "Source language tag")
	cmd.Flags().StringVar(&targetLang, "to", "", "Target language tag (defaults to the daemon's configured default)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit machine-readable JSON")
	return cmd
}
