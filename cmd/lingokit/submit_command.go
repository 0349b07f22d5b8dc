package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"lingokit/internal/config"
	"lingokit/internal/language"
	"lingokit/internal/server"
)

func newSubmitCommand(ctx *commandContext) *cobra.Command {
	var targetLang string
	var video bool
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "submit <media-file>",
		Short: "Submit an audio or video file for transcription and translation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			info, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("inspect media file: %w", err)
			}
			if info.IsDir() {
				return fmt.Errorf("%s is a directory", path)
			}

			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			endpoint := "/api/translate/audio"
			if video {
				endpoint = "/api/translate/video"
			}
			var resp server.SubmissionResponse
			if err := client.postFile(cmd.Context(), endpoint, path, strings.TrimSpace(targetLang), &resp); err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, resp)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Job %s queued (%s, target %s)\n",
				resp.JobID, resp.Status, languageLabel(resp.TargetLang))
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetLang, "lang", "l", "", "Target language tag (defaults to the daemon's configured default)")
	cmd.Flags().BoolVar(&video, "video", false, "Treat the file as video instead of audio")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit machine-readable JSON")
	return cmd
}

func newSubmitURLCommand(ctx *commandContext) *cobra.Command {
	var targetLang string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "submit-url <url>",
		Short: "Submit a video URL; use --lang ALL22 to fan out every supported language",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			request := map[string]string{
				"url":         strings.TrimSpace(args[0]),
				"target_lang": strings.TrimSpace(targetLang),
			}

			if strings.EqualFold(strings.TrimSpace(targetLang), language.BatchAll) {
				var batch server.BatchSubmissionResponse
				if err := client.post(cmd.Context(), "/api/translate/video-url", request, &batch); err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, batch)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Queued %d jobs:\n", len(batch.JobIDs))
				for _, id := range batch.JobIDs {
					fmt.Fprintf(out, "  %s\n", id)
				}
				return nil
			}

			var resp server.SubmissionResponse
			if err := client.post(cmd.Context(), "/api/translate/video-url", request, &resp); err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, resp)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Job %s queued (%s, target %s)\n",
				resp.JobID, resp.Status, languageLabel(resp.TargetLang))
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetLang, "lang", "l", "", "Target language tag, or ALL22 for a batch")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit machine-readable JSON")
	return cmd
}
