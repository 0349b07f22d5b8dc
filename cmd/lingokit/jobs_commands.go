package main

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"lingokit/internal/language"
	"lingokit/internal/server"
)

func newJobsCommand(ctx *commandContext) *cobra.Command {
	var statusFilters []string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "List submitted jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			query := url.Values{}
			for _, status := range statusFilters {
				if strings.TrimSpace(status) != "" {
					query.Add("status", strings.ToUpper(strings.TrimSpace(status)))
				}
			}
			var list server.JobListResponse
			if err := client.get(cmd.Context(), "/api/jobs", query, &list); err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, list)
			}
			out := cmd.OutOrStdout()
			if len(list.Jobs) == 0 {
				fmt.Fprintln(out, "No jobs found")
				return nil
			}
			fmt.Fprintln(out, renderJobTable(list.Jobs))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&statusFilters, "status", nil, "Filter by status (PENDING, RUNNING, DONE, ERROR); repeatable")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit machine-readable JSON")
	return cmd
}

func renderJobTable(views []server.JobView) string {
	rows := make([][]string, 0, len(views))
	for _, view := range views {
		rows = append(rows, []string{
			view.ID,
			view.JobType,
			view.Status,
			languageLabel(view.TargetLang),
			formatTimestamp(view.UpdatedAt),
		})
	}
	return renderTable([]string{"ID", "TYPE", "STATUS", "TARGET", "UPDATED"}, rows)
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show <job-id>",
		Short: "Display a single job with its transcript and artifacts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			var view server.JobView
			if err := client.get(cmd.Context(), "/api/jobs/"+strings.TrimSpace(args[0]), nil, &view); err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, view)
			}
			printJobDetail(cmd, view)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit machine-readable JSON")
	return cmd
}

func printJobDetail(cmd *cobra.Command, view server.JobView) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	for _, line := range renderSectionHeader("Job "+view.ID, colorize) {
		fmt.Fprintln(out, line)
	}
	fmt.Fprintln(out, renderStatusLine("Status", jobStatusKind(view.Status), view.Status, colorize))
	fmt.Fprintln(out, renderStatusLine("Type", statusInfo, view.JobType, colorize))
	fmt.Fprintln(out, renderStatusLine("Target", statusInfo, languageLabel(view.TargetLang), colorize))
	fmt.Fprintln(out, renderStatusLine("Created", statusInfo, formatTimestamp(view.CreatedAt), colorize))
	fmt.Fprintln(out, renderStatusLine("Updated", statusInfo, formatTimestamp(view.UpdatedAt), colorize))
	if view.Error != "" {
		fmt.Fprintln(out, renderStatusLine("Error", statusError, view.Error, colorize))
	}
	if view.SRTURL != nil {
		fmt.Fprintln(out, renderStatusLine("SRT", statusOK, *view.SRTURL, colorize))
	}
	if view.VTTURL != nil {
		fmt.Fprintln(out, renderStatusLine("VTT", statusOK, *view.VTTURL, colorize))
	}
	if view.Transcript != nil && strings.TrimSpace(*view.Transcript) != "" {
		fmt.Fprintln(out)
		for _, line := range renderSectionHeader("Transcript", colorize) {
			fmt.Fprintln(out, line)
		}
		fmt.Fprintln(out, *view.Transcript)
	}
	if view.Translation != nil && strings.TrimSpace(*view.Translation) != "" {
		fmt.Fprintln(out)
		for _, line := range renderSectionHeader("Translation", colorize) {
			fmt.Fprintln(out, line)
		}
		fmt.Fprintln(out, *view.Translation)
	}
}

func jobStatusKind(status string) statusKind {
	switch status {
	case "DONE":
		return statusOK
	case "ERROR":
		return statusError
	case "RUNNING":
		return statusWarn
	default:
		return statusInfo
	}
}

// languageLabel shows the human name alongside the submitted tag when the tag
// maps to a supported language.
func languageLabel(tag string) string {
	name := language.DisplayName(tag)
	if name == "" || strings.EqualFold(name, tag) {
		return tag
	}
	return fmt.Sprintf("%s (%s)", tag, name)
}

func formatTimestamp(value string) string {
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return value
	}
	return ts.Local().Format("2006-01-02 15:04:05")
}
