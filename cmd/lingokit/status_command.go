package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"lingokit/internal/server"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon status, job counts, and dependency health",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			var status server.StatusResponse
			if err := client.get(cmd.Context(), "/api/status", nil, &status); err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, status)
			}
			printStatus(cmd, status)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit machine-readable JSON")
	return cmd
}

func printStatus(cmd *cobra.Command, status server.StatusResponse) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	for _, line := range renderSectionHeader("Daemon", colorize) {
		fmt.Fprintln(out, line)
	}
	daemonKind := statusError
	daemonMessage := "not running"
	if status.Running {
		daemonKind = statusOK
		daemonMessage = fmt.Sprintf("running (pid %d)", status.PID)
	}
	fmt.Fprintln(out, renderStatusLine("Daemon", daemonKind, daemonMessage, colorize))
	fmt.Fprintln(out, renderStatusLine("Database", statusInfo, status.DatabasePath, colorize))

	fmt.Fprintln(out)
	for _, line := range renderSectionHeader("Dependencies", colorize) {
		fmt.Fprintln(out, line)
	}
	for _, dep := range status.Dependencies {
		kind := statusOK
		message := dep.Command
		if !dep.Available {
			kind = statusError
			if dep.Optional {
				kind = statusWarn
			}
			message = dep.Detail
			if message == "" {
				message = "not found"
			}
		}
		fmt.Fprintln(out, renderStatusLine(dep.Name, kind, message, colorize))
	}

	fmt.Fprintln(out)
	for _, line := range renderSectionHeader("Jobs", colorize) {
		fmt.Fprintln(out, line)
	}
	if len(status.Jobs) == 0 {
		fmt.Fprintln(out, statusIndent+"No jobs recorded")
		return
	}
	fmt.Fprintln(out, renderJobCounts(status.Jobs))
}

func renderJobCounts(counts map[string]int) string {
	statuses := make([]string, 0, len(counts))
	for status := range counts {
		statuses = append(statuses, status)
	}
	sort.Strings(statuses)

	rows := make([][]string, 0, len(statuses))
	for _, status := range statuses {
		rows = append(rows, []string{status, fmt.Sprintf("%d", counts[status])})
	}
	return renderTable([]string{"STATUS", "COUNT"}, rows, 2)
}
