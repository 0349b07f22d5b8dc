package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"lingokit/internal/server"
)

func newKeysCommand(ctx *commandContext) *cobra.Command {
	keysCmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage API keys",
	}

	keysCmd.AddCommand(newKeysListCommand(ctx))
	keysCmd.AddCommand(newKeysCreateCommand(ctx))
	keysCmd.AddCommand(newKeysRevokeCommand(ctx))

	return keysCmd
}

func newKeysListCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored API keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			var list server.KeyListResponse
			if err := client.get(cmd.Context(), "/api/keys", nil, &list); err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, list)
			}
			out := cmd.OutOrStdout()
			if len(list.Keys) == 0 {
				fmt.Fprintln(out, "No API keys stored")
				return nil
			}
			rows := make([][]string, 0, len(list.Keys))
			for _, key := range list.Keys {
				rows = append(rows, []string{
					key.ID,
					key.Name,
					strings.Join(key.Scopes, ","),
					formatTimestamp(key.CreatedAt),
				})
			}
			fmt.Fprintln(out, renderTable([]string{"ID", "NAME", "SCOPES", "CREATED"}, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit machine-readable JSON")
	return cmd
}

func newKeysCreateCommand(ctx *commandContext) *cobra.Command {
	var scopes []string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create an API key; the raw key is shown only once",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			request := map[string]any{
				"name":   strings.TrimSpace(args[0]),
				"scopes": scopes,
			}
			var key server.KeyView
			if err := client.post(cmd.Context(), "/api/keys", request, &key); err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, key)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created key %s (%s)\n", key.ID, key.Name)
			fmt.Fprintf(out, "Key: %s\n", key.Key)
			fmt.Fprintln(out, "Store this key now; it cannot be retrieved again.")
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&scopes, "scope", nil, "Scope to attach to the key; repeatable")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit machine-readable JSON")
	return cmd
}

func newKeysRevokeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <key-id>",
		Short: "Revoke an API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			id := strings.TrimSpace(args[0])
			status, err := client.delete(cmd.Context(), "/api/keys/"+id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if status == http.StatusNotFound {
				fmt.Fprintf(out, "Key %s not found\n", id)
				return nil
			}
			fmt.Fprintf(out, "Key %s revoked\n", id)
			return nil
		},
	}
}
