package main

import (
	"fmt"

	"github.com/MoToViLoVArtem/bigolive-bot/internal/auditlog"
	"github.com/spf13/cobra"
)

func newLogsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print recent audit log entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := auditlog.Open(flagOrViperString(cmd, "audit-db", "audit.db_path"))
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			limit := flagOrViperInt(cmd, "limit", "audit.recent_limit")
			entries, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			for _, e := range entries {
				name := e.Username
				if name == "" {
					name = fmt.Sprintf("id%d", e.UserID)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s  %-4s %s: %s\n",
					e.At.Format("2006-01-02 15:04:05"), e.Role, name, e.Text)
			}
			return nil
		},
	}

	cmd.Flags().String("audit-db", "chatlog.db", "SQLite file for the conversation audit log.")
	cmd.Flags().Int("limit", 50, "How many entries to print, newest first.")

	return cmd
}
