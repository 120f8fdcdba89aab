package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"vigil/internal/ipc"
	"vigil/internal/journal"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var kinds []string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded watchdog events",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.HistoryList(limit, kinds)
				if err != nil {
					return fmt.Errorf("list history: %w", err)
				}
				stdout := cmd.OutOrStdout()
				if len(resp.Events) == 0 {
					fmt.Fprintln(stdout, "No events recorded")
					return nil
				}

				rows := make([][]string, 0, len(resp.Events))
				for _, event := range resp.Events {
					memory := ""
					if event.MemoryMB > 0 {
						memory = fmt.Sprintf("%.2f", event.MemoryMB)
					}
					rows = append(rows, []string{
						event.CreatedAt.Format("2006-01-02 15:04:05"),
						event.Kind,
						event.Process,
						event.Detail,
						memory,
					})
				}
				fmt.Fprintln(stdout, renderTable(
					[]string{"Time", "Kind", "Process", "Detail", "Memory (MB)"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
				))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of events to show")
	cmd.Flags().StringSliceVarP(&kinds, "kind", "k", nil,
		fmt.Sprintf("Filter by event kind (%s)", strings.Join(kindNames(), ", ")))

	cmd.AddCommand(newHistoryClearCommand(ctx))
	return cmd
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded events",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.HistoryClear()
				if err != nil {
					return fmt.Errorf("clear history: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d events\n", resp.Removed)
				return nil
			})
		},
	}
}

func kindNames() []string {
	kinds := journal.Kinds()
	names := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		names = append(names, string(kind))
	}
	return names
}
