package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vigil/internal/ipc"
)

func newCycleCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "cycle",
		Short: "Run one monitoring cycle immediately",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Cycle()
				if err != nil {
					return fmt.Errorf("trigger cycle: %w", err)
				}
				if !resp.Ran {
					return fmt.Errorf("cycle not run: %s", resp.Message)
				}
				fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
				return nil
			})
		},
	}
}
