package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHostsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "hosts",
		Short: "List configured cluster hosts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			handles := cfg.HostHandles()
			if len(handles) == 0 {
				fmt.Fprintln(out, "No hosts configured")
				return nil
			}

			rows := make([][]string, 0, len(handles))
			for _, handle := range handles {
				host := cfg.Hosts[handle]
				rows = append(rows, []string{
					handle,
					host.Label,
					host.Host,
					valueOrDash(host.BaseDir),
					valueOrDash(host.Command),
				})
			}
			headers := []string{"Handle", "Label", "Host", "Base Dir", "Command"}
			fmt.Fprintln(out, renderTable(tableSpec{headers: headers, rows: rows}))
			return nil
		},
	}
}

func valueOrDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
