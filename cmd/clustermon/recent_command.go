package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"clustermon/internal/experiments"
	"clustermon/internal/logging"
)

func newRecentCommand(ctx *commandContext) *cobra.Command {
	var createdWithin time.Duration
	var activeWithin time.Duration
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List experiments with recent log activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if createdWithin < 0 || activeWithin < 0 {
				return usageError(fmt.Errorf("durations must be non-negative"))
			}
			logger, err := ctx.ensureLogger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			resolver, err := ctx.resolver(logging.NewComponentLogger(logger, "resolver"))
			if err != nil {
				return err
			}

			now := time.Now()
			opts := experiments.RecentOptions{}
			if createdWithin > 0 {
				opts.CreatedAfter = now.Add(-createdWithin)
			}
			if activeWithin > 0 {
				opts.ActiveAfter = now.Add(-activeWithin)
			}
			recent, err := resolver.Recent(cmd.Context(), opts)
			if err != nil {
				return err
			}

			if jsonOutput {
				if recent == nil {
					recent = []experiments.Activity{}
				}
				return writeJSON(cmd, recent)
			}

			out := cmd.OutOrStdout()
			if len(recent) == 0 {
				fmt.Fprintf(out, "No recent experiments under %s\n", resolver.BaseDir())
				return nil
			}
			rows := make([][]string, 0, len(recent))
			for _, activity := range recent {
				rows = append(rows, []string{
					activity.Experiment,
					humanize.RelTime(activity.Created, now, "ago", "from now"),
					humanize.RelTime(activity.LastActivity, now, "ago", "from now"),
				})
			}
			fmt.Fprintln(out, renderTable(tableSpec{
				headers: []string{"Experiment", "Created", "Last Activity"},
				rows:    rows,
				aligns:  []columnAlignment{alignLeft, alignRight, alignRight},
				caption: fmt.Sprintf("%s experiment(s) under %s", humanize.Comma(int64(len(recent))), resolver.BaseDir()),
			}))
			return nil
		},
	}

	cmd.Flags().DurationVar(&createdWithin, "created-within", 7*24*time.Hour, "Only include experiments created within this window (0 disables)")
	cmd.Flags().DurationVar(&activeWithin, "active-within", 24*time.Hour, "Only include experiments active within this window (0 disables)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
