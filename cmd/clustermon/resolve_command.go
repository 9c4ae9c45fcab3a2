package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"clustermon/internal/experiments"
	"clustermon/internal/logging"
)

func newResolveCommand(ctx *commandContext) *cobra.Command {
	var host string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "resolve <experiment>",
		Short: "Print the newest log file of an experiment",
		Long: "Resolve an experiment name to its most recently modified log file.\n" +
			"With --json the resolution is always written to stdout, including the\n" +
			"not-found and no-logs outcomes; the exit status matches tail.",
		Args: experimentArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := firstArg(args)
			if err := experiments.ValidateName(name); err != nil {
				return experimentError(err, name, "")
			}

			logger, err := ctx.ensureLogger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			logger = logging.NewComponentLogger(logger, "cli")

			src, where, err := ctx.source(host, logger)
			if err != nil {
				return experimentError(err, name, where)
			}
			res, err := src.Resolve(cmd.Context(), name)
			if err != nil {
				return experimentError(err, name, where)
			}

			if jsonOutput {
				if err := writeJSON(cmd, res); err != nil {
					return err
				}
			} else if res.Found() {
				fmt.Fprintln(cmd.OutOrStdout(), res.Path)
			}
			return experimentError(res.Err(), name, where)
		},
	}

	cmd.Flags().StringVarP(&host, "host", "H", "", "Resolve on a configured host")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the resolution as JSON")
	return cmd
}
