package main

import (
	"github.com/spf13/cobra"

	"clustermon/internal/config"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var baseDirFlag string
	var verbose bool

	ctx := newCommandContext(&configFlag, &baseDirFlag, &verbose)

	rootCmd := &cobra.Command{
		Use:           "clustermon",
		Short:         "Find and follow experiment logs on cluster hosts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&baseDirFlag, "base-dir", "", "Experiments directory (overrides config and "+config.ExperimentsDirEnv+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug diagnostics on stderr")

	rootCmd.AddCommand(newTailCommand(ctx))
	rootCmd.AddCommand(newResolveCommand(ctx))
	rootCmd.AddCommand(newFollowCommand(ctx))
	rootCmd.AddCommand(newRecentCommand(ctx))
	rootCmd.AddCommand(newHostsCommand(ctx))
	rootCmd.AddCommand(newConnectCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
