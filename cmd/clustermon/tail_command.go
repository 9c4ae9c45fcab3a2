package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"clustermon/internal/experiments"
	"clustermon/internal/logging"
	"clustermon/internal/logs"
	"clustermon/internal/logstream"
	"clustermon/internal/remote"
)

func newTailCommand(ctx *commandContext) *cobra.Command {
	var host string
	var allHosts bool
	var lines int

	cmd := &cobra.Command{
		Use:   "tail <experiment>",
		Short: "Follow the newest log file of an experiment",
		Long: "Resolve the experiment's most recently modified log file once and stream\n" +
			"bytes appended to it until interrupted. A newer file created later is not\n" +
			"picked up; run the command again to switch.",
		Args: experimentArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := firstArg(args)
			if host != "" && allHosts {
				return usageError(errors.New("--host and --all-hosts cannot be combined"))
			}
			if lines < 0 {
				return usageError(fmt.Errorf("--lines must be non-negative, got %d", lines))
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			runCtx, _ := logging.NewSessionContext(signalCtx)

			logger, err := ctx.ensureLogger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			logger = logging.WithContext(runCtx, logging.NewComponentLogger(logger, "cli"))

			if err := experiments.ValidateName(name); err != nil {
				return experimentError(err, name, "")
			}

			var (
				src   logstream.Source
				where string
				label string
			)
			switch {
			case allHosts:
				cfg, err := ctx.ensureConfig()
				if err != nil {
					return err
				}
				located, err := remote.Locate(runCtx, cfg.HostHandles(), name, ctx.dialer(logger))
				if err != nil {
					return experimentError(err, name, "any configured host")
				}
				src, where, label = located, "any configured host", located.Handle+":"
			default:
				src, where, err = ctx.source(host, logger)
				if err != nil {
					return experimentError(err, name, where)
				}
				if host != "" {
					label = host + ":"
				}
			}

			stderr := cmd.ErrOrStderr()
			err = logstream.ResolveAndTail(runCtx, src, name, cmd.OutOrStdout(), logstream.Options{
				Lines:  lines,
				Logger: logger,
				OnResolved: func(res experiments.Resolution) {
					fmt.Fprintf(stderr, "==> %s%s <==\n", label, res.Path)
				},
			})
			return experimentError(err, name, where)
		},
	}

	cmd.Flags().StringVarP(&host, "host", "H", "", "Follow the experiment on a configured host")
	cmd.Flags().BoolVar(&allHosts, "all-hosts", false, "Look for the experiment on every configured host")
	cmd.Flags().IntVarP(&lines, "lines", "n", 0, "Replay the last N lines before following")
	return cmd
}

func newFollowCommand(ctx *commandContext) *cobra.Command {
	var lines int

	cmd := &cobra.Command{
		Use:    "follow <path>",
		Short:  "Stream bytes appended to a file",
		Hidden: true,
		Args:   cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			signalCtx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
			defer cancel()

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return logs.Follow(signalCtx, args[0], cmd.OutOrStdout(), logs.FollowOptions{
				Lines:        lines,
				PollInterval: cfg.PollInterval(),
				Logger:       logger,
			})
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 0, "Replay the last N lines before following")
	return cmd
}
