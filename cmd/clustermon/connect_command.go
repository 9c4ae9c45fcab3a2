package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"

	"clustermon/internal/config"
	"clustermon/internal/deps"
	"clustermon/internal/logging"
	"clustermon/internal/remote"
)

const connectParallelism = 8

type hostCheck struct {
	handle  string
	address string
	elapsed time.Duration
	err     error
}

func newConnectCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "connect",
		Short: "Check ssh connectivity to every configured host",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			status := newStatusPrinter(cmd.OutOrStdout())

			statuses := deps.CheckBinaries(deps.Requirements(cfg))
			for _, dep := range statuses {
				if dep.Available {
					status.line(dep.Name, statusOK, dep.Path)
				} else {
					status.line(dep.Name, statusError, dep.Detail)
				}
			}
			if missing, ok := deps.FirstMissing(statuses); ok {
				return &exitError{code: exitFailure, message: fmt.Sprintf("%s is not available: %s", missing.Name, missing.Detail)}
			}

			handles := cfg.HostHandles()
			if len(handles) == 0 {
				status.line("hosts", statusWarn, "no hosts configured")
				return nil
			}

			checks := checkHosts(cmd.Context(), cfg, handles, remote.ChannelOptionsFromConfig(cfg, logging.NewComponentLogger(logger, "cli")))
			failed := 0
			for _, check := range checks {
				if check.err != nil {
					failed++
					status.line(check.handle, statusError, firstLine(check.err.Error()))
					continue
				}
				detail := fmt.Sprintf("%s (%s)", check.address, check.elapsed.Round(time.Millisecond))
				status.line(check.handle, statusOK, detail)
			}
			if failed > 0 {
				return &exitError{code: exitFailure, message: fmt.Sprintf("%d of %d hosts unreachable", failed, len(checks))}
			}
			return nil
		},
	}
}

// checkHosts runs "true" on every host and returns results in handle order.
func checkHosts(ctx context.Context, cfg *config.Config, handles []string, opts remote.ChannelOptions) []hostCheck {
	results := make([]hostCheck, len(handles))
	p := pool.New().WithMaxGoroutines(connectParallelism)
	for i, handle := range handles {
		host := cfg.Hosts[handle]
		p.Go(func() {
			start := time.Now()
			_, err := remote.NewChannel(handle, host, opts).Run(ctx, "true")
			results[i] = hostCheck{
				handle:  handle,
				address: host.Host,
				elapsed: time.Since(start),
				err:     err,
			}
		})
	}
	p.Wait()
	return results
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
