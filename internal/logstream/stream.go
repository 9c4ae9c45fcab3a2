package logstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"clustermon/internal/experiments"
	"clustermon/internal/logging"
)

// Source resolves and tails experiment logs on one host.
type Source interface {
	Resolve(ctx context.Context, name string) (experiments.Resolution, error)
	Tail(ctx context.Context, path string, w io.Writer, lines int) error
}

// Options controls a resolve-and-tail invocation.
type Options struct {
	// Lines replays the last Lines lines of the resolved file before following.
	Lines int
	// OnResolved is called once with the resolved file before streaming starts.
	OnResolved func(experiments.Resolution)
	Logger     *slog.Logger
}

// ResolveAndTail resolves name once and, when a log file is found, streams it
// into w until ctx is done or the tail fails. It never switches to a newer
// file created after resolution and never retries: a missing experiment
// returns experiments.ErrExperimentNotFound and an empty one returns
// experiments.ErrNoLogsYet.
func ResolveAndTail(ctx context.Context, src Source, name string, w io.Writer, opts Options) error {
	if src == nil {
		return errors.New("log source is required")
	}
	if err := experiments.ValidateName(name); err != nil {
		return err
	}
	logger := logging.WithContext(ctx, logging.NewComponentLogger(opts.Logger, "logstream")).
		With(logging.String(logging.FieldExperiment, name))

	res, err := src.Resolve(ctx, name)
	if err != nil {
		return fmt.Errorf("resolve %q: %w", name, err)
	}
	if err := res.Err(); err != nil {
		logger.Info("experiment log not available", logging.String("status", string(res.Status)))
		return err
	}

	logger.Info("following experiment log", logging.String(logging.FieldPath, res.Path))
	if opts.OnResolved != nil {
		opts.OnResolved(res)
	}
	if err := src.Tail(ctx, res.Path, w, opts.Lines); err != nil {
		return fmt.Errorf("tail %s: %w", res.Path, err)
	}
	return nil
}
