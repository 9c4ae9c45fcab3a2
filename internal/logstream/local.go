package logstream

import (
	"context"
	"io"
	"log/slog"
	"time"

	"clustermon/internal/experiments"
	"clustermon/internal/logs"
)

// LocalSource reads experiments from the local filesystem.
type LocalSource struct {
	Resolver     *experiments.Resolver
	PollInterval time.Duration
	Logger       *slog.Logger
}

// Resolve implements Source.
func (s LocalSource) Resolve(ctx context.Context, name string) (experiments.Resolution, error) {
	return s.Resolver.Resolve(ctx, name)
}

// Tail implements Source.
func (s LocalSource) Tail(ctx context.Context, path string, w io.Writer, lines int) error {
	return logs.Follow(ctx, path, w, logs.FollowOptions{
		Lines:        lines,
		PollInterval: s.PollInterval,
		Logger:       s.Logger,
	})
}
