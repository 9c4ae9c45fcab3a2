package remote

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sourcegraph/conc/iter"

	"clustermon/internal/experiments"
	"clustermon/internal/logstream"
)

// Dialer returns the Source for a host handle.
type Dialer func(handle string) (logstream.Source, error)

// Located is the outcome of Locate.
type Located struct {
	Handle     string
	Source     logstream.Source
	Resolution experiments.Resolution
}

// Resolve returns the resolution Locate already obtained, so a located
// experiment is never resolved twice.
func (l Located) Resolve(_ context.Context, name string) (experiments.Resolution, error) {
	if name != l.Resolution.Experiment {
		return experiments.Resolution{}, fmt.Errorf("located %q, asked for %q", l.Resolution.Experiment, name)
	}
	return l.Resolution, nil
}

// Tail follows path on the located host.
func (l Located) Tail(ctx context.Context, path string, w io.Writer, lines int) error {
	if l.Source == nil {
		return errors.New("located host has no source")
	}
	return l.Source.Tail(ctx, path, w, lines)
}

type hostOutcome struct {
	handle string
	source logstream.Source
	res    experiments.Resolution
	err    error
}

// Locate resolves name on every host concurrently. The first host in handle
// order whose answer is Found wins. Otherwise a NoLogsYet answer is preferred
// over ExperimentNotFound. When no host answered, the per-host errors are
// joined; the result matches ErrHostUnreachable only if some host failed at
// the transport level.
func Locate(ctx context.Context, handles []string, name string, dial Dialer) (Located, error) {
	if err := experiments.ValidateName(name); err != nil {
		return Located{}, err
	}
	if len(handles) == 0 {
		return Located{}, errors.New("no hosts configured")
	}

	outcomes := iter.Map(handles, func(handle *string) hostOutcome {
		out := hostOutcome{handle: *handle}
		src, err := dial(*handle)
		if err != nil {
			out.err = err
			return out
		}
		out.source = src
		out.res, out.err = src.Resolve(ctx, name)
		return out
	})

	if err := ctx.Err(); err != nil {
		return Located{}, err
	}

	var (
		noLogs   *hostOutcome
		notFound *hostOutcome
		failures []error
	)
	for i := range outcomes {
		out := &outcomes[i]
		if out.err != nil {
			failures = append(failures, fmt.Errorf("%s: %w", out.handle, out.err))
			continue
		}
		switch out.res.Status {
		case experiments.StatusFound:
			return located(out), nil
		case experiments.StatusNoLogsYet:
			if noLogs == nil {
				noLogs = out
			}
		default:
			if notFound == nil {
				notFound = out
			}
		}
	}

	switch {
	case noLogs != nil:
		return located(noLogs), nil
	case notFound != nil:
		return located(notFound), nil
	}
	return Located{}, errors.Join(failures...)
}

func located(out *hostOutcome) Located {
	return Located{Handle: out.handle, Source: out.source, Resolution: out.res}
}
