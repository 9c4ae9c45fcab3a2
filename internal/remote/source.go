package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"clustermon/internal/config"
	"clustermon/internal/experiments"
	"clustermon/internal/logging"
)

// Source resolves and follows experiment logs on a remote host by invoking
// clustermon there. It satisfies logstream.Source.
type Source struct {
	channel *Channel
	command string
	baseDir string
	logger  *slog.Logger
}

// NewSource wraps channel. command is the clustermon invocation on the host;
// baseDir, when set, replaces the host's own experiments directory.
func NewSource(channel *Channel, command, baseDir string, logger *slog.Logger) *Source {
	if strings.TrimSpace(command) == "" {
		command = "clustermon"
	}
	return &Source{
		channel: channel,
		command: command,
		baseDir: baseDir,
		logger:  logging.NewComponentLogger(logger, "remote").With(logging.String(logging.FieldHost, channel.Handle())),
	}
}

// SourceFromConfig builds the Source for a configured host handle.
func SourceFromConfig(cfg *config.Config, handle string, logger *slog.Logger) (*Source, error) {
	host, ok := cfg.LookupHost(handle)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownHost, handle)
	}
	return SourceForHost(cfg, handle, host, logger), nil
}

// SourceForHost builds the Source for host, which need not be the entry
// stored in cfg. cfg supplies the ssh and remote command defaults only.
func SourceForHost(cfg *config.Config, handle string, host config.Host, logger *slog.Logger) *Source {
	command := host.Command
	if command == "" {
		command = cfg.Remote.RemoteCommand
	}
	channel := NewChannel(handle, host, ChannelOptionsFromConfig(cfg, logger))
	return NewSource(channel, command, host.BaseDir, logger)
}

// Handle returns the host handle this source talks to.
func (s *Source) Handle() string {
	return s.channel.Handle()
}

// Resolve runs "resolve --json" on the host. The remote command exits
// non-zero for a missing or empty experiment, so its JSON answer is decoded
// before the exit status is considered.
func (s *Source) Resolve(ctx context.Context, name string) (experiments.Resolution, error) {
	if err := experiments.ValidateName(name); err != nil {
		return experiments.Resolution{}, err
	}
	argv := []string{s.command, "resolve", "--json"}
	if s.baseDir != "" {
		argv = append(argv, "--base-dir", s.baseDir)
	}
	argv = append(argv, name)

	out, runErr := s.channel.Run(ctx, argv...)
	if runErr != nil && (errors.Is(runErr, ErrHostUnreachable) || ctx.Err() != nil) {
		return experiments.Resolution{}, runErr
	}

	res, decodeErr := decodeResolution(out)
	if decodeErr != nil {
		if runErr != nil {
			return experiments.Resolution{}, runErr
		}
		return experiments.Resolution{}, fmt.Errorf("decode resolution from %s: %w", s.Handle(), decodeErr)
	}
	if res.Experiment != name {
		return experiments.Resolution{}, fmt.Errorf("host %s answered for %q, expected %q", s.Handle(), res.Experiment, name)
	}
	s.logger.Debug("remote resolution",
		logging.String(logging.FieldExperiment, name),
		logging.String("status", string(res.Status)),
		logging.String(logging.FieldPath, res.Path),
	)
	return res, nil
}

// Tail streams the remote file at path into w. It returns nil when ctx is
// cancelled. A stream that ends while ctx is live is an error, even when the
// remote command exited cleanly.
func (s *Source) Tail(ctx context.Context, path string, w io.Writer, lines int) error {
	argv := []string{s.command, "follow"}
	if lines > 0 {
		argv = append(argv, "--lines", strconv.Itoa(lines))
	}
	argv = append(argv, path)

	err := s.channel.Stream(ctx, w, argv...)
	if ctx.Err() != nil {
		return nil
	}
	if err == nil {
		// follow only exits on its own when it was signalled on the host.
		return fmt.Errorf("%w: %s: remote stream for %s ended", ErrHostUnreachable, s.Handle(), path)
	}
	return err
}

func decodeResolution(data []byte) (experiments.Resolution, error) {
	var res experiments.Resolution
	if len(strings.TrimSpace(string(data))) == 0 {
		return res, errors.New("empty response")
	}
	if err := json.Unmarshal(data, &res); err != nil {
		return res, err
	}
	switch res.Status {
	case experiments.StatusFound:
		if res.Path == "" {
			return res, errors.New("found resolution without path")
		}
	case experiments.StatusExperimentNotFound, experiments.StatusNoLogsYet:
	default:
		return res, fmt.Errorf("unknown status %q", res.Status)
	}
	return res, nil
}
