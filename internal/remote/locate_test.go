package remote_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"clustermon/internal/experiments"
	"clustermon/internal/logstream"
	"clustermon/internal/remote"
)

type stubSource struct {
	status experiments.Status
	err    error
}

func (s stubSource) Resolve(_ context.Context, name string) (experiments.Resolution, error) {
	if s.err != nil {
		return experiments.Resolution{}, s.err
	}
	res := experiments.Resolution{Experiment: name, Status: s.status}
	if s.status == experiments.StatusFound {
		res.Path = "/exp/" + name + "/run.out"
	}
	return res, nil
}

func (stubSource) Tail(context.Context, string, io.Writer, int) error { return nil }

func stubDialer(sources map[string]stubSource) remote.Dialer {
	return func(handle string) (logstream.Source, error) {
		src, ok := sources[handle]
		if !ok {
			return nil, fmt.Errorf("%w %q", remote.ErrUnknownHost, handle)
		}
		return src, nil
	}
}

func unreachable(handle string) stubSource {
	return stubSource{err: fmt.Errorf("%w: %s: connection refused", remote.ErrHostUnreachable, handle)}
}

func TestLocatePrecedence(t *testing.T) {
	tests := []struct {
		name       string
		handles    []string
		sources    map[string]stubSource
		wantHandle string
		wantStatus experiments.Status
	}{
		{
			name:    "first found in handle order",
			handles: []string{"a", "b", "c"},
			sources: map[string]stubSource{
				"a": {status: experiments.StatusNoLogsYet},
				"b": {status: experiments.StatusFound},
				"c": {status: experiments.StatusFound},
			},
			wantHandle: "b",
			wantStatus: experiments.StatusFound,
		},
		{
			name:    "no logs beats not found",
			handles: []string{"a", "b"},
			sources: map[string]stubSource{
				"a": {status: experiments.StatusExperimentNotFound},
				"b": {status: experiments.StatusNoLogsYet},
			},
			wantHandle: "b",
			wantStatus: experiments.StatusNoLogsYet,
		},
		{
			name:    "not found when any host answered",
			handles: []string{"a", "b"},
			sources: map[string]stubSource{
				"a": unreachable("a"),
				"b": {status: experiments.StatusExperimentNotFound},
			},
			wantHandle: "b",
			wantStatus: experiments.StatusExperimentNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := remote.Locate(context.Background(), tt.handles, "expC", stubDialer(tt.sources))
			if err != nil {
				t.Fatalf("Locate: %v", err)
			}
			if got.Handle != tt.wantHandle || got.Resolution.Status != tt.wantStatus {
				t.Fatalf("got %s/%s, want %s/%s", got.Handle, got.Resolution.Status, tt.wantHandle, tt.wantStatus)
			}
			if got.Source == nil {
				t.Fatal("expected source of the chosen host")
			}
		})
	}
}

func TestLocateAllHostsUnreachable(t *testing.T) {
	sources := map[string]stubSource{"a": unreachable("a"), "b": unreachable("b")}
	_, err := remote.Locate(context.Background(), []string{"a", "b"}, "expC", stubDialer(sources))
	if !errors.Is(err, remote.ErrHostUnreachable) {
		t.Fatalf("expected ErrHostUnreachable, got %v", err)
	}
}

func TestLocateUnknownHostIsNotUnreachable(t *testing.T) {
	_, err := remote.Locate(context.Background(), []string{"ghost"}, "expC", stubDialer(nil))
	if !errors.Is(err, remote.ErrUnknownHost) || errors.Is(err, remote.ErrHostUnreachable) {
		t.Fatalf("expected plain unknown host error, got %v", err)
	}
}

func TestLocateRemoteCommandFailureIsNotUnreachable(t *testing.T) {
	missing := &remote.CommandError{Host: "a", ExitCode: 127, Stderr: "sh: clustermon: not found"}
	sources := map[string]stubSource{"a": {err: missing}, "b": unreachable("b")}

	_, err := remote.Locate(context.Background(), []string{"a"}, "expC", stubDialer(sources))
	var cmdErr *remote.CommandError
	if !errors.As(err, &cmdErr) || cmdErr.ExitCode != 127 {
		t.Fatalf("expected command error, got %v", err)
	}
	if errors.Is(err, remote.ErrHostUnreachable) {
		t.Fatalf("misconfigured host reported as unreachable: %v", err)
	}

	_, err = remote.Locate(context.Background(), []string{"a", "b"}, "expC", stubDialer(sources))
	if !errors.Is(err, remote.ErrHostUnreachable) || !errors.As(err, &cmdErr) {
		t.Fatalf("expected both failures, got %v", err)
	}
}

func TestLocateRejectsInvalidName(t *testing.T) {
	_, err := remote.Locate(context.Background(), []string{"a"}, "", stubDialer(nil))
	if !experiments.IsUsage(err) {
		t.Fatalf("expected usage error, got %v", err)
	}
}
