package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"clustermon/internal/experiments"
	"clustermon/internal/remote"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// exitError carries the message and process exit status for an expected
// outcome of a command.
type exitError struct {
	code    int
	warning bool
	message string
	err     error
}

func (e *exitError) Error() string {
	return e.message
}

func (e *exitError) Unwrap() error {
	return e.err
}

func usageError(err error) error {
	return &exitError{code: exitUsage, message: err.Error(), err: err}
}

// experimentError maps the outcome of resolving name under where onto the
// CLI messages and exit statuses.
func experimentError(err error, name, where string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, experiments.ErrUsage):
		return &exitError{code: exitUsage, warning: true, message: "experiment name is required", err: err}
	case experiments.IsUsage(err), errors.Is(err, remote.ErrUnknownHost):
		return usageError(err)
	case errors.Is(err, experiments.ErrExperimentNotFound):
		return &exitError{
			code:    exitFailure,
			message: fmt.Sprintf("experiment %q not found under %s", name, where),
			err:     err,
		}
	case errors.Is(err, experiments.ErrNoLogsYet):
		return &exitError{
			code:    exitOK,
			warning: true,
			message: fmt.Sprintf("experiment %q has not produced any logs yet", name),
			err:     err,
		}
	default:
		return err
	}
}

// reportError prints err to w and returns the process exit status.
func reportError(w io.Writer, err error) int {
	if err == nil {
		return exitOK
	}
	var exitErr *exitError
	if errors.As(err, &exitErr) {
		prefix := "error"
		if exitErr.warning {
			prefix = "warning"
		}
		fmt.Fprintf(w, "%s: %s\n", prefix, exitErr.message)
		return exitErr.code
	}
	if !errors.Is(err, context.Canceled) {
		fmt.Fprintf(w, "error: %v\n", err)
	}
	return exitFailure
}
