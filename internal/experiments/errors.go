package experiments

import "errors"

var (
	// ErrUsage reports that no experiment name was supplied.
	ErrUsage = errors.New("experiment name is required")
	// ErrInvalidName reports a name that cannot map to a single directory under the base.
	ErrInvalidName = errors.New("invalid experiment name")
	// ErrExperimentNotFound reports that the experiment has no directory.
	ErrExperimentNotFound = errors.New("experiment not found")
	// ErrNoLogsYet reports an experiment directory without any log files.
	ErrNoLogsYet = errors.New("experiment has not produced any logs yet")
)

// IsUsage reports whether err is a caller input error.
func IsUsage(err error) bool {
	return errors.Is(err, ErrUsage) || errors.Is(err, ErrInvalidName)
}
