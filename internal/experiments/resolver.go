package experiments

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"clustermon/internal/logging"
)

// DefaultLogGlob matches the batch scheduler output files written into an
// experiment directory.
const DefaultLogGlob = "*.out"

// Status classifies the outcome of a resolution.
type Status string

const (
	StatusFound              Status = "found"
	StatusExperimentNotFound Status = "experiment_not_found"
	StatusNoLogsYet          Status = "no_logs_yet"
)

// Resolution is the result of resolving an experiment name. Path and ModTime
// are only set when Status is StatusFound.
type Resolution struct {
	Experiment string    `json:"experiment"`
	Status     Status    `json:"status"`
	Path       string    `json:"path,omitempty"`
	ModTime    time.Time `json:"mod_time,omitzero"`
}

// Found reports whether a log file was located.
func (r Resolution) Found() bool {
	return r.Status == StatusFound
}

// Err maps a non-found status to its sentinel error.
func (r Resolution) Err() error {
	switch r.Status {
	case StatusFound:
		return nil
	case StatusExperimentNotFound:
		return fmt.Errorf("%w: %q", ErrExperimentNotFound, r.Experiment)
	case StatusNoLogsYet:
		return fmt.Errorf("%w: %q", ErrNoLogsYet, r.Experiment)
	default:
		return fmt.Errorf("unknown resolution status %q", r.Status)
	}
}

// Options configures a Resolver.
type Options struct {
	BaseDir string
	LogGlob string
	Logger  *slog.Logger
}

// Resolver finds the current log file of an experiment. It only reads the
// filesystem and is safe for concurrent use.
type Resolver struct {
	baseDir string
	glob    string
	logger  *slog.Logger
}

// NewResolver validates opts and returns a Resolver.
func NewResolver(opts Options) (*Resolver, error) {
	base := strings.TrimSpace(opts.BaseDir)
	if base == "" {
		return nil, errors.New("experiments base directory is required")
	}
	glob := strings.TrimSpace(opts.LogGlob)
	if glob == "" {
		glob = DefaultLogGlob
	}
	if _, err := filepath.Match(glob, ""); err != nil {
		return nil, fmt.Errorf("log glob %q: %w", glob, err)
	}
	return &Resolver{
		baseDir: filepath.Clean(base),
		glob:    glob,
		logger:  logging.NewComponentLogger(opts.Logger, "resolver"),
	}, nil
}

// BaseDir returns the directory experiments are resolved against.
func (r *Resolver) BaseDir() string {
	return r.baseDir
}

// ExperimentDir returns the directory an experiment's logs would live in.
func (r *Resolver) ExperimentDir(name string) string {
	return filepath.Join(r.baseDir, name)
}

// Resolve locates the most recently modified log file of the named experiment.
// Filesystem errors other than a missing directory are returned as errors and
// never reported as one of the expected statuses.
func (r *Resolver) Resolve(ctx context.Context, name string) (Resolution, error) {
	if err := ValidateName(name); err != nil {
		return Resolution{}, err
	}
	result := Resolution{Experiment: name}
	dir := r.ExperimentDir(name)

	info, err := os.Stat(dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		result.Status = StatusExperimentNotFound
		return result, nil
	case err != nil:
		return result, fmt.Errorf("stat experiment directory: %w", err)
	case !info.IsDir():
		result.Status = StatusExperimentNotFound
		return result, nil
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	candidates, err := r.logFiles(dir)
	if err != nil {
		return result, err
	}
	if len(candidates) == 0 {
		result.Status = StatusNoLogsYet
		return result, nil
	}

	latest := candidates[0]
	result.Status = StatusFound
	result.Path = latest.path
	result.ModTime = latest.modTime
	r.logger.Debug("resolved experiment log",
		logging.String(logging.FieldExperiment, name),
		logging.String(logging.FieldPath, latest.path),
		logging.Int("candidates", len(candidates)),
	)
	return result, nil
}

type logFile struct {
	path    string
	name    string
	modTime time.Time
}

// logFiles returns the matching regular files of dir ordered newest first,
// ties broken by ascending file name.
func (r *Resolver) logFiles(dir string) ([]logFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list experiment directory: %w", err)
	}
	files := make([]logFile, 0, len(entries))
	for _, entry := range entries {
		if ok, _ := filepath.Match(r.glob, entry.Name()); !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("stat log file %q: %w", entry.Name(), err)
		}
		if !info.Mode().IsRegular() {
			continue
		}
		files = append(files, logFile{
			path:    filepath.Join(dir, entry.Name()),
			name:    entry.Name(),
			modTime: info.ModTime(),
		})
	}
	sortNewestFirst(files)
	return files, nil
}

func sortNewestFirst(files []logFile) {
	sort.Slice(files, func(i, j int) bool {
		if !files[i].modTime.Equal(files[j].modTime) {
			return files[i].modTime.After(files[j].modTime)
		}
		return files[i].name < files[j].name
	})
}

// ValidateName rejects names that are empty or would escape the base directory.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ErrUsage
	}
	if trimmed != name || trimmed == "." || trimmed == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
