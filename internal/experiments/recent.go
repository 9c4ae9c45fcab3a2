package experiments

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// Activity summarizes when an experiment last wrote output.
type Activity struct {
	Experiment   string    `json:"experiment_name"`
	Created      time.Time `json:"time_created"`
	LastActivity time.Time `json:"time_activity"`
}

// RecentOptions bounds the experiments Recent reports. Zero cutoffs disable
// the corresponding filter.
type RecentOptions struct {
	CreatedAfter time.Time
	ActiveAfter  time.Time
	// ActivityGlobs are evaluated relative to each experiment directory.
	// Defaults to the resolver log glob plus output/*.txt.
	ActivityGlobs []string
}

// Recent lists experiments created after opts.CreatedAfter whose most recent
// output is newer than opts.ActiveAfter, most recently active first.
func (r *Resolver) Recent(ctx context.Context, opts RecentOptions) ([]Activity, error) {
	entries, err := os.ReadDir(r.baseDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list experiments: %w", err)
	}

	globs := opts.ActivityGlobs
	if len(globs) == 0 {
		globs = []string{r.glob, filepath.Join("output", "*.txt")}
	}

	var out []Activity
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(r.baseDir, entry.Name())
		info, err := os.Stat(dir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("stat experiment %q: %w", entry.Name(), err)
		}
		created := changeTime(dir, info)
		if !opts.CreatedAfter.IsZero() && created.Before(opts.CreatedAfter) {
			continue
		}
		last, err := lastActivity(dir, info, globs)
		if err != nil {
			return nil, err
		}
		if !opts.ActiveAfter.IsZero() && !last.After(opts.ActiveAfter) {
			continue
		}
		out = append(out, Activity{
			Experiment:   entry.Name(),
			Created:      created,
			LastActivity: last,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].LastActivity.Equal(out[j].LastActivity) {
			return out[i].LastActivity.After(out[j].LastActivity)
		}
		return out[i].Experiment < out[j].Experiment
	})
	return out, nil
}

func lastActivity(dir string, dirInfo fs.FileInfo, globs []string) (time.Time, error) {
	var latest time.Time
	for _, pattern := range globs {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return time.Time{}, fmt.Errorf("activity glob %q: %w", pattern, err)
		}
		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
			if info.ModTime().After(latest) {
				latest = info.ModTime()
			}
		}
	}
	if latest.IsZero() {
		return dirInfo.ModTime(), nil
	}
	return latest, nil
}
