package experiments_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"clustermon/internal/experiments"
	"clustermon/internal/testsupport"
)

func newResolver(t *testing.T) (*experiments.Resolver, string) {
	t.Helper()
	base := t.TempDir()
	resolver, err := experiments.NewResolver(experiments.Options{BaseDir: base})
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	return resolver, base
}

func TestResolveMissingExperiment(t *testing.T) {
	resolver, _ := newResolver(t)

	res, err := resolver.Resolve(context.Background(), "expA")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Status != experiments.StatusExperimentNotFound {
		t.Fatalf("expected not found, got %q", res.Status)
	}
	if !errors.Is(res.Err(), experiments.ErrExperimentNotFound) {
		t.Fatalf("expected ErrExperimentNotFound, got %v", res.Err())
	}
}

func TestResolveFileNamedLikeExperimentIsNotFound(t *testing.T) {
	resolver, base := newResolver(t)
	if err := os.WriteFile(filepath.Join(base, "expA"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	res, err := resolver.Resolve(context.Background(), "expA")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Status != experiments.StatusExperimentNotFound {
		t.Fatalf("expected not found for regular file, got %q", res.Status)
	}
}

func TestResolveEmptyExperiment(t *testing.T) {
	resolver, base := newResolver(t)
	dir := testsupport.MakeExperiment(t, base, "expB")
	testsupport.WriteLog(t, dir, "notes.txt", "not a log", time.Now())
	if err := os.Mkdir(filepath.Join(dir, "dir.out"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	res, err := resolver.Resolve(context.Background(), "expB")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Status != experiments.StatusNoLogsYet {
		t.Fatalf("expected no logs yet, got %q", res.Status)
	}
	if !errors.Is(res.Err(), experiments.ErrNoLogsYet) {
		t.Fatalf("expected ErrNoLogsYet, got %v", res.Err())
	}
}

func TestResolvePicksNewestLog(t *testing.T) {
	resolver, base := newResolver(t)
	dir := testsupport.MakeExperiment(t, base, "expC")
	now := time.Now()
	testsupport.WriteLog(t, dir, "run1.out", "old", now.Add(-time.Hour))
	want := testsupport.WriteLog(t, dir, "run2.out", "new", now)
	testsupport.WriteLog(t, dir, "run0.out", "older", now.Add(-2*time.Hour))

	for i := 0; i < 3; i++ {
		res, err := resolver.Resolve(context.Background(), "expC")
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if !res.Found() || res.Path != want {
			t.Fatalf("call %d: expected %s, got %+v", i, want, res)
		}
		if !res.ModTime.Equal(now) && res.ModTime.Unix() != now.Unix() {
			t.Fatalf("unexpected mod time %v", res.ModTime)
		}
	}
}

func TestResolveTieBreaksByName(t *testing.T) {
	resolver, base := newResolver(t)
	dir := testsupport.MakeExperiment(t, base, "expD")
	stamp := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	testsupport.WriteLog(t, dir, "b.out", "", stamp)
	want := testsupport.WriteLog(t, dir, "a.out", "", stamp)
	testsupport.WriteLog(t, dir, "c.out", "", stamp)

	first, err := resolver.Resolve(context.Background(), "expD")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if first.Path != want {
		t.Fatalf("expected %s on tie, got %s", want, first.Path)
	}
	second, err := resolver.Resolve(context.Background(), "expD")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if second.Path != first.Path || !second.ModTime.Equal(first.ModTime) {
		t.Fatalf("resolution changed between calls: %+v vs %+v", first, second)
	}
}

func TestResolveHonoursGlob(t *testing.T) {
	base := t.TempDir()
	resolver, err := experiments.NewResolver(experiments.Options{BaseDir: base, LogGlob: "*.log"})
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	dir := testsupport.MakeExperiment(t, base, "expE")
	now := time.Now()
	want := testsupport.WriteLog(t, dir, "train.log", "", now.Add(-time.Minute))
	testsupport.WriteLog(t, dir, "train.out", "", now)

	res, err := resolver.Resolve(context.Background(), "expE")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Path != want {
		t.Fatalf("expected %s, got %s", want, res.Path)
	}
}

func TestResolveRejectsInvalidNames(t *testing.T) {
	resolver, _ := newResolver(t)
	for _, name := range []string{"", "   ", "..", ".", "a/b", "../etc", " padded"} {
		_, err := resolver.Resolve(context.Background(), name)
		if !experiments.IsUsage(err) {
			t.Fatalf("name %q: expected usage error, got %v", name, err)
		}
	}
	if _, err := resolver.Resolve(context.Background(), ""); !errors.Is(err, experiments.ErrUsage) {
		t.Fatalf("expected ErrUsage for empty name, got %v", err)
	}
}

func TestResolveConcurrent(t *testing.T) {
	resolver, base := newResolver(t)
	dir := testsupport.MakeExperiment(t, base, "expF")
	want := testsupport.WriteLog(t, dir, "run.out", "", time.Now())

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := resolver.Resolve(context.Background(), "expF")
			if err != nil {
				errs <- err
				return
			}
			if res.Path != want {
				errs <- errors.New("unexpected path " + res.Path)
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
}

func TestNewResolverValidatesOptions(t *testing.T) {
	if _, err := experiments.NewResolver(experiments.Options{}); err == nil {
		t.Fatal("expected error without base dir")
	}
	if _, err := experiments.NewResolver(experiments.Options{BaseDir: t.TempDir(), LogGlob: "[bad"}); err == nil {
		t.Fatal("expected error for malformed glob")
	}
}
