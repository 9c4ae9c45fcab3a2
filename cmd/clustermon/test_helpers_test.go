package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"clustermon/internal/config"
	"clustermon/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	root := testsupport.BaseDir(cfg)
	homeDir := filepath.Join(root, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv(config.ExperimentsDirEnv, "")

	configPath := filepath.Join(homeDir, ".config", "clustermon", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		baseDir:    cfg.Experiments.BaseDir,
	}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

// lockedBuffer is written by the command goroutine while the test polls it.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type cliResult struct {
	stdout string
	stderr string
	code   int
}

func runCLI(t *testing.T, args []string, configPath string) cliResult {
	t.Helper()
	return runCLIContext(t, context.Background(), args, configPath, nil, nil)
}

// runCLIContext executes the command tree and applies the exit-code contract
// of main. stdout and stderr may be nil.
func runCLIContext(t *testing.T, ctx context.Context, args []string, configPath string, stdout, stderr *lockedBuffer) cliResult {
	t.Helper()
	if stdout == nil {
		stdout = &lockedBuffer{}
	}
	if stderr == nil {
		stderr = &lockedBuffer{}
	}
	cmd := newRootCommand()
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.ExecuteContext(ctx)
	code := reportError(stderr, err)
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), code: code}
}

func waitForOutput(t *testing.T, buf *lockedBuffer, substr string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !strings.Contains(buf.String(), substr) {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %q, got %q", substr, buf.String())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// runCLIUntil runs a streaming command, waits for want on stdout, then
// interrupts it the way Ctrl-C would and returns the final result.
func runCLIUntil(t *testing.T, args []string, configPath, want string) cliResult {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stdout, stderr := &lockedBuffer{}, &lockedBuffer{}
	done := make(chan cliResult, 1)
	go func() {
		done <- runCLIContext(t, ctx, args, configPath, stdout, stderr)
	}()

	deadline := time.Now().Add(5 * time.Second)
	for !strings.Contains(stdout.String(), want) {
		select {
		case res := <-done:
			t.Fatalf("command ended before %q appeared: code=%d stdout=%q stderr=%q", want, res.code, res.stdout, res.stderr)
		default:
		}
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %q, got %q (stderr %q)", want, stdout.String(), stderr.String())
		}
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	return <-done
}
