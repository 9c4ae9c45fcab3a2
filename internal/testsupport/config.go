package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"clustermon/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config rooted in a per-test temp directory with an
// empty experiments directory. It applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Experiments.BaseDir = filepath.Join(base, "experiments")
	cfgVal.Tail.PollIntervalMillis = 20
	cfgVal.Logging.File = ""
	if err := os.MkdirAll(cfgVal.Experiments.BaseDir, 0o755); err != nil {
		t.Fatalf("mkdir experiments dir: %v", err)
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithHost registers a remote host under handle.
func WithHost(handle, address string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Hosts[handle] = config.Host{Host: address, Label: handle}
	}
}

// WithFakeSSH installs script as an executable named "ssh" in a private bin
// directory and points the config at it. The script receives the arguments
// clustermon passes to ssh.
func WithFakeSSH(script string) ConfigOption {
	return func(b *configBuilder) {
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		target := filepath.Join(binDir, "ssh")
		if err := os.WriteFile(target, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
			b.t.Fatalf("write fake ssh: %v", err)
		}
		b.cfg.Remote.SSHBinary = target
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Experiments.BaseDir)
}
