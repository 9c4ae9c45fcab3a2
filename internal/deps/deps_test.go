package deps

import (
	"os"
	"path/filepath"
	"testing"

	"clustermon/internal/config"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Blank", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}

	if !results[0].Available || results[0].Path != present {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}

	if results[1].Available {
		t.Fatalf("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatalf("expected detail message for missing binary")
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}

	if results[2].Available || results[2].Detail != "command not configured" {
		t.Fatalf("unexpected status for blank command: %#v", results[2])
	}
}

func TestRequirementsFollowConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Remote.SSHBinary = "/opt/ssh/bin/ssh"

	reqs := Requirements(&cfg)
	if len(reqs) != 1 || reqs[0].Command != "/opt/ssh/bin/ssh" {
		t.Fatalf("unexpected requirements: %#v", reqs)
	}
	if !reqs[0].Optional {
		t.Fatal("ssh should be optional without configured hosts")
	}

	cfg.Hosts["gpu1"] = config.Host{Host: "gpu1.example.org"}
	if Requirements(&cfg)[0].Optional {
		t.Fatal("ssh should be required once hosts are configured")
	}
}

func TestFirstMissing(t *testing.T) {
	statuses := []Status{
		{Requirement: Requirement{Name: "optional", Optional: true}},
		{Requirement: Requirement{Name: "ok"}, Available: true},
		{Requirement: Requirement{Name: "ssh"}},
	}
	missing, ok := FirstMissing(statuses)
	if !ok || missing.Name != "ssh" {
		t.Fatalf("expected ssh to be reported missing, got %#v (ok=%v)", missing, ok)
	}
	if _, ok := FirstMissing(statuses[:2]); ok {
		t.Fatal("expected no missing requirement")
	}
}
