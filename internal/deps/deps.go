package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"clustermon/internal/config"
)

// Requirement names an external binary clustermon shells out to.
type Requirement struct {
	Name        string
	Command     string
	Description string
	// Optional requirements are reported but never block a command.
	Optional bool
}

// Status is the outcome of looking a Requirement up on PATH.
type Status struct {
	Requirement
	Path      string
	Available bool
	Detail    string
}

// Requirements lists the binaries the configured remote channel needs. ssh is
// optional until at least one host is configured.
func Requirements(cfg *config.Config) []Requirement {
	if cfg == nil {
		return nil
	}
	return []Requirement{{
		Name:        "ssh",
		Command:     cfg.Remote.SSHBinary,
		Description: "Reaches cluster hosts",
		Optional:    len(cfg.Hosts) == 0,
	}}
}

// Check resolves the requirement's command.
func (r Requirement) Check() Status {
	r.Command = strings.TrimSpace(r.Command)
	r.Description = strings.TrimSpace(r.Description)
	st := Status{Requirement: r}
	if r.Command == "" {
		st.Detail = "command not configured"
		return st
	}
	path, err := exec.LookPath(r.Command)
	if err != nil {
		st.Detail = fmt.Sprintf("binary %q not found", r.Command)
		return st
	}
	st.Path, st.Available = path, true
	return st
}

// CheckBinaries checks every requirement, preserving order.
func CheckBinaries(requirements []Requirement) []Status {
	out := make([]Status, len(requirements))
	for i, req := range requirements {
		out[i] = req.Check()
	}
	return out
}

// FirstMissing returns the first unavailable required dependency.
func FirstMissing(statuses []Status) (Status, bool) {
	for _, st := range statuses {
		if !st.Available && !st.Optional {
			return st, true
		}
	}
	return Status{}, false
}
