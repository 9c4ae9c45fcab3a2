package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Experiments locates experiment directories and their log files.
type Experiments struct {
	BaseDir string `toml:"base_dir"`
	LogGlob string `toml:"log_glob"`
}

// Tail controls follow-mode behaviour.
type Tail struct {
	PollIntervalMillis int `toml:"poll_interval_ms"`
}

// Remote configures the ssh command channel used to reach cluster hosts.
type Remote struct {
	SSHBinary             string   `toml:"ssh_binary"`
	SSHOptions            []string `toml:"ssh_options"`
	RemoteCommand         string   `toml:"remote_command"`
	ConnectTimeoutSeconds int      `toml:"connect_timeout_seconds"`
	HostsFile             string   `toml:"hosts_file"`
}

// Logging contains configuration for diagnostic output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	File   string `toml:"file"`
}

// Host describes one remote compute host. Command and BaseDir override the
// [remote] and [experiments] values for this host only.
type Host struct {
	Host    string `toml:"host" yaml:"host"`
	Label   string `toml:"label" yaml:"label"`
	Command string `toml:"command" yaml:"command"`
	BaseDir string `toml:"base_dir" yaml:"base_dir"`
}

// Config encapsulates all configuration values for clustermon.
type Config struct {
	Experiments Experiments     `toml:"experiments"`
	Tail        Tail            `toml:"tail"`
	Remote      Remote          `toml:"remote"`
	Logging     Logging         `toml:"logging"`
	Hosts       map[string]Host `toml:"hosts"`
}

// Load reads the configuration at path, or the first existing file among the
// default locations when path is empty. It returns the normalized config, the
// file it came from and whether that file existed. A missing file yields the
// defaults.
func Load(path string) (*Config, string, bool, error) {
	source, exists, err := locate(path)
	if err != nil {
		return nil, "", false, err
	}

	cfg := Default()
	if exists {
		if err := decodeFile(source, &cfg); err != nil {
			return nil, "", false, err
		}
	}
	if err := cfg.normalize(filepath.Dir(source)); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, source, exists, nil
}

func decodeFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	if err := toml.NewDecoder(f).Decode(cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// HostHandles returns the configured host handles in the order they are
// consulted when locating an experiment.
func (c *Config) HostHandles() []string {
	handles := make([]string, 0, len(c.Hosts))
	for handle := range c.Hosts {
		handles = append(handles, handle)
	}
	sort.Strings(handles)
	return handles
}

// LookupHost returns the host registered under handle.
func (c *Config) LookupHost(handle string) (Host, bool) {
	host, ok := c.Hosts[strings.TrimSpace(handle)]
	return host, ok
}

// PollInterval is the fallback interval between size checks while following a file.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Tail.PollIntervalMillis) * time.Millisecond
}

// ConnectTimeout bounds ssh connection establishment.
func (c *Config) ConnectTimeout() time.Duration {
	return time.Duration(c.Remote.ConnectTimeoutSeconds) * time.Second
}
