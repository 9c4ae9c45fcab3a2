package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize(configDir string) error {
	if err := c.normalizeExperiments(); err != nil {
		return err
	}
	c.normalizeTail()
	if err := c.normalizeRemote(configDir); err != nil {
		return err
	}
	if err := c.normalizeHosts(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeExperiments() error {
	if value, ok := os.LookupEnv(ExperimentsDirEnv); ok && strings.TrimSpace(value) != "" {
		c.Experiments.BaseDir = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Experiments.BaseDir) == "" {
		c.Experiments.BaseDir = defaultExperimentsDir
	}
	var err error
	if c.Experiments.BaseDir, err = ExpandPath(strings.TrimSpace(c.Experiments.BaseDir)); err != nil {
		return fmt.Errorf("experiments.base_dir: %w", err)
	}
	c.Experiments.LogGlob = strings.TrimSpace(c.Experiments.LogGlob)
	if c.Experiments.LogGlob == "" {
		c.Experiments.LogGlob = defaultLogGlob
	}
	return nil
}

func (c *Config) normalizeTail() {
	if c.Tail.PollIntervalMillis <= 0 {
		c.Tail.PollIntervalMillis = defaultPollIntervalMillis
	}
}

func (c *Config) normalizeRemote(configDir string) error {
	c.Remote.SSHBinary = strings.TrimSpace(c.Remote.SSHBinary)
	if c.Remote.SSHBinary == "" {
		c.Remote.SSHBinary = defaultSSHBinary
	}
	c.Remote.RemoteCommand = strings.TrimSpace(c.Remote.RemoteCommand)
	if c.Remote.RemoteCommand == "" {
		c.Remote.RemoteCommand = defaultRemoteCommand
	}
	if c.Remote.ConnectTimeoutSeconds == 0 {
		c.Remote.ConnectTimeoutSeconds = defaultConnectTimeoutSeconds
	}
	options := c.Remote.SSHOptions[:0]
	for _, opt := range c.Remote.SSHOptions {
		if trimmed := strings.TrimSpace(opt); trimmed != "" {
			options = append(options, trimmed)
		}
	}
	c.Remote.SSHOptions = options

	hostsFile := strings.TrimSpace(c.Remote.HostsFile)
	if hostsFile == "" {
		c.Remote.HostsFile = ""
		return nil
	}
	if !strings.HasPrefix(hostsFile, "~") && !filepath.IsAbs(hostsFile) && configDir != "" {
		hostsFile = filepath.Join(configDir, hostsFile)
	}
	var err error
	if c.Remote.HostsFile, err = ExpandPath(hostsFile); err != nil {
		return fmt.Errorf("remote.hosts_file: %w", err)
	}
	return nil
}

// normalizeHosts merges the optional YAML hosts file under the TOML [hosts]
// table; entries defined in TOML win.
func (c *Config) normalizeHosts() error {
	merged := make(map[string]Host, len(c.Hosts))
	if c.Remote.HostsFile != "" {
		imported, err := LoadHostsFile(c.Remote.HostsFile)
		if err != nil {
			return err
		}
		for handle, host := range imported {
			merged[handle] = host
		}
	}
	for handle, host := range c.Hosts {
		merged[handle] = host
	}

	c.Hosts = make(map[string]Host, len(merged))
	for handle, host := range merged {
		handle = strings.TrimSpace(handle)
		host.Host = strings.TrimSpace(host.Host)
		host.Label = strings.TrimSpace(host.Label)
		if host.Label == "" {
			host.Label = handle
		}
		host.Command = strings.TrimSpace(host.Command)
		host.BaseDir = strings.TrimSpace(host.BaseDir)
		c.Hosts[handle] = host
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if file := strings.TrimSpace(c.Logging.File); file != "" {
		if expanded, err := ExpandPath(file); err == nil {
			c.Logging.File = expanded
		}
	}
}
