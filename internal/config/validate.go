package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateExperiments(); err != nil {
		return err
	}
	if err := c.validateRemote(); err != nil {
		return err
	}
	if err := c.validateHosts(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateExperiments() error {
	if strings.TrimSpace(c.Experiments.BaseDir) == "" {
		return errors.New("experiments.base_dir must be set")
	}
	if strings.TrimSpace(c.Experiments.LogGlob) == "" {
		return errors.New("experiments.log_glob must be set")
	}
	if strings.ContainsAny(c.Experiments.LogGlob, `/\`) {
		return fmt.Errorf("experiments.log_glob %q must match file names, not paths", c.Experiments.LogGlob)
	}
	if _, err := filepath.Match(c.Experiments.LogGlob, ""); err != nil {
		return fmt.Errorf("experiments.log_glob %q: %w", c.Experiments.LogGlob, err)
	}
	if c.Tail.PollIntervalMillis <= 0 {
		return errors.New("tail.poll_interval_ms must be positive")
	}
	return nil
}

func (c *Config) validateRemote() error {
	if strings.TrimSpace(c.Remote.SSHBinary) == "" {
		return errors.New("remote.ssh_binary must be set")
	}
	if strings.TrimSpace(c.Remote.RemoteCommand) == "" {
		return errors.New("remote.remote_command must be set")
	}
	if c.Remote.ConnectTimeoutSeconds <= 0 {
		return errors.New("remote.connect_timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateHosts() error {
	for _, handle := range c.HostHandles() {
		if handle == "" {
			return errors.New("hosts: handle must not be empty")
		}
		if strings.ContainsAny(handle, " \t") {
			return fmt.Errorf("hosts.%s: handle must not contain whitespace", handle)
		}
		if c.Hosts[handle].Host == "" {
			return fmt.Errorf("hosts.%s.host must be set", handle)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q must be one of debug, info, warn, error", c.Logging.Level)
	}
}
