package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"clustermon/internal/config"
	"clustermon/internal/experiments"
	"clustermon/internal/logging"
	"clustermon/internal/logstream"
	"clustermon/internal/remote"
)

type commandContext struct {
	configFlag  *string
	baseDirFlag *string
	verbose     *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, baseDirFlag *string, verbose *bool) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		baseDirFlag: baseDirFlag,
		verbose:     verbose,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = fmt.Errorf("load config: %w", err)
			return
		}
		if dir := c.baseDirOverride(); dir != "" {
			expanded, err := config.ExpandPath(dir)
			if err != nil {
				c.configErr = fmt.Errorf("resolve --base-dir: %w", err)
				return
			}
			cfg.Experiments.BaseDir = expanded
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) baseDirOverride() string {
	if c.baseDirFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.baseDirFlag)
}

// ensureLogger builds the diagnostic logger. Diagnostics go to stderr because
// stdout carries log bytes.
func (c *commandContext) ensureLogger(stderr io.Writer) (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		verbose := c.verbose != nil && *c.verbose
		logger, err := logging.NewFromConfig(cfg, stderr, verbose)
		if err != nil {
			c.loggerErr = fmt.Errorf("init logger: %w", err)
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) resolver(logger *slog.Logger) (*experiments.Resolver, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return experiments.NewResolver(experiments.Options{
		BaseDir: cfg.Experiments.BaseDir,
		LogGlob: cfg.Experiments.LogGlob,
		Logger:  logger,
	})
}

// source returns the local source when handle is empty and the ssh source of
// the named host otherwise. where describes the location for messages.
func (c *commandContext) source(handle string, logger *slog.Logger) (src logstream.Source, where string, err error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, "", err
	}
	if handle == "" {
		resolver, err := c.resolver(logger)
		if err != nil {
			return nil, "", err
		}
		return logstream.LocalSource{
			Resolver:     resolver,
			PollInterval: cfg.PollInterval(),
			Logger:       logger,
		}, resolver.BaseDir(), nil
	}

	host, ok := cfg.LookupHost(handle)
	if !ok {
		return nil, "", fmt.Errorf("%w %q", remote.ErrUnknownHost, handle)
	}
	if dir := c.baseDirOverride(); dir != "" {
		host.BaseDir = dir
	}
	remoteSrc := remote.SourceForHost(cfg, handle, host, logger)
	return remoteSrc, hostLocation(handle, host), nil
}

func (c *commandContext) dialer(logger *slog.Logger) remote.Dialer {
	return func(handle string) (logstream.Source, error) {
		src, _, err := c.source(handle, logger)
		return src, err
	}
}

func hostLocation(handle string, host config.Host) string {
	if host.BaseDir != "" {
		return handle + ":" + host.BaseDir
	}
	return "host " + handle
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

// experimentArg accepts at most one positional argument. A missing name is
// reported by the command itself so it maps onto the usage warning.
func experimentArg(cmd *cobra.Command, args []string) error {
	if len(args) > 1 {
		return usageError(errors.New("expected a single experiment name"))
	}
	return nil
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
