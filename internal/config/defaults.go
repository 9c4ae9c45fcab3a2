package config

const (
	defaultConfigPath            = "~/.config/clustermon/config.toml"
	defaultExperimentsDir        = "~/experiments"
	defaultLogGlob               = "*.out"
	defaultPollIntervalMillis    = 250
	defaultSSHBinary             = "ssh"
	defaultRemoteCommand         = "clustermon"
	defaultConnectTimeoutSeconds = 10
	defaultLogFormat             = "console"
	defaultLogLevel              = "warn"

	// ExperimentsDirEnv overrides experiments.base_dir when set.
	ExperimentsDirEnv = "CLUSTERMON_EXPERIMENTS_DIR"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Experiments: Experiments{
			BaseDir: defaultExperimentsDir,
			LogGlob: defaultLogGlob,
		},
		Tail: Tail{
			PollIntervalMillis: defaultPollIntervalMillis,
		},
		Remote: Remote{
			SSHBinary:             defaultSSHBinary,
			RemoteCommand:         defaultRemoteCommand,
			ConnectTimeoutSeconds: defaultConnectTimeoutSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Hosts: map[string]Host{},
	}
}
