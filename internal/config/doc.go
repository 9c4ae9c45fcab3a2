// Package config loads, normalizes, and validates clustermon configuration.
//
// Settings come from a TOML file (default ~/.config/clustermon/config.toml,
// then ./clustermon.toml), optionally extended by a YAML hosts file in the
// menu-bar plugin's `servers:` layout. The experiments base directory can be
// overridden with CLUSTERMON_EXPERIMENTS_DIR. Paths are expanded (including
// `~`) before the Config is handed out, so callers never deal with raw values.
package config
