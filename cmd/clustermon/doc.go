// Package main hosts the clustermon CLI entrypoint and command graph.
//
// The Cobra command tree resolves experiment names to their newest log file
// and follows it, either on the local filesystem or on a configured cluster
// host reached through ssh. Remote hosts run the same binary: "resolve --json"
// and the hidden "follow" command form the wire protocol. Configuration
// loading, logger construction and the exit-code contract live here so the
// internal packages stay free of terminal concerns.
package main
