// Package remote reaches experiment logs on cluster hosts through the system
// ssh client.
//
// A Channel runs one command per ssh invocation. Source drives clustermon on
// the far side through its "resolve --json" and "follow" commands, so the host
// does the filesystem work and only the resolution and the log bytes cross the
// wire. Locate asks several hosts at once and picks a single answer.
package remote
