// Package logstream ties experiment resolution to log tailing.
//
// ResolveAndTail resolves an experiment exactly once and commits to the file
// it found. The Source interface lets the same flow run against the local
// filesystem or against a remote host reached through the remote package.
package logstream
