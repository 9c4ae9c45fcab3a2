// Package logging builds the slog loggers used by clustermon.
//
// Diagnostics always go to stderr (or an optional JSON log file) because
// stdout carries the streamed experiment log. The console handler prints one
// compact line per record with the component name up front; the JSON handler
// is meant for files and log shippers. Session identifiers attached with
// NewSessionContext let concurrent tail sessions be told apart.
package logging
