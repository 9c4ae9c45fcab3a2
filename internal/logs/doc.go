// Package logs follows experiment log files as they grow.
//
// A Session holds an open handle and the byte offset already delivered. It
// starts at the end of the file (or a few lines before it when asked to
// replay), wakes on file change notifications with a polling fallback for
// network filesystems, and passes appended bytes through untouched. Rotation
// is handled on a best-effort basis only: when the path starts pointing at a
// different file the session logs a warning and keeps reading the handle it
// already has.
package logs
