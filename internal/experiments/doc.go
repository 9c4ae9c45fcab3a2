// Package experiments maps experiment names to the log files they produce.
//
// Every experiment owns a directory named after it under a configured base
// directory. The Resolver answers one question per call: which log file in
// that directory is current. The answer is a Resolution tagged with one of
// three statuses so callers can tell a missing experiment apart from one that
// simply has not written any logs yet. Ties on modification time are broken
// by file name, so repeated calls return the same file until something new is
// written.
//
// The package never creates, modifies, or deletes anything on disk.
package experiments
