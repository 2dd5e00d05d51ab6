// Package logs reads the ytscribe log file for the logs command.
//
// Last returns the final lines of the file with bounded memory, optionally
// restricted to one run's request ID. Follow polls from an offset and emits
// appended lines until its context is canceled, restarting from the top when
// the file is truncated.
package logs
