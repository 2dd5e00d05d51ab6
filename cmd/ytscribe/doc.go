// Package main hosts the ytscribe CLI entrypoint and command graph.
//
// The Cobra command tree turns terminal invocations into workflow runs,
// history queries, dependency checks, and configuration scaffolding. It
// resolves configuration and .env files once per invocation and sets up the
// log file so subcommands only deal with presentation.
//
// Keep this package lean: new behaviour belongs in the internal packages and
// is surfaced here through a command or flag.
package main
