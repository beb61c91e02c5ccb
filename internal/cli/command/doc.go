// Package command provides CLI command definitions for awareness-cli.
//
// Commands are built with urfave/cli/v2:
//
//   - root.go: App, global flags and shared helpers
//   - session.go: start, progress, complete, status and play
//   - system.go: health and readiness probes
//
// Each action resolves its inputs from flags and the saved session
// state, calls the server through connection.Client and prints the
// result with the selected output formatter.
package command
