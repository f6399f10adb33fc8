// Package cmd implements the command-line interface for calfewer.
//
// This package provides the following commands:
//   - serve: Start the MCP server on stdin/stdout
//   - calendars: List the calendars the configured store exposes
//   - version: Display version information
//
// The serve command is the default command when no subcommand is specified.
package cmd
