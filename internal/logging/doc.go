// Package logging provides structured logging utilities for the calfewer application.
//
// This package centralizes logging patterns to ensure consistent, structured logging
// throughout the codebase using the standard library's slog package.
//
// # Key Features
//
//   - Structured logging with slog
//   - Consistent attribute naming across the codebase
//   - Stderr-only output so the framed stdout stream stays clean
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithTool(slog.Default(), "check_calendar_conflicts")
//	logger.Info("tool call complete",
//	    logging.Status("success"))
//
// The MCP transport owns stdout, so every logger built by this package writes
// to stderr. Anything printed to stdout would corrupt the framed stream.
package logging
