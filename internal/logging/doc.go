// Package logging assembles the slog loggers used by alacify.
//
// It owns the console and JSON handlers, level parsing, the per-run log file
// tee, and context helpers that stamp run and task identifiers onto log lines.
// A no-op logger is provided for tests and for wiring code that has no logger.
package logging
