// Package logging assembles structured slog loggers and formatting helpers used
// across edfconv.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so stage code can automatically
// tag log lines with the run identifier and stage name. The package also
// provides a no-op logger for tests and wiring code that cannot fail.
//
// Diagnostics default to stderr so that commands which print data (inspect)
// keep stdout clean.
package logging
