// Package logging assembles structured slog loggers and formatting helpers used
// across the sonic interpretation packages and the tci CLI.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so binding and picking code can
// tag log lines with the active dataset, wave family and request id. The
// package also provides a no-op logger for tests and wiring code that cannot
// fail.
package logging
