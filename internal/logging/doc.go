// Package logging assembles the structured slog loggers used across
// framecast.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes small attribute helpers so pipeline code tags log
// lines with job IDs, formats, and stages consistently. A no-op logger is
// provided for tests and wiring code that cannot fail.
package logging
