// Package logging assembles structured slog loggers and formatting helpers used
// across flightsummary.
//
// It owns the console/JSON handlers, centralizes level and output plumbing,
// and exposes context-aware helpers so generator code can automatically tag
// log lines with the run's site, date, and batch frame range. The package also
// provides a no-op logger for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits data with the same shape.
package logging
