// Package logging assembles structured slog loggers and formatting helpers used
// across framefix.
//
// It owns the console/JSON handlers, centralizes level and output plumbing, and
// exposes context-aware helpers so pipeline stages tag log lines with the run ID
// and stage name. The package also provides a no-op logger for tests and wiring
// code that cannot fail.
package logging
