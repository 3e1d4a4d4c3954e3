// Package logging assembles structured slog loggers and formatting helpers used
// across barrel components.
//
// It owns the configurable console/JSON handlers and centralizes level and
// output plumbing. Components derive tagged loggers through
// NewComponentLogger; tests and wiring code that cannot fail use NewNop.
package logging
