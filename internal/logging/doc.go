// Package logging assembles structured slog loggers and formatting helpers used
// across mediasort.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so stage code can automatically
// tag log lines with the run identifier, entity, and stage. The package also
// provides a no-op logger for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every stage emits
// records with the same shape.
package logging
