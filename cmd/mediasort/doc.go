// Package main hosts the mediasort CLI entrypoint and command graph.
//
// The Cobra-based command tree resolves configuration once per invocation,
// layers command-line overrides on top of it, and hands the result to the
// pipeline runner. Commands print a human summary to stdout; structured logs go
// to stderr and the configured log directory.
//
// The process exits non-zero only when configuration or preflight fails, or
// when no entity could be resolved. Per-file problems are reported in the run
// summary and the review checklist instead.
package main
