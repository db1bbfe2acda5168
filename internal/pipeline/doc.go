// Package pipeline orchestrates the mediasort stages.
//
// Organize resolves every entity, scans its source root, classifies each file,
// and materializes it into the target tree, optionally reviewing it inline.
// Review and Dedupe work on an already materialized tree and can run on their
// own in either order. Run chains organize, dedupe, and review.
//
// Processing is strictly sequential. Per-file and per-entity failures are
// logged, recorded in the RunReport, and skipped; only configuration and
// preflight problems abort a stage. When no entity resolves at all the stage
// still writes its report and returns ErrNothingResolved. Concurrent runs
// against the same target tree are not supported.
package pipeline
