// Package services defines shared utilities consumed by the pipeline stages.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers, entity names, and stage
//     names for logging.
//   - Structured error markers plus the Wrap helper that keep the failure
//     taxonomy (resolution, copy, probe, delete, configuration) intact as
//     errors travel up to the report.
//
// Use these helpers when wiring new stage logic so operational behaviour
// (failure isolation, observability) stays uniform across the pipeline.
package services
