// Package services defines shared utilities consumed by the pipeline stages
// and the external integrations under internal/services/.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, item identifiers, and stage names
//     for logging and tracing.
//   - Structured error markers plus the Wrap helper that classify failures
//     into the pipeline's taxonomy (per-item vs run-fatal, transient vs
//     permanent).
//
// Use these helpers when wiring new stage logic so operational behaviour
// (error handling, observability, retries) stays uniform across the pipeline.
package services
