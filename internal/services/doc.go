// Package services defines shared utilities consumed by the conversion
// pipeline and its external-tool adapters.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, task positions, and stage names for
//     logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     into the run-level preconditions (tool unavailable, no input files) and
//     the per-task outcomes (transcode, decode, verification, invalid path).
//
// Use these helpers when wiring new pipeline steps so error reporting and
// observability stay uniform across the run.
package services
