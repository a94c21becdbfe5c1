// Package services defines shared utilities consumed by the pipeline
// passes and external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers, source names, and item IDs
//     for logging and tracing.
//   - Structured error markers plus the Wrap helper that keep the failure
//     taxonomy (parse vs timeout vs configuration) consistent so callers can
//     branch on error class with errors.Is.
//   - Thin abstractions that make command execution against external tools
//     testable.
//
// Use these helpers when wiring new pipeline logic so operational behaviour
// (error handling, observability) stays uniform across the pipeline.
package services
