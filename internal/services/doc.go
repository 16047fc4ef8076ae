// Package services defines shared utilities consumed by the pipeline stages
// and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers, stage names, and sources for
//     logging and tracing.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent CLI exit codes.
package services
