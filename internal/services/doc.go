// Package services defines shared utilities consumed by the transcription
// workflow and its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp video IDs, stage names, and correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent run statuses (rejected vs failed vs canceled).
//   - A fixed-delay Retry helper shared by speech recognition and translation.
//
// Use these helpers when wiring new integrations so error handling and
// retries stay uniform across the tool.
package services
