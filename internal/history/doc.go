// Package history persists one row per transcription run in a local SQLite
// database (modernc.org/sqlite, no cgo).
//
// A run is inserted as running when the workflow starts and finished with its
// tier, subtitle path and terminal status. The suppressed direct-tier error of
// a fallback run is kept as fallback_reason so it is still inspectable after
// the fact. The schema is embedded and versioned; a version mismatch is
// reported rather than migrated.
package history
