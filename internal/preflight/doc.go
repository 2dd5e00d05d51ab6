// Package preflight provides readiness checks for the external tools, API
// keys and filesystem paths ytscribe depends on.
//
// These checks run in two contexts:
//   - The workflow runner calls RunAll before each transcription so a full
//     disk or unwritable output directory fails before any download starts.
//   - The "ytscribe doctor" command shows every check, including binaries
//     (CheckSystemDeps) and optional LLM pings (CheckLLM).
package preflight
