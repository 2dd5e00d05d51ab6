// Package subtitles renders timed transcript segments as SRT documents.
//
// FormatTimestamp, Format, and Write produce the subtitle file; Parse and
// Validate read one back so round-trips and written files can be checked.
package subtitles
