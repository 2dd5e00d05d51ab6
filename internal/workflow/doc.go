// Package workflow runs a single transcription request end to end.
//
// A Runner takes the cross-process run lock, records the run in history,
// checks the filesystem, and asks the transcript Selector for segments
// (published captions first, yt-dlp audio plus speech recognition as the
// fallback). Direct captions in a language other than the requested one are
// translated segment by segment. The result is written as an SRT file and the
// final status line is handed to the Reporter.
//
// The package also adapts the service clients (youtube, ytdlp, whisperapi,
// whisperx) to the small interfaces the Selector consumes.
package workflow
