// Package whisperapi is the hosted speech recognition backend. It uploads
// audio to an OpenAI-compatible /audio/transcriptions endpoint (whisper-1,
// verbose_json) through go-openai and returns the text plus segment timings.
//
// The client performs a single request; the transcript selector owns retries.
package whisperapi
