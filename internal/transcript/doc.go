// Package transcript holds the timed-segment data model and the two-tier
// Selector that produces it.
//
// The direct tier asks a CaptionSource for published captions. Any failure
// there, including a video with no captions, triggers the fallback tier: the
// AudioSource downloads audio into a temporary directory under the work dir
// and the Recognizer transcribes it, retried on a fixed schedule. The direct
// failure is logged at debug level and kept on Outcome.DirectErr, never
// returned. Temporary audio is removed on every exit path.
package transcript
