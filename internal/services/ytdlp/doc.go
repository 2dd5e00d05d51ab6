// Package ytdlp wraps the yt-dlp executable for the audio fallback path.
//
// Download runs yt-dlp with --extract-audio and --newline, streams stdout
// line by line to parse "[download] NN.N%" progress, and keeps the tail of
// stderr so a failed download surfaces yt-dlp's own diagnostic. Executor is
// the seam tests use to replace the subprocess.
package ytdlp
